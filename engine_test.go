package twinscreen

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/agiangrant/twinscreen/backend/raster"
	"github.com/agiangrant/twinscreen/backend/scripted"
	"github.com/agiangrant/twinscreen/retained"
)

// launcher shows one button and asks to launch a title when it is clicked.
type launcher struct {
	mu      sync.Mutex
	pending []retained.Mutation
	clicked bool
}

func newLauncher() *launcher {
	muts, _ := retained.Div().
		Size(100, 50).
		Background("blue").
		On(retained.EventClick).
		Build(retained.RootID, retained.NewIDs(1))
	return &launcher{pending: muts}
}

func (a *launcher) HandleEvent(target retained.NodeID, ev retained.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if target == 1 && ev.Type == retained.EventClick {
		a.clicked = true
	}
}

func (a *launcher) Mutations() []retained.Mutation {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := a.pending
	a.pending = nil
	return m
}

func (a *launcher) Work() <-chan struct{} { return nil }

func (a *launcher) Exit() (bool, *retained.Handoff) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.clicked {
		return false, nil
	}
	return true, &retained.Handoff{TitleID: 42, Media: retained.MediaSD}
}

func TestNewRunsUntilHandoff(t *testing.T) {
	gfx, err := raster.New(raster.Options{})
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	defer gfx.Close()

	input, err := scripted.Compile(scripted.Script{
		Slider: 0,
		Steps: []scripted.Step{
			{At: "20ms", Touch: []float32{30, 20}},
			{At: "60ms"},
		},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Images.IconCachePath = filepath.Join(t.TempDir(), "icons.bin")
	loop, err := New(cfg, gfx, input, newLauncher(), WithPreload(func(uint64) bool { return true }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h, err := loop.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h == nil || h.TitleID != 42 || h.Media != retained.MediaSD {
		t.Errorf("got handoff %+v, want title 42 on sd", h)
	}
	if gfx.Frames() == 0 {
		t.Error("no frame drawn")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timing.RenderDebounce = "soon"
	if _, err := New(cfg, nil, nil, nil); err == nil {
		t.Error("got nil error")
	}
}
