package retained

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrLoopRunning is returned when Run is called on a loop that is running.
var ErrLoopRunning = errors.New("loop already running")

// Handoff asks the host to launch another title after the loop exits.
type Handoff struct {
	TitleID uint64
	Media   Media
	Params  []byte
}

// App is the component framework driving the tree.
type App interface {
	EventSink

	// Mutations returns the edits produced since the previous call.
	Mutations() []Mutation
	// Work is signalled when the app has asynchronous results to turn into
	// mutations.
	Work() <-chan struct{}
	// Exit reports whether the app wants to stop, with an optional title to
	// launch next.
	Exit() (bool, *Handoff)
}

// Host bundles the platform collaborators of a Loop.
type Host struct {
	Graphics Graphics
	Input    Input
	App      App
	// Icons and IconStore are optional.
	Icons     IconLoader
	IconStore *IconStore
}

// LoopConfig configures the frame scheduler.
type LoopConfig struct {
	Trigger TriggerConfig
	Images  ImageCacheConfig

	// RenderDebounce coalesces bursts of mutations before a draw.
	RenderDebounce time.Duration
	// PollInterval is the input sampling period.
	PollInterval time.Duration

	// InitialSlider is the slider value assumed before the first poll.
	InitialSlider float32
	// PlaceholderSprite is drawn for missing images; negative disables it.
	PlaceholderSprite int
	// MaxDepth bounds the deep_3d attribute.
	MaxDepth float32
	// Palette overrides DefaultPalette when set.
	Palette Palette
}

// DefaultLoopConfig returns sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Trigger:           DefaultTriggerConfig(),
		Images:            DefaultImageCacheConfig(),
		RenderDebounce:    100 * time.Microsecond,
		PollInterval:      4 * time.Millisecond,
		InitialSlider:     2,
		PlaceholderSprite: DefaultPlaceholderSprite,
		MaxDepth:          DefaultMaxDepth,
	}
}

// State is the scheduler state.
type State uint8

const (
	StateLayoutDirty State = iota
	StateSolve
	StateRenderDue
	StateDrawing
	StateWaitingForWork
)

func (s State) String() string {
	switch s {
	case StateLayoutDirty:
		return "layout-dirty"
	case StateSolve:
		return "solve"
	case StateRenderDue:
		return "render-due"
	case StateDrawing:
		return "drawing"
	}
	return "waiting-for-work"
}

// LoopStats counts scheduler activity.
type LoopStats struct {
	Frames uint64
	Solves uint64
	Wakes  uint64
}

// Loop is the frame scheduler. It owns the tree, the renderer, the image
// cache and the event trigger, and drives all of them from the goroutine
// that calls Run.
type Loop struct {
	config LoopConfig
	host   Host

	tree     *Tree
	renderer *Renderer
	images   *ImageCache
	trigger  *Trigger

	state       State
	renderDue   bool
	layoutDirty bool
	slider    float32

	running atomic.Bool

	// Stats
	frames atomic.Uint64
	solves atomic.Uint64
	wakes  atomic.Uint64
}

// NewLoop creates a scheduler. Graphics, Input and App are required.
func NewLoop(config LoopConfig, host Host) *Loop {
	def := DefaultLoopConfig()
	if config.RenderDebounce <= 0 {
		config.RenderDebounce = def.RenderDebounce
	}
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}

	images := NewImageCache(config.Images, host.Graphics, host.Icons, host.IconStore)
	return &Loop{
		config:   config,
		host:     host,
		tree:     NewTree(NewStyleResolver(config.Palette, config.MaxDepth), host.Graphics),
		renderer: NewRenderer(host.Graphics, images, config.PlaceholderSprite),
		images:   images,
		trigger:  NewTrigger(config.Trigger),
		slider:   config.InitialSlider,
	}
}

// Tree returns the UI tree. It must only be touched from the Run goroutine
// or while the loop is stopped.
func (l *Loop) Tree() *Tree { return l.tree }

// Images returns the image cache.
func (l *Loop) Images() *ImageCache { return l.images }

// State returns the scheduler state after the last quantum.
func (l *Loop) State() State { return l.state }

// Slider returns the last stereo slider reading.
func (l *Loop) Slider() float32 { return l.slider }

// Stats returns activity counters. It is safe to call from any goroutine.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		Frames: l.frames.Load(),
		Solves: l.solves.Load(),
		Wakes:  l.wakes.Load(),
	}
}

// Run drives the UI until the app asks to exit or ctx is done. It returns
// the app's hand-off request, if any.
func (l *Loop) Run(ctx context.Context) (*Handoff, error) {
	if !l.running.CompareAndSwap(false, true) {
		return nil, ErrLoopRunning
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.config.PollInterval)
	defer ticker.Stop()

	Logger().Info("loop started", "poll", l.config.PollInterval, "debounce", l.config.RenderDebounce)
	l.host.Graphics.SetStereo(l.slider != 0)
	l.state = StateLayoutDirty
	l.renderDue = true
	l.settle()

	// armed when a render becomes due and kept across other wake-ups
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		if l.renderDue && debounce == nil {
			debounce = time.NewTimer(l.config.RenderDebounce)
		}
		var fire <-chan time.Time
		if debounce != nil {
			fire = debounce.C
		}

		select {
		case <-ctx.Done():
			Logger().Info("loop cancelled")
			return nil, ctx.Err()
		case <-fire:
			debounce = nil
			l.draw()
		case <-l.host.App.Work():
		case <-l.images.Ready():
		case <-ticker.C:
			l.poll()
		}
		l.wakes.Add(1)

		if exit, handoff := l.host.App.Exit(); exit {
			Logger().Info("loop exit", "handoff", handoff != nil)
			return handoff, nil
		}
		l.settle()
	}
}

// poll samples input once and dispatches the resulting events.
func (l *Loop) poll() {
	in := l.host.Input.Poll()
	l.trigger.Step(in, l.tree, l.host.App)
	if in.Slider != l.slider {
		if (in.Slider == 0) != (l.slider == 0) {
			l.host.Graphics.SetStereo(in.Slider != 0)
			Logger().Info("stereo toggled", "on", in.Slider != 0)
		}
		l.slider = in.Slider
		l.renderDue = true
	}
}

// settle applies pending mutations and collects finished icon loads. A
// changed tree is solved once, right before the next draw, so bursts of
// mutations inside the debounce window share one solve.
func (l *Loop) settle() {
	if muts := l.host.App.Mutations(); len(muts) > 0 {
		l.tree.ApplyAll(muts)
	}
	if l.tree.Update() {
		l.layoutDirty = true
		l.renderDue = true
	}
	if l.images.TakeDirty() {
		l.images.Collect()
		l.renderDue = true
	}
	switch {
	case l.layoutDirty:
		l.state = StateLayoutDirty
	case l.renderDue:
		l.state = StateRenderDue
	default:
		l.state = StateWaitingForWork
	}
}

func (l *Loop) draw() {
	if l.layoutDirty {
		l.state = StateSolve
		l.tree.Solve()
		l.solves.Add(1)
		l.layoutDirty = false
	}

	l.state = StateDrawing
	gfx := l.host.Graphics
	gfx.BeginFrame()
	l.renderer.Render(l.tree, l.slider)
	gfx.EndFrame()

	l.images.LoadMissing()
	l.images.ReleaseUnused()

	n := l.frames.Add(1)
	l.renderDue = false
	l.state = StateWaitingForWork
	Logger().Debug("frame drawn", "frame", n, "slider", l.slider, "pending_icons", l.images.Pending())
}

// Close releases the image cache workers. The loop must not be running.
func (l *Loop) Close() {
	l.images.Close()
}
