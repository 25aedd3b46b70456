package retained

import (
	"fmt"
	"image"
	"sync"
	"testing"
	"time"
)

type fakeImage struct {
	name string
	w, h int
}

func (i *fakeImage) Size() (int, int) { return i.w, i.h }

type drawCall struct {
	op     string
	target Target
	x, y   float32
	w, h   float32
	color  Color
	text   string
	img    Image
}

// recordingGraphics records draw calls. Text is 8px per rune and 16px tall
// at scale 1.
type recordingGraphics struct {
	mu      sync.Mutex
	target  Target
	calls   []drawCall
	stereo  []bool
	frames  int
	sheet   int
	uploads int

	frameDone chan struct{}
}

func newRecordingGraphics() *recordingGraphics {
	return &recordingGraphics{sheet: 8, frameDone: make(chan struct{}, 16)}
}

func (g *recordingGraphics) MeasureText(text string, scale, maxWidth float32) (float32, float32) {
	return float32(len([]rune(text))) * 8 * scale, 16 * scale
}

func (g *recordingGraphics) BeginFrame() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = g.calls[:0]
}

func (g *recordingGraphics) EndFrame() {
	g.mu.Lock()
	g.frames++
	g.mu.Unlock()
	select {
	case g.frameDone <- struct{}{}:
	default:
	}
}

func (g *recordingGraphics) SetStereo(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stereo = append(g.stereo, on)
}

func (g *recordingGraphics) Clear(target Target, c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = target
	g.calls = append(g.calls, drawCall{op: "clear", target: target, color: c})
}

func (g *recordingGraphics) Select(target Target) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = target
}

func (g *recordingGraphics) FillRect(x, y, z, w, h float32, c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, drawCall{op: "rect", target: g.target, x: x, y: y, w: w, h: h, color: c})
}

func (g *recordingGraphics) DrawText(text string, x, y, z, scale float32, c Color, maxWidth float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, drawCall{op: "text", target: g.target, x: x, y: y, w: maxWidth, color: c, text: text})
}

func (g *recordingGraphics) DrawImage(img Image, x, y, z, scale float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, drawCall{op: "image", target: g.target, x: x, y: y, img: img})
}

func (g *recordingGraphics) SheetImage(i int) (Image, bool) {
	if i < 0 || i >= g.sheet {
		return nil, false
	}
	return &fakeImage{name: fmt.Sprintf("sheet%d", i), w: 48, h: 48}, true
}

func (g *recordingGraphics) UploadImage(img image.Image) (Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.uploads++
	b := img.Bounds()
	return &fakeImage{name: "upload", w: b.Dx(), h: b.Dy()}, nil
}

func (g *recordingGraphics) snapshot(op string) []drawCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []drawCall
	for _, c := range g.calls {
		if op == "" || c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// fakeClock is a manually advanced clock.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordedEvent struct {
	target NodeID
	ev     Event
}

type eventRecorder struct {
	events []recordedEvent
}

func (r *eventRecorder) HandleEvent(target NodeID, ev Event) {
	r.events = append(r.events, recordedEvent{target: target, ev: ev})
}

func (r *eventRecorder) types() []string {
	var out []string
	for _, e := range r.events {
		out = append(out, fmt.Sprintf("%s@%d", e.ev.Type, e.target))
	}
	return out
}

// newTestTree returns a tree measuring text with recordingGraphics rules.
func newTestTree() *Tree {
	return NewTree(NewStyleResolver(nil, 0), newRecordingGraphics())
}

// mustApply applies mutations and fails the test on the first error.
func mustApply(t *testing.T, tree *Tree, muts ...Mutation) {
	t.Helper()
	for i, m := range muts {
		if err := tree.Apply(m); err != nil {
			t.Fatalf("mutation %d (%v): %v", i, m.Kind, err)
		}
	}
}

// solve runs Update and Solve.
func solve(tree *Tree) {
	tree.Update()
	tree.Solve()
}

// div creates an element under parent with the given attributes.
func div(id, parent NodeID, attrs map[string]Value) []Mutation {
	muts := []Mutation{CreateElement(id, "div")}
	for k, v := range attrs {
		muts = append(muts, SetAttr(id, k, v))
	}
	return append(muts, Append(parent, id))
}

func px(v int64) Value { return IntValue(v) }
