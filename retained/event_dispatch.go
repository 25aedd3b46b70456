package retained

import "time"

// ============================================================================
// Event Trigger
// ============================================================================

// TriggerConfig holds the gesture thresholds.
type TriggerConfig struct {
	// A press shorter than TapMaxDuration that never strayed
	// TapMaxDistance pixels from its start is a click.
	TapMaxDuration time.Duration
	TapMaxDistance float32

	// A held key repeats after KeyRepeatDelay, every KeyRepeatInterval.
	KeyRepeatDelay    time.Duration
	KeyRepeatInterval time.Duration
}

// DefaultTriggerConfig returns the stock thresholds.
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		TapMaxDuration:    time.Second,
		TapMaxDistance:    20,
		KeyRepeatDelay:    300 * time.Millisecond,
		KeyRepeatInterval: 60 * time.Millisecond,
	}
}

// Trigger turns raw input samples into listener events. It keeps the
// touch and key state between samples.
type Trigger struct {
	cfg   TriggerConfig
	clock func() time.Time

	// touch tracking
	touching       bool
	pressAt        time.Time
	startX, startY float32
	lastX, lastY   float32
	maxDist2       float32
	pressed        NodeID
	hasPressed     bool

	// key tracking
	keys       Buttons
	keysAt     time.Time
	lastRepeat time.Time
}

// NewTrigger returns a trigger with the given thresholds. Zero fields take
// the default.
func NewTrigger(cfg TriggerConfig) *Trigger {
	def := DefaultTriggerConfig()
	if cfg.TapMaxDuration <= 0 {
		cfg.TapMaxDuration = def.TapMaxDuration
	}
	if cfg.TapMaxDistance <= 0 {
		cfg.TapMaxDistance = def.TapMaxDistance
	}
	if cfg.KeyRepeatDelay <= 0 {
		cfg.KeyRepeatDelay = def.KeyRepeatDelay
	}
	if cfg.KeyRepeatInterval <= 0 {
		cfg.KeyRepeatInterval = def.KeyRepeatInterval
	}
	return &Trigger{cfg: cfg, clock: time.Now}
}

// Step consumes one input sample and dispatches the resulting events to
// sink. It returns the number of events dispatched.
func (tr *Trigger) Step(in InputState, tree *Tree, sink EventSink) int {
	now := tr.clock()
	return tr.stepKeys(now, in.Buttons, tree, sink) + tr.stepTouch(now, in, tree, sink)
}

func (tr *Trigger) stepKeys(now time.Time, mask Buttons, tree *Tree, sink EventSink) int {
	fire := false
	switch {
	case mask != tr.keys:
		tr.keys = mask
		tr.keysAt, tr.lastRepeat = now, now
		fire = true
	case mask != 0 &&
		now.Sub(tr.keysAt) > tr.cfg.KeyRepeatDelay &&
		now.Sub(tr.lastRepeat) > tr.cfg.KeyRepeatInterval:
		tr.lastRepeat = now
		fire = true
	}
	if !fire {
		return 0
	}
	key, ok := KeyCodeFor(mask)
	if !ok {
		return 0
	}

	ids := tree.appendListeners(acquireNodes(), EventKeyPress)
	defer releaseNodes(ids)
	for _, id := range ids {
		sink.HandleEvent(id, Event{Type: EventKeyPress, Key: key})
	}
	return len(ids)
}

func (tr *Trigger) stepTouch(now time.Time, in InputState, tree *Tree, sink EventSink) int {
	switch {
	case in.Touched && !tr.touching:
		tr.touching = true
		tr.pressAt = now
		tr.startX, tr.startY = in.X, in.Y
		tr.lastX, tr.lastY = in.X, in.Y
		tr.maxDist2 = 0
		tr.pressed, tr.hasPressed = tree.HitTest(EventMouseDown, in.X, in.Y)
		if tr.hasPressed {
			sink.HandleEvent(tr.pressed, Event{Type: EventMouseDown, X: in.X, Y: in.Y})
			return 1
		}
		return 0

	case in.Touched:
		tr.lastX, tr.lastY = in.X, in.Y
		dx, dy := in.X-tr.startX, in.Y-tr.startY
		tr.maxDist2 = max(tr.maxDist2, dx*dx+dy*dy)
		return 0

	case tr.touching:
		tr.touching = false
		x, y := tr.lastX, tr.lastY
		sent := 0

		target, ok := tr.pressed, tr.hasPressed &&
			tree.Mounted(tr.pressed) && tree.IsListening(tr.pressed, EventMouseUp)
		if !ok {
			target, ok = tree.HitTest(EventMouseUp, x, y)
		}
		if ok {
			sink.HandleEvent(target, Event{Type: EventMouseUp, X: x, Y: y})
			sent++
		}
		tr.hasPressed = false

		limit := tr.cfg.TapMaxDistance
		if now.Sub(tr.pressAt) < tr.cfg.TapMaxDuration && tr.maxDist2 < limit*limit {
			if target, ok := tree.HitTest(EventClick, x, y); ok {
				sink.HandleEvent(target, Event{Type: EventClick, X: x, Y: y})
				sent++
			}
		}
		return sent
	}
	return 0
}

// ============================================================================
// Hit Testing
// ============================================================================

// HitTest finds the topmost node listening for ev whose solved box contains
// the point. Later siblings and descendants paint over earlier ones, so the
// tree is searched in reverse paint order. Box edges count as inside.
func (t *Tree) HitTest(ev EventType, x, y float32) (NodeID, bool) {
	if !ev.valid() || len(t.listeners[ev]) == 0 || !t.nodes[RootID].hasHandle {
		return 0, false
	}
	return t.hitTest(RootID, ev, x, y, 0, 0)
}

func (t *Tree) hitTest(id NodeID, ev EventType, x, y, ox, oy float32) (NodeID, bool) {
	n := &t.nodes[id]
	if !n.hasHandle {
		return 0, false
	}
	l := t.Layout(id)
	ax, ay := ox+l.X, oy+l.Y
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit, ok := t.hitTest(n.children[i], ev, x, y, ax, ay); ok {
			return hit, true
		}
	}
	if x >= ax && x <= ax+l.Width && y >= ay && y <= ay+l.Height && t.IsListening(id, ev) {
		return id, true
	}
	return 0, false
}
