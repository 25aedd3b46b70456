package retained

import "fmt"

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of event a node can listen for.
type EventType uint8

const (
	EventKeyPress EventType = iota
	EventMouseDown
	EventMouseUp
	EventClick

	numEventTypes
)

var eventNames = [numEventTypes]string{
	EventKeyPress:  "keypress",
	EventMouseDown: "mousedown",
	EventMouseUp:   "mouseup",
	EventClick:     "click",
}

func (e EventType) String() string {
	if e.valid() {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", e)
}

func (e EventType) valid() bool { return e < numEventTypes }

// ParseEventType maps an event name to its EventType.
func ParseEventType(name string) (EventType, bool) {
	for i, n := range eventNames {
		if n == name {
			return EventType(i), true
		}
	}
	return 0, false
}

// ============================================================================
// Key codes
// ============================================================================

// KeyCode is the logical key delivered with keypress events.
type KeyCode uint8

const (
	KeyNone KeyCode = iota
	KeyA
	KeyB
	KeyX
	KeyY
	KeyL
	KeyR
	ControlLeft
	ControlRight
	ArrowLeft
	ArrowRight
	ArrowUp
	ArrowDown
	Enter
	ShiftLeft
)

var keyNames = [...]string{
	KeyNone:      "",
	KeyA:         "KeyA",
	KeyB:         "KeyB",
	KeyX:         "KeyX",
	KeyY:         "KeyY",
	KeyL:         "KeyL",
	KeyR:         "KeyR",
	ControlLeft:  "ControlLeft",
	ControlRight: "ControlRight",
	ArrowLeft:    "ArrowLeft",
	ArrowRight:   "ArrowRight",
	ArrowUp:      "ArrowUp",
	ArrowDown:    "ArrowDown",
	Enter:        "Enter",
	ShiftLeft:    "ShiftLeft",
}

func (k KeyCode) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", k)
}

var buttonKeys = map[Buttons]KeyCode{
	ButtonA:      KeyA,
	ButtonB:      KeyB,
	ButtonX:      KeyX,
	ButtonY:      KeyY,
	ButtonL:      KeyL,
	ButtonR:      KeyR,
	ButtonZL:     ControlLeft,
	ButtonZR:     ControlRight,
	ButtonDLeft:  ArrowLeft,
	ButtonDRight: ArrowRight,
	ButtonDUp:    ArrowUp,
	ButtonDDown:  ArrowDown,
	ButtonStart:  Enter,
	ButtonSelect: ShiftLeft,
}

// KeyCodeFor maps a held-button mask to a key code. Only single buttons map;
// chords and the empty mask report false.
func KeyCodeFor(b Buttons) (KeyCode, bool) {
	k, ok := buttonKeys[b]
	return k, ok
}

// ============================================================================
// Events
// ============================================================================

// Event is what a listener receives. Pointer events carry the touch point,
// keypress carries the key.
type Event struct {
	Type EventType
	Key  KeyCode
	X, Y float32
}

func (e Event) String() string {
	if e.Type == EventKeyPress {
		return fmt.Sprintf("%s %s", e.Type, e.Key)
	}
	return fmt.Sprintf("%s (%g,%g)", e.Type, e.X, e.Y)
}

// EventSink receives dispatched events.
type EventSink interface {
	HandleEvent(target NodeID, ev Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(target NodeID, ev Event)

func (f EventSinkFunc) HandleEvent(target NodeID, ev Event) { f(target, ev) }
