package retained

import "math"

// Screen selects one of the two physical displays.
type Screen uint8

const (
	// ScreenTop is the stereo-capable display.
	ScreenTop Screen = iota
	ScreenBottom
)

func (s Screen) String() string {
	if s == ScreenBottom {
		return "bottom"
	}
	return "top"
}

// Opt is an optional value. Opt of a comparable type is comparable, which
// keeps Style comparable with ==.
type Opt[T any] struct {
	V  T
	OK bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] { return Opt[T]{V: v, OK: true} }

// Style is the resolved visual state of a node.
type Style struct {
	Color      Color
	Background Opt[Color] // not inherited
	Reset      Opt[Color] // not inherited; clears the node's screen
	Scale      float32
	Depth      float32
	ZIndex     float32
	MaxWidth   Opt[float32]
	Screen     Screen
}

// DefaultStyle is the style of a node with no parent and no attributes.
func DefaultStyle() Style {
	return Style{
		Color:  Black,
		Scale:  1,
		Screen: ScreenTop,
	}
}

// IsTop reports whether the node draws on the stereo-capable display.
func (s Style) IsTop() bool { return s.Screen == ScreenTop }

// DefaultMaxDepth bounds the stereo depth attribute in both directions.
const DefaultMaxDepth = 5.0

// StyleResolver computes resolved styles. It owns the palette so callers can
// extend the named colors per session.
type StyleResolver struct {
	palette  Palette
	maxDepth float32
}

// NewStyleResolver returns a resolver. A nil palette means DefaultPalette and
// a non-positive maxDepth means DefaultMaxDepth.
func NewStyleResolver(p Palette, maxDepth float32) *StyleResolver {
	if p == nil {
		p = DefaultPalette()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &StyleResolver{palette: p, maxDepth: maxDepth}
}

// Palette returns the resolver's palette.
func (r *StyleResolver) Palette() Palette { return r.palette }

func (r *StyleResolver) color(v Value) (Color, bool) {
	switch v.Kind {
	case ValueText:
		return r.palette.Lookup(v.Text), true
	case ValueInt:
		if v.Int > 0 {
			return Color(uint32(v.Int)), true
		}
	}
	return 0, false
}

// Resolve derives a node's style from its attributes and the parent's
// already resolved style. parent is nil for the root. Malformed values fall
// back to the inherited value; it never fails.
func (r *StyleResolver) Resolve(attrs *Attributes, parent *Style) Style {
	s := DefaultStyle()
	if parent != nil {
		s.Color = parent.Color
		s.Screen = parent.Screen
		s.Scale = parent.Scale
		s.Depth = parent.Depth
		s.ZIndex = parent.ZIndex
		s.MaxWidth = parent.MaxWidth
	}
	if attrs == nil {
		return s
	}

	if v := attrs.Get(AttrColor); v.IsSet() {
		if c, ok := r.color(v); ok {
			s.Color = c
		}
	}
	if v := attrs.Get(AttrScreen); v.IsSet() {
		switch v.Text {
		case "top":
			s.Screen = ScreenTop
		case "bottom":
			s.Screen = ScreenBottom
		}
	}
	if n, ok := finite(attrs.Get(AttrScale)); ok {
		s.Scale = float32(n)
	}
	if n, ok := finite(attrs.Get(AttrDeep3D)); ok {
		s.Depth = float32(n)
	}
	s.Depth = min(max(s.Depth, -r.maxDepth), r.maxDepth)
	if n, ok := finite(attrs.Get(AttrZIndex)); ok {
		s.ZIndex = float32(n)
	}
	if n, ok := finite(attrs.Get(AttrMaxWidth)); ok {
		s.MaxWidth = Some(float32(n))
	}
	if c, ok := r.color(attrs.Get(AttrBackgroundColor)); ok {
		s.Background = Some(c)
	}
	if c, ok := r.color(attrs.Get(AttrBgReset)); ok {
		s.Reset = Some(c)
	}
	return s
}

// finite returns a numeric value that is neither NaN nor infinite.
func finite(v Value) (float64, bool) {
	n, ok := v.Number()
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
