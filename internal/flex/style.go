// Package flex is a small box/flex layout solver.
//
// Nodes live in an arena owned by a Tree and are addressed by opaque NodeID
// handles. Callers describe each node with a Style, connect nodes with
// SetChildren, and call ComputeLayout on a root to obtain the border-box
// geometry of every node relative to its parent.
//
// The supported vocabulary is a fixed subset of CSS: block and flex display,
// relative and absolute positioning, margins, padding, borders, insets, fixed
// and percentage sizes, max sizes, gaps, wrapping and the usual alignment
// properties.
package flex

// Unit selects how a Dimension value is interpreted.
type Unit uint8

const (
	// UnitAuto lets the solver pick the size from context or content.
	UnitAuto Unit = iota
	// UnitLength is an absolute size in pixels.
	UnitLength
	// UnitPercent is a percentage (0-100) of the containing block.
	UnitPercent
)

// Dimension is a length that may be auto, absolute, or relative.
type Dimension struct {
	Value float32
	Unit  Unit
}

// Auto is the zero Dimension.
var Auto = Dimension{}

// Length returns an absolute Dimension.
func Length(v float32) Dimension { return Dimension{Value: v, Unit: UnitLength} }

// Percent returns a percentage Dimension.
func Percent(v float32) Dimension { return Dimension{Value: v, Unit: UnitPercent} }

// resolve returns the dimension in pixels against base, or -1 when the
// dimension is auto or the percentage base is indefinite.
func (d Dimension) resolve(base float32) float32 {
	switch d.Unit {
	case UnitLength:
		return d.Value
	case UnitPercent:
		if base < 0 {
			return indefinite
		}
		return base * d.Value / 100
	}
	return indefinite
}

// resolveOr is resolve for properties that may legitimately be negative
// (margins, insets): auto and unresolvable percentages yield fallback.
func (d Dimension) resolveOr(base, fallback float32) float32 {
	switch d.Unit {
	case UnitLength:
		return d.Value
	case UnitPercent:
		if base >= 0 {
			return base * d.Value / 100
		}
	}
	return fallback
}

// definite reports whether the dimension resolves to a pixel value.
func (d Dimension) definite(base float32) bool {
	return d.Unit == UnitLength || (d.Unit == UnitPercent && base >= 0)
}

// Rect holds one value per box side.
type Rect struct {
	Left, Right, Top, Bottom Dimension
}

// Uniform returns a Rect with the same dimension on every side.
func Uniform(d Dimension) Rect {
	return Rect{Left: d, Right: d, Top: d, Bottom: d}
}

// Size pairs a width and a height.
type Size struct {
	Width, Height Dimension
}

// Display selects the layout algorithm used for a node's children.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayBlock
	DisplayNone
)

// Position selects whether a node takes part in its parent's flow.
type Position uint8

const (
	PositionRelative Position = iota
	PositionAbsolute
)

// FlexDirection is the main axis of a flex container.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

func (d FlexDirection) isRow() bool     { return d == FlexRow || d == FlexRowReverse }
func (d FlexDirection) isReverse() bool { return d == FlexRowReverse || d == FlexColumnReverse }

// FlexWrap controls whether flex items may break onto several lines.
type FlexWrap uint8

const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

// Align is shared by align-items, align-self, align-content and
// justify-content. Not every value is meaningful for every property;
// unsupported combinations fall back to AlignStart.
type Align uint8

const (
	// AlignAuto means "not set": align-self defers to align-items,
	// align-items and align-content default to stretch, justify-content to start.
	AlignAuto Align = iota
	AlignStart
	AlignEnd
	AlignCenter
	AlignStretch
	AlignBaseline
	AlignSpaceBetween
	AlignSpaceAround
)

// Overflow is recorded for callers; items are always allowed to shrink to
// zero, which matches hidden overflow.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

// Style is the complete input record for one node. Style values are
// comparable so callers can skip SetStyle when nothing changed.
type Style struct {
	Display  Display
	Position Position
	OverflowX,
	OverflowY Overflow

	FlexDirection FlexDirection
	FlexWrap      FlexWrap
	FlexGrow      float32
	FlexShrink    float32
	FlexBasis     Dimension

	AlignItems     Align
	AlignSelf      Align
	AlignContent   Align
	JustifyContent Align

	Size    Size
	MaxSize Size

	Margin  Rect
	Padding Rect
	Border  Rect
	Inset   Rect

	Gap Dimension
}

// DefaultStyle returns the initial style: a flex container with shrinkable
// items, auto sizes and auto insets.
func DefaultStyle() Style {
	return Style{
		FlexShrink: 1,
	}
}

// Layout is the solved border-box of a node relative to its parent's
// border-box origin.
type Layout struct {
	X, Y          float32
	Width, Height float32
}
