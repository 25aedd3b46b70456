package retained

import (
	"strconv"
	"strings"
)

// ============================================================================
// Attribute values
// ============================================================================

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueText
	ValueInt
	ValueFloat
	ValueBool
)

// Value is a loosely typed attribute value as produced by the component
// framework. Exactly one field is meaningful, selected by Kind.
type Value struct {
	Kind  ValueKind
	Text  string
	Int   int64
	Float float64
	Bool  bool
}

func TextValue(s string) Value   { return Value{Kind: ValueText, Text: s} }
func IntValue(i int64) Value     { return Value{Kind: ValueInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: ValueFloat, Float: f} }
func BoolValue(b bool) Value     { return Value{Kind: ValueBool, Bool: b} }

// IsSet reports whether the value holds anything.
func (v Value) IsSet() bool { return v.Kind != ValueNone }

// Number returns the value as a float when it is numeric.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case ValueInt:
		return float64(v.Int), true
	case ValueFloat:
		return v.Float, true
	}
	return 0, false
}

// AsText returns the string variant.
func (v Value) AsText() (string, bool) {
	return v.Text, v.Kind == ValueText
}

func (v Value) String() string {
	switch v.Kind {
	case ValueText:
		return strconv.Quote(v.Text)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	}
	return "none"
}

// ============================================================================
// Recognized attributes
// ============================================================================

// Attr names one attribute the engine understands. The set is closed; any
// other attribute name is carried in Attributes.Extra and otherwise ignored.
type Attr uint8

const (
	attrInvalid Attr = iota

	// style
	AttrColor
	AttrBackgroundColor
	AttrBgReset
	AttrScreen
	AttrScale
	AttrDeep3D
	AttrZIndex
	AttrMaxWidth

	// layout
	AttrAlignContent
	AttrAlignItems
	AttrAlignSelf
	AttrBorderBottomWidth
	AttrBorderLeftWidth
	AttrBorderRightWidth
	AttrBorderTopWidth
	AttrBottom
	AttrDisplay
	AttrFlex
	AttrFlexBasis
	AttrFlexDirection
	AttrFlexGrow
	AttrFlexShrink
	AttrFlexWrap
	AttrGap
	AttrHeight
	AttrJustifyContent
	AttrLeft
	AttrMargin
	AttrMarginBottom
	AttrMarginLeft
	AttrMarginRight
	AttrMarginTop
	AttrPadding
	AttrPaddingBottom
	AttrPaddingLeft
	AttrPaddingRight
	AttrPaddingTop
	AttrPosition
	AttrRight
	AttrTop
	AttrWidth
	AttrOverflow

	// image source
	AttrSrc
	AttrMedia

	numAttrs
)

var attrNames = [numAttrs]string{
	AttrColor:             "color",
	AttrBackgroundColor:   "background-color",
	AttrBgReset:           "bg_reset",
	AttrScreen:            "screen",
	AttrScale:             "scale",
	AttrDeep3D:            "deep_3d",
	AttrZIndex:            "z-index",
	AttrMaxWidth:          "max-width",
	AttrAlignContent:      "align-content",
	AttrAlignItems:        "align-items",
	AttrAlignSelf:         "align-self",
	AttrBorderBottomWidth: "border-bottom-width",
	AttrBorderLeftWidth:   "border-left-width",
	AttrBorderRightWidth:  "border-right-width",
	AttrBorderTopWidth:    "border-top-width",
	AttrBottom:            "bottom",
	AttrDisplay:           "display",
	AttrFlex:              "flex",
	AttrFlexBasis:         "flex-basis",
	AttrFlexDirection:     "flex-direction",
	AttrFlexGrow:          "flex-grow",
	AttrFlexShrink:        "flex-shrink",
	AttrFlexWrap:          "flex-wrap",
	AttrGap:               "gap",
	AttrHeight:            "height",
	AttrJustifyContent:    "justify-content",
	AttrLeft:              "left",
	AttrMargin:            "margin",
	AttrMarginBottom:      "margin-bottom",
	AttrMarginLeft:        "margin-left",
	AttrMarginRight:       "margin-right",
	AttrMarginTop:         "margin-top",
	AttrPadding:           "padding",
	AttrPaddingBottom:     "padding-bottom",
	AttrPaddingLeft:       "padding-left",
	AttrPaddingRight:      "padding-right",
	AttrPaddingTop:        "padding-top",
	AttrPosition:          "position",
	AttrRight:             "right",
	AttrTop:               "top",
	AttrWidth:             "width",
	AttrOverflow:          "overflow",
	AttrSrc:               "src",
	AttrMedia:             "media",
}

var attrByName = func() map[string]Attr {
	m := make(map[string]Attr, numAttrs)
	for a := AttrColor; a < numAttrs; a++ {
		m[attrNames[a]] = a
	}
	return m
}()

// LookupAttr maps an attribute name to its Attr.
func LookupAttr(name string) (Attr, bool) {
	a, ok := attrByName[strings.TrimSpace(name)]
	return a, ok
}

func (a Attr) String() string {
	if a > attrInvalid && a < numAttrs {
		return attrNames[a]
	}
	return "invalid"
}

func (a Attr) isStyle() bool  { return a >= AttrColor && a <= AttrMaxWidth }
func (a Attr) isLayout() bool { return a >= AttrAlignContent && a <= AttrOverflow || a == AttrMaxWidth }

// Attributes is the per-node attribute record: one slot per recognized
// attribute plus whatever else the framework set.
type Attributes struct {
	values [numAttrs]Value
	Extra  map[string]Value
}

// Get returns the value of a recognized attribute.
func (a *Attributes) Get(attr Attr) Value {
	if attr <= attrInvalid || attr >= numAttrs {
		return Value{}
	}
	return a.values[attr]
}

// Set stores a value by name and reports which recognized attribute it hit.
func (a *Attributes) Set(name string, v Value) (Attr, bool) {
	if attr, ok := LookupAttr(name); ok {
		a.values[attr] = v
		return attr, true
	}
	if a.Extra == nil {
		a.Extra = make(map[string]Value)
	}
	a.Extra[name] = v
	return attrInvalid, false
}

// Remove clears a value by name.
func (a *Attributes) Remove(name string) (Attr, bool) {
	if attr, ok := LookupAttr(name); ok {
		a.values[attr] = Value{}
		return attr, true
	}
	delete(a.Extra, name)
	return attrInvalid, false
}

// Each calls fn for every set recognized attribute in declaration order.
func (a *Attributes) Each(fn func(Attr, Value)) {
	for attr := AttrColor; attr < numAttrs; attr++ {
		if v := a.values[attr]; v.IsSet() {
			fn(attr, v)
		}
	}
}
