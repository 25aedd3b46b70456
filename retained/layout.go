package retained

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agiangrant/twinscreen/internal/flex"
)

// Viewport sizes of the two displays.
const (
	TopScreenWidth    = 400
	BottomScreenWidth = 320
	ScreenHeight      = 240
)

// Viewport returns the pixel size of a screen.
func Viewport(s Screen) (w, h float32) {
	if s == ScreenBottom {
		return BottomScreenWidth, ScreenHeight
	}
	return TopScreenWidth, ScreenHeight
}

// TextMeasurer reports the box a string occupies when drawn at scale. A
// positive maxWidth wraps the text at that width.
type TextMeasurer interface {
	MeasureText(text string, scale, maxWidth float32) (w, h float32)
}

// ============================================================================
// Attribute translation
// ============================================================================

// layoutStyle translates the recognized layout attributes of a container
// into a solver style. Values of the wrong kind leave the default in place.
func layoutStyle(a *Attributes) flex.Style {
	s := flex.DefaultStyle()
	s.Display = flex.DisplayBlock
	s.OverflowX, s.OverflowY = flex.OverflowHidden, flex.OverflowHidden

	a.Each(func(attr Attr, v Value) {
		switch attr {
		case AttrDisplay:
			if v.Text == "flex" {
				s.Display = flex.DisplayFlex
			} else {
				s.Display = flex.DisplayBlock
			}
		case AttrPosition:
			if v.Text == "absolute" {
				s.Position = flex.PositionAbsolute
			} else {
				s.Position = flex.PositionRelative
			}
		case AttrOverflow:
			switch v.Text {
			case "visible":
				s.OverflowX, s.OverflowY = flex.OverflowVisible, flex.OverflowVisible
			case "scroll":
				s.OverflowX, s.OverflowY = flex.OverflowScroll, flex.OverflowScroll
			case "hidden":
				s.OverflowX, s.OverflowY = flex.OverflowHidden, flex.OverflowHidden
			}
		case AttrFlexDirection:
			switch v.Text {
			case "column":
				s.FlexDirection = flex.FlexColumn
			case "row-reverse":
				s.FlexDirection = flex.FlexRowReverse
			case "column-reverse":
				s.FlexDirection = flex.FlexColumnReverse
			default:
				s.FlexDirection = flex.FlexRow
			}
		case AttrFlexWrap:
			switch v.Text {
			case "wrap":
				s.FlexWrap = flex.Wrap
			case "wrap-reverse":
				s.FlexWrap = flex.WrapReverse
			default:
				s.FlexWrap = flex.NoWrap
			}
		case AttrFlex:
			if f, ok := v.Number(); ok {
				s.FlexGrow, s.FlexShrink, s.FlexBasis = float32(f), 1, flex.Length(float32(f))
			}
		case AttrFlexGrow:
			if f, ok := v.Number(); ok {
				s.FlexGrow = float32(f)
			}
		case AttrFlexShrink:
			if f, ok := v.Number(); ok {
				s.FlexShrink = float32(f)
			}
		case AttrFlexBasis:
			setDim(&s.FlexBasis, v)
		case AttrJustifyContent:
			// unknown values clear the property
			s.JustifyContent, _ = parseAlign(v.Text)
		case AttrAlignItems:
			setAlign(&s.AlignItems, v)
		case AttrAlignSelf:
			setAlign(&s.AlignSelf, v)
		case AttrAlignContent:
			setAlign(&s.AlignContent, v)
		case AttrWidth:
			setDim(&s.Size.Width, v)
		case AttrHeight:
			setDim(&s.Size.Height, v)
		case AttrMaxWidth:
			setDim(&s.MaxSize.Width, v)
		case AttrGap:
			setDim(&s.Gap, v)
		case AttrMargin:
			var d flex.Dimension
			if setDim(&d, v) {
				s.Margin = flex.Uniform(d)
			}
		case AttrMarginLeft:
			setDim(&s.Margin.Left, v)
		case AttrMarginRight:
			setDim(&s.Margin.Right, v)
		case AttrMarginTop:
			setDim(&s.Margin.Top, v)
		case AttrMarginBottom:
			setDim(&s.Margin.Bottom, v)
		case AttrPadding:
			var d flex.Dimension
			if setDim(&d, v) {
				s.Padding = flex.Uniform(d)
			}
		case AttrPaddingLeft:
			setDim(&s.Padding.Left, v)
		case AttrPaddingRight:
			setDim(&s.Padding.Right, v)
		case AttrPaddingTop:
			setDim(&s.Padding.Top, v)
		case AttrPaddingBottom:
			setDim(&s.Padding.Bottom, v)
		case AttrBorderLeftWidth:
			setDim(&s.Border.Left, v)
		case AttrBorderRightWidth:
			setDim(&s.Border.Right, v)
		case AttrBorderTopWidth:
			setDim(&s.Border.Top, v)
		case AttrBorderBottomWidth:
			setDim(&s.Border.Bottom, v)
		case AttrLeft:
			setDim(&s.Inset.Left, v)
		case AttrRight:
			setDim(&s.Inset.Right, v)
		case AttrTop:
			setDim(&s.Inset.Top, v)
		case AttrBottom:
			setDim(&s.Inset.Bottom, v)
		}
	})
	return s
}

// parseDimension accepts numbers (pixels) and the strings "auto", "N",
// "Npx" and "N%".
func parseDimension(v Value) (flex.Dimension, bool) {
	if f, ok := v.Number(); ok {
		return flex.Length(float32(f)), true
	}
	if v.Kind != ValueText {
		return flex.Auto, false
	}
	s := strings.TrimSpace(v.Text)
	if s == "auto" {
		return flex.Auto, true
	}
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return flex.Auto, false
		}
		return flex.Percent(float32(f)), true
	}
	s = strings.TrimSuffix(s, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return flex.Auto, false
	}
	return flex.Length(float32(f)), true
}

func setDim(dst *flex.Dimension, v Value) bool {
	d, ok := parseDimension(v)
	if ok {
		*dst = d
	}
	return ok
}

func parseAlign(s string) (flex.Align, bool) {
	switch strings.TrimSpace(s) {
	case "flex-start", "start":
		return flex.AlignStart, true
	case "flex-end", "end":
		return flex.AlignEnd, true
	case "center":
		return flex.AlignCenter, true
	case "stretch":
		return flex.AlignStretch, true
	case "baseline":
		return flex.AlignBaseline, true
	case "space-between":
		return flex.AlignSpaceBetween, true
	case "space-around":
		return flex.AlignSpaceAround, true
	}
	return flex.AlignAuto, false
}

func setAlign(dst *flex.Align, v Value) {
	if a, ok := parseAlign(v.Text); ok {
		*dst = a
	}
}

// ============================================================================
// Solver synchronization
// ============================================================================

// syncLayout brings the solver node of id and all its descendants up to date
// and reports whether any solver input changed.
func (t *Tree) syncLayout(id NodeID) bool {
	changed := false
	for _, c := range t.nodes[id].children {
		if t.syncLayout(c) {
			changed = true
		}
	}

	n := &t.nodes[id]
	style := n.flexStyle
	if n.layoutDirty || !n.hasHandle {
		if n.tag == TagText {
			style = t.textLeaf(n)
		} else {
			style = layoutStyle(&n.attrs)
		}
		n.layoutDirty = false
	}

	switch {
	case !n.hasHandle:
		n.handle, n.hasHandle = t.solver.NewLeaf(style), true
		n.flexStyle = style
		changed = true
	case style != n.flexStyle:
		t.must(t.solver.SetStyle(n.handle, style))
		n.flexStyle = style
		changed = true
	}

	if n.kidsDirty {
		kids := acquireHandles()
		for _, c := range n.children {
			kids = append(kids, t.nodes[c].handle)
		}
		if !slices.Equal(kids, n.flexKids) {
			t.must(t.solver.SetChildren(n.handle, kids))
			n.flexKids = append(n.flexKids[:0], kids...)
			changed = true
		}
		releaseHandles(kids)
		n.kidsDirty = false
	}
	return changed
}

// textLeaf measures a text node at its resolved scale and returns a fixed
// size leaf style.
func (t *Tree) textLeaf(n *Node) flex.Style {
	var maxWidth float32
	if n.style.MaxWidth.OK {
		maxWidth = n.style.MaxWidth.V
	}
	w, h := t.measureText(n.text, n.style.Scale, maxWidth)
	if maxWidth > 0 {
		w = min(w, maxWidth)
	}
	s := flex.DefaultStyle()
	s.Size = flex.Size{Width: flex.Length(w), Height: flex.Length(h)}
	return s
}

func (t *Tree) measureText(text string, scale, maxWidth float32) (float32, float32) {
	if t.measurer == nil || text == "" {
		return 0, 0
	}
	key := textKey{text: text, scale: scale, maxWidth: maxWidth}
	if sz, ok := t.texts.get(key); ok {
		return sz.w, sz.h
	}
	w, h := t.measurer.MeasureText(text, scale, maxWidth)
	t.texts.put(key, textSize{w: w, h: h})
	return w, h
}

func (t *Tree) drainGraveyard() {
	for _, h := range t.graveyard {
		t.must(t.solver.Remove(h))
	}
	t.graveyard = t.graveyard[:0]
}

func (t *Tree) must(err error) {
	if err != nil {
		panic(fmt.Sprintf("retained: layout solver: %v", err))
	}
}

// Solve recomputes geometry for the whole mounted tree. The root is forced
// to the viewport of its screen regardless of its own size attributes.
func (t *Tree) Solve() {
	root := &t.nodes[RootID]
	if !root.hasHandle {
		panic("retained: solve before update")
	}
	w, h := Viewport(root.style.Screen)
	s, err := t.solver.Style(root.handle)
	t.must(err)
	want := flex.Size{Width: flex.Length(w), Height: flex.Length(h)}
	if s.Size != want {
		s.Size = want
		t.must(t.solver.SetStyle(root.handle, s))
	}
	t.must(t.solver.ComputeLayout(root.handle, w, h))
}

// Layout returns the solved box of id relative to its parent. Asking for a
// node the solver does not know is a programming error and panics.
func (t *Tree) Layout(id NodeID) flex.Layout {
	n := t.Node(id)
	if n == nil || !n.hasHandle {
		panic(fmt.Sprintf("retained: node %d has no layout handle", id))
	}
	l, err := t.solver.Layout(n.handle)
	t.must(err)
	return l
}

// AbsoluteBox returns the solved box of id in screen coordinates.
func (t *Tree) AbsoluteBox(id NodeID) (x, y, w, h float32) {
	l := t.Layout(id)
	x, y, w, h = l.X, l.Y, l.Width, l.Height
	for n := t.Node(id); n != nil && n.hasParent; n = t.Node(n.parent) {
		p := t.Layout(n.parent)
		x += p.X
		y += p.Y
	}
	return x, y, w, h
}
