package flex

import "fmt"

// indefinite marks a size that is not known yet.
const indefinite = float32(-1)

// input is what a parent knows about a child when asking for its size.
// width and height are border-box sizes or indefinite; parentW and parentH
// are the percentage bases.
type input struct {
	width, height    float32
	parentW, parentH float32
}

type cacheKey struct {
	id NodeID
	in input
}

type sizeResult struct {
	w, h float32
}

// ComputeLayout solves the subtree rooted at root inside the available
// space. An auto root width fills availWidth; an auto root height fits its
// content.
func (t *Tree) ComputeLayout(root NodeID, availWidth, availHeight float32) error {
	n, err := t.get(root)
	if err != nil {
		return err
	}
	if err := t.validate(root, 0); err != nil {
		return err
	}
	clear(t.cache)

	s := n.style
	ml := s.Margin.Left.resolveOr(availWidth, 0)
	mr := s.Margin.Right.resolveOr(availWidth, 0)
	mt := s.Margin.Top.resolveOr(availWidth, 0)

	in := input{width: indefinite, height: indefinite, parentW: availWidth, parentH: availHeight}
	if !s.Size.Width.definite(availWidth) && availWidth >= 0 {
		in.width = max(0, availWidth-ml-mr)
	}
	t.run(root, in, true)
	n.layout.X, n.layout.Y = ml, mt
	return nil
}

func (t *Tree) validate(id NodeID, depth int) error {
	if depth > len(t.nodes) {
		return fmt.Errorf("flex: cycle through node %d", id)
	}
	n, err := t.get(id)
	if err != nil {
		return err
	}
	for _, c := range n.children {
		if err := t.validate(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// run sizes a node and, when write is set, lays out its descendants. The
// node's own position is assigned by its parent.
func (t *Tree) run(id NodeID, in input, write bool) (float32, float32) {
	key := cacheKey{id, in}
	if !write {
		if r, ok := t.cache[key]; ok {
			return r.w, r.h
		}
	}

	n := &t.nodes[id]
	s := n.style
	if s.Display == DisplayNone {
		if write {
			t.hide(id)
		}
		return 0, 0
	}

	w, h := in.width, in.height
	if w < 0 {
		w = s.Size.Width.resolve(in.parentW)
	}
	if h < 0 {
		h = s.Size.Height.resolve(in.parentH)
	}
	w = clampMax(w, s.MaxSize.Width, in.parentW)
	h = clampMax(h, s.MaxSize.Height, in.parentH)

	b := boxOf(s, in.parentW)
	innerW, innerH := indefinite, indefinite
	if w >= 0 {
		innerW = max(0, w-b.horizontal())
	}
	if h >= 0 {
		innerH = max(0, h-b.vertical())
	}

	var cw, ch float32
	if len(n.children) > 0 {
		if s.Display == DisplayBlock {
			cw, ch = t.block(id, innerW, innerH, b, write)
		} else {
			cw, ch = t.flex(id, innerW, innerH, b, write)
		}
	}
	if w < 0 {
		w = clampMax(cw+b.horizontal(), s.MaxSize.Width, in.parentW)
	}
	if h < 0 {
		h = clampMax(ch+b.vertical(), s.MaxSize.Height, in.parentH)
	}
	w = max(w, b.horizontal())
	h = max(h, b.vertical())

	if write {
		n = &t.nodes[id]
		n.layout.Width, n.layout.Height = w, h
		t.absolute(id, w, h, b)
	} else {
		t.cache[key] = sizeResult{w, h}
	}
	return w, h
}

func (t *Tree) hide(id NodeID) {
	n := &t.nodes[id]
	n.layout = Layout{}
	for _, c := range n.children {
		t.hide(c)
	}
}

func clampMax(v float32, limit Dimension, base float32) float32 {
	if v < 0 {
		return v
	}
	if m := limit.resolve(base); m >= 0 && v > m {
		return m
	}
	return v
}

// box holds resolved padding+border per side.
type box struct {
	left, right, top, bottom float32
	// border only, for the absolute containing block
	bl, br, bt, bb float32
}

func boxOf(s Style, base float32) box {
	bl := max(0, s.Border.Left.resolveOr(base, 0))
	br := max(0, s.Border.Right.resolveOr(base, 0))
	bt := max(0, s.Border.Top.resolveOr(base, 0))
	bb := max(0, s.Border.Bottom.resolveOr(base, 0))
	return box{
		left:   bl + max(0, s.Padding.Left.resolveOr(base, 0)),
		right:  br + max(0, s.Padding.Right.resolveOr(base, 0)),
		top:    bt + max(0, s.Padding.Top.resolveOr(base, 0)),
		bottom: bb + max(0, s.Padding.Bottom.resolveOr(base, 0)),
		bl:     bl, br: br, bt: bt, bb: bb,
	}
}

func (b box) horizontal() float32 { return b.left + b.right }
func (b box) vertical() float32   { return b.top + b.bottom }

type margins struct {
	left, right, top, bottom float32
}

func marginsOf(s Style, base float32) margins {
	return margins{
		left:   s.Margin.Left.resolveOr(base, 0),
		right:  s.Margin.Right.resolveOr(base, 0),
		top:    s.Margin.Top.resolveOr(base, 0),
		bottom: s.Margin.Bottom.resolveOr(base, 0),
	}
}

// relativeOffset returns the visual shift of a relatively positioned node.
func relativeOffset(s Style, baseW, baseH float32) (float32, float32) {
	var dx, dy float32
	if s.Inset.Left.definite(baseW) {
		dx = s.Inset.Left.resolveOr(baseW, 0)
	} else if s.Inset.Right.definite(baseW) {
		dx = -s.Inset.Right.resolveOr(baseW, 0)
	}
	if s.Inset.Top.definite(baseH) {
		dy = s.Inset.Top.resolveOr(baseH, 0)
	} else if s.Inset.Bottom.definite(baseH) {
		dy = -s.Inset.Bottom.resolveOr(baseH, 0)
	}
	return dx, dy
}

func (t *Tree) place(id NodeID, x, y, w, h, parentW, parentH float32) {
	t.run(id, input{width: w, height: h, parentW: parentW, parentH: parentH}, true)
	n := &t.nodes[id]
	dx, dy := relativeOffset(n.style, parentW, parentH)
	n.layout.X, n.layout.Y = x+dx, y+dy
}

// block stacks in-flow children vertically. Auto-width children stretch to
// the content box; margins do not collapse.
func (t *Tree) block(id NodeID, innerW, innerH float32, b box, write bool) (float32, float32) {
	var y, extent float32
	for _, c := range t.nodes[id].children {
		cs := t.nodes[c].style
		if cs.Position == PositionAbsolute {
			continue
		}
		if cs.Display == DisplayNone {
			if write {
				t.hide(c)
			}
			continue
		}
		m := marginsOf(cs, innerW)
		cw := indefinite
		if innerW >= 0 && !cs.Size.Width.definite(innerW) {
			cw = max(0, innerW-m.left-m.right)
		}
		w, h := t.run(c, input{width: cw, height: indefinite, parentW: innerW, parentH: innerH}, false)
		if write {
			t.place(c, b.left+m.left, b.top+y+m.top, w, h, innerW, innerH)
		}
		y += m.top + h + m.bottom
		extent = max(extent, m.left+w+m.right)
	}
	return extent, y
}

// absolute places out-of-flow children against the padding box.
func (t *Tree) absolute(id NodeID, w, h float32, b box) {
	cbW := max(0, w-b.bl-b.br)
	cbH := max(0, h-b.bt-b.bb)
	for _, c := range t.nodes[id].children {
		cs := t.nodes[c].style
		if cs.Position != PositionAbsolute {
			continue
		}
		if cs.Display == DisplayNone {
			t.hide(c)
			continue
		}
		m := marginsOf(cs, cbW)
		in := input{width: indefinite, height: indefinite, parentW: cbW, parentH: cbH}
		l, r := cs.Inset.Left, cs.Inset.Right
		top, bot := cs.Inset.Top, cs.Inset.Bottom
		if !cs.Size.Width.definite(cbW) && l.definite(cbW) && r.definite(cbW) {
			in.width = max(0, cbW-l.resolveOr(cbW, 0)-r.resolveOr(cbW, 0)-m.left-m.right)
		}
		if !cs.Size.Height.definite(cbH) && top.definite(cbH) && bot.definite(cbH) {
			in.height = max(0, cbH-top.resolveOr(cbH, 0)-bot.resolveOr(cbH, 0)-m.top-m.bottom)
		}
		cw, ch := t.run(c, in, false)

		x := b.left + m.left
		switch {
		case l.definite(cbW):
			x = b.bl + l.resolveOr(cbW, 0) + m.left
		case r.definite(cbW):
			x = b.bl + cbW - r.resolveOr(cbW, 0) - m.right - cw
		}
		y := b.top + m.top
		switch {
		case top.definite(cbH):
			y = b.bt + top.resolveOr(cbH, 0) + m.top
		case bot.definite(cbH):
			y = b.bt + cbH - bot.resolveOr(cbH, 0) - m.bottom - ch
		}
		t.run(c, input{width: cw, height: ch, parentW: cbW, parentH: cbH}, true)
		t.nodes[c].layout.X, t.nodes[c].layout.Y = x, y
	}
}
