package flex

// item is the per-child working state of one flex pass. Sizes are border-box.
type item struct {
	id    NodeID
	style Style
	m     margins

	basis   float32
	minMain float32
	maxMain float32
	target  float32
	cross   float32
	frozen  bool

	mainPos, crossPos float32
}

func (it *item) mainMargin(row bool) float32 {
	if row {
		return it.m.left + it.m.right
	}
	return it.m.top + it.m.bottom
}

func (it *item) crossMargin(row bool) float32 {
	if row {
		return it.m.top + it.m.bottom
	}
	return it.m.left + it.m.right
}

func (it *item) leadingMain(row bool) float32 {
	if row {
		return it.m.left
	}
	return it.m.top
}

func (it *item) leadingCross(row bool) float32 {
	if row {
		return it.m.top
	}
	return it.m.left
}

type line struct {
	items []*item
	cross float32
	pos   float32
}

// sizes maps main/cross values to width/height.
func sizes(row bool, main, cross float32) (float32, float32) {
	if row {
		return main, cross
	}
	return cross, main
}

func alignOf(it *item, container Align) Align {
	a := it.style.AlignSelf
	if a == AlignAuto {
		a = container
	}
	if a == AlignAuto {
		a = AlignStretch
	}
	return a
}

// flex runs the flexbox algorithm over the in-flow children of id and
// returns the content size.
func (t *Tree) flex(id NodeID, innerW, innerH float32, b box, write bool) (float32, float32) {
	cs := t.nodes[id].style
	row := cs.FlexDirection.isRow()
	innerMain, innerCross := innerH, innerW
	if row {
		innerMain, innerCross = innerW, innerH
	}
	gap := max(0, cs.Gap.resolveOr(innerMain, 0))

	items := make([]item, 0, len(t.nodes[id].children))
	for _, c := range t.nodes[id].children {
		s := t.nodes[c].style
		if s.Position == PositionAbsolute {
			continue
		}
		if s.Display == DisplayNone {
			if write {
				t.hide(c)
			}
			continue
		}
		items = append(items, item{id: c, style: s, m: marginsOf(s, innerW)})
	}
	if len(items) == 0 {
		return 0, 0
	}

	for i := range items {
		t.baseSize(&items[i], row, innerW, innerH, innerCross, cs.AlignItems)
	}

	lines := breakLines(items, row, innerMain, gap, cs.FlexWrap != NoWrap)
	for i := range lines {
		resolveFlexible(lines[i].items, row, innerMain, gap)
	}

	// cross sizes
	for i := range lines {
		ln := &lines[i]
		for _, it := range ln.items {
			crossDim := it.style.Size.Height
			base := innerH
			if !row {
				crossDim, base = it.style.Size.Width, innerW
			}
			if crossDim.definite(base) {
				it.cross = crossDim.resolve(base)
			} else {
				w, h := sizes(row, it.target, indefinite)
				rw, rh := t.run(it.id, input{width: w, height: h, parentW: innerW, parentH: innerH}, false)
				it.cross = rh
				if !row {
					it.cross = rw
				}
			}
			ln.cross = max(ln.cross, it.cross+it.crossMargin(row))
		}
	}
	if len(lines) == 1 && cs.FlexWrap == NoWrap && innerCross >= 0 {
		lines[0].cross = innerCross
	}

	// align-content
	var total float32
	for i := range lines {
		total += lines[i].cross
	}
	total += gap * float32(len(lines)-1)
	lead, between := float32(0), gap
	if innerCross >= 0 && len(lines) > 0 {
		free := innerCross - total
		switch cs.AlignContent {
		case AlignAuto, AlignStretch:
			if free > 0 {
				extra := free / float32(len(lines))
				for i := range lines {
					lines[i].cross += extra
				}
			}
		case AlignEnd:
			lead = free
		case AlignCenter:
			lead = free / 2
		case AlignSpaceBetween:
			if free > 0 && len(lines) > 1 {
				between += free / float32(len(lines)-1)
			}
		case AlignSpaceAround:
			if free > 0 {
				each := free / float32(len(lines))
				lead = each / 2
				between += each
			}
		}
	}
	pos := lead
	for i := range lines {
		lines[i].pos = pos
		pos += lines[i].cross + between
	}
	contentCross := pos - between
	if innerCross >= 0 {
		contentCross = max(contentCross, innerCross)
	}

	// stretch and align-self
	for i := range lines {
		ln := &lines[i]
		for _, it := range ln.items {
			crossDim, maxDim, base := it.style.Size.Height, it.style.MaxSize.Height, innerH
			if !row {
				crossDim, maxDim, base = it.style.Size.Width, it.style.MaxSize.Width, innerW
			}
			a := alignOf(it, cs.AlignItems)
			if a == AlignStretch && !crossDim.definite(base) {
				it.cross = clampMax(max(0, ln.cross-it.crossMargin(row)), maxDim, base)
			}
			free := ln.cross - it.cross - it.crossMargin(row)
			off := float32(0)
			switch a {
			case AlignEnd:
				off = free
			case AlignCenter:
				off = free / 2
			}
			it.crossPos = ln.pos + off + it.leadingCross(row)
		}
	}

	// justify-content
	var contentMain float32
	for i := range lines {
		ln := &lines[i]
		var used float32
		for _, it := range ln.items {
			used += it.target + it.mainMargin(row)
		}
		used += gap * float32(len(ln.items)-1)
		free := float32(0)
		if innerMain >= 0 {
			free = innerMain - used
		}
		lead, step := float32(0), gap
		n := float32(len(ln.items))
		switch cs.JustifyContent {
		case AlignEnd:
			lead = free
		case AlignCenter:
			lead = free / 2
		case AlignSpaceBetween:
			if free > 0 && len(ln.items) > 1 {
				step += free / (n - 1)
			}
		case AlignSpaceAround:
			if free > 0 {
				lead = free / n / 2
				step += free / n
			}
		}
		p := lead
		for _, it := range ln.items {
			it.mainPos = p + it.leadingMain(row)
			p += it.target + it.mainMargin(row) + step
		}
		contentMain = max(contentMain, used)
	}
	containerMain := contentMain
	if innerMain >= 0 {
		containerMain = innerMain
	}

	if write {
		for i := range lines {
			for _, it := range lines[i].items {
				mainPos, crossPos := it.mainPos, it.crossPos
				if cs.FlexDirection.isReverse() {
					mainPos = containerMain - mainPos - it.target
				}
				if cs.FlexWrap == WrapReverse {
					crossPos = contentCross - crossPos - it.cross
				}
				w, h := sizes(row, it.target, it.cross)
				x, y := sizes(row, mainPos, crossPos)
				t.place(it.id, b.left+x, b.top+y, w, h, innerW, innerH)
			}
		}
	}

	if row {
		return contentMain, pos - between
	}
	return pos - between, contentMain
}

// baseSize computes the flex base size and the main-axis limits of it.
func (t *Tree) baseSize(it *item, row bool, innerW, innerH, innerCross float32, alignItems Align) {
	s := it.style
	mainDim, maxDim, base := s.Size.Height, s.MaxSize.Height, innerH
	pb := boxOf(s, innerW)
	it.minMain = pb.vertical()
	if row {
		mainDim, maxDim, base = s.Size.Width, s.MaxSize.Width, innerW
		it.minMain = pb.horizontal()
	}
	it.maxMain = maxDim.resolve(base)

	switch {
	case s.FlexBasis.definite(base):
		it.basis = s.FlexBasis.resolve(base)
	case mainDim.definite(base):
		it.basis = mainDim.resolve(base)
	default:
		cross := indefinite
		crossDim := s.Size.Width
		if row {
			crossDim = s.Size.Height
		}
		if innerCross >= 0 && !crossDim.definite(innerCross) && alignOf(it, alignItems) == AlignStretch {
			cross = max(0, innerCross-it.crossMargin(row))
		}
		w, h := sizes(row, indefinite, cross)
		rw, rh := t.run(it.id, input{width: w, height: h, parentW: innerW, parentH: innerH}, false)
		it.basis = rh
		if row {
			it.basis = rw
		}
	}
	it.basis = max(it.basis, 0)
	it.target = it.hypothetical()
}

func (it *item) hypothetical() float32 {
	return it.clamp(it.basis)
}

func (it *item) clamp(v float32) float32 {
	if it.maxMain >= 0 && v > it.maxMain {
		v = it.maxMain
	}
	return max(v, it.minMain)
}

func breakLines(items []item, row bool, innerMain, gap float32, wrap bool) []line {
	if !wrap || innerMain < 0 {
		ln := line{items: make([]*item, len(items))}
		for i := range items {
			ln.items[i] = &items[i]
		}
		return []line{ln}
	}
	var lines []line
	var cur line
	var used float32
	for i := range items {
		it := &items[i]
		size := it.target + it.mainMargin(row)
		if len(cur.items) > 0 && used+gap+size > innerMain {
			lines = append(lines, cur)
			cur, used = line{}, 0
		}
		if len(cur.items) > 0 {
			used += gap
		}
		used += size
		cur.items = append(cur.items, it)
	}
	return append(lines, cur)
}

// resolveFlexible distributes free space along the main axis, freezing items
// that hit their min or max until the distribution is stable.
func resolveFlexible(items []*item, row bool, innerMain, gap float32) {
	if innerMain < 0 {
		return
	}
	var used float32
	for _, it := range items {
		used += it.target + it.mainMargin(row)
	}
	used += gap * float32(len(items)-1)
	growing := innerMain > used

	for _, it := range items {
		it.frozen = false
		switch {
		case growing && it.style.FlexGrow == 0,
			!growing && it.style.FlexShrink == 0,
			growing && it.basis > it.target,
			!growing && it.basis < it.target:
			it.frozen = true
		}
	}

	for range len(items) + 1 {
		remaining := innerMain - gap*float32(len(items)-1)
		var factors float32
		unfrozen := 0
		for _, it := range items {
			remaining -= it.mainMargin(row)
			if it.frozen {
				remaining -= it.target
				continue
			}
			remaining -= it.basis
			unfrozen++
			if growing {
				factors += it.style.FlexGrow
			} else {
				factors += it.style.FlexShrink * it.basis
			}
		}
		if unfrozen == 0 {
			return
		}

		var violation float32
		for _, it := range items {
			if it.frozen {
				continue
			}
			v := it.basis
			if factors > 0 {
				if growing {
					v += remaining * it.style.FlexGrow / factors
				} else {
					v += remaining * it.style.FlexShrink * it.basis / factors
				}
			}
			c := it.clamp(v)
			violation += c - v
			it.target = c
		}

		for _, it := range items {
			if it.frozen {
				continue
			}
			switch {
			case violation == 0:
				it.frozen = true
			case violation > 0 && it.target == it.minMain:
				it.frozen = true
			case violation < 0 && it.maxMain >= 0 && it.target == it.maxMain:
				it.frozen = true
			}
		}
	}
}
