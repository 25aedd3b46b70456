package retained

import "strconv"

// DefaultPlaceholderSprite is the sprite drawn for images that are not
// available yet.
const DefaultPlaceholderSprite = 4

// Renderer walks a solved tree and issues draw calls. Nodes on the top
// screen are drawn once per eye while stereo is on, shifted apart by their
// depth times the slider value.
type Renderer struct {
	gfx         Graphics
	images      *ImageCache
	placeholder int
}

// NewRenderer returns a renderer drawing through gfx. A negative placeholder
// disables the fallback sprite.
func NewRenderer(gfx Graphics, images *ImageCache, placeholder int) *Renderer {
	return &Renderer{gfx: gfx, images: images, placeholder: placeholder}
}

// Render draws the mounted tree. slider is the stereo slider reading; zero
// draws the top screen flat.
func (r *Renderer) Render(t *Tree, slider float32) {
	r.draw(t, RootID, 0, 0, slider)
}

func (r *Renderer) draw(t *Tree, id NodeID, px, py, slider float32) {
	n := &t.nodes[id]
	if !n.hasHandle {
		return
	}
	l := t.Layout(id)
	s := &n.style
	x, y := px+l.X, py+l.Y
	stereo := s.IsTop() && slider != 0
	var offset float32
	if stereo {
		offset = s.Depth * slider
	}

	if s.Reset.OK {
		if s.IsTop() {
			r.gfx.Clear(TargetTopLeft, s.Reset.V)
			if stereo {
				r.gfx.Clear(TargetTopRight, s.Reset.V)
			}
		} else {
			r.gfx.Clear(TargetBottom, s.Reset.V)
		}
	}

	if s.Background.OK {
		for target, dx := range r.eyes(s, stereo, offset) {
			r.gfx.Select(target)
			r.gfx.FillRect(x+dx, y, s.ZIndex, l.Width, l.Height, s.Background.V)
		}
	}

	switch n.tag {
	case TagText:
		var maxWidth float32
		if s.MaxWidth.OK {
			maxWidth = s.MaxWidth.V
		}
		for target, dx := range r.eyes(s, stereo, offset) {
			r.gfx.Select(target)
			r.gfx.DrawText(n.text, x+dx, y, s.ZIndex, s.Scale, s.Color, maxWidth)
		}
	case TagImage:
		if img, ok := r.image(n); ok {
			for target, dx := range r.eyes(s, stereo, offset) {
				r.gfx.Select(target)
				r.gfx.DrawImage(img, x+dx, y, s.ZIndex, s.Scale)
			}
		}
	}

	for _, c := range n.children {
		r.draw(t, c, x, y, slider)
	}
}

// eyes yields each target a node is drawn to with its horizontal shift.
func (r *Renderer) eyes(s *Style, stereo bool, offset float32) func(yield func(Target, float32) bool) {
	return func(yield func(Target, float32) bool) {
		if !s.IsTop() {
			yield(TargetBottom, 0)
			return
		}
		if !yield(TargetTopLeft, -offset) {
			return
		}
		if stereo {
			yield(TargetTopRight, offset)
		}
	}
}

// image resolves the src and media attributes of an image node, falling
// back to the placeholder sprite.
func (r *Renderer) image(n *Node) (Image, bool) {
	if img, ok := r.source(n); ok {
		return img, true
	}
	if r.placeholder < 0 || r.images == nil {
		return nil, false
	}
	return r.images.Sheet(r.placeholder)
}

func (r *Renderer) source(n *Node) (Image, bool) {
	if r.images == nil {
		return nil, false
	}
	src := n.attrs.Get(AttrSrc)
	switch src.Kind {
	case ValueInt:
		return r.images.Sheet(int(src.Int))
	case ValueText:
		media, ok := n.attrs.Get(AttrMedia).AsText()
		if !ok {
			return nil, false
		}
		if media == "qrcode" {
			return r.images.QRCode(src.Text)
		}
		id, err := strconv.ParseUint(src.Text, 10, 64)
		if err != nil {
			return nil, false
		}
		return r.images.Icon(id, ParseMedia(media))
	}
	return nil, false
}

// formatTitleID renders a title id the way image src attributes carry it.
func formatTitleID(id uint64) string { return strconv.FormatUint(id, 10) }
