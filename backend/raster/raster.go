// Package raster implements retained.Graphics on CPU-rasterized gg contexts,
// one per render target. It backs the simulator and the rendering tests.
package raster

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"

	"github.com/agiangrant/twinscreen/retained"
)

// Texture is an image uploaded to the backend.
type Texture struct {
	buf *gg.ImageBuf
}

func (t *Texture) Size() (int, int) { return t.buf.Width(), t.buf.Height() }

// Options configures a Graphics.
type Options struct {
	// FontSize is the pixel size of text at scale 1.
	FontSize float64
	// Sprites is the sprite sheet; nil draws DefaultSheet.
	Sprites []image.Image
}

// Graphics draws into three in-memory surfaces: the two top-screen eyes and
// the bottom screen.
type Graphics struct {
	targets [3]*gg.Context
	current retained.Target
	stereo  bool
	shaper  *Shaper
	sheet   []*Texture
	frames  int
}

var _ retained.Graphics = (*Graphics)(nil)

// New allocates the render targets.
func New(opts Options) (*Graphics, error) {
	shaper, err := NewShaper(opts.FontSize)
	if err != nil {
		return nil, err
	}
	g := &Graphics{shaper: shaper}
	g.targets[retained.TargetTopLeft] = gg.NewContext(retained.TopScreenWidth, retained.ScreenHeight)
	g.targets[retained.TargetTopRight] = gg.NewContext(retained.TopScreenWidth, retained.ScreenHeight)
	g.targets[retained.TargetBottom] = gg.NewContext(retained.BottomScreenWidth, retained.ScreenHeight)

	sprites := opts.Sprites
	if sprites == nil {
		sprites = DefaultSheet()
	}
	for _, s := range sprites {
		g.sheet = append(g.sheet, &Texture{buf: gg.ImageBufFromImage(s)})
	}
	return g, nil
}

func (g *Graphics) ctx() *gg.Context { return g.targets[g.current] }

// MeasureText implements retained.TextMeasurer.
func (g *Graphics) MeasureText(text string, scale, maxWidth float32) (float32, float32) {
	return g.shaper.MeasureText(text, scale, maxWidth)
}

func (g *Graphics) BeginFrame() {}

func (g *Graphics) EndFrame() {
	g.frames++
	if !g.stereo {
		// a flat top screen shows the same picture to both eyes
		left := g.targets[retained.TargetTopLeft]
		right := g.targets[retained.TargetTopRight]
		right.ClearWithColor(gg.RGBA{})
		right.DrawImage(gg.ImageBufFromImage(left.Image()), 0, 0)
	}
}

// Frames returns the number of completed frames.
func (g *Graphics) Frames() int { return g.frames }

func (g *Graphics) SetStereo(on bool) { g.stereo = on }

// Stereo reports whether the second eye is drawn separately.
func (g *Graphics) Stereo() bool { return g.stereo }

func (g *Graphics) Clear(target retained.Target, c retained.Color) {
	g.current = target
	g.ctx().ClearWithColor(gg.FromColor(c.NRGBA()))
}

func (g *Graphics) Select(target retained.Target) { g.current = target }

// FillRect draws a solid rectangle. z is ignored; draw order decides what
// ends up on top.
func (g *Graphics) FillRect(x, y, _, w, h float32, c retained.Color) {
	dc := g.ctx()
	dc.SetColor(c.NRGBA())
	dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	if err := dc.Fill(); err != nil {
		retained.Logger().Debug("fill failed", "target", g.current, "err", err)
	}
}

func (g *Graphics) DrawText(text string, x, y, _, scale float32, c retained.Color, maxWidth float32) {
	if text == "" {
		return
	}
	dc := g.ctx()
	face := g.shaper.face(scale)
	m := face.Metrics()
	dc.SetFont(face)
	dc.SetColor(c.NRGBA())
	for i, line := range g.shaper.lines(text, face, maxWidth) {
		baseline := float64(y) + m.Ascent + float64(i)*m.LineHeight()
		dc.DrawString(line.Text, float64(x), baseline)
	}
}

func (g *Graphics) DrawImage(img retained.Image, x, y, _, scale float32) {
	t, ok := img.(*Texture)
	if !ok || t == nil {
		return
	}
	dc := g.ctx()
	if scale == 1 {
		dc.DrawImage(t.buf, float64(x), float64(y))
		return
	}
	w, h := t.Size()
	dc.DrawImageEx(t.buf, gg.DrawImageOptions{
		X:             float64(x),
		Y:             float64(y),
		DstWidth:      float64(w) * float64(scale),
		DstHeight:     float64(h) * float64(scale),
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

func (g *Graphics) SheetImage(i int) (retained.Image, bool) {
	if i < 0 || i >= len(g.sheet) {
		return nil, false
	}
	return g.sheet[i], true
}

func (g *Graphics) UploadImage(img image.Image) (retained.Image, error) {
	if img == nil {
		return nil, errors.New("upload nil image")
	}
	return &Texture{buf: gg.ImageBufFromImage(img)}, nil
}

// Image returns the current contents of target.
func (g *Graphics) Image(target retained.Target) image.Image {
	return g.targets[target].Image()
}

// SavePNGs writes top-left.png, top-right.png and bottom.png into dir.
func (g *Graphics) SavePNGs(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for t, dc := range g.targets {
		path := filepath.Join(dir, retained.Target(t).String()+".png")
		if err := dc.SavePNG(path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}

func (g *Graphics) Close() error {
	var errs []error
	for _, dc := range g.targets {
		errs = append(errs, dc.Close())
	}
	return errors.Join(errs...)
}
