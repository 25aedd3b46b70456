package raster

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize is the pixel size of text drawn at scale 1.
const DefaultFontSize = 13

// Shaper measures and lays out text with one font at any scale.
type Shaper struct {
	source *text.FontSource
	size   float64
	faces  map[float32]text.Face
}

// NewShaper returns a shaper for the Go Regular font. A non-positive size
// means DefaultFontSize.
func NewShaper(size float64) (*Shaper, error) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	return &Shaper{source: source, size: size, faces: make(map[float32]text.Face)}, nil
}

func (s *Shaper) face(scale float32) text.Face {
	if scale <= 0 {
		scale = 1
	}
	f, ok := s.faces[scale]
	if !ok {
		f = s.source.Face(s.size * float64(scale))
		s.faces[scale] = f
	}
	return f
}

// lines splits str into the lines drawn for it. A positive maxWidth wraps
// at word boundaries.
func (s *Shaper) lines(str string, face text.Face, maxWidth float32) []text.WrapResult {
	return text.WrapText(str, face, float64(maxWidth), text.WrapWord)
}

// MeasureText implements retained.TextMeasurer.
func (s *Shaper) MeasureText(str string, scale, maxWidth float32) (float32, float32) {
	if str == "" {
		return 0, 0
	}
	face := s.face(scale)
	lines := s.lines(str, face, maxWidth)
	var w float64
	for _, l := range lines {
		lw, _ := text.Measure(l.Text, face)
		w = max(w, lw)
	}
	h := face.Metrics().LineHeight() * float64(len(lines))
	return float32(w), float32(h)
}
