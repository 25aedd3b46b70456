package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gogpu/gg"
)

// SpriteSize is the edge length of a sprite sheet cell.
const SpriteSize = 48

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// LoadSheet reads a PNG sprite sheet laid out as a grid of cell-sized
// sprites, row by row.
func LoadSheet(path string, cell int) ([]image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite sheet: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sprite sheet %s: %w", path, err)
	}
	return SplitSheet(img, cell)
}

// SplitSheet cuts img into cell-sized sprites, row by row.
func SplitSheet(img image.Image, cell int) ([]image.Image, error) {
	if cell <= 0 {
		cell = SpriteSize
	}
	sub, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("sprite sheet of type %T cannot be split", img)
	}
	b := img.Bounds()
	var out []image.Image
	for y := b.Min.Y; y+cell <= b.Max.Y; y += cell {
		for x := b.Min.X; x+cell <= b.Max.X; x += cell {
			out = append(out, sub.SubImage(image.Rect(x, y, x+cell, y+cell)))
		}
	}
	return out, nil
}

// sheetColors tints the built-in sprites.
var sheetColors = []gg.RGBA{
	gg.Hex("#3a7bd5"),
	gg.Hex("#e94e4e"),
	gg.Hex("#4ec96a"),
	gg.Hex("#f2c14e"),
	gg.Hex("#8a8a8a"), // placeholder
	gg.Hex("#9b59b6"),
	gg.Hex("#1abc9c"),
	gg.Hex("#e67e22"),
}

// DefaultSheet draws a small sprite sheet of framed color swatches.
func DefaultSheet() []image.Image {
	out := make([]image.Image, 0, len(sheetColors))
	for _, c := range sheetColors {
		dc := gg.NewContext(SpriteSize, SpriteSize)
		dc.ClearWithColor(gg.RGBA{R: c.R * 0.6, G: c.G * 0.6, B: c.B * 0.6, A: 1})
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.DrawRectangle(3, 3, SpriteSize-6, SpriteSize-6)
		_ = dc.Fill()
		out = append(out, dc.Image())
		dc.Close()
	}
	return out
}
