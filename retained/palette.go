package retained

import "image/color"

// Color is a packed RGBA value: r | g<<8 | b<<16 | a<<24.
type Color uint32

// RGBA packs four channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// Channels unpacks the color.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// NRGBA converts to the standard library color type used by backends.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, a := c.Channels()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

var (
	Black       = RGBA(0x00, 0x00, 0x00, 0xff)
	White       = RGBA(0xff, 0xff, 0xff, 0xff)
	Transparent = RGBA(0x00, 0x00, 0x00, 0x00)
)

// Palette maps color names to packed colors.
type Palette map[string]Color

// DefaultPalette returns a fresh copy of the built-in named colors.
func DefaultPalette() Palette {
	return Palette{
		"red":               RGBA(0xff, 0x00, 0x00, 0xff),
		"green":             RGBA(0x00, 0xff, 0x00, 0xff),
		"blue":              RGBA(0x00, 0x00, 0xff, 0xff),
		"dir":               RGBA(0x00, 0xb4, 0xd8, 0xff),
		"white":             White,
		"gray":              RGBA(0xbb, 0xbb, 0xbb, 0xff),
		"black":             Black,
		"main-text":         RGBA(0xee, 0xee, 0xee, 0xff),
		"main_bg":           RGBA(0x22, 0x22, 0x22, 0xff),
		"selected_bg":       RGBA(0x44, 0x44, 0x44, 0xff),
		"selected_bg_info":  RGBA(0x33, 0x33, 0x33, 0xff),
		"selected_bg_dark":  RGBA(0x28, 0x28, 0x28, 0xff),
		"selected_bg_light": RGBA(0x60, 0x60, 0x60, 0xff),
		"transparent":       Transparent,
		"tips":              RGBA(0xaa, 0xaa, 0xaa, 0xff),
		"panel_bg":          RGBA(0x26, 0x26, 0x26, 0xff),
	}
}

// Lookup resolves a name; unknown names are black.
func (p Palette) Lookup(name string) Color {
	if c, ok := p[name]; ok {
		return c
	}
	return Black
}

// With returns a copy of p with extra entries added or replaced.
func (p Palette) With(extra map[string]Color) Palette {
	out := make(Palette, len(p)+len(extra))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
