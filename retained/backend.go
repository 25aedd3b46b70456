package retained

import "image"

// Target is one of the three render targets.
type Target uint8

const (
	TargetTopLeft Target = iota
	TargetTopRight
	TargetBottom
)

func (t Target) String() string {
	switch t {
	case TargetTopRight:
		return "top-right"
	case TargetBottom:
		return "bottom"
	}
	return "top-left"
}

// Image is a texture owned by a Graphics backend.
type Image interface {
	Size() (w, h int)
}

// Graphics is the immediate-mode drawing surface. All methods are called from
// the UI goroutine between BeginFrame and EndFrame, except SetStereo and
// UploadImage which may also be called outside a frame.
type Graphics interface {
	TextMeasurer

	BeginFrame()
	EndFrame()
	// SetStereo enables or disables the second top-screen eye.
	SetStereo(on bool)

	// Clear fills target with c and makes it the current target.
	Clear(target Target, c Color)
	// Select makes target current without clearing it.
	Select(target Target)

	FillRect(x, y, z, w, h float32, c Color)
	// DrawText draws text with its top-left corner at x, y. A positive
	// maxWidth wraps the text at that width.
	DrawText(text string, x, y, z, scale float32, c Color, maxWidth float32)
	DrawImage(img Image, x, y, z, scale float32)

	// SheetImage returns sprite i of the built-in sprite sheet.
	SheetImage(i int) (Image, bool)
	// UploadImage turns a decoded image into a backend texture.
	UploadImage(img image.Image) (Image, error)
}

// Buttons is a held-button mask.
type Buttons uint32

const (
	ButtonA      Buttons = 1 << 0
	ButtonB      Buttons = 1 << 1
	ButtonSelect Buttons = 1 << 2
	ButtonStart  Buttons = 1 << 3
	ButtonDRight Buttons = 1 << 4
	ButtonDLeft  Buttons = 1 << 5
	ButtonDUp    Buttons = 1 << 6
	ButtonDDown  Buttons = 1 << 7
	ButtonR      Buttons = 1 << 8
	ButtonL      Buttons = 1 << 9
	ButtonX      Buttons = 1 << 10
	ButtonY      Buttons = 1 << 11
	ButtonZL     Buttons = 1 << 14
	ButtonZR     Buttons = 1 << 15
)

var buttonNames = map[string]Buttons{
	"a": ButtonA, "b": ButtonB, "x": ButtonX, "y": ButtonY,
	"l": ButtonL, "r": ButtonR, "zl": ButtonZL, "zr": ButtonZR,
	"start": ButtonStart, "select": ButtonSelect,
	"left": ButtonDLeft, "right": ButtonDRight, "up": ButtonDUp, "down": ButtonDDown,
}

// ParseButton maps a lower-case button name such as "a" or "up" to its bit.
func ParseButton(name string) (Buttons, bool) {
	b, ok := buttonNames[name]
	return b, ok
}

// InputState is one sample of the input hardware.
type InputState struct {
	Buttons Buttons
	Touched bool
	X, Y    float32
	// Slider is the stereo depth slider; 0 turns stereo off.
	Slider float32
}

// Input is polled once per scheduling quantum.
type Input interface {
	Poll() InputState
}
