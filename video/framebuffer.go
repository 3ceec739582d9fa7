// Package video implements the PPU: mode timing, background/window/sprite
// compositing, and the framebuffer handed to a Display each VBlank.
package video

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Shade is one of the four DMG gray levels a palette byte can map a
// 2-bit pixel value to.
type Shade uint32

const (
	ShadeWhite     Shade = 0xFFFFFFFF
	ShadeLightGray Shade = 0x989898FF
	ShadeDarkGray  Shade = 0x4C4C4CFF
	ShadeBlack     Shade = 0x000000FF
)

// shades indexes directly by the 2-bit shade a palette maps a color id
// to: 0=black (darkest) .. 3=white (lightest).
var shades = [4]Shade{ShadeBlack, ShadeDarkGray, ShadeLightGray, ShadeWhite}

func shadeOf(colorID uint8) Shade {
	return shades[colorID&0x3]
}

// FrameBuffer is a flat RGBA8888 pixel grid, one DMG frame wide by tall.
type FrameBuffer struct {
	Pixels [FramebufferSize]uint32
}

func (fb *FrameBuffer) set(x, y int, shade Shade) {
	fb.Pixels[y*FramebufferWidth+x] = uint32(shade)
}

// Display receives a completed frame once per VBlank. The PPU is a
// push source: it never blocks waiting for a consumer, so Present must
// not block either (render.TerminalDisplay copies into its own buffer
// and returns).
type Display interface {
	Present(fb *FrameBuffer)
}

// NullDisplay discards frames; used in headless mode.
type NullDisplay struct{}

func (NullDisplay) Present(*FrameBuffer) {}
