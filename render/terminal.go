// Package render provides a terminal-based video.Display backed by
// tcell, plus an input pump that turns key events into joypad presses.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/halvard/dmgcore/video"
)

const (
	// Each framebuffer pixel becomes scaleX characters wide by scaleY
	// tall; terminal cells are taller than wide, so we widen more than
	// we heighten to keep the aspect ratio close to the real screen.
	scaleX = 2
	scaleY = 1
)

// shadeChars maps a 2-bit shade index (0=lightest..3=darkest) onto a
// gradient of block characters, lightest (a full block in the white
// foreground) first.
var shadeChars = []rune{'█', '▓', '▒', '░'}

// TerminalDisplay renders frames to a tcell screen. Present is called
// once per VBlank by the PPU and must not block; it copies nothing
// beyond the screen's own double buffer and returns immediately after
// drawing.
type TerminalDisplay struct {
	screen tcell.Screen
}

// NewTerminalDisplay initializes and opens a tcell screen.
func NewTerminalDisplay() (*TerminalDisplay, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("render: failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("render: failed to initialize terminal: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	screen.Clear()

	return &TerminalDisplay{screen: screen}, nil
}

// Close tears down the terminal, restoring the prior screen state.
func (t *TerminalDisplay) Close() {
	t.screen.Fini()
}

// Screen exposes the underlying tcell.Screen for event polling.
func (t *TerminalDisplay) Screen() tcell.Screen {
	return t.screen
}

// Present draws one framebuffer as scaled block characters and flips
// the screen.
func (t *TerminalDisplay) Present(fb *video.FrameBuffer) {
	t.screen.Clear()

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			pixel := fb.Pixels[y*video.FramebufferWidth+x]
			shade := shadeIndex(pixel)
			char := shadeChars[shade]

			screenX := x * scaleX
			screenY := y * scaleY
			for sx := 0; sx < scaleX; sx++ {
				t.screen.SetContent(screenX+sx, screenY, char, nil, style)
			}
		}
	}

	t.screen.Show()
}

// shadeIndex converts an RGBA8888 pixel (higher red channel = lighter)
// into a 0-3 shade index, lightest first, matching shadeChars.
func shadeIndex(pixel uint32) int {
	shade := 3 - int(pixel>>24)/64
	if shade < 0 {
		shade = 0
	}
	if shade > 3 {
		shade = 3
	}
	return shade
}
