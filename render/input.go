package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/halvard/dmgcore/input"
)

// PumpInput polls the display's tcell screen for key and resize events
// until stop is closed or Escape is pressed. Arrow keys, Enter, Tab and
// the z/x rune keys are forwarded to input.Manager as press/release
// pairs; tcell reports key-down only, so a press is immediately
// followed by a release.
func PumpInput(display *TerminalDisplay, manager *input.Manager, stop <-chan struct{}) {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			events <- display.Screen().PollEvent()
		}
	}()

	for {
		select {
		case <-stop:
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape {
					return
				}
				if name, ok := keyName(ev); ok {
					manager.Press(name)
					manager.Release(name)
				}
			case *tcell.EventResize:
				display.Screen().Sync()
			}
		}
	}
}

// keyName maps a tcell key event onto the key names input.Manager's
// default bindings recognize.
func keyName(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return "Up", true
	case tcell.KeyDown:
		return "Down", true
	case tcell.KeyLeft:
		return "Left", true
	case tcell.KeyRight:
		return "Right", true
	case tcell.KeyEnter:
		return "Enter", true
	case tcell.KeyTab:
		// tcell doesn't report a standalone Shift key-down; Tab stands
		// in for it here, bound through input.Manager's "Shift" name.
		return "Shift", true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'z', 'Z':
			return "z", true
		case 'x', 'X':
			return "x", true
		}
	}
	return "", false
}
