package memory

import "github.com/halvard/dmgcore/bit"

// JoypadKey identifies one of the eight DMG buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// Joypad tracks button state and reproduces the JOYP (P1, 0xFF00) select
// behavior: bits 4-5 choose which nibble of button state (directions or
// face buttons) is visible in bits 0-3. Unlike a model that ORs both
// nibbles into the same bits, only the selected nibble is ever exposed -
// selecting neither group, or both at once, yields released (1) on every
// line. A 0 bit means the button is pressed.
type Joypad struct {
	buttons uint8 // bit layout: A,B,Select,Start
	dpad    uint8 // bit layout: Right,Left,Up,Down
	select_ uint8 // raw bits 4-5 as last written
}

// NewJoypad returns a joypad with every button released.
func NewJoypad() *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F}
}

// Read returns the JOYP byte: bits 6-7 always 1, bits 4-5 the current
// selection, bits 0-3 the selected nibble (or all released if neither
// group, or both, is selected).
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.select_

	dpadSelected := !bit.IsSet(4, j.select_)
	buttonsSelected := !bit.IsSet(5, j.select_)

	switch {
	case dpadSelected && !buttonsSelected:
		result |= j.dpad
	case buttonsSelected && !dpadSelected:
		result |= j.buttons
	default:
		result |= 0x0F
	}
	return result
}

// Write stores the selection bits (4-5); bits 0-3 are read-only button
// state and cannot be written.
func (j *Joypad) Write(value uint8) {
	j.select_ = value & 0x30
}

// Press marks key as held. Returns true if this is a press transition
// (was released, now pressed), the caller uses this to decide whether to
// raise the Joypad interrupt.
func (j *Joypad) Press(key JoypadKey) bool {
	wasPressed := j.isSet(key)
	switch key {
	case JoypadRight:
		j.dpad = bit.Reset(0, j.dpad)
	case JoypadLeft:
		j.dpad = bit.Reset(1, j.dpad)
	case JoypadUp:
		j.dpad = bit.Reset(2, j.dpad)
	case JoypadDown:
		j.dpad = bit.Reset(3, j.dpad)
	case JoypadA:
		j.buttons = bit.Reset(0, j.buttons)
	case JoypadB:
		j.buttons = bit.Reset(1, j.buttons)
	case JoypadSelect:
		j.buttons = bit.Reset(2, j.buttons)
	case JoypadStart:
		j.buttons = bit.Reset(3, j.buttons)
	}
	return !wasPressed
}

// Release marks key as released.
func (j *Joypad) Release(key JoypadKey) {
	switch key {
	case JoypadRight:
		j.dpad = bit.Set(0, j.dpad)
	case JoypadLeft:
		j.dpad = bit.Set(1, j.dpad)
	case JoypadUp:
		j.dpad = bit.Set(2, j.dpad)
	case JoypadDown:
		j.dpad = bit.Set(3, j.dpad)
	case JoypadA:
		j.buttons = bit.Set(0, j.buttons)
	case JoypadB:
		j.buttons = bit.Set(1, j.buttons)
	case JoypadSelect:
		j.buttons = bit.Set(2, j.buttons)
	case JoypadStart:
		j.buttons = bit.Set(3, j.buttons)
	}
}

func (j *Joypad) isSet(key JoypadKey) bool {
	switch key {
	case JoypadRight:
		return !bit.IsSet(0, j.dpad)
	case JoypadLeft:
		return !bit.IsSet(1, j.dpad)
	case JoypadUp:
		return !bit.IsSet(2, j.dpad)
	case JoypadDown:
		return !bit.IsSet(3, j.dpad)
	case JoypadA:
		return !bit.IsSet(0, j.buttons)
	case JoypadB:
		return !bit.IsSet(1, j.buttons)
	case JoypadSelect:
		return !bit.IsSet(2, j.buttons)
	case JoypadStart:
		return !bit.IsSet(3, j.buttons)
	default:
		return false
	}
}
