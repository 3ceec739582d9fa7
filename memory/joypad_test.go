package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoSelectionReadsAllReleased(t *testing.T) {
	j := NewJoypad()
	j.Write(0x30) // neither group selected
	assert.Equal(t, uint8(0xFF), j.Read())
}

func TestDpadSelectionExposesOnlyDpadNibble(t *testing.T) {
	j := NewJoypad()
	j.Press(JoypadUp)
	j.Press(JoypadA) // buttons nibble must stay hidden
	j.Write(0x20)    // bit4=0 selects dpad

	got := j.Read()
	assert.Zero(t, got&0x04)    // up bit clear (pressed)
	assert.NotZero(t, got&0x01) // right still released
}

func TestButtonSelectionExposesOnlyButtonsNibble(t *testing.T) {
	j := NewJoypad()
	j.Press(JoypadUp)
	j.Press(JoypadA)
	j.Write(0x10) // bit5=0 selects buttons

	got := j.Read()
	assert.Zero(t, got&0x01)  // A bit clear (pressed)
	assert.NotZero(t, got&0x04) // up press must not leak into buttons nibble
}

func TestPressReturnsTrueOnlyOnTransition(t *testing.T) {
	j := NewJoypad()
	assert.True(t, j.Press(JoypadStart))
	assert.False(t, j.Press(JoypadStart))
}

func TestReleaseClearsPressedBit(t *testing.T) {
	j := NewJoypad()
	j.Press(JoypadB)
	j.Release(JoypadB)
	j.Write(0x10)
	assert.NotZero(t, j.Read()&0x02)
}
