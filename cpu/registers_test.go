package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteRegisterRoundTrip(t *testing.T) {
	r := NewRegisters()
	for v := 0; v <= 0xFF; v++ {
		r.A.Set(uint8(v))
		assert.Equal(t, uint8(v), r.A.Get())
	}
}

func TestPairRegisterRoundTrip(t *testing.T) {
	r := NewRegisters()
	for _, v := range []uint16{0x0000, 0x1234, 0xABCD, 0xFFFF} {
		r.HL().Set(v)
		assert.Equal(t, v, r.HL().Get())
		assert.Equal(t, uint8(v>>8), r.H.Get())
		assert.Equal(t, uint8(v), r.L.Get())
	}
}

func TestFlagsLowNibbleAlwaysZero(t *testing.T) {
	r := NewRegisters()
	r.SetF(0xFF)
	assert.Equal(t, uint8(0xF0), r.F.Get())

	for _, f := range []Flag{FlagZ, FlagN, FlagH, FlagC} {
		r.SetF(0)
		r.SetFlag(f, true)
		assert.True(t, r.Flag(f))
		assert.Zero(t, r.F.Get()&0x0F)
	}
}

func TestInitialPowerOnState(t *testing.T) {
	r := NewRegisters()
	assert.Equal(t, uint8(0x00), r.A.Get())
	assert.Equal(t, uint8(0xB0), r.F.Get())
	assert.Equal(t, uint8(0x13), r.C.Get())
	assert.Equal(t, uint8(0xD8), r.E.Get())
	assert.Equal(t, uint8(0x01), r.H.Get())
	assert.Equal(t, uint8(0x4D), r.L.Get())
	assert.Equal(t, uint16(0x0100), r.PC.Get())
	assert.Equal(t, uint16(0xFFFE), r.SP.Get())
}

func TestWordWraparound(t *testing.T) {
	r := NewRegisters()
	r.HL().Set(0xFFFF)
	r.HL().Incr()
	assert.Equal(t, uint16(0x0000), r.HL().Get())

	r.HL().Set(0x0000)
	r.HL().Decr()
	assert.Equal(t, uint16(0xFFFF), r.HL().Get())
}
