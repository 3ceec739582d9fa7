package cpu

import "github.com/halvard/dmgcore/bit"

// Register8 is an 8-bit CPU register.
type Register8 uint8

func (r Register8) Get() uint8 { return uint8(r) }

func (r *Register8) Set(value uint8) { *r = Register8(value) }

func (r *Register8) Incr() { *r = Register8(r.Get() + 1) }

func (r *Register8) Decr() { *r = Register8(r.Get() - 1) }

// Register16 is a 16-bit register formed from two Register8 views, high
// byte first (B is high in BC, D is high in DE, H is high in HL, A is
// high in AF).
type Register16 struct {
	high *Register8
	low  *Register8
}

func (r Register16) Get() uint16 {
	return bit.Combine(r.high.Get(), r.low.Get())
}

func (r Register16) Set(value uint16) {
	r.high.Set(bit.High(value))
	r.low.Set(bit.Low(value))
}

func (r Register16) Incr() { r.Set(r.Get() + 1) }

func (r Register16) Decr() { r.Set(r.Get() - 1) }

// Flag identifies one of the four bits exposed by the F register.
type Flag uint8

const (
	FlagZ Flag = 0x80
	FlagN Flag = 0x40
	FlagH Flag = 0x20
	FlagC Flag = 0x10
)

// Registers holds the eight 8-bit Game Boy registers and the two
// standalone 16-bit registers (PC, SP). AF/BC/DE/HL are exposed as
// Register16 views over the underlying bytes. SetF, SetFlag and POP AF
// keep F's low nibble zero; a direct F.Set or AF().Set stores the value
// unmasked.
type Registers struct {
	A, F Register8
	B, C Register8
	D, E Register8
	H, L Register8
	SP   Register16word
	PC   Register16word
}

// Register16word is a standalone 16-bit register (not a pair view),
// used for SP and PC which have no addressable byte halves of their own.
type Register16word uint16

func (r Register16word) Get() uint16     { return uint16(r) }
func (r *Register16word) Set(v uint16)   { *r = Register16word(v) }
func (r *Register16word) Incr()          { *r = Register16word(uint16(*r) + 1) }
func (r *Register16word) Decr()          { *r = Register16word(uint16(*r) - 1) }
func (r *Register16word) Add(delta int8) { *r = Register16word(uint16(int32(*r) + int32(delta))) }

// NewRegisters returns the power-up register state (DMG boot ROM
// post-state, per spec.md §3).
func NewRegisters() *Registers {
	r := &Registers{}
	r.A.Set(0x00)
	r.F.Set(0xB0)
	r.B.Set(0x00)
	r.C.Set(0x13)
	r.D.Set(0x00)
	r.E.Set(0xD8)
	r.H.Set(0x01)
	r.L.Set(0x4D)
	r.PC.Set(0x0100)
	r.SP.Set(0xFFFE)
	return r
}

func (r *Registers) AF() Register16 { return Register16{high: &r.A, low: &r.F} }
func (r *Registers) BC() Register16 { return Register16{high: &r.B, low: &r.C} }
func (r *Registers) DE() Register16 { return Register16{high: &r.D, low: &r.E} }
func (r *Registers) HL() Register16 { return Register16{high: &r.H, low: &r.L} }

// SetF writes the flag byte, masking the low nibble to zero (it never
// carries information on real hardware).
func (r *Registers) SetF(value uint8) {
	r.F.Set(value & 0xF0)
}

func (r *Registers) SetFlag(f Flag, set bool) {
	if set {
		r.F.Set(r.F.Get() | uint8(f))
	} else {
		r.F.Set(r.F.Get() &^ uint8(f))
	}
}

func (r *Registers) Flag(f Flag) bool {
	return r.F.Get()&uint8(f) != 0
}
