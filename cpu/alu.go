package cpu

// Arithmetic/logic helpers shared by the ALU-on-A block (0x80-0xBF), the
// immediate ALU opcodes (0xC6/0xCE/0xD6/...), and the INC/DEC family.
//
// The half-carry and carry formulas here are the ones a real LR35902
// uses: half-carry looks only at bit 3 (8-bit ops) or bit 11 (16-bit
// ops), and subtraction borrows are computed on the low nibble/byte
// directly rather than via a signed compare.

func (c *CPU) add8(value uint8) {
	a := c.Reg.A.Get()
	sum := uint16(a) + uint16(value)
	c.Reg.SetFlag(FlagH, (a&0xF)+(value&0xF) > 0xF)
	c.Reg.SetFlag(FlagC, sum > 0xFF)
	c.Reg.A.Set(uint8(sum))
	c.Reg.SetFlag(FlagZ, c.Reg.A.Get() == 0)
	c.Reg.SetFlag(FlagN, false)
}

func (c *CPU) adc8(value uint8) {
	a := c.Reg.A.Get()
	carry := uint16(0)
	if c.Reg.Flag(FlagC) {
		carry = 1
	}
	sum := uint16(a) + uint16(value) + carry
	c.Reg.SetFlag(FlagH, (a&0xF)+(value&0xF)+uint8(carry) > 0xF)
	c.Reg.SetFlag(FlagC, sum > 0xFF)
	c.Reg.A.Set(uint8(sum))
	c.Reg.SetFlag(FlagZ, c.Reg.A.Get() == 0)
	c.Reg.SetFlag(FlagN, false)
}

func (c *CPU) sub8(value uint8) uint8 {
	a := c.Reg.A.Get()
	result := a - value
	c.Reg.SetFlag(FlagH, (a&0xF) < (value&0xF))
	c.Reg.SetFlag(FlagC, a < value)
	c.Reg.SetFlag(FlagZ, result == 0)
	c.Reg.SetFlag(FlagN, true)
	return result
}

func (c *CPU) sbc8(value uint8) {
	a := c.Reg.A.Get()
	carry := uint8(0)
	if c.Reg.Flag(FlagC) {
		carry = 1
	}
	result := a - value - carry
	borrowHalf := (a & 0xF) < (value&0xF)+carry
	borrowFull := uint16(a) < uint16(value)+uint16(carry)
	c.Reg.A.Set(result)
	c.Reg.SetFlag(FlagH, borrowHalf)
	c.Reg.SetFlag(FlagC, borrowFull)
	c.Reg.SetFlag(FlagZ, result == 0)
	c.Reg.SetFlag(FlagN, true)
}

func (c *CPU) and8(value uint8) {
	c.Reg.A.Set(c.Reg.A.Get() & value)
	c.Reg.SetFlag(FlagZ, c.Reg.A.Get() == 0)
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, true)
	c.Reg.SetFlag(FlagC, false)
}

func (c *CPU) or8(value uint8) {
	c.Reg.A.Set(c.Reg.A.Get() | value)
	c.Reg.SetFlag(FlagZ, c.Reg.A.Get() == 0)
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, false)
	c.Reg.SetFlag(FlagC, false)
}

func (c *CPU) xor8(value uint8) {
	c.Reg.A.Set(c.Reg.A.Get() ^ value)
	c.Reg.SetFlag(FlagZ, c.Reg.A.Get() == 0)
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, false)
	c.Reg.SetFlag(FlagC, false)
}

// cp8 compares without storing; the zero flag is computed on the full
// 8-bit subtraction result, not on a value that got truncated earlier.
func (c *CPU) cp8(value uint8) {
	a := c.Reg.A.Get()
	result := a - value
	c.Reg.SetFlag(FlagH, (a&0xF) < (value&0xF))
	c.Reg.SetFlag(FlagC, a < value)
	c.Reg.SetFlag(FlagZ, result == 0)
	c.Reg.SetFlag(FlagN, true)
}

func (c *CPU) inc8(value uint8) uint8 {
	result := value + 1
	c.Reg.SetFlag(FlagH, (value&0xF)+1 > 0xF)
	c.Reg.SetFlag(FlagZ, result == 0)
	c.Reg.SetFlag(FlagN, false)
	return result
}

func (c *CPU) dec8(value uint8) uint8 {
	result := value - 1
	c.Reg.SetFlag(FlagH, value&0xF == 0)
	c.Reg.SetFlag(FlagZ, result == 0)
	c.Reg.SetFlag(FlagN, true)
	return result
}

// addHL16 implements ADD HL,rr: it touches H/C/N but never Z.
func (c *CPU) addHL16(value uint16) {
	hl := c.Reg.HL().Get()
	sum := uint32(hl) + uint32(value)
	c.Reg.SetFlag(FlagH, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.Reg.SetFlag(FlagC, sum > 0xFFFF)
	c.Reg.HL().Set(uint16(sum % 0x10000))
	c.Reg.SetFlag(FlagN, false)
}

// addSPSigned implements both ADD SP,e and LD HL,SP+e: the flags are
// computed on the low byte of SP as if it were an 8-bit add, regardless
// of the sign of the displacement.
func (c *CPU) addSPSigned(e int8) uint16 {
	sp := c.Reg.SP.Get()
	offset := int32(e)
	result := uint16(int32(sp) + offset)
	c.Reg.SetFlag(FlagH, (sp&0xF)+(uint16(uint8(e))&0xF) > 0xF)
	c.Reg.SetFlag(FlagC, (sp&0xFF)+uint16(uint8(e)) > 0xFF)
	c.Reg.SetFlag(FlagZ, false)
	c.Reg.SetFlag(FlagN, false)
	return result
}

func (c *CPU) rlc(value uint8) uint8 {
	carry := value>>7 == 1
	result := value<<1 | value>>7
	c.setRotateFlags(result, carry)
	return result
}

func (c *CPU) rrc(value uint8) uint8 {
	carry := value&0x1 == 1
	result := value>>1 | value<<7
	c.setRotateFlags(result, carry)
	return result
}

func (c *CPU) rl(value uint8) uint8 {
	oldCarry := uint8(0)
	if c.Reg.Flag(FlagC) {
		oldCarry = 1
	}
	carry := value>>7 == 1
	result := value<<1 | oldCarry
	c.setRotateFlags(result, carry)
	return result
}

func (c *CPU) rr(value uint8) uint8 {
	oldCarry := uint8(0)
	if c.Reg.Flag(FlagC) {
		oldCarry = 1
	}
	carry := value&0x1 == 1
	result := value>>1 | oldCarry<<7
	c.setRotateFlags(result, carry)
	return result
}

// setRotateFlags is used by RLC/RRC/RL/RR, which set Z from the result
// (unlike the dedicated RLCA/RRCA/RLA/RRA accumulator opcodes, which
// per the official opcode table always clear Z).
func (c *CPU) setRotateFlags(result uint8, carry bool) {
	c.Reg.SetFlag(FlagZ, result == 0)
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, false)
	c.Reg.SetFlag(FlagC, carry)
}

func (c *CPU) sla(value uint8) uint8 {
	carry := value>>7 == 1
	result := value << 1
	c.setRotateFlags(result, carry)
	return result
}

func (c *CPU) sra(value uint8) uint8 {
	carry := value&0x1 == 1
	result := value>>1 | value&0x80
	c.setRotateFlags(result, carry)
	return result
}

func (c *CPU) srl(value uint8) uint8 {
	carry := value&0x1 == 1
	result := value >> 1
	c.setRotateFlags(result, carry)
	return result
}

// swap exchanges the nibbles, recombining the two shifted halves with
// OR; each shift leaves zeros where the other half lands, so no stale
// bits carry forward.
func (c *CPU) swap(value uint8) uint8 {
	result := value<<4 | value>>4
	c.Reg.SetFlag(FlagZ, result == 0)
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, false)
	c.Reg.SetFlag(FlagC, false)
	return result
}

func (c *CPU) bitTest(index, value uint8) {
	set := value>>index&1 == 1
	c.Reg.SetFlag(FlagZ, !set)
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, true)
}

func resetBit(index, value uint8) uint8 {
	return value &^ (1 << index)
}

func setBit(index, value uint8) uint8 {
	return value | 1<<index
}

// daa adjusts A back to packed BCD after an 8-bit ADD/ADC/SUB/SBC,
// following N/H/C from the previous op.
func (c *CPU) daa() {
	a := c.Reg.A.Get()
	adjust := uint8(0)
	carry := false

	if c.Reg.Flag(FlagH) || (!c.Reg.Flag(FlagN) && a&0xF > 9) {
		adjust |= 0x6
	}
	if c.Reg.Flag(FlagC) || (!c.Reg.Flag(FlagN) && a > 0x99) {
		adjust |= 0x60
		carry = true
	}

	if c.Reg.Flag(FlagN) {
		a -= adjust
	} else {
		a += adjust
	}

	c.Reg.A.Set(a)
	c.Reg.SetFlag(FlagZ, a == 0)
	c.Reg.SetFlag(FlagH, false)
	c.Reg.SetFlag(FlagC, carry)
}
