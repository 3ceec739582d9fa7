package cpu

// CB-prefixed opcodes are fully regular: 8 rotate/shift ops and BIT/RES/SET
// over the same 3-bit register index used by the primary table's LD block.
func init() {
	shiftOps := [8]func(*CPU, uint8) uint8{
		(*CPU).rlc,
		(*CPU).rrc,
		(*CPU).rl,
		(*CPU).rr,
		(*CPU).sla,
		(*CPU).sra,
		(*CPU).swap,
		(*CPU).srl,
	}

	for op := uint8(0); op < 8; op++ {
		for reg := uint8(0); reg < 8; reg++ {
			op, reg := op, reg
			opcode := op<<3 + reg
			cbTable[opcode] = func(c *CPU) int {
				c.setRegAt(reg, shiftOps[op](c, c.regAt(reg)))
				if reg == 6 {
					return 4
				}
				return 2
			}
		}
	}

	for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
		for reg := uint8(0); reg < 8; reg++ {
			bitIdx, reg := bitIdx, reg

			bitOpcode := 0x40 + bitIdx<<3 + reg
			cbTable[bitOpcode] = func(c *CPU) int {
				c.bitTest(bitIdx, c.regAt(reg))
				if reg == 6 {
					return 3
				}
				return 2
			}

			resOpcode := 0x80 + bitIdx<<3 + reg
			cbTable[resOpcode] = func(c *CPU) int {
				c.setRegAt(reg, resetBit(bitIdx, c.regAt(reg)))
				if reg == 6 {
					return 4
				}
				return 2
			}

			setOpcode := 0xC0 + bitIdx<<3 + reg
			cbTable[setOpcode] = func(c *CPU) int {
				c.setRegAt(reg, setBit(bitIdx, c.regAt(reg)))
				if reg == 6 {
					return 4
				}
				return 2
			}
		}
	}
}
