package cpu

import "github.com/halvard/dmgcore/bit"

// primaryTable and cbTable are built once in init rather than hand
// written per opcode: the repetitive blocks (LD r,r', the ALU-on-A
// block, 16-bit INC/DEC/ADD, conditional branches) are generated by
// looping over the 3-bit/2-bit register and condition indices decoded
// in regindex.go, and only the opcodes with no shared shape get their
// own named function below.
var primaryTable [256]func(*CPU) int
var cbTable [256]func(*CPU) int

func (c *CPU) condition(cc uint8) bool {
	switch cc & 0x3 {
	case 0:
		return !c.Reg.Flag(FlagZ)
	case 1:
		return c.Reg.Flag(FlagZ)
	case 2:
		return !c.Reg.Flag(FlagC)
	default:
		return c.Reg.Flag(FlagC)
	}
}

func opNOP(c *CPU) int { return 1 }

func opStop(c *CPU) int {
	c.readImmediate() // STOP is followed by an ignored byte on DMG
	c.state = Stop
	return 1
}

func opHalt(c *CPU) int {
	if c.ime {
		c.state = Halt
	}
	return 1
}

func opDI(c *CPU) int { c.ime = false; return 1 }

// opEI only flags the request; the interrupt controller applies it
// after the following instruction has executed.
func opEI(c *CPU) int { c.eiRequested = true; return 1 }

func opRLCA(c *CPU) int {
	c.Reg.A.Set(c.rlc(c.Reg.A.Get()))
	c.Reg.SetFlag(FlagZ, false)
	return 1
}

func opRRCA(c *CPU) int {
	c.Reg.A.Set(c.rrc(c.Reg.A.Get()))
	c.Reg.SetFlag(FlagZ, false)
	return 1
}

func opRLA(c *CPU) int {
	c.Reg.A.Set(c.rl(c.Reg.A.Get()))
	c.Reg.SetFlag(FlagZ, false)
	return 1
}

func opRRA(c *CPU) int {
	c.Reg.A.Set(c.rr(c.Reg.A.Get()))
	c.Reg.SetFlag(FlagZ, false)
	return 1
}

func opDAA(c *CPU) int { c.daa(); return 1 }

func opCPL(c *CPU) int {
	c.Reg.A.Set(^c.Reg.A.Get())
	c.Reg.SetFlag(FlagN, true)
	c.Reg.SetFlag(FlagH, true)
	return 1
}

func opSCF(c *CPU) int {
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, false)
	c.Reg.SetFlag(FlagC, true)
	return 1
}

func opCCF(c *CPU) int {
	c.Reg.SetFlag(FlagN, false)
	c.Reg.SetFlag(FlagH, false)
	c.Reg.SetFlag(FlagC, !c.Reg.Flag(FlagC))
	return 1
}

func opJR(c *CPU) int {
	offset := c.readImmediateSigned()
	c.Reg.PC.Add(offset)
	return 3
}

func opJP(c *CPU) int {
	target := c.readImmediateWord()
	c.Reg.PC.Set(target)
	return 4
}

func opJPHL(c *CPU) int {
	c.Reg.PC.Set(c.Reg.HL().Get())
	return 1
}

func opCALL(c *CPU) int {
	target := c.readImmediateWord()
	c.pushStack(c.Reg.PC.Get())
	c.Reg.PC.Set(target)
	return 6
}

func opRET(c *CPU) int {
	c.Reg.PC.Set(c.popStack())
	return 4
}

func opRETI(c *CPU) int {
	c.Reg.PC.Set(c.popStack())
	c.ime = true
	return 4
}

func opLDSPnnAddr(c *CPU) int {
	addr := c.readImmediateWord()
	sp := c.Reg.SP.Get()
	c.bus.Write(addr, bit.Low(sp))
	c.bus.Write(addr+1, bit.High(sp))
	return 5
}

func opLDHLA(c *CPU) int { // LD (HL+),A
	c.bus.Write(c.Reg.HL().Get(), c.Reg.A.Get())
	c.Reg.HL().Incr()
	return 2
}

func opLDAHLInc(c *CPU) int { // LD A,(HL+)
	c.Reg.A.Set(c.bus.Read(c.Reg.HL().Get()))
	c.Reg.HL().Incr()
	return 2
}

func opLDHLDec(c *CPU) int { // LD (HL-),A
	c.bus.Write(c.Reg.HL().Get(), c.Reg.A.Get())
	c.Reg.HL().Decr()
	return 2
}

func opLDAHLDec(c *CPU) int { // LD A,(HL-)
	c.Reg.A.Set(c.bus.Read(c.Reg.HL().Get()))
	c.Reg.HL().Decr()
	return 2
}

func opLDBCAddrA(c *CPU) int {
	c.bus.Write(c.Reg.BC().Get(), c.Reg.A.Get())
	return 2
}

func opLDDEAddrA(c *CPU) int {
	c.bus.Write(c.Reg.DE().Get(), c.Reg.A.Get())
	return 2
}

func opLDABCAddr(c *CPU) int {
	c.Reg.A.Set(c.bus.Read(c.Reg.BC().Get()))
	return 2
}

func opLDADEAddr(c *CPU) int {
	c.Reg.A.Set(c.bus.Read(c.Reg.DE().Get()))
	return 2
}

func opLDHnA(c *CPU) int { // LDH (n),A
	offset := c.readImmediate()
	c.bus.Write(0xFF00+uint16(offset), c.Reg.A.Get())
	return 3
}

func opLDHAn(c *CPU) int { // LDH A,(n)
	offset := c.readImmediate()
	c.Reg.A.Set(c.bus.Read(0xFF00 + uint16(offset)))
	return 3
}

func opLDCAddrA(c *CPU) int { // LD (C),A
	c.bus.Write(0xFF00+uint16(c.Reg.C.Get()), c.Reg.A.Get())
	return 2
}

func opLDACAddr(c *CPU) int { // LD A,(C)
	c.Reg.A.Set(c.bus.Read(0xFF00 + uint16(c.Reg.C.Get())))
	return 2
}

func opLDnnAddrA(c *CPU) int {
	addr := c.readImmediateWord()
	c.bus.Write(addr, c.Reg.A.Get())
	return 4
}

func opLDAnnAddr(c *CPU) int {
	addr := c.readImmediateWord()
	c.Reg.A.Set(c.bus.Read(addr))
	return 4
}

func opLDSPHL(c *CPU) int {
	c.Reg.SP.Set(c.Reg.HL().Get())
	return 2
}

func opADDSPe(c *CPU) int {
	e := c.readImmediateSigned()
	c.Reg.SP.Set(c.addSPSigned(e))
	return 4
}

func opLDHLSPe(c *CPU) int {
	e := c.readImmediateSigned()
	c.Reg.HL().Set(c.addSPSigned(e))
	return 3
}

func init() {
	primaryTable[0x00] = opNOP
	primaryTable[0x10] = opStop
	primaryTable[0x76] = opHalt
	primaryTable[0xF3] = opDI
	primaryTable[0xFB] = opEI

	primaryTable[0x07] = opRLCA
	primaryTable[0x0F] = opRRCA
	primaryTable[0x17] = opRLA
	primaryTable[0x1F] = opRRA
	primaryTable[0x27] = opDAA
	primaryTable[0x2F] = opCPL
	primaryTable[0x37] = opSCF
	primaryTable[0x3F] = opCCF

	primaryTable[0x18] = opJR
	primaryTable[0xC3] = opJP
	primaryTable[0xE9] = opJPHL
	primaryTable[0xCD] = opCALL
	primaryTable[0xC9] = opRET
	primaryTable[0xD9] = opRETI

	primaryTable[0x08] = opLDSPnnAddr
	primaryTable[0x22] = opLDHLA
	primaryTable[0x2A] = opLDAHLInc
	primaryTable[0x32] = opLDHLDec
	primaryTable[0x3A] = opLDAHLDec
	primaryTable[0x02] = opLDBCAddrA
	primaryTable[0x12] = opLDDEAddrA
	primaryTable[0x0A] = opLDABCAddr
	primaryTable[0x1A] = opLDADEAddr
	primaryTable[0xE0] = opLDHnA
	primaryTable[0xF0] = opLDHAn
	primaryTable[0xE2] = opLDCAddrA
	primaryTable[0xF2] = opLDACAddr
	primaryTable[0xEA] = opLDnnAddrA
	primaryTable[0xFA] = opLDAnnAddr
	primaryTable[0xF9] = opLDSPHL
	primaryTable[0xE8] = opADDSPe
	primaryTable[0xF8] = opLDHLSPe

	for cc := uint8(0); cc < 4; cc++ {
		cc := cc
		primaryTable[0x20+cc<<3] = func(c *CPU) int {
			offset := c.readImmediateSigned()
			if c.condition(cc) {
				c.Reg.PC.Add(offset)
				return 3
			}
			return 2
		}
		primaryTable[0xC2+cc<<3] = func(c *CPU) int {
			target := c.readImmediateWord()
			if c.condition(cc) {
				c.Reg.PC.Set(target)
				return 4
			}
			return 3
		}
		primaryTable[0xC4+cc<<3] = func(c *CPU) int {
			target := c.readImmediateWord()
			if c.condition(cc) {
				c.pushStack(c.Reg.PC.Get())
				c.Reg.PC.Set(target)
				return 6
			}
			return 3
		}
		primaryTable[0xC0+cc<<3] = func(c *CPU) int {
			if c.condition(cc) {
				c.Reg.PC.Set(c.popStack())
				return 5
			}
			return 2
		}
	}

	for i := uint8(0); i < 4; i++ {
		i := i
		primaryTable[0x01+i<<4] = func(c *CPU) int {
			c.setWideRegAt(i, c.readImmediateWord())
			return 3
		}
		primaryTable[0x03+i<<4] = func(c *CPU) int {
			c.setWideRegAt(i, c.wideRegAt(i)+1)
			return 2
		}
		primaryTable[0x0B+i<<4] = func(c *CPU) int {
			c.setWideRegAt(i, c.wideRegAt(i)-1)
			return 2
		}
		primaryTable[0x09+i<<4] = func(c *CPU) int {
			c.addHL16(c.wideRegAt(i))
			return 2
		}
		primaryTable[0xC1+i<<4] = func(c *CPU) int {
			c.setStackRegAt(i, c.popStack())
			return 3
		}
		primaryTable[0xC5+i<<4] = func(c *CPU) int {
			c.pushStack(c.stackRegAt(i))
			return 4
		}
	}

	for r := uint8(0); r < 8; r++ {
		r := r
		primaryTable[0x04+r<<3] = func(c *CPU) int {
			c.setRegAt(r, c.inc8(c.regAt(r)))
			if r == 6 {
				return 3
			}
			return 1
		}
		primaryTable[0x05+r<<3] = func(c *CPU) int {
			c.setRegAt(r, c.dec8(c.regAt(r)))
			if r == 6 {
				return 3
			}
			return 1
		}
		primaryTable[0x06+r<<3] = func(c *CPU) int {
			c.setRegAt(r, c.readImmediate())
			if r == 6 {
				return 3
			}
			return 2
		}
		rst := r
		primaryTable[0xC7+rst<<3] = func(c *CPU) int {
			c.pushStack(c.Reg.PC.Get())
			c.Reg.PC.Set(uint16(rst) * 8)
			return 4
		}
	}

	// LD r,r' block, 0x40-0x7F (0x76 is HALT and overwritten above).
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			dst, src := dst, src
			opcode := 0x40 + dst<<3 + src
			if opcode == 0x76 {
				continue
			}
			primaryTable[opcode] = func(c *CPU) int {
				c.setRegAt(dst, c.regAt(src))
				if dst == 6 || src == 6 {
					return 2
				}
				return 1
			}
		}
	}

	aluOps := [8]func(*CPU, uint8){
		(*CPU).add8,
		(*CPU).adc8,
		func(c *CPU, v uint8) { c.Reg.A.Set(c.sub8(v)) },
		(*CPU).sbc8,
		(*CPU).and8,
		(*CPU).xor8,
		(*CPU).or8,
		(*CPU).cp8,
	}
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			op, src := op, src
			opcode := 0x80 + op<<3 + src
			primaryTable[opcode] = func(c *CPU) int {
				aluOps[op](c, c.regAt(src))
				if src == 6 {
					return 2
				}
				return 1
			}
		}
		op := op
		primaryTable[0xC6+op<<3] = func(c *CPU) int {
			aluOps[op](c, c.readImmediate())
			return 2
		}
	}
}
