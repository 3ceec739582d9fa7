// Package cpu implements the Sharp LR35902 instruction set: register
// file, fetch/decode/execute, and the primary + CB-prefixed opcode
// tables.
package cpu

import (
	"fmt"

	"github.com/halvard/dmgcore/bit"
)

// Bus is the subset of the memory bus the CPU needs to fetch, execute,
// and touch the stack. Kept minimal and owned by the caller to avoid a
// cpu -> memory import cycle (memory.Bus satisfies it).
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// RunState is the CPU's execution mode.
type RunState int

const (
	Run RunState = iota
	Halt
	Stop
	Quit
)

func (s RunState) String() string {
	switch s {
	case Run:
		return "RUN"
	case Halt:
		return "HALT"
	case Stop:
		return "STOP"
	case Quit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}

// UnimplementedOpcodeError is fatal per spec.md §7: the CPU never
// silently skips an opcode it does not recognize.
type UnimplementedOpcodeError struct {
	PC     uint16
	Opcode uint8
	CB     bool
}

func (e *UnimplementedOpcodeError) Error() string {
	if e.CB {
		return fmt.Sprintf("unimplemented CB opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("unimplemented opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// CPU holds the Sharp LR35902 register file and drives fetch/decode/execute.
type CPU struct {
	Reg   *Registers
	bus   Bus
	state RunState

	cycles int // machine cycles consumed by the instruction just executed

	currentOpcode uint8

	// IME latch is managed here, but ownership of when it takes effect
	// (the interrupt controller's delayed-commit) lives in the interrupt
	// package; the CPU only exposes immediate get/set used by DI/RETI
	// and by the interrupt controller's Dispatcher methods.
	ime bool

	// eiRequested is set by the EI opcode and consumed by the caller
	// driving Step (the orchestrator), which forwards it to the
	// interrupt controller's delayed-enable countdown. EI's own Step
	// call never touches ime directly.
	eiRequested bool
}

// New returns a freshly power-on CPU wired to bus.
func New(bus Bus) *CPU {
	return &CPU{
		Reg:   NewRegisters(),
		bus:   bus,
		state: Run,
	}
}

func (c *CPU) State() RunState     { return c.state }
func (c *CPU) SetState(s RunState) { c.state = s }

func (c *CPU) GetPC() uint16    { return c.Reg.PC.Get() }
func (c *CPU) SetPC(pc uint16)  { c.Reg.PC.Set(pc) }

// IME reports the master interrupt-enable latch as the CPU currently
// sees it (DI and RETI write here immediately; EI only raises a request,
// and its one-instruction delay is modeled by the interrupt package).
func (c *CPU) IME() bool        { return c.ime }
func (c *CPU) SetIME(v bool)    { c.ime = v }

// ConsumeEIRequest reports and clears whether the instruction just
// executed by Step was EI. The caller driving the fetch/execute loop
// forwards a true result to the interrupt controller's ScheduleEnable
// so IME flips after the correct number of instructions.
func (c *CPU) ConsumeEIRequest() bool {
	v := c.eiRequested
	c.eiRequested = false
	return v
}

// --- interrupt.Dispatcher methods ---
//
// The interrupt controller needs to "push PC and jump" without holding a
// back-reference into CPU internals (spec.md §9's cyclic-reference note).
// PushReturnAddress, JumpTo and Wake below, together with IME/SetIME
// above, are the entire surface it uses.

// PushReturnAddress pushes the current PC onto the stack, high byte
// first with SP predecremented twice, matching a CALL's stack effect.
func (c *CPU) PushReturnAddress() {
	c.pushStack(c.Reg.PC.Get())
}

// JumpTo sets PC directly, used for the interrupt vector.
func (c *CPU) JumpTo(target uint16) {
	c.Reg.PC.Set(target)
}

// Wake forces the CPU out of HALT back into RUN.
func (c *CPU) Wake() {
	if c.state == Halt {
		c.state = Run
	}
}

// Step fetches, decodes, and executes a single instruction (or, while
// halted/stopped, burns one cycle without fetching), returning the
// number of machine cycles consumed. It never silently skips an
// unrecognized opcode: it returns an *UnimplementedOpcodeError and sets
// state to Quit instead.
func (c *CPU) Step() (int, error) {
	switch c.state {
	case Quit:
		return 0, nil
	case Halt, Stop:
		c.cycles = 1
		return c.cycles, nil
	}

	opcode := c.fetch()
	c.currentOpcode = opcode

	if opcode == 0xCB {
		cbOpcode := c.fetch()
		fn := cbTable[cbOpcode]
		if fn == nil {
			c.state = Quit
			return 0, &UnimplementedOpcodeError{PC: c.Reg.PC.Get() - 2, Opcode: cbOpcode, CB: true}
		}
		c.cycles = fn(c)
		return c.cycles, nil
	}

	fn := primaryTable[opcode]
	if fn == nil {
		c.state = Quit
		return 0, &UnimplementedOpcodeError{PC: c.Reg.PC.Get() - 1, Opcode: opcode}
	}

	c.cycles = fn(c)
	return c.cycles, nil
}

func (c *CPU) fetch() uint8 {
	pc := c.Reg.PC.Get()
	value := c.bus.Read(pc)
	c.Reg.PC.Set(pc + 1)
	return value
}

func (c *CPU) readImmediate() uint8 {
	return c.fetch()
}

func (c *CPU) readImmediateSigned() int8 {
	return int8(c.fetch())
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.fetch()
	high := c.fetch()
	return bit.Combine(high, low)
}

func (c *CPU) pushStack(value uint16) {
	sp := c.Reg.SP.Get() - 1
	c.bus.Write(sp, bit.High(value))
	sp--
	c.bus.Write(sp, bit.Low(value))
	c.Reg.SP.Set(sp)
}

func (c *CPU) popStack() uint16 {
	sp := c.Reg.SP.Get()
	low := c.bus.Read(sp)
	sp++
	high := c.bus.Read(sp)
	sp++
	c.Reg.SP.Set(sp)
	return bit.Combine(high, low)
}
