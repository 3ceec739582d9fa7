// Package interrupt implements the DMG interrupt controller: the IF/IE
// latches, the IME master-enable flag with its one-instruction EI
// delay, and priority-ordered dispatch.
package interrupt

import "github.com/halvard/dmgcore/addr"

// Dispatcher is the CPU-facing surface this controller drives. It
// avoids an interrupt -> cpu import cycle: cpu.CPU satisfies it without
// this package ever importing cpu.
type Dispatcher interface {
	PushReturnAddress()
	JumpTo(vector uint16)
	Wake()
	IME() bool
	SetIME(bool)
}

// DispatchCycles is the machine-cycle cost of servicing an interrupt,
// in the same small per-instruction unit CPU.Step returns.
const DispatchCycles = 5

// Controller owns the IF/IE latches and the IME delay state machine.
// IF/IE are modeled here rather than inside the memory bus so that
// priority dispatch and the EI delay live in one place; the bus's I/O
// dispatch table forwards reads/writes of 0xFF0F and 0xFFFF here.
type Controller struct {
	flags  uint8 // IF, bits 0-4 used
	enable uint8 // IE, bits 0-4 used

	// imeCountdown models EI's one-instruction delay. ScheduleEnable is
	// called right after CPU.Step executed EI; at that point the
	// instruction immediately following EI has not run yet, so IME must
	// stay false through the Update call that precedes it and only flip
	// on the Update call after that — hence counting down from 2, not 1.
	imeCountdown int
}

// New returns a controller with interrupts disabled and no lines raised,
// matching power-on state.
func New() *Controller {
	return &Controller{}
}

// Request raises the IF bit for source. Multiple sources can be pending
// at once; priority is resolved at dispatch time.
func (c *Controller) Request(source addr.Interrupt) {
	c.flags |= 1 << source.Bit()
}

// ReadIF/WriteIF/ReadIE/WriteIE back the two memory-mapped registers.
// The top three bits of IF always read back as 1 on real hardware.
func (c *Controller) ReadIF() uint8         { return c.flags | 0xE0 }
func (c *Controller) WriteIF(value uint8)   { c.flags = value & 0x1F }
func (c *Controller) ReadIE() uint8         { return c.enable }
func (c *Controller) WriteIE(value uint8)   { c.enable = value & 0x1F }

// pending returns the lowest-priority-number source that is both
// requested and enabled, or false if none is.
func (c *Controller) pending() (addr.Interrupt, bool) {
	active := c.flags & c.enable & 0x1F
	if active == 0 {
		return 0, false
	}
	for _, source := range []addr.Interrupt{addr.VBlank, addr.LCDStat, addr.Timer, addr.Serial, addr.Joypad} {
		if active&(1<<source.Bit()) != 0 {
			return source, true
		}
	}
	return 0, false
}

// HasPending reports whether any enabled source is currently latched,
// regardless of IME — used to wake a halted CPU, which wakes on a
// pending interrupt even with IME cleared.
func (c *Controller) HasPending() bool {
	_, ok := c.pending()
	return ok
}

// Update commits a scheduled EI, wakes a halted CPU on any pending
// source, and if IME is set dispatches the highest-priority pending
// interrupt: it pushes the return address, clears IME, clears the
// serviced IF bit, and jumps to the vector. Returns the cycle cost of
// dispatch, or 0 if nothing was serviced this call.
func (c *Controller) Update(d Dispatcher) int {
	if c.imeCountdown > 0 {
		c.imeCountdown--
		if c.imeCountdown == 0 {
			d.SetIME(true)
		}
	}

	source, ok := c.pending()
	if !ok {
		return 0
	}

	d.Wake()

	if !d.IME() {
		return 0
	}

	d.SetIME(false)
	c.flags &^= 1 << source.Bit()
	d.PushReturnAddress()
	d.JumpTo(source.Vector())
	return DispatchCycles
}

// ScheduleEnable implements EI's one-instruction delay. DI has no
// counterpart here: it takes effect immediately and the CPU applies it
// to its own ime field directly.
func (c *Controller) ScheduleEnable() {
	c.imeCountdown = 2
}
