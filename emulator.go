// Package dmgcore wires the CPU, interrupt controller, timer, and PPU
// into a running emulator and exposes the debugger controls and ROM
// loading entry points a front-end drives.
package dmgcore

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/halvard/dmgcore/addr"
	"github.com/halvard/dmgcore/audio"
	"github.com/halvard/dmgcore/cpu"
	"github.com/halvard/dmgcore/debug"
	"github.com/halvard/dmgcore/interrupt"
	"github.com/halvard/dmgcore/memory"
	"github.com/halvard/dmgcore/serial"
	"github.com/halvard/dmgcore/timer"
	"github.com/halvard/dmgcore/video"
)

// cyclesPerFrame is the machine-cycle length of one 154-line DMG frame.
const cyclesPerFrame = 70224

// DebuggerState is the emulator's current run mode.
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStep
	DebuggerStepFrame
)

// DebugFlags controls the per-instruction logging the CLI's --debug
// flag turns on. HEADER/TITLE/MEMORY modes are one-shot and handled by
// the caller directly via Cartridge/Bus and the debug package's
// formatters, not here.
type DebugFlags struct {
	Instructions bool
	Registers    bool
}

// Emulator is the root struct tying every subsystem together and
// driving the fetch/decode/execute/interrupt/timer/video loop.
type Emulator struct {
	cpu        *cpu.CPU
	interrupts *interrupt.Controller
	timer      *timer.Timer
	gpu        *video.GPU
	bus        *memory.Bus
	cart       *memory.Cartridge

	debug DebugFlags

	debuggerState    DebuggerState
	debuggerMutex    sync.RWMutex
	stepRequested    bool
	frameRequested   bool
	instructionCount uint64
	frameCount       uint64
	cycleCount       uint64
}

// New builds an emulator around cartridge data, presenting frames to
// display (video.NullDisplay{} for headless operation).
func New(cartData []uint8, display video.Display, debug DebugFlags) (*Emulator, error) {
	e := &Emulator{debug: debug}

	e.interrupts = interrupt.New()
	e.timer = timer.New(func() { e.interrupts.Request(addr.Timer) })
	serialPort := serial.New(func() { e.interrupts.Request(addr.Serial) })
	apu := audio.New()

	e.bus = memory.New(e.interrupts, e.timer, serialPort, apu)

	e.cart = memory.NewCartridge(cartData)
	if err := e.bus.LoadCartridge(e.cart); err != nil {
		return nil, err
	}

	e.cpu = cpu.New(e.bus)
	e.gpu = video.New(e.bus, display, e.interrupts.Request)

	return e, nil
}

// NewWithFile reads a ROM image from path and builds an emulator
// around it.
func NewWithFile(path string, display video.Display, debug DebugFlags) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dmgcore: failed to read ROM: %w", err)
	}
	return New(data, display, debug)
}

// Cartridge returns the loaded cartridge's parsed header, for HEADER/
// TITLE debug modes.
func (e *Emulator) Cartridge() *memory.Cartridge {
	return e.cart
}

// Bus exposes the memory bus for MEMORY debug mode's crash-site dump
// and for an input collaborator's PressKey/ReleaseKey calls.
func (e *Emulator) Bus() *memory.Bus {
	return e.bus
}

// CPU exposes the register file for REGISTERS debug mode.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// PressKey/ReleaseKey satisfy input.Bus.
func (e *Emulator) PressKey(key memory.JoypadKey)   { e.bus.PressKey(key) }
func (e *Emulator) ReleaseKey(key memory.JoypadKey) { e.bus.ReleaseKey(key) }

// step drives one interrupt-dispatch-or-instruction slice: interrupt
// dispatch takes priority over fetching a new instruction, matching
// real hardware servicing a pending interrupt between instructions.
func (e *Emulator) step() (int, error) {
	if dispatchCycles := e.interrupts.Update(e.cpu); dispatchCycles > 0 {
		e.timer.Update(dispatchCycles)
		e.gpu.Tick(dispatchCycles)
		e.cycleCount += uint64(dispatchCycles)
		return dispatchCycles, nil
	}

	if e.debug.Instructions {
		slog.Debug(debug.At(e.cpu.GetPC(), e.bus).Format())
	}

	cycles, err := e.cpu.Step()
	if err != nil {
		return cycles, err
	}
	if e.cpu.ConsumeEIRequest() {
		e.interrupts.ScheduleEnable()
	}

	e.timer.Update(cycles)
	e.gpu.Tick(cycles)
	e.instructionCount++
	e.cycleCount += uint64(cycles)

	if e.debug.Registers {
		slog.Debug(debug.FormatRegisters(e.cpu.Reg))
	}

	return cycles, nil
}

// RunUntilFrame executes instructions until one full frame's worth of
// cycles has elapsed, honoring the debugger state (paused/step/
// step-frame/running). It returns a *FatalError if the CPU hits an
// unimplemented opcode.
func (e *Emulator) RunUntilFrame() error {
	e.debuggerMutex.RLock()
	state := e.debuggerState
	e.debuggerMutex.RUnlock()

	switch state {
	case DebuggerPaused:
		return nil
	case DebuggerStep:
		return e.runStep()
	case DebuggerStepFrame:
		return e.runStepFrame()
	default:
		return e.runFrame()
	}
}

func (e *Emulator) runStep() error {
	e.debuggerMutex.Lock()
	if !e.stepRequested {
		e.debuggerMutex.Unlock()
		return nil
	}
	e.stepRequested = false
	e.debuggerMutex.Unlock()

	pc := e.cpu.GetPC()
	if _, err := e.step(); err != nil {
		return e.fatal(err, pc)
	}
	e.SetDebuggerState(DebuggerPaused)
	return nil
}

func (e *Emulator) runStepFrame() error {
	e.debuggerMutex.Lock()
	if !e.frameRequested {
		e.debuggerMutex.Unlock()
		return nil
	}
	e.frameRequested = false
	e.debuggerMutex.Unlock()

	if err := e.runFrame(); err != nil {
		return err
	}
	e.SetDebuggerState(DebuggerPaused)
	return nil
}

func (e *Emulator) runFrame() error {
	total := 0
	for total < cyclesPerFrame {
		pc := e.cpu.GetPC()
		cycles, err := e.step()
		if err != nil {
			return e.fatal(err, pc)
		}
		total += cycles
	}
	e.frameCount++
	return nil
}

func (e *Emulator) fatal(err error, pc uint16) error {
	e.cpu.SetState(cpu.Quit)
	if unimpl, ok := err.(*cpu.UnimplementedOpcodeError); ok {
		return &FatalError{PC: pc, Opcode: unimpl.Opcode, Message: err.Error()}
	}
	return &FatalError{PC: pc, Message: err.Error()}
}

func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }
func (e *Emulator) FrameCount() uint64       { return e.frameCount }
func (e *Emulator) CycleCount() uint64       { return e.cycleCount }

// SetDebuggerState switches run modes.
func (e *Emulator) SetDebuggerState(state DebuggerState) {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.debuggerState = state
}

// DebuggerState reports the current run mode.
func (e *Emulator) DebuggerState() DebuggerState {
	e.debuggerMutex.RLock()
	defer e.debuggerMutex.RUnlock()
	return e.debuggerState
}

// Pause/Resume/StepInstruction/StepFrame are the debugger controls a
// CLI or UI drives from outside the run loop's goroutine.
func (e *Emulator) Pause() { e.SetDebuggerState(DebuggerPaused) }

func (e *Emulator) Resume() { e.SetDebuggerState(DebuggerRunning) }

func (e *Emulator) StepInstruction() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.stepRequested = true
	e.debuggerState = DebuggerStep
}

func (e *Emulator) StepFrame() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.frameRequested = true
	e.debuggerState = DebuggerStepFrame
}
