// Package memory implements the DMG address space: the fixed-size RAM
// regions, the cartridge's ROM/external-RAM window routed through its
// MBC, OAM DMA, and dispatch of the I/O register block (0xFF00-0xFF7F)
// to the timer, serial, audio and interrupt collaborators that own it.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/halvard/dmgcore/addr"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnusable
	regionIO
	regionHRAM
)

// Timer is the subset of timer.Timer the bus routes DIV/TIMA/TMA/TAC to.
type Timer interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// InterruptLatches is the subset of interrupt.Controller the bus routes
// IF/IE and interrupt requests to.
type InterruptLatches interface {
	ReadIF() uint8
	WriteIF(value uint8)
	ReadIE() uint8
	WriteIE(value uint8)
	Request(source addr.Interrupt)
}

// SerialPort is the subset of serial.LogSink the bus routes SB/SC to.
type SerialPort interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// APU is the subset of audio.APU the bus routes FF10-FF3F to.
type APU interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// Bus is the DMG MMU: it owns VRAM/WRAM/OAM/HRAM storage directly,
// delegates ROM and external RAM to the loaded cartridge's MBC, and
// routes register addresses in the I/O block to their owning
// collaborator.
type Bus struct {
	mbc    MBC
	memory []uint8

	interrupts InterruptLatches
	timer      Timer
	serial     SerialPort
	apu        APU
	joypad     *Joypad

	regionMap [256]region
}

// New creates a bus with no cartridge loaded: ROM/external-RAM reads
// return 0xFF and writes are discarded, matching a Game Boy without a
// cartridge inserted.
func New(interrupts InterruptLatches, timer Timer, serial SerialPort, apu APU) *Bus {
	b := &Bus{
		memory:     make([]uint8, 0x10000),
		interrupts: interrupts,
		timer:      timer,
		serial:     serial,
		apu:        apu,
		joypad:     NewJoypad(),
	}
	b.initRegionMap()
	return b
}

// LoadCartridge wires cart's MBC into the ROM/external-RAM window. An
// unsupported cartridge type (anything beyond NoMBC/MBC1) is reported
// rather than silently misread.
func (b *Bus) LoadCartridge(cart *Cartridge) error {
	if cart.Unsupported() {
		return fmt.Errorf("memory: unsupported cartridge type 0x%02X", cart.CartridgeType)
	}
	if cart.HasBanking() {
		b.mbc = NewMBC1(cart.Data, cart.RAMBankCount())
	} else {
		b.mbc = NewNoMBC(cart.Data)
	}
	return nil
}

func (b *Bus) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		b.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		b.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		b.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		b.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		b.regionMap[i] = regionEcho
	}
	b.regionMap[0xFE] = regionOAM
	b.regionMap[0xFF] = regionIO
}

// oamEnd is the last address backed by real OAM storage; the 0xFE page
// beyond it (0xFEA0-0xFEFF) is unusable.
const oamEnd = 0xFE9F

// classify refines the page-granularity regionMap lookup for the one
// page split at a sub-page boundary: OAM and the unusable region above it.
func (b *Bus) classify(address uint16) region {
	r := b.regionMap[address>>8]
	if r == regionOAM && address > oamEnd {
		return regionUnusable
	}
	return r
}

// PressKey forwards a host key-down event to the joypad and raises the
// Joypad interrupt on a release-to-press transition, matching real
// hardware's edge-triggered behavior.
func (b *Bus) PressKey(key JoypadKey) {
	if b.joypad.Press(key) {
		b.interrupts.Request(addr.Joypad)
	}
}

// ReleaseKey forwards a host key-up event to the joypad.
func (b *Bus) ReleaseKey(key JoypadKey) {
	b.joypad.Release(key)
}

func (b *Bus) Read(address uint16) uint8 {
	switch b.classify(address) {
	case regionROM, regionExtRAM:
		if b.mbc == nil {
			return 0xFF
		}
		return b.mbc.Read(address)
	case regionVRAM, regionWRAM, regionOAM:
		return b.memory[address]
	case regionUnusable:
		return 0
	case regionEcho:
		return b.memory[address-0x2000]
	case regionIO:
		return b.readIO(address)
	default:
		slog.Warn("memory: read at unmapped address", "addr", fmt.Sprintf("0x%04X", address))
		return 0xFF
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch b.classify(address) {
	case regionROM:
		if b.mbc != nil {
			b.mbc.Write(address, value)
		}
	case regionExtRAM:
		if b.mbc != nil {
			b.mbc.Write(address, value)
		}
	case regionVRAM, regionWRAM, regionOAM:
		b.memory[address] = value
	case regionUnusable:
		// writes discarded
	case regionEcho:
		b.memory[address-0x2000] = value
	case regionIO:
		b.writeIO(address, value)
	default:
		slog.Warn("memory: write at unmapped address", "addr", fmt.Sprintf("0x%04X", address))
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.joypad.Read()
	case address == addr.SB || address == addr.SC:
		return b.serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return b.timer.Read(address)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.apu.ReadRegister(address)
	case address == addr.IF:
		return b.interrupts.ReadIF()
	case address == addr.IE:
		return b.interrupts.ReadIE()
	default:
		return b.memory[address]
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		b.serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		b.timer.Write(address, value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.apu.WriteRegister(address, value)
	case address == addr.IF:
		b.interrupts.WriteIF(value)
	case address == addr.IE:
		b.interrupts.WriteIE(value)
	case address == addr.DMA:
		b.runDMA(value)
	default:
		b.memory[address] = value
	}
}

// runDMA copies 160 bytes from (value << 8) into OAM, as the real DMA
// controller does over 160 M-cycles; this core performs the copy in one
// step rather than modeling the transfer's own timing.
func (b *Bus) runDMA(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		b.memory[addr.OAMStart+i] = b.Read(source + i)
	}
	b.memory[addr.DMA] = value
}
