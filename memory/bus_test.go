package memory

import (
	"testing"

	"github.com/halvard/dmgcore/addr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInterrupts struct {
	ifReg, ieReg uint8
	requested    []addr.Interrupt
}

func (f *fakeInterrupts) ReadIF() uint8           { return f.ifReg }
func (f *fakeInterrupts) WriteIF(value uint8)     { f.ifReg = value }
func (f *fakeInterrupts) ReadIE() uint8           { return f.ieReg }
func (f *fakeInterrupts) WriteIE(value uint8)     { f.ieReg = value }
func (f *fakeInterrupts) Request(s addr.Interrupt) { f.requested = append(f.requested, s) }

type fakeTimer struct{ div uint8 }

func (t *fakeTimer) Read(a uint16) uint8         { return t.div }
func (t *fakeTimer) Write(a uint16, value uint8) { t.div = value }

type fakeSerial struct{ sb uint8 }

func (s *fakeSerial) Read(a uint16) uint8         { return s.sb }
func (s *fakeSerial) Write(a uint16, value uint8) { s.sb = value }

type fakeAPU struct{ reg uint8 }

func (a *fakeAPU) ReadRegister(addr uint16) uint8         { return a.reg }
func (a *fakeAPU) WriteRegister(addr uint16, value uint8) { a.reg = value }

func newTestBus() (*Bus, *fakeInterrupts) {
	ints := &fakeInterrupts{}
	b := New(ints, &fakeTimer{}, &fakeSerial{}, &fakeAPU{})
	return b, ints
}

func romCartridge(size int) *Cartridge {
	data := make([]uint8, size)
	return NewCartridge(data)
}

func TestReadWithNoCartridgeReturnsHighByte(t *testing.T) {
	b, _ := newTestBus()
	assert.Equal(t, uint8(0xFF), b.Read(0x0100))
}

func TestNoMBCCartridgeReadsROMDirectly(t *testing.T) {
	b, _ := newTestBus()
	cart := romCartridge(0x8000)
	cart.Data[0x10] = 0x42
	require.NoError(t, b.LoadCartridge(cart))
	assert.Equal(t, uint8(0x42), b.Read(0x10))
}

func TestUnsupportedCartridgeTypeIsRejected(t *testing.T) {
	b, _ := newTestBus()
	cart := romCartridge(0x8000)
	cart.CartridgeType = 0x05 // MBC2, unimplemented
	assert.Error(t, b.LoadCartridge(cart))
}

func TestEchoRAMMirrorsWorkRAM(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0xC010, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0xE010))

	b.Write(0xE020, 0x55)
	assert.Equal(t, uint8(0x55), b.Read(0xC020))
}

func TestIFReadWriteRoutesToInterruptLatches(t *testing.T) {
	b, ints := newTestBus()
	b.Write(addr.IF, 0x1F)
	assert.Equal(t, uint8(0x1F), ints.ifReg)
	assert.Equal(t, uint8(0x1F), b.Read(addr.IF))
}

func TestDMACopies160BytesFromSourceIntoOAM(t *testing.T) {
	b, _ := newTestBus()
	for i := uint16(0); i < 160; i++ {
		b.memory[0xC100+i] = uint8(i)
	}
	b.Write(addr.DMA, 0xC1)

	for i := uint16(0); i < 160; i++ {
		assert.Equal(t, uint8(i), b.Read(addr.OAMStart+i))
	}
}

func TestJoypadKeyPressRaisesInterruptOnTransition(t *testing.T) {
	b, ints := newTestBus()
	b.PressKey(JoypadA)
	assert.Contains(t, ints.requested, addr.Joypad)

	ints.requested = nil
	b.PressKey(JoypadA) // already pressed, no new transition
	assert.Empty(t, ints.requested)
}

func TestOAMIsPlainStorage(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0xFE10, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xFE10))
}

func TestUnusableRegionReadsZeroAndDiscardsWrites(t *testing.T) {
	b, _ := newTestBus()
	b.memory[0xFEA5] = 0x77 // simulate stale data sitting in the backing array
	assert.Equal(t, uint8(0), b.Read(0xFEA5))

	b.Write(0xFEA5, 0x99)
	assert.Equal(t, uint8(0), b.Read(0xFEA5))
}

func TestHRAMIsPlainStorage(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0xFF90, 0xAB)
	assert.Equal(t, uint8(0xAB), b.Read(0xFF90))
}
