package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeReader struct{ mem map[uint16]uint8 }

func (r fakeReader) Read(a uint16) uint8 { return r.mem[a] }

func TestDisassembleFixedOpcode(t *testing.T) {
	r := fakeReader{mem: map[uint16]uint8{0x100: 0x00}}
	line := At(0x100, r)
	assert.Equal(t, "NOP", line.Text)
	assert.Equal(t, uint16(1), line.Length)
}

func TestDisassembleImmediate16(t *testing.T) {
	r := fakeReader{mem: map[uint16]uint8{0x100: 0x21, 0x101: 0x34, 0x102: 0x12}}
	line := At(0x100, r)
	assert.Equal(t, "LD HL,0x1234", line.Text)
	assert.Equal(t, uint16(3), line.Length)
}

func TestDisassembleRegisterToRegister(t *testing.T) {
	r := fakeReader{mem: map[uint16]uint8{0x100: 0x78}} // LD A,B
	line := At(0x100, r)
	assert.Equal(t, "LD A,B", line.Text)
}

func TestDisassembleHALTNotConfusedWithLDHLHL(t *testing.T) {
	r := fakeReader{mem: map[uint16]uint8{0x100: 0x76}}
	line := At(0x100, r)
	assert.Equal(t, "HALT", line.Text)
}

func TestDisassembleADDHLBCNotConfusedWithLDBCnn(t *testing.T) {
	r := fakeReader{mem: map[uint16]uint8{0x100: 0x09}}
	line := At(0x100, r)
	assert.Equal(t, "ADD HL,BC", line.Text)
	assert.Equal(t, uint16(1), line.Length)
}

func TestDisassembleCBBit(t *testing.T) {
	r := fakeReader{mem: map[uint16]uint8{0x100: 0xCB, 0x101: 0x7C}} // BIT 7,H
	line := At(0x100, r)
	assert.Equal(t, "BIT 7,H", line.Text)
	assert.Equal(t, uint16(2), line.Length)
}

func TestRangeAdvancesByInstructionLength(t *testing.T) {
	r := fakeReader{mem: map[uint16]uint8{0x100: 0x00, 0x101: 0x21, 0x102: 0x00, 0x103: 0x00, 0x104: 0x00}}
	lines := Range(0x100, 3, r)
	assert.Equal(t, []uint16{0x100, 0x101, 0x104}, []uint16{lines[0].Address, lines[1].Address, lines[2].Address})
}
