package dmgcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/dmgcore/cpu"
	"github.com/halvard/dmgcore/video"
)

// romWithProgram returns a minimal ROM-only (no MBC) cartridge image
// with program bytes placed at 0x0100, the DMG entry point.
func romWithProgram(program ...uint8) []uint8 {
	rom := make([]uint8, 0x8000)
	copy(rom[0x0100:], program)
	rom[0x0147] = 0x00 // ROM ONLY
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00
	return rom
}

func TestRunUntilFrameAdvancesFrameCount(t *testing.T) {
	rom := romWithProgram(0xC3, 0x00, 0x01) // JP 0x0100 (spin loop)
	emu, err := New(rom, video.NullDisplay{}, DebugFlags{})
	require.NoError(t, err)

	require.NoError(t, emu.RunUntilFrame())
	assert.Equal(t, uint64(1), emu.FrameCount())
	assert.Positive(t, emu.InstructionCount())
}

func TestRunUntilFrameReturnsFatalErrorOnUnimplementedOpcode(t *testing.T) {
	rom := romWithProgram(0xD3) // illegal opcode
	emu, err := New(rom, video.NullDisplay{}, DebugFlags{})
	require.NoError(t, err)

	err = emu.RunUntilFrame()
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, uint16(0x0100), fatal.PC)
	assert.Equal(t, cpu.Quit, emu.CPU().State())
}

func TestDebuggerStepExecutesExactlyOneInstruction(t *testing.T) {
	rom := romWithProgram(0x00, 0x00, 0x00) // NOP NOP NOP
	emu, err := New(rom, video.NullDisplay{}, DebugFlags{})
	require.NoError(t, err)

	emu.StepInstruction()
	require.NoError(t, emu.RunUntilFrame())
	assert.Equal(t, uint16(0x0101), emu.CPU().GetPC())
	assert.Equal(t, DebuggerPaused, emu.DebuggerState())
}

func TestDebuggerPausedRunsNothing(t *testing.T) {
	rom := romWithProgram(0xC3, 0x00, 0x01)
	emu, err := New(rom, video.NullDisplay{}, DebugFlags{})
	require.NoError(t, err)

	emu.Pause()
	require.NoError(t, emu.RunUntilFrame())
	assert.Zero(t, emu.InstructionCount())
}

func TestUnsupportedCartridgeTypeFailsAtLoad(t *testing.T) {
	rom := romWithProgram(0x00)
	rom[0x0147] = 0xFF // unsupported MBC
	_, err := New(rom, video.NullDisplay{}, DebugFlags{})
	assert.Error(t, err)
}
