package debug

import (
	"fmt"

	"github.com/halvard/dmgcore/cpu"
)

// FormatRegisters renders the full register file for REGISTERS mode, one
// line per call site (the orchestrator logs this after every
// instruction).
func FormatRegisters(reg *cpu.Registers) string {
	return fmt.Sprintf(
		"AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X [%s]",
		reg.AF().Get(), reg.BC().Get(), reg.DE().Get(), reg.HL().Get(),
		reg.SP.Get(), reg.PC.Get(), flagString(reg),
	)
}

func flagString(reg *cpu.Registers) string {
	flags := [4]struct {
		flag cpu.Flag
		name string
	}{
		{cpu.FlagZ, "Z"}, {cpu.FlagN, "N"}, {cpu.FlagH, "H"}, {cpu.FlagC, "C"},
	}
	out := make([]byte, 4)
	for i, f := range flags {
		if reg.Flag(f.flag) {
			out[i] = f.name[0]
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}
