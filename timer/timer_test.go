package timer

import (
	"testing"

	"github.com/halvard/dmgcore/addr"
	"github.com/stretchr/testify/assert"
)

func TestDIVIncrementsEveryPeriodRegardlessOfTAC(t *testing.T) {
	tm := New(nil)
	tm.Update(256)
	assert.Equal(t, uint8(1), tm.Read(addr.DIV))
}

func TestWritingDIVResetsIt(t *testing.T) {
	tm := New(nil)
	tm.Update(300)
	tm.Write(addr.DIV, 0x99) // any written value resets to zero
	assert.Equal(t, uint8(0), tm.Read(addr.DIV))
}

func TestTIMADisabledByDefault(t *testing.T) {
	tm := New(nil)
	tm.Update(10_000)
	assert.Equal(t, uint8(0), tm.Read(addr.TIMA))
}

func TestTIMAIncrementsAtConfiguredPeriod(t *testing.T) {
	tm := New(nil)
	tm.Write(addr.TAC, 0x05) // enabled, period 16
	tm.Update(16)
	assert.Equal(t, uint8(1), tm.Read(addr.TIMA))
}

func TestTIMAOverflowReloadsFromTMAAndFires(t *testing.T) {
	fired := false
	tm := New(func() { fired = true })
	tm.Write(addr.TAC, 0x05) // period 16
	tm.Write(addr.TMA, 0x7F)
	tm.Write(addr.TIMA, 0xFF)

	tm.Update(16)

	assert.True(t, fired)
	assert.Equal(t, uint8(0x7F), tm.Read(addr.TIMA))
}

func TestDisablingTACDiscardsSubTIMAProgress(t *testing.T) {
	tm := New(nil)
	tm.Write(addr.TAC, 0x05) // enabled, period 16
	tm.Update(10)            // accumulate progress short of a tick

	tm.Write(addr.TAC, 0x01) // disable (clear run bit), same period bits
	tm.Update(6)              // would complete the period if progress survived
	assert.Equal(t, uint8(0), tm.Read(addr.TIMA))

	tm.Write(addr.TAC, 0x05) // re-enable
	tm.Update(10)             // short of the period again; would overflow if stale progress remained
	assert.Equal(t, uint8(0), tm.Read(addr.TIMA))

	tm.Update(6) // now completes exactly one fresh period
	assert.Equal(t, uint8(1), tm.Read(addr.TIMA))
}

func TestTACHighBitsAlwaysReadAsSet(t *testing.T) {
	tm := New(nil)
	tm.Write(addr.TAC, 0x00)
	assert.Equal(t, uint8(0xF8), tm.Read(addr.TAC))
}
