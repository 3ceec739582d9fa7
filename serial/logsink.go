// Package serial implements the DMG serial port (SB/SC) as an inert sink:
// bytes written out are logged, and a transfer always completes immediately
// and fires the Serial interrupt. No link cable peer is emulated.
package serial

import (
	"log/slog"

	"github.com/halvard/dmgcore/addr"
	"github.com/halvard/dmgcore/bit"
)

// LogSink accepts writes to SB/SC and logs completed transfers as text.
// It never blocks waiting for a peer: every transfer with bits 7 and 0 of
// SC set completes on the same write that started it.
type LogSink struct {
	irqHandler func()
	sb, sc     uint8
	logger     *slog.Logger
	line       []byte
}

// New creates a serial sink that calls irq when a transfer completes.
func New(irq func()) *LogSink {
	s := &LogSink{
		irqHandler: irq,
		sb:         0xFF,
		logger:     slog.Default(),
	}
	return s
}

func (s *LogSink) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

func (s *LogSink) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeTransfer()
	}
}

func (s *LogSink) maybeTransfer() {
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	s.sb = 0xFF
	s.sc = bit.Reset(7, s.sc)
	if s.irqHandler != nil {
		s.irqHandler()
	}
}
