package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestKeyNameMapsArrowsAndRunes(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "Up"},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), "Down"},
		{tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), "z"},
		{tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModNone), "x"},
	}
	for _, c := range cases {
		name, ok := keyName(c.ev)
		assert.True(t, ok)
		assert.Equal(t, c.want, name)
	}
}

func TestKeyNameIgnoresUnboundKeys(t *testing.T) {
	_, ok := keyName(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.False(t, ok)
}
