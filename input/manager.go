// Package input maps host key events onto the eight DMG joypad buttons.
package input

import "github.com/halvard/dmgcore/memory"

// Bus is the subset of memory.Bus the manager drives.
type Bus interface {
	PressKey(key memory.JoypadKey)
	ReleaseKey(key memory.JoypadKey)
}

// defaultKeyMap binds arrow keys plus Z/X/Enter/Shift to the eight
// buttons, matching the terminal front-end's documented controls.
var defaultKeyMap = map[string]memory.JoypadKey{
	"Up":    memory.JoypadUp,
	"Down":  memory.JoypadDown,
	"Left":  memory.JoypadLeft,
	"Right": memory.JoypadRight,
	"z":     memory.JoypadA,
	"x":     memory.JoypadB,
	"Enter": memory.JoypadStart,
	"Shift": memory.JoypadSelect,
}

// Manager translates named host key events into joypad press/release
// calls on bus. Keys not present in the map are ignored, so a front-end
// can forward every key it sees without pre-filtering.
type Manager struct {
	bus    Bus
	keyMap map[string]memory.JoypadKey
}

// NewManager returns a manager with the default key bindings.
func NewManager(bus Bus) *Manager {
	keyMap := make(map[string]memory.JoypadKey, len(defaultKeyMap))
	for k, v := range defaultKeyMap {
		keyMap[k] = v
	}
	return &Manager{bus: bus, keyMap: keyMap}
}

// Bind overrides (or adds) the joypad button a key name maps to.
func (m *Manager) Bind(key string, button memory.JoypadKey) {
	m.keyMap[key] = button
}

// Press handles a host key-down event.
func (m *Manager) Press(key string) {
	if button, ok := m.keyMap[key]; ok {
		m.bus.PressKey(button)
	}
}

// Release handles a host key-up event.
func (m *Manager) Release(key string) {
	if button, ok := m.keyMap[key]; ok {
		m.bus.ReleaseKey(button)
	}
}
