package joystick

import "github.com/Alia5/joykey/device/keyboard"

// Keymap assigns a key to each direction and to fire.
type Keymap struct {
	Left, Right, Up, Down, Fire keyboard.Keycode
}

// DefaultKeymap is the keypad layout used when nothing is configured.
var DefaultKeymap = Keymap{
	Right: keyboard.KeyKp1,
	Left:  keyboard.KeyKp2,
	Up:    keyboard.KeyKp3,
	Down:  keyboard.KeyKp4,
	Fire:  keyboard.KeyKp5,
}

// Binding is the extra-action slot driven by autofire.
type Binding struct {
	Default keyboard.Keycode
	Extra   keyboard.Keycode
}

// NewBinding returns a binding whose extra key starts at def.
func NewBinding(def keyboard.Keycode) Binding {
	return Binding{Default: def, Extra: def}
}

// KeyMapper reconciles the held keys of a Sink with a State.
//
// Reconcile is level-triggered: every call asserts the full key set for the
// state instead of sending deltas, so a release lost earlier cannot leave a
// key stuck.
type KeyMapper struct {
	Keys    Keymap
	Binding Binding

	extraPending bool
}

// NewKeyMapper returns a KeyMapper for the given keymap and default extra key.
func NewKeyMapper(keys Keymap, extra keyboard.Keycode) *KeyMapper {
	return &KeyMapper{Keys: keys, Binding: NewBinding(extra)}
}

type keyed struct {
	on  bool
	key keyboard.Keycode
}

func (m *KeyMapper) table(s State) [5]keyed {
	return [5]keyed{
		{s.Left, m.Keys.Left},
		{s.Right, m.Keys.Right},
		{s.Up, m.Keys.Up},
		{s.Down, m.Keys.Down},
		{s.Fire, m.Keys.Fire},
	}
}

// Reconcile applies s to sink.
func (m *KeyMapper) Reconcile(s State, sink Sink) {
	table := m.table(s)
	if !s.Any() {
		for _, k := range table {
			sink.Release(k.key)
		}
		if m.extraPending {
			sink.Release(m.Binding.Extra)
			m.extraPending = false
		}
		return
	}

	for _, k := range table {
		if k.on {
			sink.Add(k.key)
			continue
		}
		// Autofire owns the extra key while engaged.
		if s.Autofire && k.key == m.Binding.Extra {
			continue
		}
		sink.Remove(k.key)
	}
	if s.Autofire {
		sink.Add(m.Binding.Extra)
		m.extraPending = true
	}
}

// Asserted lists the keys Reconcile adds for s.
func (m *KeyMapper) Asserted(s State) []keyboard.Keycode {
	var keys []keyboard.Keycode
	for _, k := range m.table(s) {
		if k.on {
			keys = append(keys, k.key)
		}
	}
	if s.Autofire {
		keys = append(keys, m.Binding.Extra)
	}
	return keys
}

// Rebind points the extra slot at k.
func (m *KeyMapper) Rebind(k keyboard.Keycode) {
	m.Binding.Extra = k
}

// ResetBinding restores the default extra key.
func (m *KeyMapper) ResetBinding() {
	m.Binding.Extra = m.Binding.Default
}

// Reset forgets the pending extra-key release. Used after the sink has been
// cleared with ReleaseAll.
func (m *KeyMapper) Reset() {
	m.extraPending = false
}
