package joystick

import (
	"fmt"
	"strings"

	"github.com/Alia5/joykey/device/keyboard"
)

// Action is a system command triggered through the aux button.
type Action uint8

const (
	ActionNone Action = iota
	ActionMenu
	ActionAutofireToggle
	ActionVolumeUp
	ActionVolumeDown
	ActionKeyboard // on-screen keyboard toggle
	ActionStatus
	ActionRebindReset
)

var actionNames = [...]string{
	ActionNone:           "none",
	ActionMenu:           "menu",
	ActionAutofireToggle: "autofire-toggle",
	ActionVolumeUp:       "volume-up",
	ActionVolumeDown:     "volume-down",
	ActionKeyboard:       "keyboard",
	ActionStatus:         "status",
	ActionRebindReset:    "rebind-reset",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction resolves an action name.
func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ActionTable maps aux gestures to actions. The direction entries apply when
// that direction is held at the moment aux is pressed.
type ActionTable struct {
	Left, Right, Up, Down Action
	Click, DoubleClick    Action
}

// DefaultActions is the gesture table used when nothing is configured.
var DefaultActions = ActionTable{
	Left:        ActionKeyboard,
	Right:       ActionRebindReset,
	Up:          ActionVolumeUp,
	Down:        ActionVolumeDown,
	Click:       ActionMenu,
	DoubleClick: ActionAutofireToggle,
}

// For returns the request captured for a direction held at aux press.
func (t ActionTable) For(d Direction) Action {
	var a Action
	switch d {
	case DirLeft:
		a = t.Left
	case DirRight:
		a = t.Right
	case DirUp:
		a = t.Up
	case DirDown:
		a = t.Down
	}
	if int(a) >= len(actionNames) {
		return ActionNone
	}
	return a
}

// ActionKeys are the keys typed by the key-emitting actions.
type ActionKeys struct {
	Menu           keyboard.Keycode
	AutofireToggle keyboard.Keycode
	VolumeUp       keyboard.Keycode
	VolumeDown     keyboard.Keycode
	Keyboard       keyboard.Keycode
}

var DefaultActionKeys = ActionKeys{
	Menu:           keyboard.KeyF12,
	AutofireToggle: keyboard.KeyF10,
	VolumeUp:       keyboard.KeyVolumeUp,
	VolumeDown:     keyboard.KeyVolumeDown,
	Keyboard:       keyboard.KeyF11,
}

// perform runs a to completion on the session's sink.
func (s *Session) perform(a Action) {
	keys := s.cfg.ActionKeys
	switch a {
	case ActionMenu:
		s.tap(keys.Menu)
	case ActionAutofireToggle:
		s.tap(keys.AutofireToggle)
	case ActionVolumeUp:
		s.tap(keys.VolumeUp)
	case ActionVolumeDown:
		s.tap(keys.VolumeDown)
	case ActionKeyboard:
		s.tap(keys.Keyboard)
	case ActionStatus:
		s.typeString(s.status())
	case ActionRebindReset:
		s.mapper.ResetBinding()
		s.logger.Info("extra key reset", "key", s.mapper.Binding.Extra)
	}
}

// status is the readout typed by ActionStatus: calibration centers and
// uptime in seconds.
func (s *Session) status() string {
	up := int(s.clock.Now().Sub(s.started).Seconds())
	return fmt.Sprintf("x%d y%d t%d\n", s.profile.XCenter, s.profile.YCenter, up)
}

// tap presses and releases k, pausing for the pace delay after each.
func (s *Session) tap(k keyboard.Keycode) {
	if k == keyboard.KeyNone {
		return
	}
	s.sink.Press(k)
	s.clock.Sleep(s.cfg.Pace)
	s.sink.Release(k)
	s.clock.Sleep(s.cfg.Pace)
}

func (s *Session) typeString(str string) {
	for i := 0; i < len(str); i++ {
		s.tap(keyboard.CharToHID(str[i]))
	}
}
