// Package joystick translates a calibrated analog stick and its buttons into
// held keyboard keys and aux-button system actions.
//
// A Session owns all mutable state and is driven by a single goroutine: each
// Step samples the inputs, advances the aux dispatcher, recomputes the
// direction state with hysteresis and reconciles the held keys on a Sink.
package joystick

import "github.com/Alia5/joykey/device/keyboard"

// Direction names one of the four cardinal stick directions.
type Direction uint8

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "none"
	}
}

// State is the aggregated joystick state of one poll.
//
// Left/Right come from the X axis and Up/Down from the Y axis; with a sane
// calibration each pair is mutually exclusive. Fire and Autofire are the
// buttons and are independent of the stick.
type State struct {
	Left     bool `json:"left"`
	Right    bool `json:"right"`
	Up       bool `json:"up"`
	Down     bool `json:"down"`
	Fire     bool `json:"fire"`
	Autofire bool `json:"autofire"`
}

// Any reports whether any direction or button is active.
func (s State) Any() bool {
	return s.Left || s.Right || s.Up || s.Down || s.Fire || s.Autofire
}

// Held returns the first held direction in the order left, right, up, down.
func (s State) Held() Direction {
	switch {
	case s.Left:
		return DirLeft
	case s.Right:
		return DirRight
	case s.Up:
		return DirUp
	case s.Down:
		return DirDown
	default:
		return DirNone
	}
}

// Buttons is one sample of the digital inputs, true meaning pressed.
type Buttons struct {
	Fire, Autofire, Aux bool
}

// AxisReader returns one raw sample of each axis in device-native units.
type AxisReader interface {
	ReadAxes() (x, y int)
}

// ButtonReader returns one sample of the digital inputs.
type ButtonReader interface {
	ReadButtons() Buttons
}

// Sampler is the complete input side of the session.
type Sampler interface {
	AxisReader
	ButtonReader
}

// Sink is the keyboard the session drives.
//
// Add and Remove edit the held-key set without flushing; Press, Release and
// ReleaseAll flush immediately; Send flushes the current set as one report.
type Sink interface {
	Press(k keyboard.Keycode)
	Release(k keyboard.Keycode)
	Add(k keyboard.Keycode)
	Remove(k keyboard.Keycode)
	ReleaseAll()
	Send()
	Held() int
}
