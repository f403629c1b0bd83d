package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/Alia5/joykey/device/keyboard"
	"github.com/Alia5/joykey/internal/input"
	"github.com/Alia5/joykey/joystick"
)

// JoystickOptions tune the stick: thresholds, calibration and polling.
type JoystickOptions struct {
	Engage     int           `help:"Distance from center at which a direction engages" default:"120" env:"JOYKEY_ENGAGE"`
	Release    int           `help:"Distance from center at or below which an engaged direction releases" default:"100" env:"JOYKEY_RELEASE"`
	InvertX    bool          `help:"Right is toward lower axis values"`
	InvertY    bool          `help:"Up is toward higher axis values"`
	Settle     time.Duration `help:"Pause before calibration starts sampling" default:"250ms"`
	Samples    int           `help:"Readings averaged per axis during calibration" default:"100"`
	Oversample int           `help:"Raw sub-samples averaged per axis reading" default:"4"`
	Poll       time.Duration `help:"Pause between polling iterations" default:"5ms"`
}

func (o JoystickOptions) calibrator(r joystick.AxisReader, clock joystick.Clock) *joystick.Calibrator {
	return &joystick.Calibrator{
		Reader:     r,
		Clock:      clock,
		Settle:     o.Settle,
		Samples:    o.Samples,
		Oversample: o.Oversample,
	}
}

func (o JoystickOptions) validate() error {
	var errs []error
	if o.Engage < 0 || o.Release < 0 {
		errs = append(errs, errors.New("thresholds must not be negative"))
	}
	if o.Release > o.Engage {
		errs = append(errs, fmt.Errorf("release threshold %d exceeds engage threshold %d", o.Release, o.Engage))
	}
	if o.Samples < 1 || o.Oversample < 1 {
		errs = append(errs, errors.New("samples and oversample must be at least 1"))
	}
	if o.Poll < 0 || o.Settle < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	return errors.Join(errs...)
}

// AuxOptions tune the aux button and pick the action of every gesture.
type AuxOptions struct {
	DoubleClick   time.Duration   `help:"Double-click window (0 fires the click action on every release)" default:"300ms"`
	Grace         time.Duration   `help:"Pause after every aux action" default:"500ms"`
	Pace          time.Duration   `help:"Pause after each typed key press and release" default:"70ms"`
	OnLeft        joystick.Action `help:"Action for aux with left held" default:"keyboard"`
	OnRight       joystick.Action `help:"Action for aux with right held" default:"rebind-reset"`
	OnUp          joystick.Action `help:"Action for aux with up held" default:"volume-up"`
	OnDown        joystick.Action `help:"Action for aux with down held" default:"volume-down"`
	OnClick       joystick.Action `help:"Action for a single aux click" default:"menu"`
	OnDoubleClick joystick.Action `help:"Action for an aux double click" default:"autofire-toggle"`
}

func (o AuxOptions) table() joystick.ActionTable {
	return joystick.ActionTable{
		Left:        o.OnLeft,
		Right:       o.OnRight,
		Up:          o.OnUp,
		Down:        o.OnDown,
		Click:       o.OnClick,
		DoubleClick: o.OnDoubleClick,
	}
}

// KeyOptions name the emitted keys. Keys are given by name ("Kp1", "Space",
// "F12") or as a hex usage code ("0x2c").
type KeyOptions struct {
	Right          keyboard.Keycode `help:"Key held while the stick points right" default:"Kp1"`
	Left           keyboard.Keycode `help:"Key held while the stick points left" default:"Kp2"`
	Up             keyboard.Keycode `help:"Key held while the stick points up" default:"Kp3"`
	Down           keyboard.Keycode `help:"Key held while the stick points down" default:"Kp4"`
	Fire           keyboard.Keycode `help:"Key held while fire is pressed" default:"Kp5"`
	Extra          keyboard.Keycode `help:"Key held while autofire is pressed, until rebound" default:"Space"`
	Menu           keyboard.Keycode `help:"Key typed by the menu action" default:"F12"`
	AutofireToggle keyboard.Keycode `help:"Key typed by the autofire-toggle action" default:"F10"`
	VolumeUp       keyboard.Keycode `help:"Key typed by the volume-up action" default:"VolumeUp"`
	VolumeDown     keyboard.Keycode `help:"Key typed by the volume-down action" default:"VolumeDown"`
	Keyboard       keyboard.Keycode `help:"Key typed by the keyboard action" default:"F11"`
}

// InputOptions select the joystick device.
type InputOptions struct {
	Device  string        `help:"Joystick device" default:"/dev/input/js0" env:"JOYKEY_DEVICE"`
	Mapping input.Mapping `embed:""`
}

func sessionConfig(j JoystickOptions, a AuxOptions, k KeyOptions) (joystick.Config, error) {
	if err := j.validate(); err != nil {
		return joystick.Config{}, fmt.Errorf("invalid joystick options: %w", err)
	}
	if a.DoubleClick < 0 || a.Grace < 0 || a.Pace < 0 {
		return joystick.Config{}, errors.New("invalid aux options: durations must not be negative")
	}
	return joystick.Config{
		Axes: joystick.Axes{
			Thresholds: joystick.Thresholds{Engage: j.Engage, Release: j.Release},
			InvertX:    j.InvertX,
			InvertY:    j.InvertY,
		},
		Keymap: joystick.Keymap{
			Left:  k.Left,
			Right: k.Right,
			Up:    k.Up,
			Down:  k.Down,
			Fire:  k.Fire,
		},
		ExtraKey: k.Extra,
		Actions:  a.table(),
		ActionKeys: joystick.ActionKeys{
			Menu:           k.Menu,
			AutofireToggle: k.AutofireToggle,
			VolumeUp:       k.VolumeUp,
			VolumeDown:     k.VolumeDown,
			Keyboard:       k.Keyboard,
		},
		DoubleClick:  a.DoubleClick,
		Grace:        a.Grace,
		Pace:         a.Pace,
		PollInterval: j.Poll,
		Oversample:   j.Oversample,
	}, nil
}
