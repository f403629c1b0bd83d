package input_test

import (
	"encoding"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Alia5/joykey/device/keyboard"
	"github.com/Alia5/joykey/internal/input"
	"github.com/Alia5/joykey/joystick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
rest: {x: 500, y: 520}
frames:
  - for: 300ms
  - for: 100ms
    x: 700
  - for: 100ms
    x: 500
    y: 200
  - for: 50ms
    aux: true
  - for: 500ms
    y: 520
`

func TestLoadScript(t *testing.T) {
	s, err := input.LoadScript(strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 500, s.Rest.X)
	require.Len(t, s.Frames, 5)
	assert.Equal(t, 300*time.Millisecond, s.Frames[0].For)
	assert.Nil(t, s.Frames[0].X)
	assert.True(t, s.Frames[3].Aux)

	cases := map[string]string{
		"no frames":     "rest: {x: 1, y: 1}\n",
		"zero duration": "frames:\n  - x: 3\n",
		"unknown key":   "frames:\n  - for: 1s\n    z: 3\n",
		"bad duration":  "frames:\n  - for: soon\n",
		"two documents": "frames:\n  - for: 1s\n---\nframes: []\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := input.LoadScript(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadScriptDefaultRest(t *testing.T) {
	s, err := input.LoadScript(strings.NewReader("frames:\n  - for: 1s\n"))
	require.NoError(t, err)
	assert.Equal(t, input.AxisMax/2, s.Rest.X)
	assert.Equal(t, input.AxisMax/2, s.Rest.Y)
}

func TestReplaySampling(t *testing.T) {
	s, err := input.LoadScript(strings.NewReader(script))
	require.NoError(t, err)
	clock := input.NewVirtualClock(time.Unix(0, 0))
	r := input.NewReplay(s, clock)

	assert.Equal(t, 1050*time.Millisecond, r.Duration())
	at := func(d time.Duration) (int, int, joystick.Buttons) {
		clock.Sleep(d - r.Elapsed())
		x, y := r.ReadAxes()
		return x, y, r.ReadButtons()
	}

	x, y, b := at(0)
	assert.Equal(t, []int{500, 520}, []int{x, y})
	x, y, _ = at(300 * time.Millisecond)
	assert.Equal(t, []int{700, 520}, []int{x, y})
	x, y, _ = at(450 * time.Millisecond)
	assert.Equal(t, []int{500, 200}, []int{x, y})
	x, y, b = at(520 * time.Millisecond)
	assert.Equal(t, []int{500, 200}, []int{x, y}, "axes carry over")
	assert.True(t, b.Aux)
	_, y, b = at(600 * time.Millisecond)
	assert.Equal(t, 520, y)
	assert.False(t, b.Aux)

	assert.False(t, r.Done())
	_, _, b = at(2 * time.Second)
	assert.True(t, r.Done())
	assert.Equal(t, joystick.Buttons{}, b)
}

type keysWriter struct{ reports [][]keyboard.Keycode }

func (w *keysWriter) WriteBinary(v encoding.BinaryMarshaler) error {
	w.reports = append(w.reports, v.(*keyboard.Report).Keys())
	return nil
}

// The replay drives a real session end to end: calibrate on the rest
// frame, hold right, then press aux while up is held.
func TestReplayThroughSession(t *testing.T) {
	s, err := input.LoadScript(strings.NewReader(script))
	require.NoError(t, err)
	clock := input.NewVirtualClock(time.Unix(0, 0))
	r := input.NewReplay(s, clock)

	cal := joystick.Calibrator{Reader: r, Clock: clock, Settle: 250 * time.Millisecond, Samples: 10, Oversample: 4}
	profile := cal.Calibrate()
	assert.Equal(t, joystick.Profile{XCenter: 500, YCenter: 520}, profile)

	w := &keysWriter{}
	sink := keyboard.NewSink(w)
	cfg := joystick.DefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := joystick.NewSession(cfg, profile, r, sink, clock, logger)

	var actions []joystick.Action
	sink.ReleaseAll()
	for !r.Done() {
		if a := sess.Step(); a != joystick.ActionNone {
			actions = append(actions, a)
		}
		clock.Sleep(cfg.PollInterval)
	}
	require.NoError(t, sink.Err())

	assert.Equal(t, []joystick.Action{joystick.ActionVolumeUp}, actions)
	assert.Contains(t, w.reports, []keyboard.Keycode{keyboard.KeyKp1})
	assert.Contains(t, w.reports, []keyboard.Keycode{keyboard.KeyKp3})
	assert.Contains(t, w.reports, []keyboard.Keycode{keyboard.KeyKp3, keyboard.KeyVolumeUp})
	assert.Empty(t, w.reports[len(w.reports)-1])
}
