package joystick_test

import (
	"testing"

	"github.com/Alia5/joykey/device/keyboard"
	"github.com/Alia5/joykey/joystick"
	"github.com/stretchr/testify/assert"
)

func TestUpdateAxis(t *testing.T) {
	th := joystick.Thresholds{Engage: 120, Release: 100}

	cases := []struct {
		name    string
		raw     int
		engaged bool
		want    bool
	}{
		{name: "rest", raw: 512, want: false},
		{name: "inside engage band", raw: 632, want: false},
		{name: "past engage", raw: 633, want: true},
		{name: "engaged inside hysteresis band", raw: 620, engaged: true, want: true},
		{name: "engaged at release edge", raw: 612, engaged: true, want: false},
		{name: "engaged below release", raw: 590, engaged: true, want: false},
		{name: "negative side never engages positive", raw: 300, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, joystick.UpdateAxis(tc.raw, 512, tc.engaged, th))
		})
	}
}

func TestHysteresisNoChatter(t *testing.T) {
	th := joystick.Thresholds{Engage: 120, Release: 100}
	const center = 512

	// Oscillating between the release and engage bounds must not toggle.
	engaged := joystick.UpdateAxis(650, center, false, th)
	assert.True(t, engaged)
	for i := 0; i < 50; i++ {
		raw := center + 101 + (i%2)*19
		engaged = joystick.UpdateAxis(raw, center, engaged, th)
		assert.True(t, engaged, "sample %d (%d) released early", i, raw)
	}

	engaged = joystick.UpdateAxis(center+100, center, engaged, th)
	assert.False(t, engaged)
	for i := 0; i < 50; i++ {
		raw := center + 101 + (i%2)*19
		engaged = joystick.UpdateAxis(raw, center, engaged, th)
		assert.False(t, engaged, "sample %d (%d) re-engaged below engage bound", i, raw)
	}
}

func TestSingleThresholdPolicy(t *testing.T) {
	th := joystick.Thresholds{Engage: 100, Release: 100}
	assert.True(t, joystick.UpdateAxis(613, 512, false, th))
	assert.True(t, joystick.UpdateAxis(613, 512, true, th))
	assert.False(t, joystick.UpdateAxis(612, 512, true, th))
	assert.False(t, joystick.UpdateAxis(612, 512, false, th))
}

func TestAxesUpdate(t *testing.T) {
	p := joystick.Profile{XCenter: 512, YCenter: 500}
	axes := joystick.Axes{Thresholds: joystick.Thresholds{Engage: 120, Release: 100}}

	s := axes.Update(joystick.State{Fire: true}, 650, 500, p)
	assert.Equal(t, joystick.State{Right: true, Fire: true}, s, "buttons carried over")

	s = axes.Update(joystick.State{}, 380, 370, p)
	assert.Equal(t, joystick.State{Left: true, Up: true}, s)

	s = axes.Update(s, 405, 395, p)
	assert.Equal(t, joystick.State{Left: true, Up: true}, s, "held inside the hysteresis band")

	s = axes.Update(s, 420, 640, p)
	assert.Equal(t, joystick.State{Down: true}, s)

	inverted := joystick.Axes{Thresholds: axes.Thresholds, InvertX: true, InvertY: true}
	s = inverted.Update(joystick.State{}, 650, 640, p)
	assert.Equal(t, joystick.State{Left: true, Up: true}, s)
}

// Right engages at 650, holds at 615 and releases at 610 with center 512,
// engage 120 and release 100.
func TestRightAxisKeyTransitions(t *testing.T) {
	p := joystick.Profile{XCenter: 512, YCenter: 512}
	axes := joystick.Axes{Thresholds: joystick.Thresholds{Engage: 120, Release: 100}}
	mapper := joystick.NewKeyMapper(joystick.DefaultKeymap, keyboard.KeySpace)
	sink := &recordingSink{}

	var s joystick.State
	s = axes.Update(s, 650, 512, p)
	assert.True(t, s.Right)
	mapper.Reconcile(s, sink)
	assert.Contains(t, sink.ops, "add(Kp1)")
	assert.Equal(t, []keyboard.Keycode{keyboard.KeyKp1}, sink.Keys())

	sink.ops = nil
	s = axes.Update(s, 615, 512, p)
	assert.True(t, s.Right)
	mapper.Reconcile(s, sink)
	assert.Equal(t, []keyboard.Keycode{keyboard.KeyKp1}, sink.Keys(), "no change while holding")

	sink.ops = nil
	s = axes.Update(s, 610, 512, p)
	assert.False(t, s.Right)
	mapper.Reconcile(s, sink)
	assert.Contains(t, sink.ops, "release(Kp1)")
	assert.Empty(t, sink.Keys())
}
