package joystick_test

import (
	"testing"

	"github.com/Alia5/joykey/joystick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	a, err := joystick.ParseAction(" Volume-Up ")
	require.NoError(t, err)
	assert.Equal(t, joystick.ActionVolumeUp, a)

	_, err = joystick.ParseAction("reboot")
	assert.Error(t, err)

	var b joystick.Action
	require.NoError(t, b.UnmarshalText([]byte("rebind-reset")))
	assert.Equal(t, joystick.ActionRebindReset, b)
	assert.Equal(t, "action(99)", joystick.Action(99).String())
}

func TestActionTableFor(t *testing.T) {
	table := joystick.DefaultActions
	assert.Equal(t, joystick.ActionKeyboard, table.For(joystick.DirLeft))
	assert.Equal(t, joystick.ActionRebindReset, table.For(joystick.DirRight))
	assert.Equal(t, joystick.ActionVolumeUp, table.For(joystick.DirUp))
	assert.Equal(t, joystick.ActionVolumeDown, table.For(joystick.DirDown))
	assert.Equal(t, joystick.ActionNone, table.For(joystick.DirNone))

	table.Left = joystick.Action(42)
	assert.Equal(t, joystick.ActionNone, table.For(joystick.DirLeft))
}
