package joystick

import (
	"time"

	"github.com/Alia5/joykey/device/keyboard"
)

// auxCycle is the bookkeeping of one aux press/release cycle.
type auxCycle struct {
	request    Action // captured from the direction held at press
	programmed bool   // a rebind consumed this press

	baseline map[keyboard.Keycode]bool // keys asserted when aux went down
	direct   map[keyboard.Keycode]bool // baseline keys held by a direction or fire
	consumed map[keyboard.Keycode]bool // keys that triggered a rebind

	dirty       bool // a click was released and its action is still owed
	lastRelease time.Time
}

// AuxDispatcher interprets the aux button.
//
// Pressing aux with a direction held captures that direction's action and
// fires it on release. A plain press is a click: a second click released
// within Window of the first fires DoubleClick, otherwise Click fires once
// Window has passed. Window 0 fires Click directly on release. Keys newly
// asserted while aux is held rebind the extra key instead of reaching the
// keyboard, and such a press dispatches nothing.
//
// A button stuck down holds the dispatcher in the pressed state for good.
type AuxDispatcher struct {
	Window time.Duration
	Table  ActionTable

	mapper *KeyMapper
	down   bool
	cycle  auxCycle
	icpt   interceptor
}

// NewAuxDispatcher returns a dispatcher that rebinds through mapper.
func NewAuxDispatcher(window time.Duration, table ActionTable, mapper *KeyMapper) *AuxDispatcher {
	d := &AuxDispatcher{Window: window, Table: table, mapper: mapper}
	d.icpt.d = d
	return d
}

// Held reports whether aux is currently down.
func (d *AuxDispatcher) Held() bool { return d.down }

// Pending reports whether a click is waiting for the double-click window.
func (d *AuxDispatcher) Pending() bool { return d.cycle.dirty }

// Update advances the state machine with the current aux level and the most
// recent joystick state and returns the action to run, if any.
func (d *AuxDispatcher) Update(now time.Time, down bool, s State) Action {
	switch {
	case down && !d.down:
		d.down = true
		d.press(s)
	case !down && d.down:
		d.down = false
		return d.release(now)
	case !down && d.cycle.dirty && now.Sub(d.cycle.lastRelease) > d.Window:
		d.cycle.dirty = false
		return d.Table.Click
	}
	return ActionNone
}

func (d *AuxDispatcher) press(s State) {
	c := &d.cycle
	c.request = d.Table.For(s.Held())
	c.programmed = false
	c.baseline = make(map[keyboard.Keycode]bool)
	c.consumed = make(map[keyboard.Keycode]bool)
	c.direct = make(map[keyboard.Keycode]bool)
	for _, k := range d.mapper.Asserted(s) {
		c.baseline[k] = true
	}
	for _, k := range d.mapper.table(s) {
		if k.on {
			c.direct[k.key] = true
		}
	}
}

func (d *AuxDispatcher) release(now time.Time) Action {
	c := &d.cycle
	switch {
	case c.programmed:
		d.finish(now)
		return ActionNone
	case c.request != ActionNone:
		a := c.request
		d.finish(now)
		return a
	case d.Window <= 0:
		d.finish(now)
		return d.Table.Click
	case c.dirty && now.Sub(c.lastRelease) <= d.Window:
		d.finish(now)
		return d.Table.DoubleClick
	case c.dirty:
		// The earlier click expired while this one was held: it is owed
		// now and this release starts a new window.
		c.lastRelease = now
		return d.Table.Click
	}
	c.dirty = true
	c.lastRelease = now
	return ActionNone
}

// finish clears the cycle after a dispatch.
func (d *AuxDispatcher) finish(now time.Time) {
	d.cycle = auxCycle{lastRelease: now}
}

// Intercept returns the sink the key mapper should use this poll: sink
// itself while aux is up, a rebinding wrapper while it is down.
func (d *AuxDispatcher) Intercept(sink Sink) Sink {
	if !d.down {
		return sink
	}
	d.icpt.Sink = sink
	return &d.icpt
}

// interceptor redirects new key assertions to the extra-key slot.
type interceptor struct {
	Sink
	d *AuxDispatcher
}

func (i *interceptor) Add(k keyboard.Keycode) {
	c := &i.d.cycle
	m := i.d.mapper
	if c.consumed[k] {
		return
	}
	if c.baseline[k] || k == m.Binding.Extra {
		i.Sink.Add(k)
		return
	}
	old := m.Binding.Extra
	m.Rebind(k)
	c.consumed[k] = true
	c.programmed = true
	// The old extra key stays down while its direction is still held.
	if old != k && !c.direct[old] {
		i.Sink.Remove(old)
	}
}

func (i *interceptor) Remove(k keyboard.Keycode) {
	delete(i.d.cycle.baseline, k)
	delete(i.d.cycle.direct, k)
	delete(i.d.cycle.consumed, k)
	i.Sink.Remove(k)
}

func (i *interceptor) Release(k keyboard.Keycode) {
	delete(i.d.cycle.baseline, k)
	delete(i.d.cycle.direct, k)
	delete(i.d.cycle.consumed, k)
	i.Sink.Release(k)
}
