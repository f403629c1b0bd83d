package joystick_test

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Alia5/joykey/device/keyboard"
	"github.com/Alia5/joykey/joystick"
)

// manualClock only moves when slept on or advanced.
type manualClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeSampler returns whatever the test last set.
type fakeSampler struct {
	x, y    int
	buttons joystick.Buttons
	reads   int
}

func (f *fakeSampler) ReadAxes() (int, int) {
	f.reads++
	return f.x, f.y
}

func (f *fakeSampler) ReadButtons() joystick.Buttons { return f.buttons }

// recordingSink keeps the held set and a log of every call.
type recordingSink struct {
	held keyboard.Report
	ops  []string
	sent [][]keyboard.Keycode
}

func (r *recordingSink) log(op string, k keyboard.Keycode) {
	r.ops = append(r.ops, fmt.Sprintf("%s(%s)", op, k))
}

func (r *recordingSink) Press(k keyboard.Keycode) {
	r.log("press", k)
	r.held.Add(k)
	r.flush()
}

func (r *recordingSink) Release(k keyboard.Keycode) {
	r.log("release", k)
	r.held.Remove(k)
	r.flush()
}

func (r *recordingSink) Add(k keyboard.Keycode) {
	r.log("add", k)
	r.held.Add(k)
}

func (r *recordingSink) Remove(k keyboard.Keycode) {
	r.log("remove", k)
	r.held.Remove(k)
}

func (r *recordingSink) ReleaseAll() {
	r.ops = append(r.ops, "releaseAll")
	r.held.Clear()
	r.flush()
}

func (r *recordingSink) Send() {
	r.ops = append(r.ops, "send")
	r.flush()
}

func (r *recordingSink) Held() int { return r.held.Len() }

func (r *recordingSink) flush() { r.sent = append(r.sent, r.held.Keys()) }

func (r *recordingSink) Keys() []keyboard.Keycode { return r.held.Keys() }

// pressed returns the keys that were pressed with Press, in order.
func (r *recordingSink) pressed() []string {
	var out []string
	for _, op := range r.ops {
		if len(op) > 6 && op[:6] == "press(" {
			out = append(out, op[6:len(op)-1])
		}
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
