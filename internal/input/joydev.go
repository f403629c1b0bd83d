// Package input provides the joystick samplers: the Linux joystick device and
// scripted replays.
package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/Alia5/joykey/joystick"
)

// Linux joystick API event types (linux/joystick.h).
const (
	jsEventButton = 0x01
	jsEventAxis   = 0x02
	jsEventInit   = 0x80
)

// jsEvent is struct js_event.
type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

const jsEventSize = 8

// AxisMax is the top of the range ReadAxes reports. Device axes are scaled to
// 0..AxisMax so the thresholds mean the same as on a 10-bit ADC.
const AxisMax = 1023

// Mapping picks the axes and buttons of a joystick device. A negative button
// index leaves that button unmapped.
type Mapping struct {
	AxisX    int `help:"Axis number of the horizontal stick axis" default:"0"`
	AxisY    int `help:"Axis number of the vertical stick axis" default:"1"`
	Fire     int `help:"Button number of fire" default:"0"`
	Autofire int `help:"Button number of autofire (-1 for none)" default:"1"`
	Aux      int `help:"Button number of aux (-1 for none)" default:"2"`
}

// Joydev is a sampler fed from a joystick device. A reader goroutine applies
// events with Run; ReadAxes and ReadButtons return the latest values.
type Joydev struct {
	name string
	m    Mapping
	fd   int

	mu      sync.Mutex
	x, y    int
	buttons joystick.Buttons
}

func newJoydev(name string, m Mapping) *Joydev {
	return &Joydev{name: name, m: m, fd: -1, x: AxisMax / 2, y: AxisMax / 2}
}

// Name returns the device path.
func (j *Joydev) Name() string { return j.name }

func (j *Joydev) ReadAxes() (int, int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.x, j.y
}

func (j *Joydev) ReadButtons() joystick.Buttons {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.buttons
}

// scaleAxis maps -32767..32767 onto 0..AxisMax.
func scaleAxis(v int16) int {
	return (int(v) + 32768) * (AxisMax + 1) / 65536
}

// feed applies every complete event in b and returns the number of bytes used.
func (j *Joydev) feed(b []byte) (int, error) {
	n := len(b) - len(b)%jsEventSize
	r := bytes.NewReader(b[:n])
	j.mu.Lock()
	defer j.mu.Unlock()
	for r.Len() > 0 {
		var ev jsEvent
		if err := binary.Read(r, binary.LittleEndian, &ev); err != nil {
			return 0, fmt.Errorf("decode event: %w", err)
		}
		j.apply(ev)
	}
	return n, nil
}

// apply updates the snapshot. Synthetic init events carry the initial state
// and are applied like real ones. Callers hold mu.
func (j *Joydev) apply(ev jsEvent) {
	num := int(ev.Number)
	switch ev.Type &^ jsEventInit {
	case jsEventAxis:
		switch num {
		case j.m.AxisX:
			j.x = scaleAxis(ev.Value)
		case j.m.AxisY:
			j.y = scaleAxis(ev.Value)
		}
	case jsEventButton:
		pressed := ev.Value != 0
		switch num {
		case j.m.Fire:
			j.buttons.Fire = pressed
		case j.m.Autofire:
			j.buttons.Autofire = pressed
		case j.m.Aux:
			j.buttons.Aux = pressed
		}
	}
}
