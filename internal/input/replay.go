package input

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Alia5/joykey/joystick"
	"gopkg.in/yaml.v3"
)

// Frame holds the inputs for a stretch of time. Axes left out keep the
// previous frame's value; buttons left out are released.
type Frame struct {
	For      time.Duration `yaml:"for"`
	X        *int          `yaml:"x,omitempty"`
	Y        *int          `yaml:"y,omitempty"`
	Fire     bool          `yaml:"fire,omitempty"`
	Autofire bool          `yaml:"autofire,omitempty"`
	Aux      bool          `yaml:"aux,omitempty"`
}

// Script is a recorded or hand-written input sequence.
//
//	rest: {x: 512, y: 512}
//	frames:
//	  - for: 300ms          # stick at rest while calibrating
//	  - for: 200ms
//	    x: 700              # push right
//	  - for: 50ms
//	    aux: true
type Script struct {
	Rest struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
	} `yaml:"rest"`
	Frames []Frame `yaml:"frames"`
}

// LoadScript decodes and validates a YAML script. Unknown keys are errors.
func LoadScript(r io.Reader) (*Script, error) {
	s := &Script{}
	s.Rest.X, s.Rest.Y = AxisMax/2, AxisMax/2

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode script: unexpected trailing document")
	}
	if len(s.Frames) == 0 {
		return nil, errors.New("script has no frames")
	}
	for i, f := range s.Frames {
		if f.For <= 0 {
			return nil, fmt.Errorf("frame %d: duration must be positive", i)
		}
	}
	return s, nil
}

type sample struct {
	until   time.Duration
	x, y    int
	buttons joystick.Buttons
}

// Replay is a sampler that plays a Script against a clock.
type Replay struct {
	clock   joystick.Clock
	start   time.Time
	samples []sample
}

// NewReplay starts playing s now.
func NewReplay(s *Script, clock joystick.Clock) *Replay {
	r := &Replay{clock: clock, start: clock.Now()}
	x, y := s.Rest.X, s.Rest.Y
	var until time.Duration
	for _, f := range s.Frames {
		if f.X != nil {
			x = *f.X
		}
		if f.Y != nil {
			y = *f.Y
		}
		until += f.For
		r.samples = append(r.samples, sample{
			until:   until,
			x:       x,
			y:       y,
			buttons: joystick.Buttons{Fire: f.Fire, Autofire: f.Autofire, Aux: f.Aux},
		})
	}
	return r
}

// Elapsed returns the script time played so far.
func (r *Replay) Elapsed() time.Duration { return r.clock.Now().Sub(r.start) }

// Duration returns the total length of the script.
func (r *Replay) Duration() time.Duration { return r.samples[len(r.samples)-1].until }

// Done reports whether the script has played to its end.
func (r *Replay) Done() bool { return r.Elapsed() >= r.Duration() }

// current returns the active frame. Past the end the last axes are held with
// every button released.
func (r *Replay) current() sample {
	at := r.Elapsed()
	for _, s := range r.samples {
		if at < s.until {
			return s
		}
	}
	last := r.samples[len(r.samples)-1]
	return sample{x: last.x, y: last.y}
}

func (r *Replay) ReadAxes() (int, int) {
	s := r.current()
	return s.x, s.y
}

func (r *Replay) ReadButtons() joystick.Buttons { return r.current().buttons }

// VirtualClock is a clock whose Sleep advances time instantly, so a replay
// runs as fast as the machine allows with exact timing.
type VirtualClock struct {
	now time.Time
}

// NewVirtualClock returns a clock starting at start.
func NewVirtualClock(start time.Time) *VirtualClock { return &VirtualClock{now: start} }

func (c *VirtualClock) Now() time.Time { return c.now }

func (c *VirtualClock) Sleep(d time.Duration) {
	if d > 0 {
		c.now = c.now.Add(d)
	}
}
