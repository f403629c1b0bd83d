package joystick

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alia5/joykey/device/keyboard"
)

// Config holds the tunables of a Session.
type Config struct {
	Axes         Axes
	Keymap       Keymap
	ExtraKey     keyboard.Keycode
	Actions      ActionTable
	ActionKeys   ActionKeys
	DoubleClick  time.Duration // aux double-click window; 0 disables double clicks
	Grace        time.Duration // pause after every aux action
	Pace         time.Duration // pause after each typed key press and release
	PollInterval time.Duration // pause between iterations of Run
	Oversample   int           // raw sub-samples averaged per axis reading
}

// DefaultConfig returns the built-in tuning for a 10-bit stick.
func DefaultConfig() Config {
	return Config{
		Axes:         Axes{Thresholds: Thresholds{Engage: 120, Release: 100}},
		Keymap:       DefaultKeymap,
		ExtraKey:     keyboard.KeySpace,
		Actions:      DefaultActions,
		ActionKeys:   DefaultActionKeys,
		DoubleClick:  300 * time.Millisecond,
		Grace:        500 * time.Millisecond,
		Pace:         70 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Oversample:   4,
	}
}

// Session is the polling loop and everything it owns. It must only be used
// from one goroutine.
type Session struct {
	cfg     Config
	in      Sampler
	sink    Sink
	clock   Clock
	logger  *slog.Logger
	profile Profile
	started time.Time

	state  State
	stale  bool // state was cleared by an aux action
	mapper *KeyMapper
	aux    *AuxDispatcher

	observe func(Snapshot)
	last    Snapshot
}

// Snapshot is the externally visible outcome of one Step.
type Snapshot struct {
	State  State            `json:"state"`
	Aux    bool             `json:"aux"`
	Extra  keyboard.Keycode `json:"extra"`
	Action Action           `json:"action"`
}

// NewSession wires a session around an already measured profile.
func NewSession(cfg Config, profile Profile, in Sampler, sink Sink, clock Clock, logger *slog.Logger) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	mapper := NewKeyMapper(cfg.Keymap, cfg.ExtraKey)
	return &Session{
		cfg:     cfg,
		in:      in,
		sink:    sink,
		clock:   clock,
		logger:  logger,
		profile: profile,
		started: clock.Now(),
		mapper:  mapper,
		aux:     NewAuxDispatcher(cfg.DoubleClick, cfg.Actions, mapper),
	}
}

// State returns the joystick state computed by the last Step.
func (s *Session) State() State { return s.state }

// Profile returns the calibration profile.
func (s *Session) Profile() Profile { return s.profile }

// ExtraKey returns the key currently bound to autofire.
func (s *Session) ExtraKey() keyboard.Keycode { return s.mapper.Binding.Extra }

// Observe registers fn to be called from the stepping goroutine whenever the
// snapshot differs from the previous one. fn must not block.
func (s *Session) Observe(fn func(Snapshot)) { s.observe = fn }

func (s *Session) notify(aux bool, a Action) {
	if s.observe == nil {
		return
	}
	snap := Snapshot{State: s.state, Aux: aux, Extra: s.mapper.Binding.Extra, Action: a}
	if snap == s.last {
		return
	}
	s.last = snap
	s.observe(snap)
}

// Step runs one iteration of the loop and returns the aux action it
// dispatched, if any.
func (s *Session) Step() Action {
	x, y := ReadAveraged(s.in, s.cfg.Oversample)
	b := s.in.ReadButtons()

	// A press right after an action must see the stick as it is now, not the
	// cleared state, or a held direction turns into a rebind.
	if s.stale {
		s.state = s.sample(State{}, x, y, b)
		s.stale = false
	}

	if a := s.aux.Update(s.clock.Now(), b.Aux, s.state); a != ActionNone {
		s.logger.Info("aux action", "action", a)
		s.perform(a)
		s.clock.Sleep(s.cfg.Grace)
		s.sink.ReleaseAll()
		s.state = State{}
		s.stale = true
		s.mapper.Reset()
		s.notify(b.Aux, a)
		return a
	}

	s.state = s.sample(s.state, x, y, b)

	extra := s.mapper.Binding.Extra
	s.mapper.Reconcile(s.state, s.aux.Intercept(s.sink))
	if s.mapper.Binding.Extra != extra {
		s.logger.Info("extra key rebound", "from", extra, "to", s.mapper.Binding.Extra)
	}

	if s.sink.Held() > 0 {
		s.sink.Send()
	}
	s.notify(b.Aux, ActionNone)
	return ActionNone
}

func (s *Session) sample(prev State, x, y int, b Buttons) State {
	st := s.cfg.Axes.Update(prev, x, y, s.profile)
	st.Fire = b.Fire
	st.Autofire = b.Autofire
	return st
}

// Run releases every key and then steps until ctx is done or the sink
// reports a write error. Actions in progress always complete.
func (s *Session) Run(ctx context.Context) error {
	s.sink.ReleaseAll()
	s.logger.Info("joystick session running", "calibration", s.profile, "extra", s.mapper.Binding.Extra)
	for {
		select {
		case <-ctx.Done():
			s.sink.ReleaseAll()
			return nil
		default:
		}
		s.Step()
		if err := sinkErr(s.sink); err != nil {
			return err
		}
		s.clock.Sleep(s.cfg.PollInterval)
	}
}

func sinkErr(sink Sink) error {
	if e, ok := sink.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
