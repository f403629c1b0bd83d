package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Alia5/joykey/device/keyboard"
	"github.com/Alia5/joykey/internal/input"
	"github.com/Alia5/joykey/internal/log"
	"github.com/Alia5/joykey/internal/output"
	"github.com/Alia5/joykey/joystick"
)

// Replay plays a scripted input sequence through a session and logs the
// resulting reports. Time is simulated, so the replay finishes immediately.
type Replay struct {
	Script   string          `arg:"" name:"script" help:"YAML input script" type:"existingfile"`
	Joystick JoystickOptions `embed:"" prefix:"joystick."`
	Aux      AuxOptions      `embed:"" prefix:"aux."`
	Keys     KeyOptions      `embed:"" prefix:"keys."`
}

// ReplayResult summarizes a replay.
type ReplayResult struct {
	Profile joystick.Profile
	Actions []joystick.Action
	Reports int
}

// Run is called by Kong when the replay command is executed.
func (r *Replay) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	f, err := os.Open(r.Script)
	if err != nil {
		return err
	}
	defer f.Close()
	script, err := input.LoadScript(f)
	if err != nil {
		return fmt.Errorf("%s: %w", r.Script, err)
	}

	res, err := r.Play(script, logger, rawLogger)
	if err != nil {
		return err
	}
	logger.Info("Replay finished", "calibration", res.Profile, "actions", res.Actions, "reports", res.Reports)
	return nil
}

// Play runs script to its end on a virtual clock.
func (r *Replay) Play(script *input.Script, logger *slog.Logger, rawLogger log.RawLogger) (*ReplayResult, error) {
	cfg, err := sessionConfig(r.Joystick, r.Aux, r.Keys)
	if err != nil {
		return nil, err
	}

	clock := input.NewVirtualClock(time.Now())
	rp := input.NewReplay(script, clock)
	profile := r.Joystick.calibrator(rp, clock).Calibrate()
	logger.Info("Calibrated", "profile", profile, "t", rp.Elapsed())

	out := output.NewLog(logger).Timed(rp.Elapsed)
	sink := keyboard.NewSink(log.Tap(out, rawLogger))
	session := joystick.NewSession(cfg, profile, rp, sink, clock, logger)

	// Virtual time only moves when the session sleeps.
	tick := max(cfg.PollInterval, time.Millisecond)

	res := &ReplayResult{Profile: profile}
	sink.ReleaseAll()
	for !rp.Done() {
		if a := session.Step(); a != joystick.ActionNone {
			res.Actions = append(res.Actions, a)
		}
		if err := sink.Err(); err != nil {
			return nil, err
		}
		clock.Sleep(tick)
	}
	sink.ReleaseAll()
	res.Reports = out.Reports()
	return res, sink.Err()
}
