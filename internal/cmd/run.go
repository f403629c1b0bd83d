package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/joykey/apiclient"
	"github.com/Alia5/joykey/device/keyboard"
	"github.com/Alia5/joykey/internal/input"
	"github.com/Alia5/joykey/internal/log"
	"github.com/Alia5/joykey/internal/monitor"
	"github.com/Alia5/joykey/internal/output"
	"github.com/Alia5/joykey/joystick"
	"golang.org/x/sync/errgroup"
)

// OutputOptions select where keyboard reports go.
type OutputOptions struct {
	Backend  string        `help:"Report destination" enum:"viiper,log" default:"viiper" env:"JOYKEY_OUTPUT"`
	Addr     string        `help:"VIIPER API server address" default:"localhost:3242" env:"JOYKEY_VIIPER_ADDR"`
	Password string        `help:"VIIPER API password (empty for an unauthenticated server)" env:"JOYKEY_PASSWORD"`
	Bus      uint32        `help:"VIIPER bus to attach the keyboard to (0 picks or creates one)" default:"0"`
	Timeout  time.Duration `help:"VIIPER dial and request timeout" default:"3s"`
}

func (o OutputOptions) open(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) (output.Backend, error) {
	switch o.Backend {
	case "log":
		return output.NewLog(logger), nil
	case "viiper":
		cfg := apiclient.DefaultConfig()
		cfg.DialTimeout = o.Timeout
		cfg.ReadTimeout = o.Timeout
		cfg.Password = o.Password
		return output.OpenViiper(ctx, apiclient.New(o.Addr, &cfg), o.Bus, logger, rawLogger)
	default:
		return nil, fmt.Errorf("unknown output backend %q", o.Backend)
	}
}

// MonitorOptions control the websocket state monitor.
type MonitorOptions struct {
	Addr string `help:"Listen address of the websocket state monitor (empty disables it)" env:"JOYKEY_MONITOR_ADDR"`
}

// Run translates a joystick device into a virtual keyboard until interrupted.
type Run struct {
	Joystick JoystickOptions `embed:"" prefix:"joystick."`
	Aux      AuxOptions      `embed:"" prefix:"aux."`
	Keys     KeyOptions      `embed:"" prefix:"keys."`
	Input    InputOptions    `embed:"" prefix:"input."`
	Output   OutputOptions   `embed:"" prefix:"output."`
	Monitor  MonitorOptions  `embed:"" prefix:"monitor."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, rawLogger)
}

func (r *Run) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	cfg, err := sessionConfig(r.Joystick, r.Aux, r.Keys)
	if err != nil {
		return err
	}

	js, err := input.OpenJoydev(r.Input.Device, r.Input.Mapping, logger)
	if err != nil {
		return err
	}
	defer js.Close()

	var ln net.Listener
	if r.Monitor.Addr != "" {
		if ln, err = net.Listen("tcp", r.Monitor.Addr); err != nil {
			return fmt.Errorf("monitor listen: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return js.Run(gctx) })

	// stopEarly shuts down what was started before the session.
	stopEarly := func(err error) error {
		cancel()
		if werr := g.Wait(); werr != nil {
			err = werr
		}
		if ln != nil {
			_ = ln.Close()
		}
		return err
	}

	logger.Info("Calibrating, leave the stick centered", "device", js.Name(), "settle", r.Joystick.Settle)
	profile := r.Joystick.calibrator(js, joystick.SystemClock{}).Calibrate()
	if gctx.Err() != nil {
		return stopEarly(nil)
	}
	logger.Info("Calibrated", "profile", profile)

	out, err := r.Output.open(gctx, logger, rawLogger)
	if err != nil {
		return stopEarly(err)
	}

	sink := keyboard.NewSink(log.Tap(out, rawLogger))
	session := joystick.NewSession(cfg, profile, js, sink, joystick.SystemClock{}, logger)

	if ln != nil {
		hub := monitor.NewHub(logger, 16)
		session.Observe(hub.Publish)
		g.Go(func() error { return monitor.Serve(gctx, ln, hub, logger) })
	}
	if kb, ok := out.(*output.Viiper); ok {
		g.Go(func() error { return kb.WatchLEDs(gctx) })
	}
	g.Go(func() error {
		defer func() {
			if err := out.Close(); err != nil {
				logger.Warn("output cleanup failed", "error", err)
			}
		}()
		if err := session.Run(gctx); err != nil {
			return fmt.Errorf("keyboard output: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("Stopped")
	return err
}
