package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/joykey/internal/input"
	"github.com/Alia5/joykey/joystick"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Calibrate measures the rest position of the stick and prints it.
type Calibrate struct {
	Joystick JoystickOptions `embed:"" prefix:"joystick."`
	Input    InputOptions    `embed:"" prefix:"input."`
	Format   string          `help:"Output format" enum:"yaml,json" default:"yaml"`
}

// calibration is the printed result. Noise is the largest distance from the
// center seen in a second round of readings.
type calibration struct {
	joystick.Profile `yaml:",inline"`
	Noise            int `json:"noise" yaml:"noise"`
}

// Run is called by Kong when the calibrate command is executed.
func (c *Calibrate) Run(logger *slog.Logger) error {
	if err := c.Joystick.validate(); err != nil {
		return fmt.Errorf("invalid joystick options: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	js, err := input.OpenJoydev(c.Input.Device, c.Input.Mapping, logger)
	if err != nil {
		return err
	}
	defer js.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return js.Run(gctx) })
	finish := func(err error) error {
		stop()
		if werr := g.Wait(); werr != nil {
			return werr
		}
		return err
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Calibrating %s: center the stick, let go and press Enter ", js.Name())
		if err := waitEnter(gctx, os.Stdin); err != nil {
			return finish(nil)
		}
	}
	res := c.measure(js, joystick.SystemClock{}, logger)
	if gctx.Err() != nil {
		return finish(nil)
	}
	return finish(c.write(os.Stdout, res))
}

// waitEnter returns once a line has been read from r or ctx is done.
func waitEnter(ctx context.Context, r io.Reader) error {
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r).ReadString('\n')
		done <- err
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (c *Calibrate) measure(r joystick.AxisReader, clock joystick.Clock, logger *slog.Logger) calibration {
	res := calibration{Profile: c.Joystick.calibrator(r, clock).Calibrate()}
	for i := 0; i < c.Joystick.Samples; i++ {
		x, y := joystick.ReadAveraged(r, c.Joystick.Oversample)
		res.Noise = max(res.Noise, abs(x-res.XCenter), abs(y-res.YCenter))
	}
	if res.Noise > c.Joystick.Release {
		logger.Warn("Stick noise exceeds the release threshold; directions may flicker",
			"noise", res.Noise, "release", c.Joystick.Release)
	}
	return res
}

func (c *Calibrate) write(w io.Writer, res calibration) error {
	switch c.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(res)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
