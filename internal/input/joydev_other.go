//go:build !linux

package input

import (
	"context"
	"errors"
	"log/slog"
)

var errJoydevUnsupported = errors.New("joydev input is only available on linux")

// OpenJoydev always fails: the joystick device API is Linux only.
func OpenJoydev(path string, m Mapping, logger *slog.Logger) (*Joydev, error) {
	return nil, errJoydevUnsupported
}

func (j *Joydev) Run(ctx context.Context) error { return errJoydevUnsupported }

func (j *Joydev) Close() error { return nil }
