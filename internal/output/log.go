package output

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/joykey/device"
	"github.com/Alia5/joykey/device/keyboard"
	jklog "github.com/Alia5/joykey/internal/log"
)

// Log is a backend that only logs what it receives.
type Log struct {
	logger  *slog.Logger
	at      func() time.Duration
	reports int
}

// NewLog returns a backend logging every report to logger.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Timed adds the elapsed time reported by at to every line. Replays use it to
// log script time instead of wall time.
func (l *Log) Timed(at func() time.Duration) *Log {
	l.at = at
	return l
}

func (l *Log) WriteBinary(v encoding.BinaryMarshaler) error {
	l.reports++
	logger := l.logger
	if l.at != nil {
		logger = logger.With("t", l.at())
	}
	if r, ok := v.(*keyboard.Report); ok {
		logger.Info("keys", "held", r.Keys())
	}
	if b, ok := v.(device.ReportBuilder); ok {
		logger.Log(context.Background(), jklog.LevelTrace, "hid report", "data", fmt.Sprintf("% x", b.BuildReport()))
	}
	return nil
}

// Reports returns the number of reports written so far.
func (l *Log) Reports() int { return l.reports }

func (l *Log) Close() error { return nil }
