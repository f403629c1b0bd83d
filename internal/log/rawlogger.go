package log

import (
	"encoding"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Alia5/joykey/device"
)

// RawLogger dumps raw wire data.
type RawLogger interface {
	// Log writes one line for data. toHost is true for reports sent to the
	// host and false for feedback received from it.
	Log(toHost bool, data []byte)
}

type rawLogger struct {
	w   io.Writer
	now func() time.Time
	mu  sync.Mutex
}

// NewRaw creates a RawLogger writing to w. A nil w discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

func (r *rawLogger) Log(toHost bool, data []byte) {
	if len(data) == 0 || r.w == nil {
		return
	}
	dir := "<-host"
	if toHost {
		dir = "->host"
	}
	line := fmt.Sprintf("%s %s %d bytes: % x\n", r.now().Format("2006/01/02 15:04:05.000"), dir, len(data), data)

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}

// reportTap logs each report before forwarding it.
type reportTap struct {
	next device.ReportWriter
	raw  RawLogger
}

// Tap returns a ReportWriter that hands every report to raw before writing it
// to next. A nil next only logs.
func Tap(next device.ReportWriter, raw RawLogger) device.ReportWriter {
	return &reportTap{next: next, raw: raw}
}

func (t *reportTap) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	t.raw.Log(true, data)
	if t.next == nil {
		return nil
	}
	return t.next.WriteBinary(v)
}
