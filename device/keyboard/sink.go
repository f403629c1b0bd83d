package keyboard

import (
	"github.com/Alia5/joykey/device"
)

// Sink keeps the held-key set and flushes it to a ReportWriter.
//
// Add and Remove only edit the set; Press, Release and ReleaseAll edit it and
// flush. Send flushes the set, skipping the write when the host already has
// an identical report. The first write error is kept and returned by Err; the
// sink stops writing after that.
type Sink struct {
	w       device.ReportWriter
	held    Report
	sent    Report
	flushed bool
	err     error
}

// NewSink returns a Sink writing to w.
func NewSink(w device.ReportWriter) *Sink {
	return &Sink{w: w}
}

func (s *Sink) Add(k Keycode)    { s.held.Add(k) }
func (s *Sink) Remove(k Keycode) { s.held.Remove(k) }

func (s *Sink) Press(k Keycode) {
	s.held.Add(k)
	s.Send()
}

func (s *Sink) Release(k Keycode) {
	s.held.Remove(k)
	s.Send()
}

func (s *Sink) ReleaseAll() {
	s.held.Clear()
	s.Send()
}

// Held returns the number of keys currently in the set.
func (s *Sink) Held() int { return s.held.Len() }

// Keys returns the keys currently in the set.
func (s *Sink) Keys() []Keycode { return s.held.Keys() }

// Send flushes the held-key set as one report.
func (s *Sink) Send() {
	if s.err != nil {
		return
	}
	if s.flushed && s.sent == s.held {
		return
	}
	r := s.held
	if err := s.w.WriteBinary(&r); err != nil {
		s.err = err
		return
	}
	s.sent = r
	s.flushed = true
}

// Err returns the first error returned by the report writer.
func (s *Sink) Err() error { return s.err }
