// Package output delivers the session's keyboard reports: to a VIIPER virtual
// keyboard, or only to the log.
package output

import (
	"io"

	"github.com/Alia5/joykey/device"
)

// Backend receives flushed keyboard reports.
type Backend interface {
	device.ReportWriter
	io.Closer
}
