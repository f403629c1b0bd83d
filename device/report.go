// Package device holds the contracts shared by emulated USB input devices.
package device

import "encoding"

// ReportBuilder is an interface for device input states that can build USB reports.
type ReportBuilder interface {
	// BuildReport encodes the input state into a byte slice for USB transfer.
	BuildReport() []byte
}

// ReportWriter receives flushed device input in its stream wire format.
// apiclient.DeviceStream satisfies it.
type ReportWriter interface {
	WriteBinary(v encoding.BinaryMarshaler) error
}
