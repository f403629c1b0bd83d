package apiclient

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	apitypes "github.com/Alia5/joykey/apitypes"
)

// ErrStreamClosed is returned by writes after Close.
var ErrStreamClosed = errors.New("stream closed")

// DeviceStream is the bidirectional input/feedback channel of one device.
type DeviceStream struct {
	BusID uint32
	DevID string

	conn         net.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// OpenStream connects to the stream of an existing device.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*DeviceStream, error) {
	if c.transport.mock != nil {
		return nil, errors.New("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(conn, "bus/%d/%s\x00", busID, devID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &DeviceStream{BusID: busID, DevID: devID, conn: conn, writeTimeout: c.transport.cfg.WriteTimeout}, nil
}

// AddDeviceAndConnect adds a device to a bus and opens its stream. The
// device is removed again if the stream cannot be opened.
func (c *Client) AddDeviceAndConnect(ctx context.Context, busID uint32, devType string) (*DeviceStream, *apitypes.Device, error) {
	dev, err := c.DeviceAdd(ctx, busID, devType)
	if err != nil {
		return nil, nil, err
	}
	stream, err := c.OpenStream(ctx, busID, dev.DevId)
	if err != nil {
		_, _ = c.DeviceRemove(context.WithoutCancel(ctx), busID, dev.DevId)
		return nil, nil, err
	}
	return stream, dev, nil
}

// WriteBinary marshals v and sends it as device input.
func (s *DeviceStream) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("write %d-%s: %w", s.BusID, s.DevID, err)
	}
	return nil
}

// Read receives device feedback. It blocks until data arrives or the stream
// is closed.
func (s *DeviceStream) Read(p []byte) (int, error) {
	return s.conn.Read(p)
}

// Close closes the stream. Pending reads return an error.
func (s *DeviceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
