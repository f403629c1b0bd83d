package output

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/joykey/apiclient"
	"github.com/Alia5/joykey/device/keyboard"
	jklog "github.com/Alia5/joykey/internal/log"
)

// cleanupTimeout bounds the device and bus removal done by Close.
const cleanupTimeout = 3 * time.Second

// Viiper is a virtual USB keyboard attached to a VIIPER server.
type Viiper struct {
	api    *apiclient.Client
	stream *apiclient.DeviceStream
	logger *slog.Logger
	raw    jklog.RawLogger

	busID      uint32
	createdBus bool

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

// OpenViiper attaches a keyboard to bus and connects its stream. Bus 0 picks
// the lowest existing bus or creates one; a bus created here is removed
// again by Close.
func OpenViiper(ctx context.Context, api *apiclient.Client, bus uint32, logger *slog.Logger, raw jklog.RawLogger) (*Viiper, error) {
	if raw == nil {
		raw = jklog.NewRaw(nil)
	}
	busID, created := bus, false
	if busID == 0 {
		var err error
		busID, created, err = api.FindOrCreateBus(ctx)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Info("created bus", "bus", busID)
		} else {
			logger.Info("using existing bus", "bus", busID)
		}
	}

	stream, dev, err := api.AddDeviceAndConnect(ctx, busID, apiclient.DeviceType)
	if err != nil {
		if created {
			_, _ = api.BusRemove(context.WithoutCancel(ctx), busID)
		}
		return nil, fmt.Errorf("attach keyboard to bus %d: %w", busID, err)
	}
	logger.Info("virtual keyboard attached", "bus", dev.BusID, "device", dev.DevId)

	return &Viiper{
		api:        api,
		stream:     stream,
		logger:     logger,
		raw:        raw,
		busID:      busID,
		createdBus: created,
		closed:     make(chan struct{}),
	}, nil
}

func (v *Viiper) WriteBinary(b encoding.BinaryMarshaler) error {
	return v.stream.WriteBinary(b)
}

// WatchLEDs reads the host's LED feedback until the stream is closed. The
// keypad only produces the mapped keys with NumLock on, so turning it off is
// logged as a warning.
func (v *Viiper) WatchLEDs(ctx context.Context) error {
	var b [1]byte
	numLock := true
	for {
		if _, err := io.ReadFull(v.stream, b[:]); err != nil {
			select {
			case <-v.closed:
				return nil
			default:
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read led feedback: %w", err)
		}
		v.raw.Log(false, b[:])

		var st keyboard.LEDState
		if err := st.UnmarshalBinary(b[:]); err != nil {
			continue
		}
		v.logger.Debug("host leds", "leds", st)
		if numLock && !st.NumLock {
			v.logger.Warn("NumLock is off on the host; keypad keys will act as navigation keys")
		}
		numLock = st.NumLock
	}
}

// Close closes the stream and detaches the keyboard. It is safe to call more
// than once.
func (v *Viiper) Close() error {
	v.closeOnce.Do(func() {
		close(v.closed)
		errs := []error{v.stream.Close()}

		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if _, err := v.api.DeviceRemove(ctx, v.busID, v.stream.DevID); err != nil {
			errs = append(errs, fmt.Errorf("remove device %d-%s: %w", v.busID, v.stream.DevID, err))
		} else {
			v.logger.Info("virtual keyboard removed", "bus", v.busID, "device", v.stream.DevID)
		}
		if v.createdBus {
			if _, err := v.api.BusRemove(ctx, v.busID); err != nil {
				errs = append(errs, fmt.Errorf("remove bus %d: %w", v.busID, err))
			} else {
				v.logger.Info("removed bus", "bus", v.busID)
			}
		}
		v.closeErr = errors.Join(errs...)
	})
	return v.closeErr
}
