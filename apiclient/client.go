// Package apiclient is a client for the VIIPER management API, limited to
// what a virtual keyboard needs: bus and device management and the device
// input stream.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	apitypes "github.com/Alia5/joykey/apitypes"
)

// DeviceType is the VIIPER device type of an N-key rollover keyboard.
const DeviceType = "keyboard"

// Client wraps a Transport with typed requests.
type Client struct{ transport *Transport }

// New returns a client for the server at addr. A nil cfg uses DefaultConfig.
func New(addr string, cfg *Config) *Client { return &Client{transport: NewTransport(addr, cfg)} }

// WithTransport returns a client using t.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the server.
func (c *Client) Ping(ctx context.Context) (*apitypes.PingResponse, error) {
	return call[apitypes.PingResponse](ctx, c, "ping", nil, nil)
}

// BusList returns the numbers of all active buses.
func (c *Client) BusList(ctx context.Context) (*apitypes.BusListResponse, error) {
	return call[apitypes.BusListResponse](ctx, c, "bus/list", nil, nil)
}

// BusCreate creates bus busID. It fails if the number is taken.
func (c *Client) BusCreate(ctx context.Context, busID uint32) (*apitypes.BusCreateResponse, error) {
	return call[apitypes.BusCreateResponse](ctx, c, "bus/create", strconv.FormatUint(uint64(busID), 10), nil)
}

// BusRemove removes a bus and every device on it.
func (c *Client) BusRemove(ctx context.Context, busID uint32) (*apitypes.BusRemoveResponse, error) {
	return call[apitypes.BusRemoveResponse](ctx, c, "bus/remove", strconv.FormatUint(uint64(busID), 10), nil)
}

// DeviceAdd attaches a device of devType to a bus.
func (c *Client) DeviceAdd(ctx context.Context, busID uint32, devType string) (*apitypes.Device, error) {
	req := apitypes.DeviceCreateRequest{Type: devType}
	return call[apitypes.Device](ctx, c, "bus/{id}/add", req, busParams(busID))
}

// DeviceRemove detaches device devID from a bus, closing its stream.
func (c *Client) DeviceRemove(ctx context.Context, busID uint32, devID string) (*apitypes.DeviceRemoveResponse, error) {
	return call[apitypes.DeviceRemoveResponse](ctx, c, "bus/{id}/remove", devID, busParams(busID))
}

// FindOrCreateBus returns the lowest existing bus, or creates the first free
// bus number up to 100. created reports whether the bus is new.
func (c *Client) FindOrCreateBus(ctx context.Context) (busID uint32, created bool, err error) {
	buses, err := c.BusList(ctx)
	if err != nil {
		return 0, false, err
	}
	if len(buses.Buses) > 0 {
		busID = buses.Buses[0]
		for _, b := range buses.Buses[1:] {
			busID = min(busID, b)
		}
		return busID, false, nil
	}

	var lastErr error
	for try := uint32(1); try <= 100; try++ {
		r, err := c.BusCreate(ctx, try)
		if err == nil {
			return r.BusID, true, nil
		}
		lastErr = err
	}
	return 0, false, fmt.Errorf("create bus: %w", lastErr)
}

func busParams(busID uint32) map[string]string {
	return map[string]string{"id": strconv.FormatUint(uint64(busID), 10)}
}

func call[T any](ctx context.Context, c *Client, path string, payload any, params map[string]string) (*T, error) {
	raw, err := c.transport.Do(ctx, path, payload, params)
	if err != nil {
		return nil, err
	}
	return parse[T](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && problem.IsProblem() {
		return nil, &problem
	}
	var out T
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
