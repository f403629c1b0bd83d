package output_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alia5/joykey/apiclient"
	"github.com/Alia5/joykey/device/keyboard"
	jklog "github.com/Alia5/joykey/internal/log"
	"github.com/Alia5/joykey/internal/output"
	htesting "github.com/Alia5/joykey/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var fakeResponses = map[string]string{
	"bus/list":                      `{"buses":[]}`,
	"bus/create 1":                  `{"busId":1}`,
	`bus/1/add {"type":"keyboard"}`: `{"busId":1,"devId":"1","type":"keyboard"}`,
	"bus/1/remove 1":                `{"busId":1,"devId":"1"}`,
	"bus/remove 1":                  `{"busId":1}`,
}

func TestViiperLifecycle(t *testing.T) {
	srv := htesting.NewFakeServer(t, fakeResponses)
	srv.SetFeedback([]byte{keyboard.LEDNumLock, 0})
	logs := &lockedBuffer{}
	raw := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	kb, err := output.OpenViiper(context.Background(), apiclient.New(srv.Addr, nil), 0, logger, jklog.NewRaw(raw))
	require.NoError(t, err)

	watched := make(chan error, 1)
	go func() { watched <- kb.WatchLEDs(context.Background()) }()

	var r keyboard.Report
	r.Add(keyboard.KeyKp1)
	require.NoError(t, kb.WriteBinary(&r))
	select {
	case got := <-srv.Reports:
		assert.Equal(t, []byte{0, 1, byte(keyboard.KeyKp1)}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("report not received")
	}

	assert.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "NumLock is off")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, raw.String(), "<-host 1 bytes: 01")

	require.NoError(t, kb.Close())
	require.NoError(t, kb.Close())
	select {
	case err := <-watched:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WatchLEDs did not return after Close")
	}

	assert.Equal(t, []string{
		"bus/list",
		"bus/create 1",
		`bus/1/add {"type":"keyboard"}`,
		"bus/1/1",
		"bus/1/remove 1",
		"bus/remove 1",
	}, srv.Requests())
}

func TestViiperExplicitBusIsKept(t *testing.T) {
	srv := htesting.NewFakeServer(t, fakeResponses)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	kb, err := output.OpenViiper(context.Background(), apiclient.New(srv.Addr, nil), 1, logger, nil)
	require.NoError(t, err)
	require.NoError(t, kb.Close())

	assert.Equal(t, []string{
		`bus/1/add {"type":"keyboard"}`,
		"bus/1/1",
		"bus/1/remove 1",
	}, srv.Requests())
}

func TestViiperRemovesCreatedBusOnFailure(t *testing.T) {
	responses := map[string]string{
		"bus/list":                      `{"buses":[]}`,
		"bus/create 1":                  `{"busId":1}`,
		`bus/1/add {"type":"keyboard"}`: `{"status":400,"title":"Bad Request","detail":"unknown device type"}`,
		"bus/remove 1":                  `{"busId":1}`,
	}
	srv := htesting.NewFakeServer(t, responses)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := output.OpenViiper(context.Background(), apiclient.New(srv.Addr, nil), 0, logger, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown device type")
	assert.Equal(t, "bus/remove 1", srv.Requests()[len(srv.Requests())-1])
}

func TestLogBackend(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: jklog.LevelTrace}))
	l := output.NewLog(logger)

	var r keyboard.Report
	r.Add(keyboard.KeyKp1)
	r.Add(keyboard.KeySpace)
	require.NoError(t, l.WriteBinary(&r))
	require.NoError(t, l.WriteBinary(&keyboard.Report{}))

	assert.Equal(t, 2, l.Reports())
	out := buf.String()
	assert.Contains(t, out, `held="[Space Kp1]"`)
	assert.Contains(t, out, "hid report")
	assert.NoError(t, l.Close())
}
