package apiclient_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/Alia5/joykey/apiclient"
	"github.com/Alia5/joykey/device/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer accepts one connection, reads one null-terminated request and
// hands the connection to handle.
func startServer(t *testing.T, handle func(req string, conn net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
		req, err := bufio.NewReader(conn).ReadString(0)
		if err != nil {
			return
		}
		handle(req, conn)
	}()
	return ln.Addr().String()
}

func TestTransportRequestFraming(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		payload any
		params  map[string]string
		want    string
	}{
		{name: "nil payload", path: "bus/list", want: "bus/list\x00"},
		{name: "empty string", path: "bus/list", payload: "", want: "bus/list\x00"},
		{name: "string", path: "bus/create", payload: "7", want: "bus/create 7\x00"},
		{name: "bytes", path: "echo", payload: []byte("raw"), want: "echo raw\x00"},
		{name: "json", path: "bus/{id}/add", payload: map[string]string{"type": "keyboard"}, params: map[string]string{"id": "1"}, want: `bus/1/add {"type":"keyboard"}` + "\x00"},
		{name: "path is lowered", path: "Bus/List", want: "bus/list\x00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := make(chan string, 1)
			addr := startServer(t, func(req string, conn net.Conn) {
				got <- req
				_, _ = io.WriteString(conn, "{}\n")
			})

			resp, err := apiclient.NewTransport(addr, nil).Do(context.Background(), tc.path, tc.payload, tc.params)
			require.NoError(t, err)
			assert.Equal(t, "{}", resp, "trailing newline trimmed")
			assert.Equal(t, tc.want, <-got)
		})
	}
}

func TestTransportDialError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = apiclient.NewTransport(addr, nil).Do(context.Background(), "ping", nil, nil)
	assert.ErrorContains(t, err, "dial")
}

func TestDeviceStream(t *testing.T) {
	received := make(chan []byte, 1)
	addr := startServer(t, func(req string, conn net.Conn) {
		if req != "bus/1/3\x00" {
			return
		}
		buf := make([]byte, 3)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		received <- buf
		_, _ = conn.Write([]byte{keyboard.LEDNumLock})
		_, _ = io.Copy(io.Discard, conn)
	})

	c := apiclient.New(addr, nil)
	stream, err := c.OpenStream(context.Background(), 1, "3")
	require.NoError(t, err)

	var r keyboard.Report
	r.Add(keyboard.KeyKp1)
	require.NoError(t, stream.WriteBinary(&r))
	assert.Equal(t, []byte{0, 1, byte(keyboard.KeyKp1)}, <-received)

	led := make([]byte, 1)
	_, err = io.ReadFull(stream, led)
	require.NoError(t, err)
	assert.Equal(t, byte(keyboard.LEDNumLock), led[0])

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
	assert.ErrorIs(t, stream.WriteBinary(&r), apiclient.ErrStreamClosed)
}
