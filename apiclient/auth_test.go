package apiclient

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"net"
	"testing"
	"time"

	apitypes "github.com/Alia5/joykey/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	key, err := DeriveKey("password123")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x94, 0x50, 0x29, 0x55, 0x1, 0xd7, 0x3, 0xf, 0x4, 0x61, 0xf, 0x81, 0x6a, 0xdf, 0x43, 0x1c, 0xaf, 0x8f, 0xc8, 0x21, 0xd4, 0xc1, 0x2f, 0x2f, 0x21, 0x2c, 0x1b, 0xf8, 0x64, 0x46, 0x9, 0x82}, key)

	_, err = DeriveKey("")
	assert.Error(t, err)
}

// authServer is the server half of the handshake. It answers a request with
// response over the encrypted connection, or hangs up on a bad password.
func authServer(t *testing.T, password, response string) (addr string, requests <-chan string) {
	t.Helper()
	key, err := DeriveKey(password)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	reqs := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

		hello := make([]byte, len(handshakeMagic)+nonceSize+sha256.Size)
		if _, err := io.ReadFull(conn, hello); err != nil {
			return
		}
		clientNonce := hello[len(handshakeMagic) : len(handshakeMagic)+nonceSize]
		if !hmac.Equal(hello[len(handshakeMagic)+nonceSize:], clientAuth(key, clientNonce)) {
			return
		}
		serverNonce := make([]byte, nonceSize)
		_, _ = rand.Read(serverNonce)
		if _, err := conn.Write(append([]byte("OK\x00"), serverNonce...)); err != nil {
			return
		}

		secure, err := newSecureConn(conn, sessionKey(key, serverNonce, clientNonce))
		if err != nil {
			return
		}
		var req []byte
		buf := make([]byte, 64)
		for !bytes.Contains(req, []byte{0}) {
			n, err := secure.Read(buf)
			if err != nil {
				return
			}
			req = append(req, buf[:n]...)
		}
		reqs <- string(req)
		_, _ = secure.Write([]byte(response + "\n"))
	}()
	return ln.Addr().String(), reqs
}

func TestAuthenticatedRequest(t *testing.T) {
	addr, reqs := authServer(t, "hunter2", `{"server":"VIIPER","version":"1.0"}`)
	cfg := DefaultConfig()
	cfg.Password = "hunter2"

	resp, err := New(addr, &cfg).Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &apitypes.PingResponse{Server: "VIIPER", Version: "1.0"}, resp)
	assert.Equal(t, "ping\x00", <-reqs)
}

func TestWrongPassword(t *testing.T) {
	addr, _ := authServer(t, "hunter2", "{}")
	cfg := DefaultConfig()
	cfg.Password = "letmein"

	_, err := New(addr, &cfg).BusList(context.Background())
	var problem *apitypes.ApiError
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 401, problem.Status)
}

func TestSecureConnRejectsTampering(t *testing.T) {
	key := make([]byte, 32)
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	w, err := newSecureConn(a, key)
	require.NoError(t, err)
	other := bytes.Repeat([]byte{1}, 32)
	r, err := newSecureConn(b, other)
	require.NoError(t, err)

	go func() { _, _ = w.Write([]byte("x")) }()
	_, err = r.Read(make([]byte, 8))
	assert.ErrorContains(t, err, "message authentication failed")

	_, err = newSecureConn(a, []byte{1, 2, 3})
	assert.ErrorContains(t, err, "bad key length")
}
