// Package testing holds test doubles shared by package tests.
package testing

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// FakeServer is a VIIPER API server speaking the plain (unauthenticated)
// protocol. Requests found in Responses get their canned answer; any other
// "bus/<bus>/<dev>" request is a keyboard stream: every report read from it is
// sent on Reports, and the feedback bytes are written back after the first.
type FakeServer struct {
	Addr      string
	Responses map[string]string
	Reports   chan []byte

	mu       sync.Mutex
	requests []string
	feedback []byte
}

// NewFakeServer starts a server on a loopback port. It stops when the test
// ends.
func NewFakeServer(t *testing.T, responses map[string]string) *FakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	s := &FakeServer{
		Addr:      ln.Addr().String(),
		Responses: responses,
		Reports:   make(chan []byte, 16),
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.handle(conn)
		}
	}()
	return s
}

// SetFeedback sets the bytes a stream answers its first report with.
func (s *FakeServer) SetFeedback(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = b
}

// Requests returns every request received so far, without the terminator.
func (s *FakeServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *FakeServer) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)
	req, err := r.ReadString(0)
	if err != nil {
		return
	}
	req = strings.TrimSuffix(req, "\x00")
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if resp, ok := s.Responses[req]; ok || !isStream(req) {
		_, _ = io.WriteString(conn, resp+"\n")
		return
	}

	s.mu.Lock()
	feedback := s.feedback
	s.mu.Unlock()

	first := true
	for {
		hdr := make([]byte, 2)
		if _, err := io.ReadFull(r, hdr); err != nil {
			return
		}
		keys := make([]byte, hdr[1])
		if _, err := io.ReadFull(r, keys); err != nil {
			return
		}
		s.Reports <- append(hdr, keys...)
		if first && len(feedback) > 0 {
			_, _ = conn.Write(feedback)
		}
		first = false
	}
}

func isStream(req string) bool {
	return !strings.Contains(req, " ") && strings.Count(req, "/") == 2
}
