// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avrkit/avrctl/pkg/avr"
	"github.com/gorilla/websocket"
	"go.bug.st/serial"
)

// resetConnFlags clears the package-level connection flags and restores
// their previous values when the test ends, so tests that drive openClient
// or the command tree do not leak state into each other.
func resetConnFlags(t *testing.T) {
	t.Helper()
	savedHost, savedPort := host, tcpPort
	savedSerial, savedBaud := serialDevice, baudRate
	savedURL, savedUser, savedVerify := wsURL, wsUsername, wsNoSSLVerify
	savedTimeout := cmdTimeout
	t.Cleanup(func() {
		host, tcpPort = savedHost, savedPort
		serialDevice, baudRate = savedSerial, savedBaud
		wsURL, wsUsername, wsNoSSLVerify = savedURL, savedUser, savedVerify
		cmdTimeout = savedTimeout
	})
	host, serialDevice, wsURL = "", "", ""
	tcpPort, baudRate = 23, 9600
	wsUsername, wsNoSSLVerify = "", false
	cmdTimeout = time.Second
}

// ============================================================
// Transport selection
// ============================================================

func TestOpenClient_RequiresATransport(t *testing.T) {
	resetConnFlags(t)

	_, _, err := openClient()
	if err == nil || !strings.Contains(err.Error(), "must be specified") {
		t.Fatalf("openClient() err = %v, want missing-transport error", err)
	}
}

func TestOpenClient_RejectsMultipleTransports(t *testing.T) {
	combos := []struct {
		name                string
		host, serial, wsURL string
	}{
		{"host+serial", "10.0.0.40", "/dev/ttyUSB0", ""},
		{"host+url", "10.0.0.40", "", "ws://bridge/avr"},
		{"serial+url", "", "/dev/ttyUSB0", "ws://bridge/avr"},
		{"all three", "10.0.0.40", "/dev/ttyUSB0", "ws://bridge/avr"},
	}

	for _, combo := range combos {
		t.Run(combo.name, func(t *testing.T) {
			resetConnFlags(t)
			host, serialDevice, wsURL = combo.host, combo.serial, combo.wsURL

			_, _, err := openClient()
			if err == nil || !strings.Contains(err.Error(), "only one of") {
				t.Fatalf("openClient() err = %v, want conflict error", err)
			}
		})
	}
}

// ============================================================
// Serial adapter
// ============================================================

// fakeSerialPort implements the few serial.Port methods the adapter
// uses. Reads block for the configured timeout and then report zero
// bytes, mimicking the library's expired-timeout behavior.
type fakeSerialPort struct {
	serial.Port

	mu          sync.Mutex
	readTimeout time.Duration
	data        []byte
}

func (f *fakeSerialPort) SetReadTimeout(d time.Duration) error {
	f.mu.Lock()
	f.readTimeout = d
	f.mu.Unlock()
	return nil
}

func (f *fakeSerialPort) Read(p []byte) (int, error) {
	f.mu.Lock()
	if len(f.data) > 0 {
		n := copy(p, f.data)
		f.data = f.data[n:]
		f.mu.Unlock()
		return n, nil
	}
	d := f.readTimeout
	f.mu.Unlock()
	time.Sleep(d)
	return 0, nil
}

func (f *fakeSerialPort) Close() error { return nil }

func TestSerialConn_ReadDeliversData(t *testing.T) {
	port := &fakeSerialPort{data: []byte("PWON\r")}
	conn, err := newSerialConn(port)
	if err != nil {
		t.Fatalf("newSerialConn() error: %v", err)
	}
	if port.readTimeout != serialPollInterval {
		t.Fatalf("port read timeout = %v, want poll interval %v", port.readTimeout, serialPollInterval)
	}

	if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error: %v", err)
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil || string(buf[:n]) != "PWON\r" {
		t.Fatalf("Read() = %q, %v, want PWON line", buf[:n], err)
	}
}

func TestSerialConn_DeadlinePokeUnblocksRead(t *testing.T) {
	conn, err := newSerialConn(&fakeSerialPort{})
	if err != nil {
		t.Fatalf("newSerialConn() error: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(time.Hour))

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 16)
		_, err := conn.Read(buf)
		done <- err
	}()

	// Let the read settle into its poll loop, then move the deadline
	// into the past.
	time.Sleep(20 * time.Millisecond)
	conn.SetReadDeadline(time.Unix(1, 0))

	select {
	case err := <-done:
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			t.Fatalf("Read() err = %v, want deadline exceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("in-progress read did not observe the moved deadline")
	}
}

// ============================================================
// WebSocket adapter
// ============================================================

// startWSBridge runs a scripted WebSocket bridge and returns an adapter
// connected to it. Commands with no script entry go unanswered.
func startWSBridge(t *testing.T, script map[string]string) *wsConn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(wr, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			resp, ok := script[strings.TrimSuffix(string(msg), "\r")]
			if !ok || resp == "" {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(resp)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial bridge: %v", err)
	}
	conn := newWSConn(c)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWSConn_TimeoutDoesNotWedgeConnection(t *testing.T) {
	conn := startWSBridge(t, map[string]string{
		"PWON": "PWON\r",
	})

	// First read times out: nothing was requested, nothing arrives.
	conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	buf := make([]byte, 16)
	if _, err := conn.Read(buf); !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("Read() err = %v, want deadline exceeded", err)
	}

	// The connection must still carry traffic afterwards.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := conn.Write([]byte("PWON\r")); err != nil {
		t.Fatalf("Write() after timeout: %v", err)
	}
	n, err := conn.Read(buf)
	if err != nil || string(buf[:n]) != "PWON\r" {
		t.Fatalf("Read() after timeout = %q, %v, want PWON line", buf[:n], err)
	}
}

func TestWSConn_DeadlinePokeUnblocksRead(t *testing.T) {
	conn := startWSBridge(t, nil)
	conn.SetReadDeadline(time.Now().Add(time.Hour))

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 16)
		_, err := conn.Read(buf)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	conn.SetReadDeadline(time.Unix(1, 0))

	select {
	case err := <-done:
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			t.Fatalf("Read() err = %v, want deadline exceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked read did not observe the moved deadline")
	}
}

func TestWSConn_SessionSurvivesCommandTimeout(t *testing.T) {
	conn := startWSBridge(t, map[string]string{
		"PWON": "PWON\r",
		// MUON is never answered.
	})

	c := avr.NewClient(conn, 100*time.Millisecond)
	if err := c.SetMute(context.Background(), true); !errors.Is(err, avr.ErrTimeout) {
		t.Fatalf("SetMute() err = %v, want ErrTimeout", err)
	}

	// One timed-out wait must not cost the session.
	if err := c.TurnOn(context.Background()); err != nil {
		t.Fatalf("TurnOn() after timeout: %v", err)
	}
}
