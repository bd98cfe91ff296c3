// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/avrkit/avrctl/pkg/avr"
	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"
)

// serialPollInterval is how long each underlying serial read may block.
// Reads poll in short slices so a deadline moved into the past (the
// driver's cancellation poke) takes effect on an in-progress read, not
// only on the next one.
const serialPollInterval = 50 * time.Millisecond

// serialConn adapts a serial port to the avr.Conn interface. The same
// Denon/Marantz line protocol runs on the receivers' RS-232 port, so the
// driver needs no changes beyond deadline plumbing.
type serialConn struct {
	port serial.Port

	mu       sync.Mutex
	deadline time.Time
}

func newSerialConn(port serial.Port) (*serialConn, error) {
	if err := port.SetReadTimeout(serialPollInterval); err != nil {
		return nil, fmt.Errorf("failed to set serial read timeout: %v", err)
	}
	return &serialConn{port: port}, nil
}

func (s *serialConn) Read(p []byte) (int, error) {
	for {
		s.mu.Lock()
		deadline := s.deadline
		s.mu.Unlock()
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return 0, os.ErrDeadlineExceeded
		}

		n, err := s.port.Read(p)
		// A zero-byte read with a nil error means the poll slice expired
		// with no data; go around and recheck the deadline.
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (s *serialConn) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialConn) Close() error {
	return s.port.Close()
}

func (s *serialConn) SetReadDeadline(t time.Time) error {
	s.mu.Lock()
	s.deadline = t
	s.mu.Unlock()
	return nil
}

// wsConn adapts a WebSocket connection (a bridge relaying the receiver's
// line protocol) to the avr.Conn interface, buffering whole messages so
// the driver can read them as a byte stream.
//
// Frames are received on a pump goroutine and the deadline is enforced
// locally in Read. The WebSocket library treats an expired read deadline
// on the connection itself as fatal and fails every read after it, which
// would turn the driver's per-wait timeouts into a dead session.
type wsConn struct {
	conn *websocket.Conn

	frames  chan []byte
	readErr chan error
	done    chan struct{}

	closeOnce sync.Once

	mu       sync.Mutex
	deadline time.Time
	poke     chan struct{}

	// Read-side state, only touched by the single driver reader.
	buf       []byte
	bufOffset int
	err       error
}

func newWSConn(conn *websocket.Conn) *wsConn {
	w := &wsConn{
		conn:    conn,
		frames:  make(chan []byte),
		readErr: make(chan error, 1),
		done:    make(chan struct{}),
		poke:    make(chan struct{}, 1),
	}
	go w.pump()
	return w
}

func (w *wsConn) pump() {
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.readErr <- err
			return
		}

		// Bridges send line data as text or binary frames; anything else
		// (pings are handled by the library) is skipped.
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		select {
		case w.frames <- data:
		case <-w.done:
			return
		}
	}
}

func (w *wsConn) Read(p []byte) (int, error) {
	// Drain buffered message bytes first
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}
	// Once the pump has failed the connection is gone for good.
	if w.err != nil {
		return 0, w.err
	}

	for {
		w.mu.Lock()
		deadline := w.deadline
		w.mu.Unlock()

		var timer *time.Timer
		var timeout <-chan time.Time
		if !deadline.IsZero() {
			d := time.Until(deadline)
			if d <= 0 {
				return 0, os.ErrDeadlineExceeded
			}
			timer = time.NewTimer(d)
			timeout = timer.C
		}

		select {
		case data := <-w.frames:
			if timer != nil {
				timer.Stop()
			}
			w.buf = data
			w.bufOffset = 0
			n := copy(p, w.buf)
			w.bufOffset = n
			return n, nil
		case err := <-w.readErr:
			if timer != nil {
				timer.Stop()
			}
			w.err = err
			return 0, err
		case <-timeout:
			return 0, os.ErrDeadlineExceeded
		case <-w.poke:
			// Deadline moved; rearm the timer against the new one.
			if timer != nil {
				timer.Stop()
			}
		}
	}
}

func (w *wsConn) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	return w.conn.Close()
}

func (w *wsConn) SetReadDeadline(t time.Time) error {
	w.mu.Lock()
	w.deadline = t
	w.mu.Unlock()
	select {
	case w.poke <- struct{}{}:
	default:
	}
	return nil
}

// openSerialConn opens the receiver's RS-232 control port
func openSerialConn(device string, baud int) (avr.Conn, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", device, err)
	}

	conn, err := newSerialConn(port)
	if err != nil {
		port.Close()
		return nil, err
	}
	return conn, nil
}

// openWebSocketConn opens a WebSocket bridge connection with HTTP Basic auth
func openWebSocketConn(wsURL, username, password string, skipSSLVerify bool) (avr.Conn, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}

	return newWSConn(conn), nil
}

// getPassword retrieves the WebSocket password from the environment or
// prompts the user
func getPassword() (string, error) {
	if pw := os.Getenv("AVRCTL_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// openClient opens a driver session over whichever transport the flags
// selected, and describes the connection for status output. Exactly one
// transport must be selected.
func openClient() (*avr.Client, string, error) {
	selected := 0
	for _, flag := range []string{host, serialDevice, wsURL} {
		if flag != "" {
			selected++
		}
	}
	if selected > 1 {
		return nil, "", fmt.Errorf("only one of --host, --serial or --url may be specified")
	}

	switch {
	case wsURL != "":
		password := ""
		if wsUsername != "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := openWebSocketConn(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return avr.NewClient(conn, cmdTimeout), fmt.Sprintf("WebSocket: %s", wsURL), nil

	case serialDevice != "":
		conn, err := openSerialConn(serialDevice, baudRate)
		if err != nil {
			return nil, "", err
		}
		return avr.NewClient(conn, cmdTimeout), fmt.Sprintf("Serial: %s @ %d baud", serialDevice, baudRate), nil

	case host != "":
		client, err := avr.Dial(host, tcpPort, cmdTimeout)
		if err != nil {
			return nil, "", err
		}
		return client, fmt.Sprintf("TCP: %s:%d", host, tcpPort), nil
	}

	return nil, "", fmt.Errorf("one of --host, --serial or --url must be specified")
}
