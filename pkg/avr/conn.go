// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the avrctl authors

package avr

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// Conn is the transport the Client drives: a bidirectional byte stream
// with read deadlines. net.Conn satisfies it directly; other carriers of
// the line protocol (RS-232, a WebSocket bridge) wrap their transport to
// match.
//
// The Client is the transport's only reader and only writer, so Conn
// implementations need no internal locking beyond what deadline poking
// from another goroutine requires.
type Conn interface {
	io.ReadWriteCloser

	// SetReadDeadline bounds future and currently-blocked Reads, in the
	// manner of net.Conn: a deadline in the past unblocks a waiting
	// Read. Adapters over transports without interruptible reads may
	// take a short poll interval to notice the change.
	SetReadDeadline(t time.Time) error
}

// Dial connects to a receiver's telnet control port and returns a ready
// session. timeout applies both to connection establishment and to each
// subsequent confirmation wait.
func Dial(host string, port int, timeout time.Duration) (*Client, error) {
	if port == 0 {
		port = DefaultPort
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("avr: connect %s: %w", addr, err)
	}
	return NewClient(conn, timeout), nil
}
