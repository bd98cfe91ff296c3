// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the avrctl authors

// Package avr drives Denon and Marantz AV receivers over their
// line-oriented control protocol (telnet port 23, RS-232, or a bridge
// that relays the same lines).
//
// Commands are short ASCII strings terminated by a carriage return, e.g.
// "PWON\r" or the query "MV?\r". The receiver answers on the same stream
// with "<KEY><PAYLOAD>\r" lines that are not correlated to requests, so
// the Client keeps a cache of the last payload seen per data field key
// and, after sending a command, reads lines until the expected key has
// been confirmed.
//
// Only one confirmation wait may read from the stream at a time. If an
// operation's wait overlaps an in-flight wait, the newcomer returns
// without waiting and defers to the active reader; the cache still picks
// up its confirmation line. Callers that need strict confirmation
// ordering should not overlap operations on one Client.
package avr

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds each confirmation wait when no explicit timeout
// is configured.
const DefaultTimeout = 1 * time.Second

// DefaultPort is the receiver's telnet control port.
const DefaultPort = 23

// aLongTimeAgo is a non-zero past instant, used to unblock reads when the
// caller's context is cancelled.
var aLongTimeAgo = time.Unix(1, 0)

// Client is one control session with a receiver. Create it with Dial or
// NewClient. A Client is safe for concurrent use; see the package comment
// for the confirmation-overlap caveat.
type Client struct {
	conn    Conn
	r       *bufio.Reader
	timeout time.Duration

	// reading is the single-reader guard: at most one confirmation wait
	// may consume lines from the stream at a time.
	reading atomic.Bool

	// eof is set once the stream has ended, so later sends fail without
	// touching the transport.
	eof atomic.Bool

	// writeMu serializes command writes. Not every transport tolerates
	// concurrent writers (WebSocket message framing in particular), and
	// interleaved command bytes would corrupt the line stream anyway.
	writeMu sync.Mutex

	mu    sync.RWMutex
	state map[string]string // data field key -> last raw payload
}

// NewClient wraps an already-established connection. timeout bounds each
// confirmation wait; zero or negative selects DefaultTimeout.
func NewClient(conn Conn, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		conn:    conn,
		r:       bufio.NewReader(conn),
		timeout: timeout,
		state:   make(map[string]string, len(dataKeys)),
	}
}

// Close tears down the connection. The session cannot be reused; dial a
// new Client to reconnect.
func (c *Client) Close() error {
	c.eof.Store(true)
	return c.conn.Close()
}

// Refresh queries every data field from the receiver. Queries are issued
// one at a time, each waiting for its own response keys before the next
// is sent: responses carry no request correlation, so serializing is the
// only way to attribute them reliably. A Refresh that overlaps another
// active wait returns immediately without querying.
func (c *Client) Refresh(ctx context.Context) error {
	if c.reading.Load() {
		return nil
	}

	for _, def := range dataDefs {
		if err := c.send(def.query); err != nil {
			return err
		}
		if err := c.await(ctx, def.keys...); err != nil {
			return err
		}
	}
	return nil
}

// TurnOn powers the receiver on.
func (c *Client) TurnOn(ctx context.Context) error {
	if err := c.send("PW", "ON"); err != nil {
		return err
	}
	return c.await(ctx, "PW")
}

// TurnOff puts the receiver into standby. Depending on the model the
// command is acknowledged with either PWSTANDBY or PWOFF; both report
// under the PW key, so either satisfies the wait.
func (c *Client) TurnOff(ctx context.Context) error {
	if err := c.send("PW", "STANDBY"); err != nil {
		return err
	}
	return c.await(ctx, "PW")
}

// SetMute mutes or unmutes the volume.
func (c *Client) SetMute(ctx context.Context, mute bool) error {
	if err := c.send("MU", onOff(mute)); err != nil {
		return err
	}
	return c.await(ctx, "MU")
}

// SetVolume sets the main zone volume to an absolute whole-unit level
// between 0 and 99.
func (c *Client) SetVolume(ctx context.Context, level int) error {
	if level < 0 || level > 99 {
		return fmt.Errorf("avr: volume level %d out of range 0..99", level)
	}
	if err := c.send(fmt.Sprintf("MV%02d", level)); err != nil {
		return err
	}
	return c.await(ctx, "MV")
}

// VolumeUp raises the volume one step.
func (c *Client) VolumeUp(ctx context.Context) error {
	if err := c.send("MVUP"); err != nil {
		return err
	}
	return c.await(ctx, "MV")
}

// VolumeDown lowers the volume one step.
func (c *Client) VolumeDown(ctx context.Context) error {
	if err := c.send("MVDOWN"); err != nil {
		return err
	}
	return c.await(ctx, "MV")
}

// SelectSource switches the input source.
func (c *Client) SelectSource(ctx context.Context, source InputSource) error {
	token := source.Token()
	if token == "" {
		return fmt.Errorf("avr: invalid input source %d", int(source))
	}
	if err := c.send("SI", token); err != nil {
		return err
	}
	return c.await(ctx, "SI")
}

// SelectSoundMode switches the surround mode. Report-only decode modes
// cannot be requested.
func (c *Client) SelectSoundMode(ctx context.Context, mode SurroundMode) error {
	token := mode.Token()
	if token == "" {
		return fmt.Errorf("avr: invalid surround mode %d", int(mode))
	}
	if !mode.Settable() {
		return fmt.Errorf("avr: surround mode %s is report-only", mode)
	}
	if err := c.send("MS", token); err != nil {
		return err
	}
	return c.await(ctx, "MS")
}

// send writes one command line and flushes it. The stream-ended condition
// is checked up front so a dead session fails fast instead of writing
// into a closed transport.
func (c *Client) send(parts ...string) error {
	if c.eof.Load() {
		return ErrDisconnected
	}

	line := strings.Join(parts, "") + "\r"
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.eof.Store(true)
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return nil
}

// await reads response lines until every expected key has been observed.
//
// The guard is acquired with a compare-and-swap: if another wait already
// owns the stream, await returns nil immediately rather than racing it
// for lines. The release is deferred so every exit path (confirmation,
// timeout, disconnect, cancellation) leaves the session usable.
//
// Every matched line updates the state cache, whether or not its key is
// still pending, so fields observed in passing are not lost.
func (c *Client) await(ctx context.Context, keys ...string) error {
	if !c.reading.CompareAndSwap(false, true) {
		return nil
	}
	defer c.reading.Store(false)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("avr: set read deadline: %w", err)
	}
	// A cancelled context pokes the deadline so a blocked read returns.
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(aLongTimeAgo)
	})
	defer stop()

	pending := slices.Clone(keys)
	for {
		line, err := c.r.ReadString('\r')
		// Only parse complete lines. A read interrupted by the deadline
		// can hand back a truncated line whose payload must not be
		// cached as if the device reported it; a final unterminated
		// fragment before EOF is still a whole response.
		complete := strings.HasSuffix(line, "\r") || errors.Is(err, io.EOF)
		if len(line) > 0 && complete {
			if match := c.processResponse(line); match != "" {
				if i := slices.Index(pending, match); i >= 0 {
					pending = slices.Delete(pending, i, i+1)
					if len(pending) == 0 {
						return nil
					}
				}
			}
		}
		if err != nil {
			return c.translateReadError(ctx, err)
		}
	}
}

func (c *Client) translateReadError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var nerr net.Error
	if errors.Is(err, os.ErrDeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return ErrTimeout
	}

	// io.EOF, closed connections, and every other transport failure mean
	// the stream is gone.
	c.eof.Store(true)
	return ErrDisconnected
}

func onOff(value bool) string {
	if value {
		return "ON"
	}
	return "OFF"
}
