// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the avrctl authors

package avr

import (
	"fmt"
	"strconv"
	"strings"
)

// dataDef binds one query command to the data field keys it produces
// responses for. A single query may fan out into several response lines
// (MV? reports both the current and the maximum volume).
type dataDef struct {
	query string
	keys  []string
}

// dataDefs is the full set of queryable state, in the fixed order Refresh
// issues the queries.
var dataDefs = []dataDef{
	{"PW?", []string{"PW"}},
	{"MU?", []string{"MU"}},
	{"MV?", []string{"MV", "MVMAX"}},
	{"SI?", []string{"SI"}},
	{"MS?", []string{"MS"}},
}

// dataKeys is every known data field key, derived from dataDefs.
var dataKeys = func() []string {
	var keys []string
	for _, def := range dataDefs {
		keys = append(keys, def.keys...)
	}
	return keys
}()

// matchKey finds the data field key a raw response line reports. Some
// keys are prefixes of others (MV and MVMAX), so the longest match wins:
// a short-key false match would corrupt an unrelated field.
func matchKey(line string) string {
	best := ""
	for _, key := range dataKeys {
		if strings.HasPrefix(line, key) && len(key) > len(best) {
			best = key
		}
	}
	return best
}

// processResponse matches a raw line against the known keys and, on a
// match, caches the payload (terminator stripped). Lines that match no
// key are protocol echoes or noise and are dropped. Returns the matched
// key, or "" for no match.
func (c *Client) processResponse(line string) string {
	key := matchKey(line)
	if key == "" {
		return ""
	}

	payload := strings.TrimRight(line[len(key):], "\r\n")
	c.mu.Lock()
	c.state[key] = payload
	c.mu.Unlock()
	return key
}

// raw returns the cached payload for a key, and whether the receiver has
// reported the field at all.
func (c *Client) raw(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.state[key]
	return value, ok
}

// Power returns the receiver's power state.
func (c *Client) Power() (Power, error) {
	value, ok := c.raw("PW")
	if !ok {
		return 0, ErrNotReported
	}
	return PowerFromToken(value)
}

// Muted reports whether the volume is muted.
func (c *Client) Muted() (bool, error) {
	value, ok := c.raw("MU")
	if !ok {
		return false, ErrNotReported
	}
	return value == "ON", nil
}

// VolumeLevel returns the main zone volume (0..MaxVolumeLevel).
func (c *Client) VolumeLevel() (float64, error) {
	return c.volume("MV")
}

// MaxVolumeLevel returns the main zone volume limit.
func (c *Client) MaxVolumeLevel() (float64, error) {
	return c.volume("MVMAX")
}

// Source returns the selected input source.
func (c *Client) Source() (InputSource, error) {
	value, ok := c.raw("SI")
	if !ok {
		return 0, ErrNotReported
	}
	return InputSourceFromToken(value)
}

// SoundMode returns the active surround mode.
func (c *Client) SoundMode() (SurroundMode, error) {
	value, ok := c.raw("MS")
	if !ok {
		return 0, ErrNotReported
	}
	return SurroundModeFromToken(value)
}

func (c *Client) volume(key string) (float64, error) {
	value, ok := c.raw(key)
	if !ok {
		return 0, ErrNotReported
	}
	return parseVolume(key, value)
}

// parseVolume decodes a volume payload. Two digits are a whole-unit level
// ("40" is 40.0); three digits carry one implied decimal ("305" is 30.5).
// Anything else is malformed.
func parseVolume(key, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("avr: malformed %s payload %q", key, raw)
	}
	switch len(s) {
	case 2:
		return float64(n), nil
	case 3:
		return float64(n) / 10, nil
	default:
		return 0, fmt.Errorf("avr: malformed %s payload %q: want 2 or 3 digits", key, raw)
	}
}
