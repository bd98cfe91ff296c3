// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the avrctl authors

package avr

import (
	"errors"
	"testing"
)

// parserOnlyClient builds a Client whose connection is never touched, for
// exercising the parser and accessors in isolation.
func parserOnlyClient() *Client {
	return &Client{state: make(map[string]string, len(dataKeys))}
}

// ============================================================
// Key Matching
// ============================================================

func TestMatchKey(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"power report", "PWON\r", "PW"},
		{"mute report", "MUOFF\r", "MU"},
		{"volume report", "MV305\r", "MV"},
		{"max volume wins over volume prefix", "MVMAX 80\r", "MVMAX"},
		{"source report", "SIDVD\r", "SI"},
		{"surround report", "MSSTEREO\r", "MS"},
		{"bare key", "MV\r", "MV"},
		{"unknown line", "ZZTOP\r", ""},
		{"empty line", "\r", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchKey(tt.line); got != tt.want {
				t.Errorf("matchKey(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestProcessResponse_StripsTerminator(t *testing.T) {
	c := parserOnlyClient()

	if match := c.processResponse("MVMAX 80\r"); match != "MVMAX" {
		t.Fatalf("match = %q, want MVMAX", match)
	}

	raw, ok := c.raw("MVMAX")
	if !ok {
		t.Fatal("MVMAX not cached")
	}
	if raw != " 80" {
		t.Errorf("cached payload = %q, want %q", raw, " 80")
	}

	// The shorter prefix-compatible key must stay untouched.
	if _, ok := c.raw("MV"); ok {
		t.Error("MV was updated by an MVMAX line")
	}
}

func TestProcessResponse_LastWriteWins(t *testing.T) {
	c := parserOnlyClient()
	c.processResponse("MV40\r")
	c.processResponse("MV45\r")

	level, err := c.VolumeLevel()
	if err != nil {
		t.Fatalf("VolumeLevel() error: %v", err)
	}
	if level != 45 {
		t.Errorf("VolumeLevel() = %v, want 45", level)
	}
}

// ============================================================
// Volume Decoding
// ============================================================

func TestParseVolume(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{"two digits whole units", "30", 30, false},
		{"three digits implied decimal", "305", 30.5, false},
		{"three digits trailing zero", "400", 40, false},
		{"leading space from MVMAX", " 80", 80, false},
		{"one digit", "4", 0, true},
		{"four digits", "4000", 0, true},
		{"not a number", "ab", 0, true},
		{"negative", "-40", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVolume("MV", tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseVolume(%q) = %v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVolume(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("parseVolume(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// ============================================================
// Typed Accessors
// ============================================================

func TestAccessors_NotReported(t *testing.T) {
	c := parserOnlyClient()

	if _, err := c.Power(); !errors.Is(err, ErrNotReported) {
		t.Errorf("Power() err = %v, want ErrNotReported", err)
	}
	if _, err := c.Muted(); !errors.Is(err, ErrNotReported) {
		t.Errorf("Muted() err = %v, want ErrNotReported", err)
	}
	if _, err := c.VolumeLevel(); !errors.Is(err, ErrNotReported) {
		t.Errorf("VolumeLevel() err = %v, want ErrNotReported", err)
	}
	if _, err := c.MaxVolumeLevel(); !errors.Is(err, ErrNotReported) {
		t.Errorf("MaxVolumeLevel() err = %v, want ErrNotReported", err)
	}
	if _, err := c.Source(); !errors.Is(err, ErrNotReported) {
		t.Errorf("Source() err = %v, want ErrNotReported", err)
	}
	if _, err := c.SoundMode(); !errors.Is(err, ErrNotReported) {
		t.Errorf("SoundMode() err = %v, want ErrNotReported", err)
	}
}

func TestAccessors_Decode(t *testing.T) {
	c := parserOnlyClient()
	c.processResponse("PWSTANDBY\r")
	c.processResponse("MUON\r")
	c.processResponse("MV305\r")
	c.processResponse("MVMAX 80\r")
	c.processResponse("SISAT/CBL\r")
	c.processResponse("MSMCH STEREO\r")

	if power, err := c.Power(); err != nil || power != PowerStandby {
		t.Errorf("Power() = %v, %v, want Standby", power, err)
	}
	if muted, err := c.Muted(); err != nil || !muted {
		t.Errorf("Muted() = %v, %v, want true", muted, err)
	}
	if level, err := c.VolumeLevel(); err != nil || level != 30.5 {
		t.Errorf("VolumeLevel() = %v, %v, want 30.5", level, err)
	}
	if max, err := c.MaxVolumeLevel(); err != nil || max != 80 {
		t.Errorf("MaxVolumeLevel() = %v, %v, want 80", max, err)
	}
	if source, err := c.Source(); err != nil || source != SourceCblSat {
		t.Errorf("Source() = %v, %v, want CblSat", source, err)
	}
	if mode, err := c.SoundMode(); err != nil || mode != ModeMultiChannelStereo {
		t.Errorf("SoundMode() = %v, %v, want MultiChannelStereo", mode, err)
	}
}

func TestAccessors_MutedIsFalseForAnyOtherPayload(t *testing.T) {
	c := parserOnlyClient()
	c.processResponse("MUOFF\r")

	muted, err := c.Muted()
	if err != nil {
		t.Fatalf("Muted() error: %v", err)
	}
	if muted {
		t.Error("Muted() = true for MUOFF payload")
	}
}

func TestAccessors_UnknownToken(t *testing.T) {
	c := parserOnlyClient()
	c.processResponse("SIWEIRD\r")

	_, err := c.Source()
	var tokenErr *UnknownTokenError
	if !errors.As(err, &tokenErr) {
		t.Fatalf("Source() err = %v, want UnknownTokenError", err)
	}
	if tokenErr.Field != "SI" || tokenErr.Token != "WEIRD" {
		t.Errorf("UnknownTokenError = %+v, want field SI token WEIRD", tokenErr)
	}

	// A decode failure must be distinguishable from a never-reported field.
	if errors.Is(err, ErrNotReported) {
		t.Error("unknown token reported as ErrNotReported")
	}
}

func TestDataDefs_CoverAllKeys(t *testing.T) {
	want := []string{"PW", "MU", "MV", "MVMAX", "SI", "MS"}
	if len(dataKeys) != len(want) {
		t.Fatalf("dataKeys = %v, want %v", dataKeys, want)
	}
	for i, key := range want {
		if dataKeys[i] != key {
			t.Errorf("dataKeys[%d] = %q, want %q", i, dataKeys[i], key)
		}
	}
}
