// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// TCP connection flags
	host    string
	tcpPort int

	// Serial connection flags
	serialDevice string
	baudRate     int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Response timeout for every command confirmation
	cmdTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "avrctl",
	Short: "Control Denon and Marantz AV receivers",
	Long: `avrctl - Command line control for Denon and Marantz AV receivers.

Talks the receivers' line-oriented control protocol and provides commands
for power, mute, volume, input source and surround mode, plus an
interactive TUI.

Connection modes:
  TCP (telnet): --host 192.168.1.40 [--tcp-port 23]
  Serial:       --serial /dev/ttyUSB0 [--baud 9600]
  WebSocket:    --url ws://bridge/avr [--username user]

For WebSocket authentication, the password is read from the AVRCTL_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.`,
	Version: "1.0.0",
}

func init() {
	// TCP connection flags
	rootCmd.PersistentFlags().StringVarP(&host, "host", "H", "", "Host name or IP of the receiver")
	rootCmd.PersistentFlags().IntVar(&tcpPort, "tcp-port", 23, "Telnet control port (TCP only)")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&serialDevice, "serial", "s", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().DurationVarP(&cmdTimeout, "timeout", "t", time.Second, "Confirmation timeout per command")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
