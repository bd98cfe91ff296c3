// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/avrkit/avrctl/pkg/avr"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show all receiver properties",
	Long: `Query the receiver for every known property and print the result.

Fields the receiver has not reported, and payloads that fail to decode,
are shown as unknown instead of aborting the listing.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, connInfo, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Refresh(context.Background()); err != nil {
		return err
	}

	fmt.Printf("Connection:       %s\n", connInfo)
	fmt.Printf("Power:            %s\n", formatValue(client.Power()))
	fmt.Printf("Muted:            %s\n", formatBool(client.Muted()))
	fmt.Printf("Volume level:     %s\n", formatLevel(client.VolumeLevel()))
	fmt.Printf("Max volume level: %s\n", formatLevel(client.MaxVolumeLevel()))
	fmt.Printf("Source:           %s\n", formatValue(client.Source()))
	fmt.Printf("Sound mode:       %s\n", formatValue(client.SoundMode()))
	return nil
}

// formatValue renders an enum accessor result for display
func formatValue[T fmt.Stringer](value T, err error) string {
	if err != nil {
		return formatUnknown(err)
	}
	return value.String()
}

func formatBool(value bool, err error) string {
	if err != nil {
		return formatUnknown(err)
	}
	if value {
		return "yes"
	}
	return "no"
}

func formatLevel(level float64, err error) string {
	if err != nil {
		return formatUnknown(err)
	}
	return fmt.Sprintf("%.1f", level)
}

func formatUnknown(err error) string {
	if errors.Is(err, avr.ErrNotReported) {
		return "unknown"
	}
	return fmt.Sprintf("unknown (%v)", err)
}
