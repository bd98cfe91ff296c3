// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var powerCmd = &cobra.Command{
	Use:       "power on|off",
	Short:     "Turn the receiver on or put it into standby",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runPower,
}

func init() {
	rootCmd.AddCommand(powerCmd)
}

func runPower(cmd *cobra.Command, args []string) error {
	client, _, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if args[0] == "on" {
		return client.TurnOn(context.Background())
	}
	return client.TurnOff(context.Background())
}
