// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var muteCmd = &cobra.Command{
	Use:       "mute on|off",
	Short:     "Mute or unmute the volume",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runMute,
}

func init() {
	rootCmd.AddCommand(muteCmd)
}

func runMute(cmd *cobra.Command, args []string) error {
	client, _, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	return client.SetMute(context.Background(), args[0] == "on")
}
