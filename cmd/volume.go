// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Adjust the main zone volume",
}

var volumeSetCmd = &cobra.Command{
	Use:   "set <level>",
	Short: "Set the volume to an absolute level (0-99)",
	Args:  cobra.ExactArgs(1),
	RunE:  runVolumeSet,
}

var volumeUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Raise the volume one step",
	Args:  cobra.NoArgs,
	RunE:  runVolumeStep,
}

var volumeDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Lower the volume one step",
	Args:  cobra.NoArgs,
	RunE:  runVolumeStep,
}

func init() {
	volumeCmd.AddCommand(volumeSetCmd)
	volumeCmd.AddCommand(volumeUpCmd)
	volumeCmd.AddCommand(volumeDownCmd)
	rootCmd.AddCommand(volumeCmd)
}

func runVolumeSet(cmd *cobra.Command, args []string) error {
	level, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid volume level %q", args[0])
	}

	client, _, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	return client.SetVolume(context.Background(), level)
}

// runVolumeStep serves both step subcommands; dispatching on the command
// name keeps the package vars out of their own initializers.
func runVolumeStep(cmd *cobra.Command, args []string) error {
	client, _, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if cmd.Name() == "up" {
		return client.VolumeUp(context.Background())
	}
	return client.VolumeDown(context.Background())
}
