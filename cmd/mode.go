// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"
	"fmt"

	"github.com/avrkit/avrctl/pkg/avr"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [name]",
	Short: "Select the surround sound mode",
	Long: `Select the receiver's surround mode by symbolic name.

Run without an argument to list the settable names. The receiver also
reports signal-dependent decode modes (Dolby Atmos, DTS:X variants and
friends); those show up in status output but cannot be selected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMode,
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func runMode(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, mode := range avr.SurroundModes() {
			if mode.Settable() {
				fmt.Println(mode)
			}
		}
		return nil
	}

	mode, ok := avr.SurroundModeFromName(args[0])
	if !ok {
		return fmt.Errorf("unknown surround mode %q (run 'avrctl mode' for the list)", args[0])
	}

	client, _, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	return client.SelectSoundMode(context.Background(), mode)
}
