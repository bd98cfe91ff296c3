// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"
	"fmt"

	"github.com/avrkit/avrctl/pkg/avr"
	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source [name]",
	Short: "Select the input source",
	Long: `Select the receiver's input source by symbolic name.

Run without an argument to list the valid names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSource,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, source := range avr.InputSources() {
			fmt.Println(source)
		}
		return nil
	}

	source, ok := avr.InputSourceFromName(args[0])
	if !ok {
		return fmt.Errorf("unknown input source %q (run 'avrctl source' for the list)", args[0])
	}

	client, _, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	return client.SelectSource(context.Background(), source)
}
