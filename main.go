// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the avrctl authors
//
// avrctl - Denon/Marantz AV receiver control
//
// A CLI tool and driver library for controlling AV receivers over their
// line-oriented control protocol.

package main

import (
	"os"

	"github.com/avrkit/avrctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
