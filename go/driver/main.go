// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/zkpoex/zkpoex/go/runner"
)

// exitNoExploit is the exit code of runs that demonstrated nothing.
const exitNoExploit = 2

func newApp() *cli.App {
	return &cli.App{
		Name:      "zkpoex",
		Usage:     "Check exploits of smart contracts against their specification",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags:     []cli.Flag{},
		Commands: []*cli.Command{
			&RunCmd,
			&HashCmd,
			&CalldataCmd,
			&ConditionCmd,
			&SlotCmd,
			&TemplateCmd,
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, runner.ErrNoExploitFound) {
			os.Exit(exitNoExploit)
		}
		os.Exit(1)
	}
}
