// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v2"
	"github.com/zkpoex/zkpoex/go/logging"
)

// AddCommonFlags extends the command by the log level and CPU profile flags
// and applies them before the command's action runs.
func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, LogLevelFlag.GetFlag(), CpuProfileFlag.GetFlag())

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		if err := logging.SetupGlobalLevel(LogLevelFlag.Fetch(ctx)); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}

		if cpuprofileFilename := CpuProfileFlag.Fetch(ctx); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}
