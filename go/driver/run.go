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
	"encoding/hex"
	"fmt"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	cliUtils "github.com/zkpoex/zkpoex/go/driver/cli"
	"github.com/zkpoex/zkpoex/go/logging"
	"github.com/zkpoex/zkpoex/go/runner"
	"github.com/zkpoex/zkpoex/go/spc"
)

var RunCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Execute a transaction against a context state and check it against a specification",
	ArgsUsage: "[<signature> [<param>...]]",
	Flags: []cli.Flag{
		cliUtils.SpecFlag.GetFlag(),
		cliUtils.ContextFlag.GetFlag(),
		cliUtils.SettingsFlag.GetFlag(),
		cliUtils.MissingSpecFlag.GetFlag(),
		cliUtils.CalldataFlag.GetFlag(),
		cliUtils.ValueFlag.GetFlag(),
		cliUtils.ProverFlag.GetFlag(),
		cliUtils.PublicInputFlag.GetFlag(),
		cliUtils.InterpreterFlag.GetFlag(),
		cliUtils.ProcessorFlag.GetFlag(),
		cliUtils.RevisionFlag.GetFlag(),
		cliUtils.GasLimitFlag.GetFlag(),
	},
})

func doRun(context *cli.Context) error {
	log := logging.NewLogger("driver")

	config := runner.DefaultConfig()
	config.Interpreter = cliUtils.InterpreterFlag.Fetch(context)
	config.Processor = cliUtils.ProcessorFlag.Fetch(context)
	config.GasLimit = cliUtils.GasLimitFlag.Fetch(context)
	revision, err := cliUtils.RevisionFlag.Fetch(context)
	if err != nil {
		return err
	}
	config.Revision = revision

	input, err := fetchInput(context)
	if err != nil {
		return err
	}

	r, err := runner.NewRunner(config)
	if err != nil {
		return err
	}
	outcome, err := r.Run(context.Context, input)
	if err != nil {
		return err
	}

	out := context.App.Writer
	for _, line := range outcome.Output() {
		fmt.Fprintln(out, line)
	}
	if cliUtils.PublicInputFlag.Fetch(context) {
		publicInput, err := outcome.PublicInput()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hex.EncodeToString(publicInput))
	}

	value, _ := input.Value.ToBig().Float64()
	log.Info().
		Str(logging.FieldGasUsed, unitconv.FormatPrefix(float64(outcome.GasUsed), unitconv.SI, 2)).
		Str(logging.FieldValue, unitconv.FormatPrefix(value, unitconv.SI, 2)+"wei").
		Bool(logging.FieldExploit, outcome.ExploitFound).
		Bool(logging.FieldNewCondition, outcome.NewConditionFound).
		Msg("run finished")

	if !outcome.Successful() {
		return runner.ErrNoExploitFound
	}
	return nil
}

// fetchInput collects the run input from the command line. The calldata is
// either given in hex or encoded from a signature and its parameters.
func fetchInput(context *cli.Context) (runner.Input, error) {
	var input runner.Input
	var err error

	if input.ProgramSpec, err = cliUtils.SpecFlag.Fetch(context); err != nil {
		return input, err
	}
	if input.ContextState, err = cliUtils.ContextFlag.Fetch(context); err != nil {
		return input, err
	}
	if input.Settings, err = cliUtils.SettingsFlag.Fetch(context); err != nil {
		return input, err
	}
	if input.MissingSpec, err = cliUtils.MissingSpecFlag.Fetch(context); err != nil {
		return input, err
	}
	if input.Value, err = cliUtils.ValueFlag.Fetch(context); err != nil {
		return input, err
	}
	if input.Prover, err = cliUtils.ProverFlag.Fetch(context); err != nil {
		return input, err
	}

	switch {
	case cliUtils.CalldataFlag.IsSet(context) && context.Args().Present():
		return input, fmt.Errorf("calldata and signature are mutually exclusive")
	case cliUtils.CalldataFlag.IsSet(context):
		input.Calldata, err = cliUtils.CalldataFlag.Fetch(context)
	case context.Args().Present():
		input.Calldata, err = spc.FunctionSignature(context.Args().First(), context.Args().Tail()...)
	default:
		err = fmt.Errorf("no calldata given, use --calldata or a function signature")
	}
	return input, err
}
