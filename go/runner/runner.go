// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package runner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/zkpoex/zkpoex/go/contracts"
	_ "github.com/zkpoex/zkpoex/go/interpreter/geth"
	"github.com/zkpoex/zkpoex/go/logging"
	_ "github.com/zkpoex/zkpoex/go/processor/floria"
	"github.com/zkpoex/zkpoex/go/spc"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// Input collects everything a run depends on.
type Input struct {
	Calldata     []byte
	ContextState []st.AccountData
	ProgramSpec  spc.ProgramSpec
	Settings     Settings
	Value        tosca.Value
	// MissingSpec optionally probes for a condition the specification lacks.
	// It only applies if its method matches the calldata selector.
	MissingSpec *spc.MethodSpec
	Prover      *tosca.Address
}

// Runner executes runs. A runner holds no state between runs and may be used
// concurrently.
type Runner struct {
	config    Config
	processor tosca.Processor
	log       zerolog.Logger
}

// NewRunner creates a runner using the processor and interpreter named in
// the configuration.
func NewRunner(config Config) (*Runner, error) {
	interpreter, err := tosca.NewInterpreter(config.Interpreter)
	if err != nil {
		return nil, err
	}
	processor := tosca.GetProcessor(config.Processor, interpreter)
	if processor == nil {
		return nil, fmt.Errorf("unknown processor %q", config.Processor)
	}
	if config.GasLimit <= 0 {
		return nil, fmt.Errorf("invalid gas limit %d", config.GasLimit)
	}
	return &Runner{
		config:    config,
		processor: processor,
		log:       config.Logger,
	}, nil
}

// Run executes the transaction described by the input and classifies its
// effects. Configuration and environment problems as well as a failing
// transaction are reported as errors. A run finding neither an exploit nor a
// new condition is not an error; see Outcome.Successful.
func (r *Runner) Run(ctx context.Context, input Input) (Outcome, error) {
	start := time.Now()

	vicinity, err := input.Settings.Vicinity()
	if err != nil {
		return Outcome{}, err
	}
	initial, err := st.BuildWorldState(input.ContextState)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidContextState, err)
	}
	selector, err := spc.Selector(input.Calldata)
	if err != nil {
		return Outcome{}, err
	}
	log := r.log.With().Str(logging.FieldSelector, selector).Logger()

	snapshot := initial.Clone()
	if err := validateContext(input.ContextState, snapshot, &vicinity, r.config.Templates); err != nil {
		return Outcome{}, err
	}
	log.Debug().Int(logging.FieldAccounts, len(input.ContextState)).Msg("context state validated")
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	fixed := input.ProgramSpec.FixedConditions()
	if input.MissingSpec != nil {
		fixed = append(fixed, spc.ProgramSpec{*input.MissingSpec}.FixedConditions()...)
	}
	index, err := spc.FirstViolation(fixed, spc.Environment{Before: snapshot, After: snapshot})
	if err != nil {
		return Outcome{}, fmt.Errorf("checking pre-state: %w", err)
	}
	if index >= 0 {
		return Outcome{}, fmt.Errorf("%w: %v", ErrPreStateViolation, fixed[index])
	}
	log.Debug().Int(logging.FieldConditions, len(fixed)).Msg("pre-state verified")
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	txContext := st.NewContext(initial, vicinity.GetBlockHash)
	receipt, err := r.processor.Run(
		vicinity.BlockParameters(r.config.Revision),
		tosca.Transaction{
			Sender:    contracts.CallerAddress,
			Recipient: contracts.TargetAddress,
			Nonce:     txContext.GetNonce(contracts.CallerAddress),
			Input:     input.Calldata,
			Value:     input.Value,
			GasLimit:  r.config.GasLimit,
			GasPrice:  vicinity.GasPrice,
		},
		txContext,
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrAbnormalTermination, err)
	}
	if !receipt.Success {
		return Outcome{}, fmt.Errorf("%w: transaction reverted or failed after using %d gas", ErrAbnormalTermination, receipt.GasUsed)
	}
	txContext.Finalize()
	post := txContext.State()
	log.Debug().Int64(logging.FieldGasUsed, int64(receipt.GasUsed)).Msg("transaction executed")
	if event := log.Debug(); event.Enabled() {
		event.Strs(logging.FieldChanges, snapshot.Diff(post)).Msg("state changes")
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		SpecHash:    spc.HashProgramSpec(input.ProgramSpec),
		ContextHash: HashContextState(input.ContextState),
		Prover:      input.Prover,
		GasUsed:     receipt.GasUsed,
	}

	conditions, arguments := spc.FilterByMethod(input.ProgramSpec, selector)
	env := spc.Environment{
		Before:    snapshot,
		After:     post,
		Input:     input.Calldata,
		Arguments: arguments,
	}
	index, err = spc.FirstViolation(conditions, env)
	if err != nil {
		return Outcome{}, fmt.Errorf("checking post-state: %w", err)
	}
	if index >= 0 {
		outcome.ExploitFound = true
		outcome.Violation = conditions[index]
	} else if input.MissingSpec != nil && input.MissingSpec.Matches(selector) {
		env.Arguments = append(slices.Clone(arguments), input.MissingSpec.Arguments...)
		index, err = spc.FirstViolation(input.MissingSpec.Conditions, env)
		if err != nil {
			return Outcome{}, fmt.Errorf("checking missing condition: %w", err)
		}
		if index >= 0 {
			outcome.NewConditionFound = true
			outcome.Violation = input.MissingSpec.Conditions[index]
		}
	}

	event := log.Info().
		Bool(logging.FieldExploit, outcome.ExploitFound).
		Bool(logging.FieldNewCondition, outcome.NewConditionFound).
		Str(logging.FieldSpecHash, outcome.SpecHash.String()).
		Str(logging.FieldContextHash, outcome.ContextHash.String()).
		Dur(logging.FieldDuration, time.Since(start))
	if outcome.Violation != nil {
		event = event.Stringer(logging.FieldCondition, outcome.Violation)
	}
	event.Msg("run completed")

	return outcome, nil
}
