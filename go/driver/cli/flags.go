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
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/zkpoex/zkpoex/go/runner"
	"github.com/zkpoex/zkpoex/go/spc"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

type specFlagType struct {
	flag cli.StringFlag
}

var SpecFlag = specFlagType{cli.StringFlag{
	Name:      "spec",
	Usage:     "JSON file holding the program specification",
	EnvVars:   []string{"ZKPOEX_SPEC"},
	TakesFile: true,
}}

func (f *specFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *specFlagType) IsSet(context *cli.Context) bool {
	return context.String(f.flag.Name) != ""
}

// Fetch loads the program specification. A missing flag yields an empty
// specification.
func (f *specFlagType) Fetch(context *cli.Context) (spc.ProgramSpec, error) {
	path := context.String(f.flag.Name)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec, err := spc.ParseProgramSpec(data)
	if err != nil {
		return nil, fmt.Errorf("invalid specification in %s: %w", path, err)
	}
	return spec, nil
}

type contextFlagType struct {
	flag cli.StringFlag
}

var ContextFlag = contextFlagType{cli.StringFlag{
	Name:      "context",
	Usage:     "JSON file holding the context state accounts",
	EnvVars:   []string{"ZKPOEX_CONTEXT"},
	TakesFile: true,
}}

func (f *contextFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *contextFlagType) IsSet(context *cli.Context) bool {
	return context.String(f.flag.Name) != ""
}

func (f *contextFlagType) Fetch(context *cli.Context) ([]st.AccountData, error) {
	path := context.String(f.flag.Name)
	if path == "" {
		return nil, fmt.Errorf("no context state given, use --%s", f.flag.Name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	accounts, err := st.ParseContextState(data)
	if err != nil {
		return nil, fmt.Errorf("invalid context state in %s: %w", path, err)
	}
	return accounts, nil
}

type settingsFlagType struct {
	flag cli.StringFlag
}

var SettingsFlag = settingsFlagType{cli.StringFlag{
	Name:      "settings",
	Usage:     "JSON file holding the blockchain settings, defaults are used if omitted",
	EnvVars:   []string{"ZKPOEX_SETTINGS"},
	TakesFile: true,
}}

func (f *settingsFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *settingsFlagType) Fetch(context *cli.Context) (runner.Settings, error) {
	path := context.String(f.flag.Name)
	if path == "" {
		return runner.DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return runner.Settings{}, err
	}
	return runner.ParseSettings(data)
}

type missingSpecFlagType struct {
	flag cli.StringFlag
}

var MissingSpecFlag = missingSpecFlagType{cli.StringFlag{
	Name:      "missing-spec",
	Usage:     "JSON file holding a method specification probing for a condition the specification lacks",
	EnvVars:   []string{"ZKPOEX_MISSING_SPEC"},
	TakesFile: true,
}}

func (f *missingSpecFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *missingSpecFlagType) Fetch(context *cli.Context) (*spc.MethodSpec, error) {
	path := context.String(f.flag.Name)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res spc.MethodSpec
	if err := res.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("invalid method specification in %s: %w", path, err)
	}
	return &res, nil
}

type calldataFlagType struct {
	flag cli.StringFlag
}

var CalldataFlag = calldataFlagType{cli.StringFlag{
	Name:    "calldata",
	Aliases: []string{"d"},
	Usage:   "hex encoded calldata of the transaction",
	EnvVars: []string{"ZKPOEX_CALLDATA"},
}}

func (f *calldataFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *calldataFlagType) IsSet(context *cli.Context) bool {
	return context.String(f.flag.Name) != ""
}

func (f *calldataFlagType) Fetch(context *cli.Context) ([]byte, error) {
	return ParseHex(context.String(f.flag.Name))
}

type valueFlagType struct {
	flag cli.StringFlag
}

var ValueFlag = valueFlagType{cli.StringFlag{
	Name:    "value",
	Usage:   "amount of wei sent with the transaction, decimal or 0x prefixed hex",
	EnvVars: []string{"ZKPOEX_VALUE"},
	Value:   "0",
}}

func (f *valueFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *valueFlagType) Fetch(context *cli.Context) (tosca.Value, error) {
	return tosca.ParseValue(context.String(f.flag.Name))
}

type proverFlagType struct {
	flag cli.StringFlag
}

var ProverFlag = proverFlagType{cli.StringFlag{
	Name:    "prover",
	Usage:   "address of the prover included in the public input",
	EnvVars: []string{"ZKPOEX_PROVER"},
}}

func (f *proverFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *proverFlagType) Fetch(context *cli.Context) (*tosca.Address, error) {
	text := context.String(f.flag.Name)
	if text == "" {
		return nil, nil
	}
	address, err := tosca.ParseAddress(text)
	if err != nil {
		return nil, fmt.Errorf("invalid prover address: %w", err)
	}
	return &address, nil
}

type publicInputFlagType struct {
	flag cli.BoolFlag
}

var PublicInputFlag = publicInputFlagType{cli.BoolFlag{
	Name:    "public-input",
	Usage:   "additionally print the ABI encoded public input",
	EnvVars: []string{"ZKPOEX_PUBLIC_INPUT"},
}}

func (f *publicInputFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *publicInputFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.flag.Name)
}

type interpreterFlagType struct {
	flag cli.StringFlag
}

var InterpreterFlag = interpreterFlagType{cli.StringFlag{
	Name:    "interpreter",
	Usage:   "name of the interpreter executing contract code",
	EnvVars: []string{"ZKPOEX_INTERPRETER"},
	Value:   "geth",
}}

func (f *interpreterFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *interpreterFlagType) Fetch(context *cli.Context) string {
	return context.String(f.flag.Name)
}

type processorFlagType struct {
	flag cli.StringFlag
}

var ProcessorFlag = processorFlagType{cli.StringFlag{
	Name:    "processor",
	Usage:   "name of the transaction processor",
	EnvVars: []string{"ZKPOEX_PROCESSOR"},
	Value:   "floria",
}}

func (f *processorFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *processorFlagType) Fetch(context *cli.Context) string {
	return context.String(f.flag.Name)
}

type revisionFlagType struct {
	flag cli.StringFlag
}

var RevisionFlag = revisionFlagType{cli.StringFlag{
	Name:    "revision",
	Usage:   "EVM revision the transaction is executed with",
	EnvVars: []string{"ZKPOEX_REVISION"},
	Value:   tosca.R13_Cancun.String(),
}}

func (f *revisionFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *revisionFlagType) Fetch(context *cli.Context) (tosca.Revision, error) {
	return tosca.ParseRevision(context.String(f.flag.Name))
}

type gasLimitFlagType struct {
	flag cli.Int64Flag
}

var GasLimitFlag = gasLimitFlagType{cli.Int64Flag{
	Name:    "gas-limit",
	Usage:   "gas limit of the transaction",
	EnvVars: []string{"ZKPOEX_GAS_LIMIT"},
	Value:   30_000_000,
}}

func (f *gasLimitFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *gasLimitFlagType) Fetch(context *cli.Context) tosca.Gas {
	return tosca.Gas(context.Int64(f.flag.Name))
}

type addressFlagType struct {
	flag cli.StringFlag
}

var AddressFlag = addressFlagType{cli.StringFlag{
	Name:    "address",
	Aliases: []string{"a"},
	Usage:   "account the condition refers to",
	EnvVars: []string{"ZKPOEX_ADDRESS"},
	Value:   "0x4838B106FCe9647Bdf1E7877BF73cE8B0BAD5f97",
}}

func (f *addressFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *addressFlagType) Fetch(context *cli.Context) (tosca.Address, error) {
	return tosca.ParseAddress(context.String(f.flag.Name))
}

type balanceFlagType struct {
	flag cli.StringSliceFlag
}

var BalanceFlag = balanceFlagType{cli.StringSliceFlag{
	Name:  "balance",
	Usage: "token balance of an account as <address>=<amount>, may be repeated",
}}

func (f *balanceFlagType) GetFlag() cli.Flag {
	return &f.flag
}

// Fetch parses the listed balances keyed by account.
func (f *balanceFlagType) Fetch(context *cli.Context) (map[tosca.Address]tosca.Value, error) {
	res := map[tosca.Address]tosca.Value{}
	for _, entry := range context.StringSlice(f.flag.Name) {
		address, amount, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("invalid balance %q, expected <address>=<amount>", entry)
		}
		addr, err := tosca.ParseAddress(strings.TrimSpace(address))
		if err != nil {
			return nil, err
		}
		value, err := tosca.ParseValue(amount)
		if err != nil {
			return nil, err
		}
		res[addr] = value
	}
	return res, nil
}

type logLevelFlagType struct {
	flag cli.StringFlag
}

var LogLevelFlag = logLevelFlagType{cli.StringFlag{
	Name:    "log-level",
	Usage:   "level of log messages written to stderr: debug, info, warn, or error",
	EnvVars: []string{"ZKPOEX_LOG_LEVEL", "LOG_LEVEL"},
	Value:   "info",
}}

func (f *logLevelFlagType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *logLevelFlagType) Fetch(context *cli.Context) string {
	return context.String(f.flag.Name)
}

type cpuProfileType struct {
	flag cli.StringFlag
}

var CpuProfileFlag = cpuProfileType{cli.StringFlag{
	Name:      "cpuprofile",
	Usage:     "store CPU profile in the provided filename",
	TakesFile: true,
}}

func (f *cpuProfileType) GetFlag() cli.Flag {
	return &f.flag
}

func (f *cpuProfileType) Fetch(context *cli.Context) string {
	return context.String(f.flag.Name)
}

// ParseHex decodes a hex string with an optional 0x prefix.
func ParseHex(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	res, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", text, err)
	}
	return res, nil
}
