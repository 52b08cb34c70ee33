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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/contracts"
	cliUtils "github.com/zkpoex/zkpoex/go/driver/cli"
	"github.com/zkpoex/zkpoex/go/runner"
	"github.com/zkpoex/zkpoex/go/spc"
	"github.com/zkpoex/zkpoex/go/tosca"
)

var HashCmd = cli.Command{
	Action: doHash,
	Name:   "hash",
	Usage:  "Print the commitments of a specification and a context state",
	Flags: []cli.Flag{
		cliUtils.SpecFlag.GetFlag(),
		cliUtils.ContextFlag.GetFlag(),
	},
}

func doHash(context *cli.Context) error {
	if !cliUtils.SpecFlag.IsSet(context) && !cliUtils.ContextFlag.IsSet(context) {
		return fmt.Errorf("nothing to hash, use --spec and/or --context")
	}
	out := context.App.Writer
	if cliUtils.SpecFlag.IsSet(context) {
		spec, err := cliUtils.SpecFlag.Fetch(context)
		if err != nil {
			return err
		}
		hash := spc.HashProgramSpec(spec)
		fmt.Fprintf(out, "spec:    %x\n", hash[:])
	}
	if cliUtils.ContextFlag.IsSet(context) {
		accounts, err := cliUtils.ContextFlag.Fetch(context)
		if err != nil {
			return err
		}
		hash := runner.HashContextState(accounts)
		fmt.Fprintf(out, "context: %x\n", hash[:])
	}
	return nil
}

var CalldataCmd = cli.Command{
	Action:    doCalldata,
	Name:      "calldata",
	Usage:     "Encode the calldata of a function call",
	ArgsUsage: "<signature> [<param>...]",
}

func doCalldata(context *cli.Context) error {
	if !context.Args().Present() {
		return fmt.Errorf("missing function signature")
	}
	calldata, err := spc.FunctionSignature(context.Args().First(), context.Args().Tail()...)
	if err != nil {
		return err
	}
	fmt.Fprintln(context.App.Writer, hex.EncodeToString(calldata))
	return nil
}

var ConditionCmd = cli.Command{
	Action:    doCondition,
	Name:      "condition",
	Usage:     "Convert a condition like \"balance > 0\" into its JSON form",
	ArgsUsage: "<field> <operator> <value>",
	Flags: []cli.Flag{
		cliUtils.AddressFlag.GetFlag(),
	},
}

func doCondition(context *cli.Context) error {
	address, err := cliUtils.AddressFlag.Fetch(context)
	if err != nil {
		return err
	}
	condition, err := spc.ParseCondition(strings.Join(context.Args().Slice(), " "), address)
	if err != nil {
		return err
	}
	data, err := spc.MarshalCondition(condition)
	if err != nil {
		return err
	}
	fmt.Fprintln(context.App.Writer, string(data))
	return nil
}

var SlotCmd = cli.Command{
	Action:    doSlot,
	Name:      "slot",
	Usage:     "Compute the storage slot of a state variable or of a mapping entry keyed by an address",
	ArgsUsage: "<index> | <address> <mapping index>",
}

func doSlot(context *cli.Context) error {
	var slot tosca.Key
	switch context.NArg() {
	case 1:
		index, err := strconv.ParseUint(context.Args().Get(0), 0, 64)
		if err != nil {
			return fmt.Errorf("invalid slot index: %w", err)
		}
		slot = spc.VariableSlot(index)
	case 2:
		address, err := tosca.ParseAddress(context.Args().Get(0))
		if err != nil {
			return err
		}
		base, err := common.ParseU256(context.Args().Get(1))
		if err != nil {
			return fmt.Errorf("invalid mapping index: %w", err)
		}
		slot = spc.MappingSlot(address, base)
	default:
		return fmt.Errorf("expected a slot index or an address and a mapping index")
	}
	fmt.Fprintf(context.App.Writer, "%x\n", slot[:])
	return nil
}

var TemplateCmd = cli.Command{
	Action:    doTemplate,
	Name:      "template",
	Usage:     "Print the context state account of a contract template",
	ArgsUsage: "<name>",
	Flags: []cli.Flag{
		cliUtils.BalanceFlag.GetFlag(),
	},
}

func doTemplate(context *cli.Context) error {
	if context.NArg() != 1 {
		return fmt.Errorf("expected a template name, one of %v", contracts.TemplateNames())
	}
	balances, err := cliUtils.BalanceFlag.Fetch(context)
	if err != nil {
		return err
	}
	holdings := make(map[tosca.Address]common.U256, len(balances))
	for address, balance := range balances {
		holdings[address] = common.NewU256FromValue(balance)
	}
	account, err := contracts.ContextAccount(context.Args().First(), contracts.ERC20Balances(holdings))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(account, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(context.App.Writer, string(data))
	return nil
}
