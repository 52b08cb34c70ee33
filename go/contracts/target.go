// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package contracts

import (
	"slices"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/zkpoex/zkpoex/go/spc"
	"github.com/zkpoex/zkpoex/go/tosca"
	"golang.org/x/exp/maps"
)

// Function signatures of the target contract.
const (
	ExploitSignature             = "exploit(bool)"
	SupposedlyNoExploitSignature = "supposedly_no_exploit(uint256)"
	WithdrawSignature            = "withdraw(uint256)"
	ExploitERC20Signature        = "exploit_erc20(bool)"
	DepositSignature             = "deposit()"
)

// MagicNumber is the argument of supposedly_no_exploit draining the contract.
const MagicNumber = 123456789

// TargetCode is the runtime code of a deliberately vulnerable contract:
//
//   - exploit(bool) sends the full balance to the caller if the flag is set
//   - supposedly_no_exploit(uint256) does the same for MagicNumber only
//   - withdraw(uint256) sends the given amount to the caller
//   - exploit_erc20(bool) transfers all ERC-20 tokens the contract holds at
//     the ERC-20 template to the caller if the flag is set
//   - deposit() accepts value
//
// Unknown selectors revert.
var TargetCode = newTargetCode()

func newTargetCode() tosca.Code {
	a := NewAssembler()
	dispatch(a, map[string]string{
		ExploitSignature:             "exploit",
		SupposedlyNoExploitSignature: "no_exploit",
		WithdrawSignature:            "withdraw",
		ExploitERC20Signature:        "exploit_erc20",
		DepositSignature:             "stop",
	})
	a.JumpTo("revert")

	a.Label("exploit")
	a.Push(4).Op(vm.CALLDATALOAD, vm.ISZERO).JumpIf("stop")
	a.Label("drain")
	a.Push(0).Push(0).Push(0).Push(0).Op(vm.SELFBALANCE, vm.CALLER, vm.GAS, vm.CALL)
	a.Op(vm.ISZERO).JumpIf("revert")
	a.Label("stop")
	a.Op(vm.STOP)

	a.Label("no_exploit")
	a.Push(4).Op(vm.CALLDATALOAD).Push(MagicNumber).Op(vm.EQ).JumpIf("drain")
	a.Op(vm.STOP)

	a.Label("withdraw")
	a.Push(0).Push(0).Push(0).Push(0).Push(4).Op(vm.CALLDATALOAD, vm.CALLER, vm.GAS, vm.CALL)
	a.Op(vm.ISZERO).JumpIf("revert")
	a.Op(vm.STOP)

	a.Label("exploit_erc20")
	a.Push(4).Op(vm.CALLDATALOAD, vm.ISZERO).JumpIf("stop")
	// balanceOf(address(this)), result in memory[0:32]
	pushSelector(a, BalanceOfSignature).Push(0xe0).Op(vm.SHL).Push(0).Op(vm.MSTORE)
	a.Op(vm.ADDRESS).Push(4).Op(vm.MSTORE)
	a.Push(32).Push(0).Push(36).Push(0).PushAddress(ERC20TemplateAddress).Op(vm.GAS, vm.STATICCALL)
	a.Op(vm.ISZERO).JumpIf("revert")
	a.Push(0).Op(vm.MLOAD)
	// transfer(msg.sender, balance)
	pushSelector(a, TransferSignature).Push(0xe0).Op(vm.SHL).Push(0).Op(vm.MSTORE)
	a.Op(vm.CALLER).Push(4).Op(vm.MSTORE)
	a.Push(36).Op(vm.MSTORE)
	a.Push(0).Push(0).Push(68).Push(0).Push(0).PushAddress(ERC20TemplateAddress).Op(vm.GAS, vm.CALL)
	a.Op(vm.ISZERO).JumpIf("revert")
	a.Op(vm.STOP)

	a.Label("revert")
	a.Push(0).Op(vm.DUP1, vm.REVERT)
	return a.MustCode()
}

// dispatch emits a jump to the label of the function the calldata selector
// names. Execution falls through if no function matches.
func dispatch(a *Assembler, functions map[string]string) {
	a.Push(0).Op(vm.CALLDATALOAD).Push(0xe0).Op(vm.SHR)
	signatures := maps.Keys(functions)
	slices.Sort(signatures)
	for _, signature := range signatures {
		a.Op(vm.DUP1)
		pushSelector(a, signature).Op(vm.EQ).JumpIf(functions[signature])
	}
}

func pushSelector(a *Assembler, signature string) *Assembler {
	selector := spc.FunctionSelector(signature)
	return a.PushBytes(selector[:]...)
}
