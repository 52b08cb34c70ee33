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
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/spc"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

const (
	BalanceOfSignature = "balanceOf(address)"
	TransferSignature  = "transfer(address,uint256)"
)

// ERC20BalancesSlot is the storage slot of the balances mapping of the
// ERC-20 template.
const ERC20BalancesSlot = 0

// ERC20Code is the runtime code of a minimal ERC-20 token supporting
// balanceOf(address) and transfer(address,uint256). Balances are kept in a
// mapping at slot ERC20BalancesSlot, laid out as solidity does. A transfer
// exceeding the sender's balance reverts.
var ERC20Code = newERC20Code()

func newERC20Code() tosca.Code {
	a := NewAssembler()
	dispatch(a, map[string]string{
		BalanceOfSignature: "balance_of",
		TransferSignature:  "transfer",
	})
	a.JumpTo("revert")

	a.Label("balance_of")
	a.Push(4).Op(vm.CALLDATALOAD)
	balanceSlot(a)
	a.Op(vm.SLOAD).Push(0).Op(vm.MSTORE)
	a.Push(32).Push(0).Op(vm.RETURN)

	a.Label("transfer")
	// stack: from slot, from balance, amount
	a.Op(vm.CALLER)
	balanceSlot(a)
	a.Op(vm.DUP1, vm.SLOAD)
	a.Push(36).Op(vm.CALLDATALOAD)
	a.Op(vm.DUP1, vm.DUP3, vm.LT).JumpIf("revert")
	a.Op(vm.DUP1, vm.DUP3, vm.SUB, vm.DUP4, vm.SSTORE)
	// the receiver's balance is read after the sender's has been updated
	a.Push(4).Op(vm.CALLDATALOAD)
	balanceSlot(a)
	a.Op(vm.DUP1, vm.SLOAD, vm.DUP3, vm.ADD, vm.SWAP1, vm.SSTORE)
	a.Push(1).Push(0).Op(vm.MSTORE)
	a.Push(32).Push(0).Op(vm.RETURN)

	a.Label("revert")
	a.Push(0).Op(vm.DUP1, vm.REVERT)
	return a.MustCode()
}

// balanceSlot replaces the address on top of the stack with the storage slot
// of its balance.
func balanceSlot(a *Assembler) {
	a.Push(0).Op(vm.MSTORE)
	a.Push(ERC20BalancesSlot).Push(32).Op(vm.MSTORE)
	a.Push(64).Push(0).Op(vm.KECCAK256)
}

// ERC20Balances returns the storage of an ERC-20 template holding the given
// balances.
func ERC20Balances(balances map[tosca.Address]common.U256) st.Storage {
	res := make(st.Storage, len(balances))
	for holder, balance := range balances {
		if balance.IsZero() {
			continue
		}
		res[spc.MappingSlot(holder, common.NewU256(ERC20BalancesSlot))] = tosca.Word(balance.Bytes32be())
	}
	return res
}
