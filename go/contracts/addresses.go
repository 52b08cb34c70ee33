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
	"github.com/zkpoex/zkpoex/go/tosca"
)

var (
	// TargetAddress is the address the contract under test is deployed at.
	TargetAddress = tosca.Address{
		0x48, 0x38, 0xB1, 0x06, 0xFC, 0xe9, 0x64, 0x7B, 0xdf, 0x1E,
		0x78, 0x77, 0xBF, 0x73, 0xcE, 0x8B, 0x0B, 0xAD, 0x5f, 0x97,
	}

	// CallerAddress is the externally owned account sending the transaction.
	CallerAddress = tosca.Address{
		0xE9, 0x4f, 0x1f, 0xa4, 0xF2, 0x7D, 0x9d, 0x28, 0x8F, 0xFe,
		0xA2, 0x34, 0xbB, 0x62, 0xE1, 0xfB, 0xC0, 0x86, 0xCA, 0x0c,
	}

	// ArbitraryContractBase is the first address of the range free contracts
	// of a context state have to be placed in.
	ArbitraryContractBase = tosca.Address{0xC0, 0xDE}

	// ERC20TemplateAddress is the address of the ERC-20 context template.
	ERC20TemplateAddress = tosca.Address{0xE4, 0xC2}
)

// NumArbitraryContracts is the size of the arbitrary contract range.
const NumArbitraryContracts = 4096

// ArbitraryContractAddress returns the i-th address of the arbitrary contract
// range.
func ArbitraryContractAddress(i uint16) tosca.Address {
	res := ArbitraryContractBase
	res[18] = byte(i >> 8)
	res[19] = byte(i)
	return res
}

// IsArbitraryContractAddress reports whether the given address is inside the
// arbitrary contract range.
func IsArbitraryContractAddress(address tosca.Address) bool {
	if [18]byte(address[:18]) != [18]byte(ArbitraryContractBase[:18]) {
		return false
	}
	offset := int(address[18])<<8 | int(address[19])
	return offset < NumArbitraryContracts
}
