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
	"encoding/hex"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/zkpoex/zkpoex/go/spc"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// Outcome is the result of a run.
type Outcome struct {
	// ExploitFound is set if a condition of the called method does not hold
	// after the transaction.
	ExploitFound bool
	// NewConditionFound is set if no exploit was found but the probed
	// condition does not hold after the transaction.
	NewConditionFound bool
	// Violation is the first condition found not to hold, if any.
	Violation spc.Condition

	SpecHash    tosca.Hash
	ContextHash tosca.Hash
	Prover      *tosca.Address
	GasUsed     tosca.Gas
}

// Successful reports whether the run demonstrated anything.
func (o Outcome) Successful() bool {
	return o.ExploitFound || o.NewConditionFound
}

// Output lists the exploit flag, the specification hash, the context hash,
// and, if known, the prover address. Hex values carry no 0x prefix.
func (o Outcome) Output() []string {
	res := []string{
		strconv.FormatBool(o.ExploitFound),
		hex.EncodeToString(o.SpecHash[:]),
		hex.EncodeToString(o.ContextHash[:]),
	}
	if o.Prover != nil {
		res = append(res, hex.EncodeToString(o.Prover[:]))
	}
	return res
}

var publicInputArguments = mustArguments("bool", "bytes32", "bytes32", "address")

// PublicInput ABI encodes the tuple (bool exploitFound, bytes32
// programSpecHash, bytes32 contextStateHash, address proverAddress) checked
// by the verifier contract. A missing prover is encoded as zero.
func (o Outcome) PublicInput() ([]byte, error) {
	var prover gethcommon.Address
	if o.Prover != nil {
		prover = gethcommon.Address(*o.Prover)
	}
	return publicInputArguments.Pack(
		o.ExploitFound,
		[32]byte(o.SpecHash),
		[32]byte(o.ContextHash),
		prover,
	)
}

func mustArguments(types ...string) abi.Arguments {
	res := make(abi.Arguments, 0, len(types))
	for _, name := range types {
		typ, err := abi.NewType(name, "", nil)
		if err != nil {
			panic(err)
		}
		res = append(res, abi.Argument{Type: typ})
	}
	return res
}
