// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package spc

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// FunctionSelector returns the first four bytes of the Keccak-256 hash of a
// canonical function signature such as "transfer(address,uint256)".
func FunctionSelector(signature string) [4]byte {
	hash := common.Keccak256([]byte(signature))
	return [4]byte(hash[:4])
}

// FunctionSignature builds the calldata of a call to the given function.
// Each parameter is encoded as a 32-byte ABI word: "true" and "false" as
// booleans, 0x prefixed hex (e.g. addresses) left padded with zeros, and
// anything else as a decimal unsigned integer.
//
// For instance, FunctionSignature("exploit(bool)", "true") yields
// 16112c6c followed by the word 1.
func FunctionSignature(signature string, params ...string) ([]byte, error) {
	selector := FunctionSelector(signature)
	res := append(make([]byte, 0, 4+32*len(params)), selector[:]...)
	for _, param := range params {
		word, err := encodeParameter(param)
		if err != nil {
			return nil, err
		}
		res = append(res, word[:]...)
	}
	return res, nil
}

func encodeParameter(param string) ([32]byte, error) {
	var res [32]byte
	switch {
	case param == "true":
		res[31] = 1
		return res, nil
	case param == "false":
		return res, nil
	case strings.HasPrefix(param, "0x") || strings.HasPrefix(param, "0X"):
		digits := param[2:]
		if len(digits)%2 == 1 {
			digits = "0" + digits
		}
		if len(digits) > 64 {
			return res, fmt.Errorf("hex parameter %q exceeds 32 bytes", param)
		}
		decoded, err := hex.DecodeString(digits)
		if err != nil {
			return res, fmt.Errorf("invalid hex parameter %q: %w", param, err)
		}
		copy(res[32-len(decoded):], decoded)
		return res, nil
	}
	value, err := common.ParseU256(param)
	if err != nil {
		return res, fmt.Errorf("unsupported parameter %q: %w", param, err)
	}
	return value.Bytes32be(), nil
}

// ParseCondition reads a fixed condition on an account in the short form
// "<field> <operator> <value>", e.g. "balance > 0", "nonce == 1", or
// "storage.<slot> >= 0x...". The value is a decimal integer or a 0x prefixed
// 32-byte hash.
func ParseCondition(text string, address tosca.Address) (FixedCondition, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return FixedCondition{}, fmt.Errorf("%w: expected <field> <operator> <value>, got %q", ErrInvalidCondition, text)
	}
	key, err := st.ParseStateKey(fmt.Sprintf("%x.%s", address[:], parts[0]))
	if err != nil {
		return FixedCondition{}, fmt.Errorf("%w: %w", ErrInvalidCondition, err)
	}
	op, err := common.ParseOperator(parts[1])
	if err != nil {
		return FixedCondition{}, fmt.Errorf("%w: %w", ErrInvalidCondition, err)
	}
	value, err := common.ParseWord256(parts[2])
	if err != nil {
		return FixedCondition{}, fmt.Errorf("%w: %w", ErrInvalidCondition, err)
	}
	return FixedCondition{Key: key, Op: op, Value: value}, nil
}

// MappingSlot computes the storage slot of the entry for key in a Solidity
// mapping(address => ...) declared at slot base.
func MappingSlot(key tosca.Address, base common.U256) tosca.Key {
	var padded [32]byte
	copy(padded[12:], key[:])
	baseBytes := base.Bytes32be()
	return tosca.Key(common.Keccak256(padded[:], baseBytes[:]))
}

// VariableSlot is the storage slot of the n-th statically sized state
// variable of a contract without packing.
func VariableSlot(n uint64) tosca.Key {
	return tosca.Key(common.NewU256(n).Bytes32be())
}
