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
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/zkpoex/zkpoex/go/common"
)

// MethodArgument declares a named, ABI-typed parameter of a method.
type MethodArgument struct {
	Type string `json:"argument_type"`
	Name string `json:"argument_name"`
}

// Selector returns the lower-case hex encoding of the 4-byte function
// selector at the beginning of the calldata.
func Selector(calldata []byte) (string, error) {
	if len(calldata) < 4 {
		return "", fmt.Errorf("%w: %d bytes", ErrCalldataTooShort, len(calldata))
	}
	return fmt.Sprintf("%x", calldata[:4]), nil
}

// ArgumentValue decodes the calldata of a call according to the declared
// arguments and returns the value of the argument with the given name. Only
// unsigned integer arguments are supported.
func ArgumentValue(calldata []byte, arguments []MethodArgument, name string) (common.U256, error) {
	if len(calldata) < 4 {
		return common.U256{}, fmt.Errorf("%w: %d bytes", ErrCalldataTooShort, len(calldata))
	}

	index := -1
	for i, argument := range arguments {
		if argument.Name == name {
			index = i
			break
		}
	}
	if index < 0 {
		return common.U256{}, fmt.Errorf("%w: %q", ErrArgumentNotFound, name)
	}

	abiArguments := make(abi.Arguments, 0, len(arguments))
	for _, argument := range arguments {
		typ, err := abi.NewType(argument.Type, "", nil)
		if err != nil {
			return common.U256{}, fmt.Errorf("%w: %q of %q: %v", ErrArgumentType, argument.Type, argument.Name, err)
		}
		abiArguments = append(abiArguments, abi.Argument{Name: argument.Name, Type: typ})
	}
	if abiArguments[index].Type.T != abi.UintTy {
		return common.U256{}, fmt.Errorf("%w: %q is of type %s, expected an unsigned integer", ErrArgumentType, name, arguments[index].Type)
	}

	values, err := abiArguments.Unpack(calldata[4:])
	if err != nil {
		return common.U256{}, fmt.Errorf("%w: %v", ErrCalldataDecoding, err)
	}
	if len(values) != len(arguments) {
		return common.U256{}, fmt.Errorf("%w: got %d values for %d arguments", ErrCalldataDecoding, len(values), len(arguments))
	}
	return toU256(values[index])
}

// toU256 converts the Go representation of a decoded uintN value.
func toU256(value any) (common.U256, error) {
	switch v := value.(type) {
	case uint8:
		return common.NewU256(uint64(v)), nil
	case uint16:
		return common.NewU256(uint64(v)), nil
	case uint32:
		return common.NewU256(uint64(v)), nil
	case uint64:
		return common.NewU256(v), nil
	case *big.Int:
		return *common.U256FromBig(v), nil
	}
	return common.U256{}, fmt.Errorf("%w: unexpected decoded value %T", ErrArgumentType, value)
}

// normalizeMethodID removes an optional 0x prefix and folds the case of a
// hex method identifier.
func normalizeMethodID(id string) string {
	id = strings.TrimPrefix(strings.TrimPrefix(id, "0x"), "0X")
	return strings.ToLower(id)
}
