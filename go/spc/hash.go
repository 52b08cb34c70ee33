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

	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// HashProgramSpec computes the Keccak-256 commitment to a specification.
// Per method, it hashes the method identifier, its serialized conditions,
// and its serialized arguments, in order. Strings are null terminated,
// operators are represented by their tag byte, and values by 32 bytes:
// little-endian for integers, verbatim for hashes.
func HashProgramSpec(spec ProgramSpec) tosca.Hash {
	hasher := common.NewKeccak256()
	for _, method := range spec {
		hasher.Write([]byte(method.MethodID))
		for _, condition := range method.Conditions {
			hasher.Write(serializeCondition(condition))
		}
		for _, argument := range method.Arguments {
			hasher.Write(serializeArgument(argument))
		}
	}
	var res tosca.Hash
	copy(res[:], hasher.Sum(nil))
	return res
}

func serializeCondition(condition Condition) []byte {
	var res []byte
	switch c := condition.(type) {
	case FixedCondition:
		res = appendString(res, c.Key.String())
		res = append(res, byte(c.Op))
		res = appendWord(res, c.Value)
	case RelativeCondition:
		res = appendString(res, c.Key.String())
		res = append(res, byte(c.Op))
		// the operand is not committed to
		res = appendString(res, c.KeyPrime.String())
	case InputDependentFixedCondition:
		res = appendString(res, c.Key.String())
		res = append(res, byte(c.Op))
		res = appendString(res, c.Input)
	case InputDependentRelativeCondition:
		res = appendString(res, c.Key.String())
		res = append(res, byte(c.Op))
		res = appendString(res, c.KeyPrime.String())
		res = append(res, byte(c.InputOp))
		res = appendString(res, c.Input)
	default:
		panic(fmt.Sprintf("unknown condition type %T", condition))
	}
	return res
}

func serializeArgument(argument MethodArgument) []byte {
	res := appendString(nil, argument.Type)
	return appendString(res, argument.Name)
}

func appendString(res []byte, s string) []byte {
	res = append(res, s...)
	return append(res, 0)
}

func appendWord(res []byte, w common.Word256) []byte {
	bytes := w.Bytes()
	return append(res, bytes[:]...)
}
