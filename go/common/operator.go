// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/json"
	"fmt"
)

// Operator is a binary comparison between two words. The numeric values are
// the tag bytes used in commitments and must not change.
type Operator byte

const (
	Eq Operator = iota
	Neq
	Gt
	Ge
	Lt
	Le
	numOperators
)

var operatorNames = [numOperators]string{"Eq", "Neq", "Gt", "Ge", "Lt", "Le"}
var operatorSymbols = [numOperators]string{"==", "!=", ">", ">=", "<", "<="}

func (o Operator) IsValid() bool {
	return o < numOperators
}

// Compare evaluates `a o b` on the big-endian integer view of the words.
func (o Operator) Compare(a, b Word256) bool {
	x, y := a.Int(), b.Int()
	switch o {
	case Eq:
		return x.Eq(y)
	case Neq:
		return x.Ne(y)
	case Gt:
		return x.Gt(y)
	case Ge:
		return !x.Lt(y)
	case Lt:
		return x.Lt(y)
	case Le:
		return !x.Gt(y)
	}
	panic(fmt.Sprintf("unknown operator %d", o))
}

func (o Operator) String() string {
	if !o.IsValid() {
		return fmt.Sprintf("Operator(%d)", o)
	}
	return operatorNames[o]
}

// Symbol is the infix notation of the operator, e.g. ">=".
func (o Operator) Symbol() string {
	if !o.IsValid() {
		return "?"
	}
	return operatorSymbols[o]
}

// ParseOperator accepts both the name ("Ge") and the symbol (">=") of an
// operator.
func ParseOperator(s string) (Operator, error) {
	for i := Operator(0); i < numOperators; i++ {
		if operatorNames[i] == s || operatorSymbols[i] == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

func (o Operator) MarshalJSON() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("invalid operator %d", o)
	}
	return json.Marshal(o.String())
}

func (o *Operator) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	res, err := ParseOperator(name)
	if err != nil {
		return err
	}
	*o = res
	return nil
}

// ArithmeticOperator combines two numbers with EVM semantics. The numeric
// values are the tag bytes used in commitments and must not change.
type ArithmeticOperator byte

const (
	Add ArithmeticOperator = iota
	Sub
	Mul
	Div
	Mod
	numArithmeticOperators
)

var arithmeticNames = [numArithmeticOperators]string{"Add", "Sub", "Mul", "Div", "Mod"}
var arithmeticSymbols = [numArithmeticOperators]string{"+", "-", "*", "/", "%"}

func (o ArithmeticOperator) IsValid() bool {
	return o < numArithmeticOperators
}

// Apply computes `a o b` modulo 2^256. Division and modulo by zero yield zero.
func (o ArithmeticOperator) Apply(a, b U256) U256 {
	switch o {
	case Add:
		return a.Add(b)
	case Sub:
		return a.Sub(b)
	case Mul:
		return a.Mul(b)
	case Div:
		return a.Div(b)
	case Mod:
		return a.Mod(b)
	}
	panic(fmt.Sprintf("unknown arithmetic operator %d", o))
}

func (o ArithmeticOperator) String() string {
	if !o.IsValid() {
		return fmt.Sprintf("ArithmeticOperator(%d)", o)
	}
	return arithmeticNames[o]
}

func (o ArithmeticOperator) Symbol() string {
	if !o.IsValid() {
		return "?"
	}
	return arithmeticSymbols[o]
}

func ParseArithmeticOperator(s string) (ArithmeticOperator, error) {
	for i := ArithmeticOperator(0); i < numArithmeticOperators; i++ {
		if arithmeticNames[i] == s || arithmeticSymbols[i] == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown arithmetic operator %q", s)
}

func (o ArithmeticOperator) MarshalJSON() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("invalid arithmetic operator %d", o)
	}
	return json.Marshal(o.String())
}

func (o *ArithmeticOperator) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	res, err := ParseArithmeticOperator(name)
	if err != nil {
		return err
	}
	*o = res
	return nil
}
