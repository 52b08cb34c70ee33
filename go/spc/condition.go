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
	"encoding/json"
	"fmt"

	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/st"
)

// Condition is one of FixedCondition, RelativeCondition,
// InputDependentFixedCondition, or InputDependentRelativeCondition.
type Condition interface {
	// Validate checks the structural consistency of the condition.
	Validate() error
	fmt.Stringer
	isCondition()
}

// FixedCondition requires `After[Key] Op Value`.
type FixedCondition struct {
	Key   st.StateKey     `json:"k_s"`
	Op    common.Operator `json:"op"`
	Value common.Word256  `json:"v"`
}

// RelativeCondition requires `Before[Key] Op After[KeyPrime]`, or
// `Before[Key] Op (After[KeyPrime] ValueOp Value)` if an operand is given.
// ValueOp and Value must be set together.
type RelativeCondition struct {
	Key      st.StateKey                `json:"k_s"`
	Op       common.Operator            `json:"op"`
	KeyPrime st.StateKey                `json:"k_s_prime"`
	ValueOp  *common.ArithmeticOperator `json:"value_op"`
	Value    *common.Word256            `json:"v"`
}

// InputDependentFixedCondition requires `After[Key] Op arg(Input)` where
// arg resolves a call argument by name.
type InputDependentFixedCondition struct {
	Key   st.StateKey     `json:"k_s"`
	Op    common.Operator `json:"op"`
	Input string          `json:"input"`
}

// InputDependentRelativeCondition requires
// `After[Key] Op (After[KeyPrime] InputOp arg(Input))`.
type InputDependentRelativeCondition struct {
	Key      st.StateKey               `json:"k_s"`
	Op       common.Operator           `json:"op"`
	KeyPrime st.StateKey               `json:"k_s_prime"`
	InputOp  common.ArithmeticOperator `json:"input_op"`
	Input    string                    `json:"input"`
}

func (FixedCondition) isCondition()                  {}
func (RelativeCondition) isCondition()               {}
func (InputDependentFixedCondition) isCondition()    {}
func (InputDependentRelativeCondition) isCondition() {}

func (c FixedCondition) Validate() error {
	if !c.Op.IsValid() {
		return fmt.Errorf("%w: invalid operator %v", ErrInvalidCondition, c.Op)
	}
	return nil
}

func (c RelativeCondition) Validate() error {
	if !c.Op.IsValid() {
		return fmt.Errorf("%w: invalid operator %v", ErrInvalidCondition, c.Op)
	}
	if (c.ValueOp == nil) != (c.Value == nil) {
		return fmt.Errorf("%w: value_op and v of %v must be given together", ErrInvalidCondition, c.Key)
	}
	if c.ValueOp != nil && !c.ValueOp.IsValid() {
		return fmt.Errorf("%w: invalid arithmetic operator %v", ErrInvalidCondition, *c.ValueOp)
	}
	return nil
}

func (c InputDependentFixedCondition) Validate() error {
	if !c.Op.IsValid() {
		return fmt.Errorf("%w: invalid operator %v", ErrInvalidCondition, c.Op)
	}
	if c.Input == "" {
		return fmt.Errorf("%w: missing input name", ErrInvalidCondition)
	}
	return nil
}

func (c InputDependentRelativeCondition) Validate() error {
	if !c.Op.IsValid() {
		return fmt.Errorf("%w: invalid operator %v", ErrInvalidCondition, c.Op)
	}
	if !c.InputOp.IsValid() {
		return fmt.Errorf("%w: invalid arithmetic operator %v", ErrInvalidCondition, c.InputOp)
	}
	if c.Input == "" {
		return fmt.Errorf("%w: missing input name", ErrInvalidCondition)
	}
	return nil
}

func (c FixedCondition) String() string {
	return fmt.Sprintf("%v %s %v", c.Key, c.Op.Symbol(), c.Value)
}

func (c RelativeCondition) String() string {
	if c.ValueOp == nil || c.Value == nil {
		return fmt.Sprintf("pre(%v) %s post(%v)", c.Key, c.Op.Symbol(), c.KeyPrime)
	}
	return fmt.Sprintf("pre(%v) %s post(%v) %s %v", c.Key, c.Op.Symbol(), c.KeyPrime, c.ValueOp.Symbol(), *c.Value)
}

func (c InputDependentFixedCondition) String() string {
	return fmt.Sprintf("%v %s arg(%s)", c.Key, c.Op.Symbol(), c.Input)
}

func (c InputDependentRelativeCondition) String() string {
	return fmt.Sprintf("%v %s %v %s arg(%s)", c.Key, c.Op.Symbol(), c.KeyPrime, c.InputOp.Symbol(), c.Input)
}

// JSON tags of the condition variants. Older specification files use the
// spelling "Dependant", which is accepted when reading.
const (
	fixedTag                  = "Fixed"
	relativeTag               = "Relative"
	inputDependentFixedTag    = "InputDependentFixedCondition"
	inputDependentRelativeTag = "InputDependentRelativeCondition"
)

var legacyTags = map[string]string{
	"InputDependantFixedCondition":    inputDependentFixedTag,
	"InputDependantRelativeCondition": inputDependentRelativeTag,
}

// MarshalCondition encodes a condition as a single-entry object keyed by its
// variant, e.g. {"Fixed": {"k_s": ..., "op": "Eq", "v": "0"}}.
func MarshalCondition(condition Condition) ([]byte, error) {
	var tag string
	switch condition.(type) {
	case FixedCondition:
		tag = fixedTag
	case RelativeCondition:
		tag = relativeTag
	case InputDependentFixedCondition:
		tag = inputDependentFixedTag
	case InputDependentRelativeCondition:
		tag = inputDependentRelativeTag
	default:
		return nil, fmt.Errorf("%w: unknown condition type %T", ErrInvalidCondition, condition)
	}
	return json.Marshal(map[string]Condition{tag: condition})
}

// UnmarshalCondition decodes and validates a condition.
func UnmarshalCondition(data []byte) (Condition, error) {
	var variants map[string]json.RawMessage
	if err := json.Unmarshal(data, &variants); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}
	if len(variants) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one variant, got %d", ErrInvalidCondition, len(variants))
	}
	for tag, body := range variants {
		if canonical, found := legacyTags[tag]; found {
			tag = canonical
		}
		var (
			res Condition
			err error
		)
		switch tag {
		case fixedTag:
			res, err = decodeVariant[FixedCondition](body)
		case relativeTag:
			res, err = decodeVariant[RelativeCondition](body)
		case inputDependentFixedTag:
			res, err = decodeVariant[InputDependentFixedCondition](body)
		case inputDependentRelativeTag:
			res, err = decodeVariant[InputDependentRelativeCondition](body)
		default:
			return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidCondition, tag)
		}
		if err != nil {
			return nil, err
		}
		if err := res.Validate(); err != nil {
			return nil, err
		}
		return res, nil
	}
	panic("unreachable")
}

func decodeVariant[T Condition](data []byte) (Condition, error) {
	var res T
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCondition, err)
	}
	return res, nil
}
