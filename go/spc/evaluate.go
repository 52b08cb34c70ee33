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
	"github.com/zkpoex/zkpoex/go/st"
)

// Environment is the state a condition is evaluated in. After is the
// snapshot under test; Before is the snapshot the transaction started from.
// Input and Arguments are needed by input dependent conditions only.
type Environment struct {
	Before    st.WorldState
	After     st.WorldState
	Input     []byte
	Arguments []MethodArgument
}

// Evaluate decides whether the condition holds in the given environment.
// A false result is a regular outcome; errors report conditions that can not
// be evaluated, e.g. because they reference accounts missing from a
// snapshot, and are fatal to the run.
func Evaluate(condition Condition, env Environment) (bool, error) {
	switch c := condition.(type) {
	case FixedCondition:
		lhs, err := env.After.Resolve(c.Key)
		if err != nil {
			return false, err
		}
		return c.Op.Compare(lhs, c.Value), nil

	case RelativeCondition:
		if err := c.Validate(); err != nil {
			return false, err
		}
		lhs, err := env.Before.Resolve(c.Key)
		if err != nil {
			return false, err
		}
		rhs, err := env.After.Resolve(c.KeyPrime)
		if err != nil {
			return false, err
		}
		if c.ValueOp != nil {
			rhs = common.Uint(c.ValueOp.Apply(rhs.Int(), c.Value.Int()))
		}
		return c.Op.Compare(lhs, rhs), nil

	case InputDependentFixedCondition:
		lhs, err := env.After.Resolve(c.Key)
		if err != nil {
			return false, err
		}
		arg, err := ArgumentValue(env.Input, env.Arguments, c.Input)
		if err != nil {
			return false, err
		}
		return c.Op.Compare(lhs, common.Uint(arg)), nil

	case InputDependentRelativeCondition:
		lhs, err := env.After.Resolve(c.Key)
		if err != nil {
			return false, err
		}
		base, err := env.After.Resolve(c.KeyPrime)
		if err != nil {
			return false, err
		}
		arg, err := ArgumentValue(env.Input, env.Arguments, c.Input)
		if err != nil {
			return false, err
		}
		return c.Op.Compare(lhs, common.Uint(c.InputOp.Apply(base.Int(), arg))), nil
	}
	return false, fmt.Errorf("%w: unknown condition type %T", ErrInvalidCondition, condition)
}

// FirstViolation evaluates the conditions in order and returns the index of
// the first one that does not hold, or -1 if all of them hold.
func FirstViolation(conditions []Condition, env Environment) (int, error) {
	for i, condition := range conditions {
		holds, err := Evaluate(condition, env)
		if err != nil {
			return -1, fmt.Errorf("condition %d (%v): %w", i, condition, err)
		}
		if !holds {
			return i, nil
		}
	}
	return -1, nil
}
