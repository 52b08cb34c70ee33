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
)

// MethodSpec lists the conditions a method of the target contract must
// maintain, together with the declaration of the method's arguments.
type MethodSpec struct {
	MethodID   string
	Conditions []Condition
	Arguments  []MethodArgument
}

// ProgramSpec is the ordered list of method specifications of a contract.
// A method may be listed several times; its conditions accumulate.
type ProgramSpec []MethodSpec

type methodSpecJson struct {
	MethodID   string            `json:"method_id"`
	Conditions []json.RawMessage `json:"conditions"`
	Arguments  []MethodArgument  `json:"arguments"`
}

func (m MethodSpec) MarshalJSON() ([]byte, error) {
	res := methodSpecJson{
		MethodID:   m.MethodID,
		Conditions: make([]json.RawMessage, 0, len(m.Conditions)),
		Arguments:  m.Arguments,
	}
	if res.Arguments == nil {
		res.Arguments = []MethodArgument{}
	}
	for _, condition := range m.Conditions {
		encoded, err := MarshalCondition(condition)
		if err != nil {
			return nil, err
		}
		res.Conditions = append(res.Conditions, encoded)
	}
	return json.Marshal(res)
}

func (m *MethodSpec) UnmarshalJSON(data []byte) error {
	var in methodSpecJson
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	res := MethodSpec{
		MethodID:  in.MethodID,
		Arguments: in.Arguments,
	}
	for i, raw := range in.Conditions {
		condition, err := UnmarshalCondition(raw)
		if err != nil {
			return fmt.Errorf("method %s, condition %d: %w", in.MethodID, i, err)
		}
		res.Conditions = append(res.Conditions, condition)
	}
	*m = res
	return nil
}

// ParseProgramSpec decodes a JSON array of method specifications.
func ParseProgramSpec(data []byte) (ProgramSpec, error) {
	var res ProgramSpec
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// FilterByMethod collects the conditions and arguments of all entries of the
// specification declared for the given method. Method identifiers are
// compared case-insensitively, with an optional 0x prefix. The declaration
// order is retained.
func FilterByMethod(spec ProgramSpec, methodID string) ([]Condition, []MethodArgument) {
	var conditions []Condition
	var arguments []MethodArgument
	id := normalizeMethodID(methodID)
	for _, method := range spec {
		if normalizeMethodID(method.MethodID) != id {
			continue
		}
		conditions = append(conditions, method.Conditions...)
		arguments = append(arguments, method.Arguments...)
	}
	return conditions, arguments
}

// FixedConditions collects the fixed conditions of all methods. They
// constrain the state regardless of the method being called.
func (s ProgramSpec) FixedConditions() []Condition {
	var res []Condition
	for _, method := range s {
		for _, condition := range method.Conditions {
			if _, ok := condition.(FixedCondition); ok {
				res = append(res, condition)
			}
		}
	}
	return res
}

// Matches reports whether the method specification applies to the given
// selector.
func (m *MethodSpec) Matches(methodID string) bool {
	return normalizeMethodID(m.MethodID) == normalizeMethodID(methodID)
}
