// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package contracts provides the contracts this module executes on its own:
// a target contract used for demonstrations and tests, and the code of the
// context templates accounts may be instantiated from. Contracts are written
// with a small assembler resolving jump labels.
package contracts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// Assembler builds EVM byte code. Jump targets are referenced by name and
// resolved when the code is requested. Methods can be chained.
type Assembler struct {
	code   []byte
	labels map[string]int
	fixups []fixup
	err    error
}

type fixup struct {
	position int
	label    string
}

func NewAssembler() *Assembler {
	return &Assembler{labels: map[string]int{}}
}

// Op appends plain instructions.
func (a *Assembler) Op(ops ...vm.OpCode) *Assembler {
	for _, op := range ops {
		a.code = append(a.code, byte(op))
	}
	return a
}

// Push appends the smallest PUSH instruction holding the given value.
func (a *Assembler) Push(value uint64) *Assembler {
	var bytes []byte
	for value > 0 {
		bytes = append([]byte{byte(value)}, bytes...)
		value >>= 8
	}
	if len(bytes) == 0 {
		bytes = []byte{0}
	}
	return a.PushBytes(bytes...)
}

// PushBytes appends a PUSH instruction with the given immediate of 1 to 32
// bytes.
func (a *Assembler) PushBytes(bytes ...byte) *Assembler {
	if len(bytes) == 0 || len(bytes) > 32 {
		a.fail(fmt.Errorf("invalid push of %d bytes", len(bytes)))
		return a
	}
	a.code = append(a.code, byte(vm.PUSH1)+byte(len(bytes)-1))
	a.code = append(a.code, bytes...)
	return a
}

// PushAddress appends a PUSH20 of the given address.
func (a *Assembler) PushAddress(address tosca.Address) *Assembler {
	return a.PushBytes(address[:]...)
}

// Label marks the current position as a jump target.
func (a *Assembler) Label(name string) *Assembler {
	if _, found := a.labels[name]; found {
		a.fail(fmt.Errorf("duplicate label %q", name))
		return a
	}
	a.labels[name] = len(a.code)
	return a.Op(vm.JUMPDEST)
}

// PushLabel appends a PUSH2 of the position of the named label.
func (a *Assembler) PushLabel(name string) *Assembler {
	a.code = append(a.code, byte(vm.PUSH2))
	a.fixups = append(a.fixups, fixup{position: len(a.code), label: name})
	a.code = append(a.code, 0, 0)
	return a
}

// JumpTo appends an unconditional jump to the named label.
func (a *Assembler) JumpTo(name string) *Assembler {
	return a.PushLabel(name).Op(vm.JUMP)
}

// JumpIf appends a jump to the named label taken if the top of the stack is
// not zero.
func (a *Assembler) JumpIf(name string) *Assembler {
	return a.PushLabel(name).Op(vm.JUMPI)
}

// Code resolves all label references and returns the assembled code.
func (a *Assembler) Code() (tosca.Code, error) {
	if a.err != nil {
		return nil, a.err
	}
	res := tosca.Code(append([]byte(nil), a.code...))
	for _, fixup := range a.fixups {
		position, found := a.labels[fixup.label]
		if !found {
			return nil, fmt.Errorf("undefined label %q", fixup.label)
		}
		if position > 0xffff {
			return nil, fmt.Errorf("label %q out of range", fixup.label)
		}
		res[fixup.position] = byte(position >> 8)
		res[fixup.position+1] = byte(position)
	}
	return res, nil
}

// MustCode is like Code but panics on errors. It is intended for contracts
// defined in code.
func (a *Assembler) MustCode() tosca.Code {
	res, err := a.Code()
	if err != nil {
		panic(err)
	}
	return res
}

func (a *Assembler) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}
