// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

import "fmt"

// InterpreterFactory creates an interpreter instance from an optional,
// implementation specific configuration.
type InterpreterFactory func(config any) (Interpreter, error)

var interpreterRegistry = newRegistry[InterpreterFactory]("interpreter")

// GetInterpreter returns an instance of the named interpreter using its
// default configuration, or nil if there is no such interpreter.
func GetInterpreter(name string) Interpreter {
	res, err := NewInterpreter(name)
	if err != nil {
		return nil
	}
	return res
}

// NewInterpreter creates an instance of the named interpreter. At most one
// configuration value may be provided.
func NewInterpreter(name string, config ...any) (Interpreter, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	factory := GetInterpreterFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("interpreter not found: %s", name)
	}
	var c any
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}

func GetInterpreterFactory(name string) InterpreterFactory {
	res, _ := interpreterRegistry.get(name)
	return res
}

func GetAllRegisteredInterpreters() map[string]InterpreterFactory {
	return interpreterRegistry.all()
}

// RegisterInterpreterFactory registers a factory under the given name. Names
// are case insensitive and may only be registered once.
func RegisterInterpreterFactory(name string, factory InterpreterFactory) error {
	return interpreterRegistry.register(name, factory, factory == nil)
}

// MustRegisterInterpreterFactory is like RegisterInterpreterFactory but
// panics on failure. It is intended to be used in init functions.
func MustRegisterInterpreterFactory(name string, factory InterpreterFactory) {
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		panic(err)
	}
}
