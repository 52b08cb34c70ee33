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

// ProcessorFactory creates a processor running call frames on the given
// interpreter.
type ProcessorFactory func(interpreter Interpreter) Processor

var processorRegistry = newRegistry[ProcessorFactory]("processor")

// GetProcessor returns an instance of the named processor using the given
// interpreter, or nil if there is no such processor.
func GetProcessor(name string, interpreter Interpreter) Processor {
	factory := GetProcessorFactory(name)
	if factory == nil {
		return nil
	}
	return factory(interpreter)
}

func GetProcessorFactory(name string) ProcessorFactory {
	res, _ := processorRegistry.get(name)
	return res
}

func GetAllRegisteredProcessorFactories() map[string]ProcessorFactory {
	return processorRegistry.all()
}

// RegisterProcessorFactory registers a factory under the given name. It
// panics if the factory is nil or the name is already taken, and is meant to
// be called from init functions.
func RegisterProcessorFactory(name string, factory ProcessorFactory) {
	if err := processorRegistry.register(name, factory, factory == nil); err != nil {
		panic(err)
	}
}
