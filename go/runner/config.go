// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package runner

import (
	"github.com/rs/zerolog"
	"github.com/zkpoex/zkpoex/go/contracts"
	"github.com/zkpoex/zkpoex/go/logging"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// Config selects the execution stack of a Runner.
type Config struct {
	// Processor and Interpreter name entries of the tosca registries.
	Processor   string
	Interpreter string
	Revision    tosca.Revision
	// GasLimit is the gas limit of the executed transaction.
	GasLimit tosca.Gas
	// Templates lists the contracts context accounts outside of the
	// arbitrary contract range may be instances of.
	Templates map[tosca.Address]contracts.Template
	Logger    zerolog.Logger
}

// DefaultConfig runs transactions on the floria processor and the geth
// interpreter using the Cancun rules.
func DefaultConfig() Config {
	return Config{
		Processor:   "floria",
		Interpreter: "geth",
		Revision:    tosca.R13_Cancun,
		GasLimit:    30_000_000,
		Templates:   contracts.Templates(),
		Logger:      logging.NewLogger("runner"),
	}
}
