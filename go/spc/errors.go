// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package spc defines program specifications: per-method lists of conditions
// on the account state that a contract is expected to maintain. It provides
// the condition language, its evaluation against state snapshots, the binding
// of condition inputs to call arguments, and the commitment hash published
// alongside exploit proofs.
package spc

import "github.com/zkpoex/zkpoex/go/tosca"

const (
	// ErrInvalidCondition is reported for conditions that are malformed,
	// e.g. a relative condition with an operator but no operand.
	ErrInvalidCondition = tosca.ConstError("invalid condition")

	ErrCalldataTooShort = tosca.ConstError("calldata too short")
	ErrCalldataDecoding = tosca.ConstError("failed to decode calldata")
	ErrArgumentNotFound = tosca.ConstError("argument not found")
	ErrArgumentType     = tosca.ConstError("unsupported argument type")
)
