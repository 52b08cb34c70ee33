// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package runner implements the exploit proving protocol: it validates a
// context state against the reserved address layout, checks the fixed
// conditions of a specification on the initial state, executes a single
// transaction, and classifies the resulting state change as an exploit, a
// newly found condition, or neither. The outcome carries commitments to the
// specification and to the code of the context state.
package runner

import "github.com/zkpoex/zkpoex/go/tosca"

const (
	ErrInvalidSettings     = tosca.ConstError("invalid blockchain settings")
	ErrInvalidContextState = tosca.ConstError("invalid context state")

	// ErrPreStateViolation is reported if a fixed condition does not hold
	// before the transaction is executed.
	ErrPreStateViolation = tosca.ConstError("pre-state condition violated")

	// ErrAbnormalTermination is reported if the transaction is rejected,
	// reverts, or fails.
	ErrAbnormalTermination = tosca.ConstError("abnormal termination")

	ErrNoExploitFound = tosca.ConstError("no exploit or new condition found")
)
