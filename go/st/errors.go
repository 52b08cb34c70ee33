// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package st models the account state a transaction is executed against:
// snapshots of accounts and storage, the addressing of individual state
// entries by textual keys, and the live context a transaction mutates.
package st

import "github.com/zkpoex/zkpoex/go/tosca"

const (
	// ErrInvalidStateKey is reported for two-segment keys naming an
	// unknown account field.
	ErrInvalidStateKey = tosca.ConstError("invalid state key")

	// ErrInvalidStateKeyFormat is reported for keys that do not have the
	// shape <address>.<field> or <address>.storage.<slot>.
	ErrInvalidStateKeyFormat = tosca.ConstError("invalid state key format")

	// ErrAccountNotFound is reported when a key references an account that
	// is not part of the inspected state.
	ErrAccountNotFound = tosca.ConstError("account not found")

	ErrDuplicateAccount = tosca.ConstError("duplicate account")
	ErrInvalidAccount   = tosca.ConstError("invalid account data")
)
