// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package logging

const (
	FieldComponent = "component"

	FieldSelector     = "selector"
	FieldSpecHash     = "specHash"
	FieldContextHash  = "contextHash"
	FieldAccounts     = "accounts"
	FieldConditions   = "conditions"
	FieldCondition    = "condition"
	FieldGasUsed      = "gasUsed"
	FieldExploit      = "exploit"
	FieldNewCondition = "newCondition"
	FieldDuration     = "duration"
	FieldChanges      = "changes"
	FieldValue        = "value"
)
