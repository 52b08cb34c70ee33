// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package tosca defines the EVM facing types and interfaces shared by the
// state model, the interpreter adapter and the transaction processor. It
// holds no implementation of its own beyond small value helpers; concrete
// interpreters and processors register themselves by name and are obtained
// through the registries of this package.
package tosca
