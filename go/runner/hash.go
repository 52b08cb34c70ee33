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
	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// HashContextState computes the commitment to a context state: the
// Keccak-256 hash of the code of all accounts concatenated in declaration
// order. Balances, nonces, and storage are not covered.
func HashContextState(accounts []st.AccountData) tosca.Hash {
	hasher := common.NewKeccak256()
	for _, account := range accounts {
		hasher.Write(account.Code)
	}
	var res tosca.Hash
	copy(res[:], hasher.Sum(nil))
	return res
}
