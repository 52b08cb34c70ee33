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

import (
	"strings"
	"testing"
)

func TestStorageStatus_NamesAreUnique(t *testing.T) {
	seen := map[string]StorageStatus{}
	for s := StorageAssigned; s <= StorageModifiedRestored; s++ {
		name := s.String()
		if strings.HasPrefix(name, "StorageStatus(") {
			t.Errorf("status %d has no name", int(s))
		}
		if other, found := seen[name]; found {
			t.Errorf("status %d and %d share the name %s", int(other), int(s), name)
		}
		seen[name] = s
	}
	if want, got := "StorageStatus(42)", StorageStatus(42).String(); want != got {
		t.Errorf("unexpected name of unknown status, wanted %s, got %s", want, got)
	}
}
