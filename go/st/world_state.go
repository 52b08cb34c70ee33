// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package st

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/google/btree"
	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// ----------------------------------------------------------------------------
// WorldState
// ----------------------------------------------------------------------------

// WorldState is a snapshot of a set of accounts. Unlike a live Context, a
// WorldState distinguishes absent accounts from empty ones, which allows
// conditions to detect references to accounts outside of the context.
type WorldState map[tosca.Address]Account

func (s WorldState) Equal(other WorldState) bool {
	return equalMapsIgnoringZero(s, other, func(a, b Account) bool {
		return a.Equal(&b)
	})
}

// Clone creates a deep copy of the world state.
func (s WorldState) Clone() WorldState {
	if s == nil {
		return nil
	}
	res := make(WorldState, len(s))
	for k, v := range s {
		res[k] = v.Clone()
	}
	return res
}

// Diff lists the differences between two states in address order.
func (s WorldState) Diff(other WorldState) []string {
	return diffMaps("", s, other, lessAddress, func(address tosca.Address, a, b Account) []string {
		if a.Equal(&b) {
			return nil
		}
		return a.Diff(fmt.Sprintf("%v/", address), &b)
	})
}

// Resolve reads the entry addressed by the given key. Balances and nonces are
// integers, storage slots are read as big-endian integers; unset slots are
// zero. Keys referencing an account not present in the state fail with
// ErrAccountNotFound.
func (s WorldState) Resolve(key StateKey) (common.Word256, error) {
	account, found := s[key.Address]
	if !found {
		return common.Word256{}, fmt.Errorf("%w: %v referenced by %v", ErrAccountNotFound, key.Address, key)
	}
	switch key.Field {
	case BalanceField:
		return common.Uint(common.NewU256FromValue(account.Balance)), nil
	case NonceField:
		return common.UintFromUint64(account.Nonce), nil
	case StorageField:
		return common.Uint(common.NewU256FromWord(account.Storage[key.Slot])), nil
	}
	return common.Word256{}, fmt.Errorf("%w: unknown field %v", ErrInvalidStateKey, key.Field)
}

// ----------------------------------------------------------------------------
// Account
// ----------------------------------------------------------------------------

// Account represents an account in the world state.
type Account struct {
	Balance tosca.Value
	Nonce   uint64
	Code    tosca.Code
	Storage Storage
}

func (a *Account) Equal(other *Account) bool {
	return a.Balance == other.Balance &&
		a.Nonce == other.Nonce &&
		bytes.Equal(a.Code, other.Code) &&
		a.Storage.Equal(other.Storage)
}

// IsEmpty is true for accounts without balance, nonce and code (EIP-161).
func (a *Account) IsEmpty() bool {
	return a.Balance == tosca.Value{} && a.Nonce == 0 && len(a.Code) == 0
}

func (a *Account) Clone() Account {
	return Account{
		Balance: a.Balance,
		Nonce:   a.Nonce,
		Code:    bytes.Clone(a.Code),
		Storage: a.Storage.Clone(),
	}
}

func (a *Account) Diff(prefix string, other *Account) []string {
	var res []string
	if a.Balance != other.Balance {
		res = append(res, fmt.Sprintf("different balance: %v != %v", a.Balance, other.Balance))
	}
	if a.Nonce != other.Nonce {
		res = append(res, fmt.Sprintf("different nonce: %v != %v", a.Nonce, other.Nonce))
	}
	if !bytes.Equal(a.Code, other.Code) {
		res = append(res, fmt.Sprintf("different code: 0x%x != 0x%x", a.Code, other.Code))
	}
	res = append(res, a.Storage.Diff("storage/", other.Storage)...)
	for i, diff := range res {
		res[i] = prefix + diff
	}
	return res
}

// ----------------------------------------------------------------------------
// Storage
// ----------------------------------------------------------------------------

// Storage represents the storage of an account. Zero-valued entries are
// equivalent to missing entries.
type Storage map[tosca.Key]tosca.Word

func (s Storage) Equal(other Storage) bool {
	return equalMapsIgnoringZero(s, other, func(a, b tosca.Word) bool {
		return a == b
	})
}

func (s Storage) Clone() Storage {
	return maps.Clone(s)
}

// Keys lists the slots in ascending order.
func (s Storage) Keys() []tosca.Key {
	return sortedKeys(s, lessKey)
}

func (s Storage) Diff(prefix string, other Storage) []string {
	return diffMaps(prefix, s, other, lessKey, func(k tosca.Key, a, b tosca.Word) []string {
		if a == b {
			return nil
		}
		return []string{
			fmt.Sprintf("different value for key %v: %v != %v", k, a, b),
		}
	})
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// equalMapsIgnoringZero compares two maps, ignoring zero-valued entries.
func equalMapsIgnoringZero[K comparable, V any](a, b map[K]V, equal func(V, V) bool) bool {
	for k, v := range a {
		if !equal(v, b[k]) {
			return false
		}
	}
	for k, v := range b {
		if !equal(v, a[k]) {
			return false
		}
	}
	return true
}

// diffMaps compares two maps and returns a list of differences ordered by
// key.
func diffMaps[K comparable, V any](prefix string, a, b map[K]V, less btree.LessFunc[K], diff func(K, V, V) []string) []string {
	keys := btree.NewG(8, less)
	for k := range a {
		keys.ReplaceOrInsert(k)
	}
	for k := range b {
		keys.ReplaceOrInsert(k)
	}
	var diffs []string
	keys.Ascend(func(k K) bool {
		diffs = append(diffs, diff(k, a[k], b[k])...)
		return true
	})
	for i, diff := range diffs {
		diffs[i] = prefix + diff
	}
	return diffs
}

func sortedKeys[K comparable, V any](m map[K]V, less btree.LessFunc[K]) []K {
	tree := btree.NewG(8, less)
	for k := range m {
		tree.ReplaceOrInsert(k)
	}
	res := make([]K, 0, tree.Len())
	tree.Ascend(func(k K) bool {
		res = append(res, k)
		return true
	})
	return res
}

func lessAddress(a, b tosca.Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func lessKey(a, b tosca.Key) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
