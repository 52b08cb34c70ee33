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
	"slices"

	"github.com/zkpoex/zkpoex/go/tosca"
)

// Context is the live state of a transaction. It implements
// tosca.TransactionContext on top of a WorldState and journals every
// modification so that snapshots can be restored when a call frame fails.
// A Context is not safe for concurrent use.
type Context struct {
	original   WorldState
	current    WorldState
	logs       []tosca.Log
	undo       []func()
	accounts   map[tosca.Address]struct{}
	slots      map[slot]struct{}
	transient  map[slot]tosca.Word
	destructed map[tosca.Address]struct{}
	blockHash  func(int64) tosca.Hash
}

var _ tosca.TransactionContext = (*Context)(nil)

type slot struct {
	address tosca.Address
	key     tosca.Key
}

// NewContext creates a context starting from the given state, which is not
// modified. The optional blockHash function serves the BLOCKHASH
// instruction; without it all block hashes are zero.
func NewContext(initial WorldState, blockHash func(int64) tosca.Hash) *Context {
	if initial == nil {
		initial = WorldState{}
	}
	return &Context{
		original:   initial,
		current:    initial.Clone(),
		accounts:   map[tosca.Address]struct{}{},
		slots:      map[slot]struct{}{},
		transient:  map[slot]tosca.Word{},
		destructed: map[tosca.Address]struct{}{},
		blockHash:  blockHash,
	}
}

// State returns a copy of the current state.
func (c *Context) State() WorldState {
	return c.current.Clone()
}

// Finalize ends the transaction: accounts marked as self-destructed are
// removed, as are empty accounts that did not exist before the
// transaction. Transaction-scoped data is cleared and snapshots taken so
// far become invalid.
func (c *Context) Finalize() {
	for address := range c.destructed {
		delete(c.current, address)
	}
	for address, account := range c.current {
		if _, existed := c.original[address]; !existed && account.IsEmpty() {
			delete(c.current, address)
		}
	}
	c.undo = nil
	c.accounts = map[tosca.Address]struct{}{}
	c.slots = map[slot]struct{}{}
	c.transient = map[slot]tosca.Word{}
	c.destructed = map[tosca.Address]struct{}{}
}

// AccountExists reports whether the account is part of the state.
func (c *Context) AccountExists(addr tosca.Address) bool {
	_, found := c.current[addr]
	return found
}

func (c *Context) GetBalance(addr tosca.Address) tosca.Value {
	return c.current[addr].Balance
}

func (c *Context) SetBalance(addr tosca.Address, value tosca.Value) {
	c.update(addr, func(account *Account) { account.Balance = value })
}

func (c *Context) GetNonce(addr tosca.Address) uint64 {
	return c.current[addr].Nonce
}

func (c *Context) SetNonce(addr tosca.Address, value uint64) {
	c.update(addr, func(account *Account) { account.Nonce = value })
}

func (c *Context) GetCode(addr tosca.Address) tosca.Code {
	return tosca.Code(bytes.Clone(c.current[addr].Code))
}

// GetCodeHash returns the hash of the account's code, or the zero hash for
// accounts that do not exist.
func (c *Context) GetCodeHash(addr tosca.Address) tosca.Hash {
	account, found := c.current[addr]
	if !found {
		return tosca.Hash{}
	}
	return CodeHash(account.Code)
}

func (c *Context) GetCodeSize(addr tosca.Address) int {
	return len(c.current[addr].Code)
}

func (c *Context) SetCode(addr tosca.Address, code tosca.Code) {
	code = tosca.Code(bytes.Clone(code))
	c.update(addr, func(account *Account) { account.Code = code })
}

func (c *Context) GetStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return c.current[addr].Storage[key]
}

func (c *Context) SetStorage(addr tosca.Address, key tosca.Key, new tosca.Word) tosca.StorageStatus {
	original := c.original[addr].Storage[key]
	current := c.current[addr].Storage[key]

	if c.current[addr].Storage == nil {
		c.update(addr, func(account *Account) { account.Storage = Storage{} })
	}
	storage := c.current[addr].Storage
	previous, present := storage[key]
	if new == (tosca.Word{}) {
		delete(storage, key)
	} else {
		storage[key] = new
	}
	c.undo = append(c.undo, func() {
		if present {
			storage[key] = previous
		} else {
			delete(storage, key)
		}
	})
	return tosca.GetStorageStatus(original, current, new)
}

// SelfDestruct moves the balance of addr to the beneficiary and marks the
// account for deletion at the end of the transaction. If both addresses are
// the same, the balance is burned.
func (c *Context) SelfDestruct(addr tosca.Address, beneficiary tosca.Address) bool {
	balance := c.GetBalance(addr)
	if addr != beneficiary && !balance.IsZero() {
		c.SetBalance(beneficiary, tosca.Add(c.GetBalance(beneficiary), balance))
	}
	if !balance.IsZero() {
		c.SetBalance(addr, tosca.Value{})
	}
	if _, marked := c.destructed[addr]; marked {
		return false
	}
	c.destructed[addr] = struct{}{}
	c.undo = append(c.undo, func() { delete(c.destructed, addr) })
	return true
}

func (c *Context) HasSelfDestructed(addr tosca.Address) bool {
	_, marked := c.destructed[addr]
	return marked
}

func (c *Context) CreateSnapshot() tosca.Snapshot {
	return tosca.Snapshot(len(c.undo))
}

func (c *Context) RestoreSnapshot(snapshot tosca.Snapshot) {
	for len(c.undo) > int(snapshot) {
		c.undo[len(c.undo)-1]()
		c.undo = c.undo[:len(c.undo)-1]
	}
}

func (c *Context) GetTransientStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return c.transient[slot{addr, key}]
}

func (c *Context) SetTransientStorage(addr tosca.Address, key tosca.Key, value tosca.Word) {
	id := slot{addr, key}
	previous, present := c.transient[id]
	c.transient[id] = value
	c.undo = append(c.undo, func() {
		if present {
			c.transient[id] = previous
		} else {
			delete(c.transient, id)
		}
	})
}

func (c *Context) AccessAccount(addr tosca.Address) tosca.AccessStatus {
	if _, warm := c.accounts[addr]; warm {
		return tosca.WarmAccess
	}
	c.accounts[addr] = struct{}{}
	c.undo = append(c.undo, func() { delete(c.accounts, addr) })
	return tosca.ColdAccess
}

// AccessStorage marks the slot as accessed. The owning account becomes part
// of the access list as well.
func (c *Context) AccessStorage(addr tosca.Address, key tosca.Key) tosca.AccessStatus {
	id := slot{addr, key}
	if _, warm := c.slots[id]; warm {
		return tosca.WarmAccess
	}
	c.AccessAccount(addr)
	c.slots[id] = struct{}{}
	c.undo = append(c.undo, func() { delete(c.slots, id) })
	return tosca.ColdAccess
}

func (c *Context) IsAddressInAccessList(addr tosca.Address) bool {
	_, present := c.accounts[addr]
	return present
}

func (c *Context) IsSlotInAccessList(addr tosca.Address, key tosca.Key) (addressPresent, slotPresent bool) {
	_, addressPresent = c.accounts[addr]
	_, slotPresent = c.slots[slot{addr, key}]
	return
}

func (c *Context) EmitLog(log tosca.Log) {
	len := len(c.logs)
	c.logs = append(c.logs, log)
	c.undo = append(c.undo, func() { c.logs = c.logs[:len] })
}

func (c *Context) GetLogs() []tosca.Log {
	return slices.Clone(c.logs)
}

func (c *Context) GetBlockHash(number int64) tosca.Hash {
	if c.blockHash == nil {
		return tosca.Hash{}
	}
	return c.blockHash(number)
}

func (c *Context) GetCommittedStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return c.original[addr].Storage[key]
}

// update applies a modification to an account, creating it if needed, and
// records how to revert it.
func (c *Context) update(addr tosca.Address, modify func(*Account)) {
	original, exists := c.current[addr]
	modified := original
	modify(&modified)
	c.current[addr] = modified
	c.undo = append(c.undo, func() {
		if exists {
			c.current[addr] = original
		} else {
			delete(c.current, addr)
		}
	})
}
