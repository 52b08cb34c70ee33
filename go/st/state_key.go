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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zkpoex/zkpoex/go/tosca"
)

// Field selects the part of an account a StateKey refers to.
type Field byte

const (
	BalanceField Field = iota
	NonceField
	StorageField
)

func (f Field) String() string {
	switch f {
	case BalanceField:
		return "balance"
	case NonceField:
		return "nonce"
	case StorageField:
		return "storage"
	}
	return fmt.Sprintf("Field(%d)", f)
}

// StateKey addresses a single entry of the world state. Its textual forms
// are
//
//	<address>.balance
//	<address>.nonce
//	<address>.storage.<slot>
//
// where the address is 20 bytes and the slot 32 bytes of hex, each with an
// optional 0x prefix. The text a key was parsed from is retained verbatim
// since it is part of specification commitments.
type StateKey struct {
	text    string
	Address tosca.Address
	Field   Field
	Slot    tosca.Key // only used for StorageField
}

func ParseStateKey(text string) (StateKey, error) {
	parts := strings.Split(text, ".")
	res := StateKey{text: text}
	switch len(parts) {
	case 2:
		switch parts[1] {
		case "balance":
			res.Field = BalanceField
		case "nonce":
			res.Field = NonceField
		default:
			return StateKey{}, fmt.Errorf("%w: unknown field %q in %q", ErrInvalidStateKey, parts[1], text)
		}
	case 3:
		if parts[1] != "storage" {
			return StateKey{}, fmt.Errorf("%w: expected storage in %q", ErrInvalidStateKeyFormat, text)
		}
		res.Field = StorageField
		if err := parseHex(res.Slot[:], parts[2]); err != nil {
			return StateKey{}, fmt.Errorf("%w: invalid slot in %q: %v", ErrInvalidStateKeyFormat, text, err)
		}
	default:
		return StateKey{}, fmt.Errorf("%w: %q has %d segments", ErrInvalidStateKeyFormat, text, len(parts))
	}
	if err := parseHex(res.Address[:], parts[0]); err != nil {
		return StateKey{}, fmt.Errorf("%w: invalid address in %q: %v", ErrInvalidStateKeyFormat, text, err)
	}
	return res, nil
}

// MustParseStateKey is like ParseStateKey but panics on errors. It is
// intended for keys known at compile time.
func MustParseStateKey(text string) StateKey {
	res, err := ParseStateKey(text)
	if err != nil {
		panic(err)
	}
	return res
}

func BalanceKey(address tosca.Address) StateKey {
	return StateKey{
		text:    hex.EncodeToString(address[:]) + ".balance",
		Address: address,
		Field:   BalanceField,
	}
}

func NonceKey(address tosca.Address) StateKey {
	return StateKey{
		text:    hex.EncodeToString(address[:]) + ".nonce",
		Address: address,
		Field:   NonceField,
	}
}

func StorageKey(address tosca.Address, slot tosca.Key) StateKey {
	return StateKey{
		text:    hex.EncodeToString(address[:]) + ".storage." + hex.EncodeToString(slot[:]),
		Address: address,
		Field:   StorageField,
		Slot:    slot,
	}
}

// String returns the text the key was created from.
func (k StateKey) String() string {
	return k.text
}

// Equal compares the addressed entries, ignoring differences in spelling.
func (k StateKey) Equal(other StateKey) bool {
	return k.Address == other.Address && k.Field == other.Field && k.Slot == other.Slot
}

func (k StateKey) MarshalText() ([]byte, error) {
	return []byte(k.text), nil
}

func (k *StateKey) UnmarshalText(data []byte) error {
	res, err := ParseStateKey(string(data))
	if err != nil {
		return err
	}
	*k = res
	return nil
}

// parseHex decodes an exact-length hex string with an optional 0x prefix.
func parseHex(trg []byte, s string) error {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if want, got := 2*len(trg), len(s); want != got {
		return fmt.Errorf("wanted %d hex digits, got %d", want, got)
	}
	_, err := hex.Decode(trg, []byte(s))
	return err
}
