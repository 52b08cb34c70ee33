// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// WordKind tells how a Word256 was written down: as an integer or as raw
// 32 bytes.
type WordKind byte

const (
	UintWord WordKind = iota
	HashWord
)

func (k WordKind) String() string {
	switch k {
	case UintWord:
		return "Uint"
	case HashWord:
		return "Hash"
	}
	return fmt.Sprintf("WordKind(%d)", k)
}

// Word256 is a 256-bit value tagged as an unsigned integer or as an opaque
// 32-byte hash. Whatever the tag, words are compared and computed with as
// big-endian unsigned integers; the tag only affects the printed form and
// the commitment encoding returned by Bytes.
type Word256 struct {
	kind  WordKind
	value U256
}

// Uint creates an integer word.
func Uint(value U256) Word256 {
	return Word256{kind: UintWord, value: value}
}

// UintFromUint64 creates an integer word from a small number.
func UintFromUint64(value uint64) Word256 {
	return Uint(NewU256(value))
}

// Hash creates a hash word holding the given bytes.
func Hash(bytes [32]byte) Word256 {
	return Word256{kind: HashWord, value: NewU256FromBytes(bytes[:]...)}
}

func (w Word256) Kind() WordKind {
	return w.kind
}

// Int is the big-endian unsigned integer interpretation of the word.
func (w Word256) Int() U256 {
	return w.value
}

// Bytes is the encoding used in commitments: little-endian for integers,
// byte for byte for hashes.
func (w Word256) Bytes() [32]byte {
	if w.kind == HashWord {
		return w.value.Bytes32be()
	}
	return w.value.Bytes32le()
}

// Equal reports whether both words carry the same tag and value.
func (w Word256) Equal(o Word256) bool {
	return w.kind == o.kind && w.value.Eq(o.value)
}

func (w Word256) String() string {
	if w.kind == HashWord {
		bytes := w.value.Bytes32be()
		return "0x" + hex.EncodeToString(bytes[:])
	}
	return w.value.String()
}

// ParseWord256 reads a literal: a 0x prefixed string of 64 hex digits is a
// hash, otherwise a decimal integer. A string of 64 hex digits without prefix
// that is not a decimal integer is read as a hash as well.
func ParseWord256(literal string) (Word256, error) {
	literal = strings.TrimSpace(literal)
	if strings.HasPrefix(literal, "0x") || strings.HasPrefix(literal, "0X") {
		return parseHashLiteral(literal, literal[2:])
	}
	value, err := ParseU256(literal)
	if err != nil {
		if len(literal) == 64 {
			if hash, hashErr := parseHashLiteral(literal, literal); hashErr == nil {
				return hash, nil
			}
		}
		return Word256{}, err
	}
	return Uint(value), nil
}

func parseHashLiteral(literal, digits string) (Word256, error) {
	if len(digits) != 64 {
		return Word256{}, fmt.Errorf("hex literal must have 64 digits, got %d: %q", len(digits), literal)
	}
	var bytes [32]byte
	if _, err := hex.Decode(bytes[:], []byte(digits)); err != nil {
		return Word256{}, fmt.Errorf("invalid hex literal %q: %w", literal, err)
	}
	return Hash(bytes), nil
}

func (w Word256) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *Word256) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err != nil {
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("word must be a string or a number: %s", data)
		}
		literal = number.String()
	}
	res, err := ParseWord256(literal)
	if err != nil {
		return err
	}
	*w = res
	return nil
}
