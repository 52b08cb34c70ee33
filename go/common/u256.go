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
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/zkpoex/zkpoex/go/tosca"
	"pgregory.net/rand"
)

// U256 is a 256-bit unsigned integer with EVM arithmetic. Contrary to
// holiman/uint256.Int the API operates on values rather than pointers.
type U256 struct {
	internal uint256.Int
}

// NewU256 creates a new U256 instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewU256(args ...uint64) (result U256) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args) && i < len(result.internal); i++ {
		result.internal[3-i-offset] = args[i]
	}
	return
}

// NewU256FromBytes interprets up to 32 bytes as a big-endian number.
func NewU256FromBytes(bytes ...byte) (result U256) {
	if len(bytes) > 32 {
		panic("Too many arguments")
	}
	result.internal.SetBytes(bytes)
	return
}

// NewU256FromValue converts an amount of network currency.
func NewU256FromValue(v tosca.Value) U256 {
	return NewU256FromBytes(v[:]...)
}

// NewU256FromWord interprets a storage word as a big-endian number.
func NewU256FromWord(w tosca.Word) U256 {
	return NewU256FromBytes(w[:]...)
}

// ParseU256 parses a decimal number of at most 256 bits.
func ParseU256(s string) (U256, error) {
	var res U256
	if err := res.internal.SetFromDecimal(s); err != nil {
		return U256{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return res, nil
}

func RandU256(rnd *rand.Rand) U256 {
	var value U256
	value.internal[0] = rnd.Uint64()
	value.internal[1] = rnd.Uint64()
	value.internal[2] = rnd.Uint64()
	value.internal[3] = rnd.Uint64()
	return value
}

func MaxU256() (result U256) {
	result.internal.SetAllOne()
	return
}

func (i U256) IsZero() bool {
	return i.internal.IsZero()
}

func (i U256) IsUint64() bool {
	return i.internal.IsUint64()
}

func (i U256) Uint64() uint64 {
	return i.internal.Uint64()
}

func (i U256) Uint256() uint256.Int {
	return i.internal
}

func (i U256) Bytes32be() [32]byte {
	return i.internal.Bytes32()
}

// Bytes32le returns the little-endian encoding of the number, least
// significant byte first.
func (i U256) Bytes32le() (res [32]byte) {
	for k := 0; k < 4; k++ {
		binary.LittleEndian.PutUint64(res[k*8:(k+1)*8], i.internal[k])
	}
	return
}

func (i U256) Value() tosca.Value {
	return tosca.Value(i.internal.Bytes32())
}

func (a U256) Cmp(b U256) int {
	return a.internal.Cmp(&b.internal)
}

func (a U256) Eq(b U256) bool {
	return a.internal.Eq(&b.internal)
}

func (a U256) Ne(b U256) bool {
	return !a.internal.Eq(&b.internal)
}

func (a U256) Lt(b U256) bool {
	return a.internal.Lt(&b.internal)
}

func (a U256) Gt(b U256) bool {
	return a.internal.Gt(&b.internal)
}

func (a U256) Add(b U256) (z U256) {
	z.internal.Add(&a.internal, &b.internal)
	return
}

func (a U256) Sub(b U256) (z U256) {
	z.internal.Sub(&a.internal, &b.internal)
	return
}

func (a U256) Mul(b U256) (z U256) {
	z.internal.Mul(&a.internal, &b.internal)
	return
}

// Div is the unsigned division of the EVM; a zero divisor yields zero.
func (a U256) Div(b U256) (z U256) {
	z.internal.Div(&a.internal, &b.internal)
	return
}

// Mod is the unsigned modulo of the EVM; a zero modulus yields zero.
func (a U256) Mod(b U256) (z U256) {
	z.internal.Mod(&a.internal, &b.internal)
	return
}

// String prints the number in decimal.
func (i U256) String() string {
	return i.internal.Dec()
}

// Hex prints the number as 0x prefixed hex without leading zeros.
func (i U256) Hex() string {
	return i.internal.Hex()
}

// ToBig returns a bigInt version of i
func (i U256) ToBig() *big.Int {
	return i.internal.ToBig()
}

// U256FromBig returns a U256 version of b. Negative numbers yield zero.
// This conversion panics on overflow.
func U256FromBig(b *big.Int) *U256 {
	ret := NewU256()
	if b.Sign() < 0 {
		return &ret
	}
	newInternal, overflow := uint256.FromBig(b)
	if overflow {
		panic("big.Int has more than 256-bits.")
	}
	ret.internal = *newInternal
	return &ret
}
