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
	"sync"

	"github.com/zkpoex/zkpoex/go/tosca"
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes the concatenation of the given byte slices.
func Keccak256(data ...[]byte) tosca.Hash {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	for _, cur := range data {
		hasher.Write(cur)
	}
	var res tosca.Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

// NewKeccak256 returns a streaming hasher for commitments built piece by
// piece. Call Sum(nil) to obtain the digest.
func NewKeccak256() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// KeccakState is the streaming interface of the legacy Keccak hasher.
type KeccakState interface {
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
	Sum(b []byte) []byte
	Reset()
}

// EmptyCodeHash is the hash of an empty byte sequence.
var EmptyCodeHash = Keccak256()

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}
