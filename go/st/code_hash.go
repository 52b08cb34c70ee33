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
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// maxCachedCodeLength is the maximum length of codes whose hashes are
// retained. It is the limit for codes stored on the chain (EIP-170).
const maxCachedCodeLength = 24_576

var codeHashes = newCodeHashCache(1 << 12)

// CodeHash returns the Keccak-256 hash of the given code. Hashes of codes
// up to the on-chain size limit are memoized; the cache is shared by all
// contexts and safe for concurrent use.
func CodeHash(code tosca.Code) tosca.Hash {
	return codeHashes.hash(code)
}

type codeHashCache struct {
	cache *lru.Cache[string, tosca.Hash]
}

func newCodeHashCache(capacity int) *codeHashCache {
	cache, _ := lru.New[string, tosca.Hash](capacity) // can only fail for non-positive size
	return &codeHashCache{cache: cache}
}

func (c *codeHashCache) hash(code tosca.Code) tosca.Hash {
	if len(code) == 0 {
		return common.EmptyCodeHash
	}
	if len(code) > maxCachedCodeLength {
		return common.Keccak256(code)
	}
	key := string(code)
	if res, found := c.cache.Get(key); found {
		return res
	}
	res := common.Keccak256(code)
	c.cache.Add(key, res)
	return res
}
