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
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/zkpoex/zkpoex/go/tosca"
)

// Settings describe the block and transaction environment a run is executed
// in. All fields are strings holding decimal or 0x prefixed hex numbers,
// except for BlockHashes, which is a JSON array of hashes encoded as a
// string. Empty fields are zero.
type Settings struct {
	GasPrice           string `json:"gas_price"`
	Origin             string `json:"origin"`
	ChainID            string `json:"chain_id"`
	BlockHashes        string `json:"block_hashes"`
	BlockNumber        string `json:"block_number"`
	BlockCoinbase      string `json:"block_coinbase"`
	BlockTimestamp     string `json:"block_timestamp"`
	BlockDifficulty    string `json:"block_difficulty"`
	BlockGasLimit      string `json:"block_gas_limit"`
	BlockBaseFeePerGas string `json:"block_base_fee_per_gas"`
}

// DefaultSettings returns settings of a block without fees.
func DefaultSettings() Settings {
	return Settings{
		GasPrice:           "0",
		Origin:             "0x0000000000000000000000000000000000000000",
		ChainID:            "1",
		BlockHashes:        "[]",
		BlockNumber:        "0",
		BlockCoinbase:      "0x0000000000000000000000000000000000000000",
		BlockTimestamp:     "0",
		BlockDifficulty:    "0",
		BlockGasLimit:      "30000000",
		BlockBaseFeePerGas: "0",
	}
}

// ParseSettings decodes settings from JSON.
func ParseSettings(data []byte) (Settings, error) {
	var res Settings
	if err := json.Unmarshal(data, &res); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return res, nil
}

// Vicinity is the parsed form of Settings.
type Vicinity struct {
	GasPrice    tosca.Value
	Origin      tosca.Address
	ChainID     tosca.Word
	BlockHashes []tosca.Hash // the hash of block n is at index BlockNumber-n-1
	BlockNumber int64
	Coinbase    tosca.Address
	Timestamp   int64
	Difficulty  tosca.Hash
	GasLimit    tosca.Gas
	BaseFee     tosca.Value
}

// Vicinity parses the settings. Errors are reported as ErrInvalidSettings.
func (s Settings) Vicinity() (Vicinity, error) {
	var res Vicinity
	var err error
	fail := func(field string, err error) (Vicinity, error) {
		return Vicinity{}, fmt.Errorf("%w: %s: %w", ErrInvalidSettings, field, err)
	}

	if res.GasPrice, err = parseValue(s.GasPrice); err != nil {
		return fail("gas_price", err)
	}
	if res.Origin, err = parseAddress(s.Origin); err != nil {
		return fail("origin", err)
	}
	chainId, err := parseValue(s.ChainID)
	if err != nil {
		return fail("chain_id", err)
	}
	res.ChainID = tosca.Word(chainId)
	if res.BlockHashes, err = parseBlockHashes(s.BlockHashes); err != nil {
		return fail("block_hashes", err)
	}
	if res.BlockNumber, err = parseInt64(s.BlockNumber); err != nil {
		return fail("block_number", err)
	}
	if res.Coinbase, err = parseAddress(s.BlockCoinbase); err != nil {
		return fail("block_coinbase", err)
	}
	if res.Timestamp, err = parseInt64(s.BlockTimestamp); err != nil {
		return fail("block_timestamp", err)
	}
	difficulty, err := parseValue(s.BlockDifficulty)
	if err != nil {
		return fail("block_difficulty", err)
	}
	res.Difficulty = tosca.Hash(difficulty)
	gasLimit, err := parseInt64(s.BlockGasLimit)
	if err != nil {
		return fail("block_gas_limit", err)
	}
	res.GasLimit = tosca.Gas(gasLimit)
	if res.BaseFee, err = parseValue(s.BlockBaseFeePerGas); err != nil {
		return fail("block_base_fee_per_gas", err)
	}
	return res, nil
}

// GetBlockHash returns the hash of the block with the given number if it is
// one of the known predecessors of the current block, and zero otherwise.
func (v *Vicinity) GetBlockHash(number int64) tosca.Hash {
	if number < 0 || number >= v.BlockNumber {
		return tosca.Hash{}
	}
	index := v.BlockNumber - number - 1
	if index >= int64(len(v.BlockHashes)) {
		return tosca.Hash{}
	}
	return v.BlockHashes[index]
}

// BlockParameters returns the parameters of the block described by the
// vicinity for the given revision.
func (v *Vicinity) BlockParameters(revision tosca.Revision) tosca.BlockParameters {
	return tosca.BlockParameters{
		ChainID:     v.ChainID,
		BlockNumber: v.BlockNumber,
		Timestamp:   v.Timestamp,
		Coinbase:    v.Coinbase,
		GasLimit:    v.GasLimit,
		PrevRandao:  v.Difficulty,
		BaseFee:     v.BaseFee,
		Revision:    revision,
	}
}

func parseValue(s string) (tosca.Value, error) {
	if strings.TrimSpace(s) == "" {
		return tosca.Value{}, nil
	}
	return tosca.ParseValue(s)
}

func parseInt64(s string) (int64, error) {
	value, err := parseValue(s)
	if err != nil {
		return 0, err
	}
	number := value.ToUint256()
	if !number.IsUint64() || number.Uint64() > math.MaxInt64 {
		return 0, fmt.Errorf("number %s out of range", s)
	}
	return int64(number.Uint64()), nil
}

func parseAddress(s string) (tosca.Address, error) {
	if strings.TrimSpace(s) == "" {
		return tosca.Address{}, nil
	}
	return tosca.ParseAddress(strings.TrimSpace(s))
}

func parseBlockHashes(s string) ([]tosca.Hash, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var res []tosca.Hash
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, err
	}
	return res, nil
}
