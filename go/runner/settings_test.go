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
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/zkpoex/zkpoex/go/tosca"
)

func TestSettings_DefaultsAreValid(t *testing.T) {
	vicinity, err := DefaultSettings().Vicinity()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := tosca.Gas(30_000_000), vicinity.GasLimit; want != got {
		t.Errorf("unexpected gas limit, wanted %d, got %d", want, got)
	}
	if want, got := (tosca.Word{31: 1}), vicinity.ChainID; want != got {
		t.Errorf("unexpected chain id, wanted %v, got %v", want, got)
	}
	if len(vicinity.BlockHashes) != 0 {
		t.Errorf("unexpected block hashes %v", vicinity.BlockHashes)
	}
}

func TestSettings_ParseJson(t *testing.T) {
	data := []byte(`{
		"gas_price": "0x0a",
		"origin": "0xe94f1fa4f27d9d288ffea234bb62e1fbc086ca0c",
		"chain_id": "250",
		"block_hashes": "[\"0x0000000000000000000000000000000000000000000000000000000000000001\"]",
		"block_number": "12",
		"block_coinbase": "0x0000000000000000000000000000000000000007",
		"block_timestamp": "1700000000",
		"block_difficulty": "",
		"block_gas_limit": "1000000",
		"block_base_fee_per_gas": "5"
	}`)
	settings, err := ParseSettings(data)
	if err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	vicinity, err := settings.Vicinity()
	if err != nil {
		t.Fatalf("invalid settings: %v", err)
	}

	if want, got := tosca.NewValue(10), vicinity.GasPrice; want != got {
		t.Errorf("unexpected gas price, wanted %v, got %v", want, got)
	}
	if want, got := (tosca.Word{31: 0xfa}), vicinity.ChainID; want != got {
		t.Errorf("unexpected chain id, wanted %v, got %v", want, got)
	}
	if want, got := int64(12), vicinity.BlockNumber; want != got {
		t.Errorf("unexpected block number, wanted %d, got %d", want, got)
	}
	if want, got := (tosca.Address{19: 7}), vicinity.Coinbase; want != got {
		t.Errorf("unexpected coinbase, wanted %v, got %v", want, got)
	}
	if want, got := int64(1700000000), vicinity.Timestamp; want != got {
		t.Errorf("unexpected timestamp, wanted %d, got %d", want, got)
	}
	if want, got := (tosca.Hash{}), vicinity.Difficulty; want != got {
		t.Errorf("unexpected difficulty, wanted %v, got %v", want, got)
	}
	if want, got := tosca.NewValue(5), vicinity.BaseFee; want != got {
		t.Errorf("unexpected base fee, wanted %v, got %v", want, got)
	}
	if want, got := 1, len(vicinity.BlockHashes); want != got {
		t.Errorf("unexpected number of block hashes, wanted %d, got %d", want, got)
	}
}

func TestSettings_ParseRejectsMalformedJson(t *testing.T) {
	if _, err := ParseSettings([]byte(`{"gas_price": 12}`)); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected invalid settings error, got %v", err)
	}
}

func TestSettings_InvalidFieldsAreReported(t *testing.T) {
	tests := map[string]func(*Settings){
		"gas_price":              func(s *Settings) { s.GasPrice = "ten" },
		"origin":                 func(s *Settings) { s.Origin = "0x1234" },
		"chain_id":               func(s *Settings) { s.ChainID = "one" },
		"block_hashes":           func(s *Settings) { s.BlockHashes = "[\"0x12\"]" },
		"block_number":           func(s *Settings) { s.BlockNumber = "0x8000000000000000" },
		"block_coinbase":         func(s *Settings) { s.BlockCoinbase = "coinbase" },
		"block_timestamp":        func(s *Settings) { s.BlockTimestamp = "1.5" },
		"block_difficulty":       func(s *Settings) { s.BlockDifficulty = "0xzz" },
		"block_gas_limit":        func(s *Settings) { s.BlockGasLimit = "lots" },
		"block_base_fee_per_gas": func(s *Settings) { s.BlockBaseFeePerGas = "0x1" + strings.Repeat("f", 64) },
	}

	for field, modify := range tests {
		t.Run(field, func(t *testing.T) {
			settings := DefaultSettings()
			modify(&settings)
			_, err := settings.Vicinity()
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected invalid settings error, got %v", err)
			}
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error %q does not name field %s", err, field)
			}
		})
	}
}

func TestSettings_EmptyFieldsAreZero(t *testing.T) {
	vicinity, err := Settings{}.Vicinity()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := (Vicinity{}), vicinity; !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected vicinity, wanted %v, got %v", want, got)
	}
}

func TestVicinity_GetBlockHash(t *testing.T) {
	vicinity := Vicinity{
		BlockNumber: 10,
		BlockHashes: []tosca.Hash{{9}, {8}, {7}},
	}

	tests := map[int64]tosca.Hash{
		-1: {},
		6:  {},
		7:  {7},
		8:  {8},
		9:  {9},
		10: {},
		11: {},
	}
	for number, want := range tests {
		if got := vicinity.GetBlockHash(number); want != got {
			t.Errorf("unexpected hash of block %d, wanted %v, got %v", number, want, got)
		}
	}
}

func TestVicinity_BlockParametersAreTakenFromSettings(t *testing.T) {
	vicinity := Vicinity{
		ChainID:     tosca.Word{31: 1},
		BlockNumber: 3,
		Timestamp:   4,
		Coinbase:    tosca.Address{5},
		GasLimit:    6,
		Difficulty:  tosca.Hash{7},
		BaseFee:     tosca.NewValue(8),
	}
	params := vicinity.BlockParameters(tosca.R13_Cancun)
	want := tosca.BlockParameters{
		ChainID:     tosca.Word{31: 1},
		BlockNumber: 3,
		Timestamp:   4,
		Coinbase:    tosca.Address{5},
		GasLimit:    6,
		PrevRandao:  tosca.Hash{7},
		BaseFee:     tosca.NewValue(8),
		Revision:    tosca.R13_Cancun,
	}
	if !reflect.DeepEqual(want, params) {
		t.Errorf("unexpected block parameters, wanted %v, got %v", want, params)
	}
}
