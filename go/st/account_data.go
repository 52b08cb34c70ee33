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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zkpoex/zkpoex/go/tosca"
)

// AccountData describes one account of a context state as provided by
// users. A list of them is converted into a WorldState by BuildWorldState.
type AccountData struct {
	Address              tosca.Address
	Nonce                uint64
	Balance              tosca.Value
	Storage              Storage
	Code                 tosca.Code
	TransactionRecipient bool
}

// accountDataJson is the file format of AccountData. Numbers are strings
// holding decimal or 0x prefixed hex values.
type accountDataJson struct {
	Address              string            `json:"address"`
	Nonce                string            `json:"nonce"`
	Balance              string            `json:"balance"`
	Storage              map[string]string `json:"storage"`
	Code                 string            `json:"code"`
	TransactionRecipient *bool             `json:"transaction_recipient"`
}

func (a AccountData) MarshalJSON() ([]byte, error) {
	res := accountDataJson{
		Address: hex.EncodeToString(a.Address[:]),
		Nonce:   fmt.Sprintf("%d", a.Nonce),
		Balance: a.Balance.String(),
		Storage: make(map[string]string, len(a.Storage)),
		Code:    hex.EncodeToString(a.Code),
	}
	for _, key := range a.Storage.Keys() {
		value := a.Storage[key]
		res.Storage[hex.EncodeToString(key[:])] = hex.EncodeToString(value[:])
	}
	if a.TransactionRecipient {
		res.TransactionRecipient = &a.TransactionRecipient
	}
	return json.Marshal(res)
}

func (a *AccountData) UnmarshalJSON(data []byte) error {
	var in accountDataJson
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var res AccountData
	if err := parseHex(res.Address[:], in.Address); err != nil {
		return fmt.Errorf("%w: address %q: %v", ErrInvalidAccount, in.Address, err)
	}
	if in.Nonce != "" {
		nonce, err := tosca.ParseValue(in.Nonce)
		if err != nil {
			return fmt.Errorf("%w: nonce of %v: %v", ErrInvalidAccount, res.Address, err)
		}
		if !nonce.ToUint256().IsUint64() {
			return fmt.Errorf("%w: nonce of %v exceeds 64 bits", ErrInvalidAccount, res.Address)
		}
		res.Nonce = nonce.ToUint256().Uint64()
	}
	if in.Balance != "" {
		balance, err := tosca.ParseValue(in.Balance)
		if err != nil {
			return fmt.Errorf("%w: balance of %v: %v", ErrInvalidAccount, res.Address, err)
		}
		res.Balance = balance
	}
	if len(in.Storage) > 0 {
		res.Storage = make(Storage, len(in.Storage))
	}
	for k, v := range in.Storage {
		var key tosca.Key
		var value tosca.Word
		if err := parseHex(key[:], k); err != nil {
			return fmt.Errorf("%w: storage key %q of %v: %v", ErrInvalidAccount, k, res.Address, err)
		}
		if err := parseHex(value[:], v); err != nil {
			return fmt.Errorf("%w: storage value %q of %v: %v", ErrInvalidAccount, v, res.Address, err)
		}
		res.Storage[key] = value
	}
	code := strings.TrimPrefix(strings.TrimPrefix(in.Code, "0x"), "0X")
	if len(code) > 0 {
		decoded, err := hex.DecodeString(code)
		if err != nil {
			return fmt.Errorf("%w: code of %v: %v", ErrInvalidAccount, res.Address, err)
		}
		res.Code = decoded
	}
	res.TransactionRecipient = in.TransactionRecipient != nil && *in.TransactionRecipient
	*a = res
	return nil
}

// Account converts the description into a world state account.
func (a *AccountData) Account() Account {
	res := Account{
		Balance: a.Balance,
		Nonce:   a.Nonce,
		Code:    a.Code,
		Storage: a.Storage,
	}
	return res.Clone()
}

// BuildWorldState creates a state holding the given accounts. Every address
// may only be listed once.
func BuildWorldState(accounts []AccountData) (WorldState, error) {
	res := make(WorldState, len(accounts))
	for i := range accounts {
		address := accounts[i].Address
		if _, found := res[address]; found {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateAccount, address)
		}
		res[address] = accounts[i].Account()
	}
	return res, nil
}

// ParseContextState decodes a JSON array of accounts.
func ParseContextState(data []byte) ([]AccountData, error) {
	var res []AccountData
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return res, nil
}
