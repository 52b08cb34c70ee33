// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package contracts

import (
	"bytes"
	"testing"

	"github.com/zkpoex/zkpoex/go/common"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

func TestContextAccount_BuildsTemplateInstance(t *testing.T) {
	storage := ERC20Balances(map[tosca.Address]common.U256{
		TargetAddress: common.NewU256(1000),
	})
	account, err := ContextAccount("erc20", storage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := ERC20TemplateAddress, account.Address; want != got {
		t.Errorf("unexpected address, wanted %v, got %v", want, got)
	}
	if !bytes.Equal(ERC20Code, account.Code) {
		t.Errorf("unexpected code")
	}
	if !storage.Equal(account.Storage) {
		t.Errorf("unexpected storage, wanted %v, got %v", storage, account.Storage)
	}
	if account.TransactionRecipient {
		t.Errorf("template instances must not be the transaction recipient")
	}
	if !ERC20Template.Matches(account) {
		t.Errorf("account does not match its template")
	}
}

func TestContextAccount_UnknownTemplateIsRejected(t *testing.T) {
	if _, err := ContextAccount("erc721", nil); err == nil {
		t.Errorf("expected an error for an unknown template")
	}
}

func TestTemplate_MatchRequiresAddressAndCode(t *testing.T) {
	tests := map[string]struct {
		account st.AccountData
		matches bool
	}{
		"instance":      {st.AccountData{Address: ERC20TemplateAddress, Code: ERC20Code}, true},
		"wrong address": {st.AccountData{Address: TargetAddress, Code: ERC20Code}, false},
		"wrong code":    {st.AccountData{Address: ERC20TemplateAddress, Code: TargetCode}, false},
		"no code":       {st.AccountData{Address: ERC20TemplateAddress}, false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.matches, ERC20Template.Matches(test.account); want != got {
				t.Errorf("unexpected match result, wanted %t, got %t", want, got)
			}
		})
	}
}

func TestTemplates_AreIndexedByAddress(t *testing.T) {
	templates := Templates()
	template, found := templates[ERC20TemplateAddress]
	if !found {
		t.Fatalf("ERC-20 template not listed")
	}
	if want, got := "erc20", template.Name; want != got {
		t.Errorf("unexpected template name, wanted %s, got %s", want, got)
	}
	if want, got := []string{"erc20"}, TemplateNames(); len(got) != 1 || want[0] != got[0] {
		t.Errorf("unexpected template names, wanted %v, got %v", want, got)
	}
}

func TestERC20Balances_SkipsZeroBalances(t *testing.T) {
	storage := ERC20Balances(map[tosca.Address]common.U256{
		TargetAddress: {},
		CallerAddress: common.NewU256(1),
	})
	if want, got := 1, len(storage); want != got {
		t.Errorf("unexpected number of slots, wanted %d, got %d", want, got)
	}
}
