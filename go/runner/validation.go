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
	"bytes"
	"fmt"

	"github.com/zkpoex/zkpoex/go/contracts"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

// validateContext checks that the accounts of a context state follow the
// reserved address layout: the target contract at the target address, the
// calling EOA at the caller address, and any other contract either in the
// arbitrary contract range or at the address of a template it is an
// instance of.
func validateContext(
	accounts []st.AccountData,
	snapshot st.WorldState,
	vicinity *Vicinity,
	templates map[tosca.Address]contracts.Template,
) error {
	recipients := 0
	callers := 0
	for _, account := range accounts {
		if account.TransactionRecipient {
			recipients++
			if account.Address != contracts.TargetAddress {
				return fmt.Errorf("%w: transaction recipient %v is not at the target address %v", ErrInvalidContextState, account.Address, contracts.TargetAddress)
			}
			if len(account.Code) == 0 {
				return fmt.Errorf("%w: transaction recipient has no code", ErrInvalidContextState)
			}
			continue
		}

		switch {
		case account.Address == contracts.TargetAddress:
			return fmt.Errorf("%w: account at the target address is not the transaction recipient", ErrInvalidContextState)
		case account.Address == contracts.CallerAddress:
			callers++
			if len(account.Code) != 0 {
				return fmt.Errorf("%w: caller %v has code", ErrInvalidContextState, account.Address)
			}
		case contracts.IsArbitraryContractAddress(account.Address):
			// any code is allowed
		default:
			template, found := templates[account.Address]
			if !found {
				return fmt.Errorf("%w: account %v is outside of the reserved address ranges", ErrInvalidContextState, account.Address)
			}
			if !template.Matches(account) {
				return fmt.Errorf("%w: code of account %v does not match template %s", ErrInvalidContextState, account.Address, template.Name)
			}
		}
	}

	if recipients != 1 {
		return fmt.Errorf("%w: expected exactly one transaction recipient, got %d", ErrInvalidContextState, recipients)
	}
	if callers != 1 {
		return fmt.Errorf("%w: missing caller account %v", ErrInvalidContextState, contracts.CallerAddress)
	}

	for _, account := range accounts {
		if len(account.Code) == 0 {
			continue
		}
		if !bytes.Equal(account.Code, snapshot[account.Address].Code) {
			return fmt.Errorf("%w: code of account %v is not part of the state", ErrInvalidContextState, account.Address)
		}
	}

	if vicinity.Origin != (tosca.Address{}) && vicinity.Origin != contracts.CallerAddress {
		return fmt.Errorf("%w: origin %v is neither zero nor the caller", ErrInvalidContextState, vicinity.Origin)
	}
	return nil
}
