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
	"fmt"
	"slices"

	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
	"golang.org/x/exp/maps"
)

// Template is a contract accounts of a context state may be instantiated
// from. Accounts at the template address have to carry the template's code.
type Template struct {
	Name    string
	Address tosca.Address
	Code    tosca.Code
}

// Matches reports whether the given account is an instance of this template.
func (t Template) Matches(account st.AccountData) bool {
	return account.Address == t.Address && bytes.Equal(account.Code, t.Code)
}

// ERC20Template is the context template of a minimal ERC-20 token.
var ERC20Template = Template{
	Name:    "erc20",
	Address: ERC20TemplateAddress,
	Code:    ERC20Code,
}

var templates = map[string]Template{
	ERC20Template.Name: ERC20Template,
}

// Templates returns the templates known to this package indexed by address.
func Templates() map[tosca.Address]Template {
	res := make(map[tosca.Address]Template, len(templates))
	for _, template := range templates {
		res[template.Address] = template
	}
	return res
}

// TemplateNames returns the sorted names of all known templates.
func TemplateNames() []string {
	res := maps.Keys(templates)
	slices.Sort(res)
	return res
}

// ContextAccount builds the context state account of the template with the
// given name holding the given storage.
func ContextAccount(kind string, storage st.Storage) (st.AccountData, error) {
	template, found := templates[kind]
	if !found {
		return st.AccountData{}, fmt.Errorf("unknown context template %q, known are %v", kind, TemplateNames())
	}
	return st.AccountData{
		Address: template.Address,
		Storage: storage.Clone(),
		Code:    bytes.Clone(template.Code),
	}, nil
}
