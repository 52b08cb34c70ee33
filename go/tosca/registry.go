// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// registry is a name-keyed, case-insensitive collection of factories that
// may be accessed concurrently.
type registry[F any] struct {
	kind      string
	mutex     sync.Mutex
	factories map[string]F
}

func newRegistry[F any](kind string) *registry[F] {
	return &registry[F]{
		kind:      kind,
		factories: map[string]F{},
	}
}

func (r *registry[F]) get(name string) (F, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	res, found := r.factories[strings.ToLower(name)]
	return res, found
}

func (r *registry[F]) all() map[string]F {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return maps.Clone(r.factories)
}

func (r *registry[F]) register(name string, factory F, isNil bool) error {
	key := strings.ToLower(name)
	if isNil {
		return fmt.Errorf("invalid initialization: cannot register nil %s factory using `%s`", r.kind, key)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, found := r.factories[key]; found {
		return fmt.Errorf("invalid initialization: multiple %s factories registered for `%s`", r.kind, key)
	}
	r.factories[key] = factory
	return nil
}
