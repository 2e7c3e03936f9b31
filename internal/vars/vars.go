// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package vars

import (
	"github.com/stacklint/stacklint/internal/log"
	"github.com/stacklint/stacklint/internal/rawcfg"
)

// Store holds the declared variables of a stack merged with any externally
// supplied overrides. It is built once during load and read-only afterwards.
type Store struct {
	values map[string]interface{}
}

// NewStore builds a Store from declared variables. A variable declared
// without a default is registered but resolves to not-found until an
// override supplies a value.
func NewStore(declared []rawcfg.RawVariable) *Store {
	s := &Store{values: make(map[string]interface{})}
	for _, v := range declared {
		if !v.HasDefault {
			log.Debugf("variable %s declared without default", v.Name)
			continue
		}
		s.values[v.Name] = v.Default
	}
	return s
}

// Override applies an external override document. Same name present on both
// sides: the override wins.
func (s *Store) Override(overrides map[string]interface{}) {
	for name, value := range overrides {
		if _, ok := s.values[name]; ok {
			log.Debugf("variable %s overridden", name)
		}
		s.values[name] = value
	}
}

// Resolve returns the value for a variable name. The second return is false
// when the name is unknown or was declared without a default; callers treat
// that as leave-unresolved, never as fatal.
func (s *Store) Resolve(name string) (interface{}, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of resolvable variables. Used for logging only.
func (s *Store) Len() int {
	return len(s.values)
}
