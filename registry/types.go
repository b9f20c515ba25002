/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/config"
	uref "dirpx.dev/mappers/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("mappers(registry): nil reflect.Type provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different entity name.
	ErrConflictingRegistration = errors.New("mappers(registry): conflicting type registration")
)

// NewTypes constructs a TypeRegistry that normalizes types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here.
//
// The registry answers "which entity name does this Go type render as":
// registering reflect.TypeOf(AdminUser{}) as "admin.User" makes values of
// AdminUser (and *AdminUser, []AdminUser, ...) resolve to admin.UserMapper.
func NewTypes(cfg apis.Config) apis.TypeRegistry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &types{cfg: cfg}
}

// types is a TypeRegistry backed by sync.Map.
type types struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps the normalized reflect.Type to its entity name.
	m sync.Map // map[reflect.Type]string
	// count tracks the number of registered entries.
	count int
}

// Register associates the nearest named type of t with the entity name.
// It is idempotent for the same (type, name) pair.
func (r *types) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	if err := r.check(b, name); err != errMissing {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if err := r.check(b, name); err != errMissing {
		return err
	}
	r.m.Store(b, name)
	r.count++
	return nil
}

var errMissing = errors.New("missing")

// check returns nil for an identical registration, ErrConflictingRegistration
// for a different one and errMissing when t is not registered.
func (r *types) check(t reflect.Type, name string) error {
	old, ok := r.m.Load(t)
	switch {
	case !ok:
		return errMissing
	case old.(string) == name:
		return nil
	default:
		return ErrConflictingRegistration
	}
}

// Lookup returns the entity name registered for t, if any.
func (r *types) Lookup(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(string), true
	}
	return "", false
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (r *types) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{Type: key.(reflect.Type), Name: value.(string)})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *types) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *types) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
