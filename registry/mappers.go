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
	"fmt"
	"slices"
	"strings"
	"sync"

	"dirpx.dev/mappers/apis"
)

var (
	// ErrEmptyName is returned when an empty mapper, scope or entity name is provided.
	ErrEmptyName = errors.New("mappers(registry): empty name provided")
	// ErrNilRule is returned when a nil rule is declared.
	ErrNilRule = errors.New("mappers(registry): nil rule provided")
	// ErrUnknownParent is returned by Bind when the parent mapper is not declared.
	ErrUnknownParent = errors.New("mappers(registry): unknown parent mapper")
	// ErrConflictingParent is returned by Bind when the child is already bound
	// to another parent, or would become its own ancestor.
	ErrConflictingParent = errors.New("mappers(registry): conflicting parent mapper")
)

// New constructs an empty mapper Registry.
//
// Reads (Lookup, Entries) are lock-free: every write publishes a new
// immutable definition under the mapper's name, so a render that already
// holds a definition is never affected by later declarations.
func New() apis.Registry {
	return &registry{}
}

// From constructs a mapper Registry holding a copy of every mapper of prev,
// parents and discriminator flags included. Rule values are shared; rule
// lists are not.
func From(prev apis.Registry) apis.Registry {
	r := &registry{}
	if prev == nil {
		return r
	}
	for _, m := range prev.Entries() {
		d := &definition{
			name:          m.Name(),
			parent:        m.Parent(),
			rules:         slices.Clone(m.Rules()),
			discriminator: m.Discriminator(),
		}
		for _, s := range m.ScopeNames() {
			rules, _ := m.Scope(s)
			d.setScope(s, rules)
		}
		r.m.Store(d.name, d)
		r.count++
	}
	return r
}

// registry is the copy-on-write mapper Registry.
type registry struct {
	// mu serializes writers and guards count.
	mu sync.Mutex
	// m maps mapper name to its current *definition.
	m sync.Map // map[string]*definition
	// count tracks the number of declared mappers.
	count int
}

func (r *registry) load(name string) *definition {
	if v, ok := r.m.Load(name); ok {
		return v.(*definition)
	}
	return nil
}

// update publishes the result of fn applied to a copy of the current
// definition of name (or to a fresh one). Callers must hold r.mu.
func (r *registry) update(name string, fn func(d *definition) error) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	cur := r.load(name)
	next := &definition{name: name}
	if cur != nil {
		next = cur.clone()
	}
	if fn != nil {
		if err := fn(next); err != nil {
			return err
		}
	}
	r.m.Store(name, next)
	if cur == nil {
		r.count++
	}
	return nil
}

// Declare creates the mapper called name if absent. It is idempotent.
func (r *registry) Declare(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.load(name) != nil {
		return nil
	}
	return r.update(name, nil)
}

// DeclareRule appends rule to the base rule list of name, creating the mapper if absent.
func (r *registry) DeclareRule(name string, rule apis.Rule) error {
	if rule == nil {
		return ErrNilRule
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(name, func(d *definition) error {
		d.rules = append(d.rules, rule)
		return nil
	})
}

// DeclareScope stores rules as the scope called scope of name. A scope
// declared twice is overwritten.
func (r *registry) DeclareScope(name, scope string, rules []apis.Rule) error {
	if strings.TrimSpace(scope) == "" {
		return ErrEmptyName
	}
	if slices.Contains(rules, nil) {
		return ErrNilRule
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(name, func(d *definition) error {
		d.setScope(scope, rules)
		return nil
	})
}

// Bind makes child a subtype of parent. The child's base rules become a copy
// of the parent's current base rules followed by whatever the child already
// declared, and the parent's scopes are copied where the child has none of
// that name. Later declarations on the parent are not seen by the child.
//
// Binding to the same parent twice is a no-op.
func (r *registry) Bind(child, parent string) error {
	if strings.TrimSpace(parent) == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.load(parent)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownParent, parent)
	}
	if c := r.load(child); c != nil && c.parent != "" {
		if c.parent == parent {
			return nil
		}
		return fmt.Errorf("%w: %q is bound to %q", ErrConflictingParent, child, c.parent)
	}
	for a := p; a != nil; a = r.load(a.parent) {
		if a.name == child {
			return fmt.Errorf("%w: %q would inherit from itself", ErrConflictingParent, child)
		}
	}

	return r.update(child, func(d *definition) error {
		d.parent = parent
		d.rules = append(slices.Clip(p.rules), d.rules...)
		for _, name := range p.scopeOrder {
			if _, ok := d.scopes[name]; !ok {
				d.setScope(name, p.scopes[name])
			}
		}
		return nil
	})
}

// SetDiscriminator marks name as the root of a discriminated hierarchy.
func (r *registry) SetDiscriminator(name string, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(name, func(d *definition) error {
		d.discriminator = on
		return nil
	})
}

// Lookup returns the current definition of name.
func (r *registry) Lookup(name string) (apis.Mapper, bool) {
	if d := r.load(name); d != nil {
		return d, true
	}
	return nil, false
}

// Entries returns a snapshot of all mappers sorted by name.
func (r *registry) Entries() []apis.Mapper {
	out := make([]apis.Mapper, 0, r.Count())
	r.m.Range(func(_, v any) bool {
		out = append(out, v.(*definition))
		return true
	})
	slices.SortFunc(out, func(a, b apis.Mapper) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// Count returns the number of declared mappers.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset forgets every mapper.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
