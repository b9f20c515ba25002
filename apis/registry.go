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

package apis

import "reflect"

// Registry holds one Mapper per name for the process lifetime.
// Declarations publish a new immutable definition; lookups are lock-free.
type Registry interface {
	// Declare makes sure a mapper named name exists (with no rules if new).
	Declare(name string) error

	// DeclareRule appends rule to the base rule list of name, creating the entry if absent.
	DeclareRule(name string, rule Rule) error

	// DeclareScope stores rules as the complete rule list of scope for name.
	// Re-declaring a scope overwrites it.
	DeclareScope(name, scope string, rules []Rule) error

	// Bind initializes child with a snapshot of parent's current rules and scopes.
	// Binding the same child to the same parent again is a no-op.
	Bind(child, parent string) error

	// SetDiscriminator flags name as a polymorphic dispatch root.
	SetDiscriminator(name string, on bool) error

	// Lookup returns the current definition for name.
	Lookup(name string) (Mapper, bool)

	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Mapper

	// Count returns the number of declared mappers.
	Count() int

	// Reset clears all declared mappers.
	Reset()
}

// TypeRegistry provides an optional reflection-free lookup of runtime type names.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type TypeRegistry interface {
	// Register associates a (nearest named) reflect.Type with a fixed name.
	// Implementations should be idempotent; conflicting re-registrations fail.
	Register(t reflect.Type, name string) error

	// Lookup returns a name for a type if present.
	Lookup(t reflect.Type) (name string, ok bool)

	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry

	// Count returns the number of registered entries.
	Count() int

	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, name) association in a TypeRegistry snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type

	// Name is the associated name.
	Name string
}
