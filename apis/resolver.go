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

import (
	"reflect"
)

// Request describes one relation to resolve.
type Request struct {
	// Source is the object owning the relation.
	Source any

	// Field is the declared relation name.
	Field string

	// Value is the related value read from Source.
	Value any

	// Explicit is the mapper name given at declaration time, if any.
	Explicit string

	// Caller is the mapper declaring the relation.
	Caller Mapper
}

// Resolver decides which mapper renders a related value.
// Typical relation chain: Explicit -> Reflection -> RuntimeType.
type Resolver interface {
	// Relation resolves the mapper of a declared relation.
	Relation(req Request, cfg Config) (Mapper, error)

	// Polymorphic resolves the mapper of a type-discriminated relation from
	// the "<field>_type" discriminator on the source, or from the runtime type
	// of the related value.
	Polymorphic(req Request, cfg Config) (Mapper, error)

	// Polymorph resolves the mapper of the whole source object from its runtime type.
	Polymorph(src any, caller Mapper, cfg Config) (Mapper, error)

	// Specific returns the most specific mapper derived from root for the
	// runtime type of src.
	Specific(src any, root Mapper, cfg Config) (Mapper, bool)

	// TypeName returns the runtime type name of v, or "" if none can be determined.
	TypeName(v any, cfg Config) string
}

// Reflector is the host collaborator reporting declared relation targets.
type Reflector interface {
	// ReflectAssociation returns the declared target type name of field on owner.
	ReflectAssociation(owner reflect.Type, field string) (target string, ok bool)
}

// ReflectorFunc adapts a function to Reflector.
type ReflectorFunc func(owner reflect.Type, field string) (string, bool)

// ReflectAssociation implements Reflector.
func (f ReflectorFunc) ReflectAssociation(owner reflect.Type, field string) (string, bool) {
	return f(owner, field)
}
