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

package resolver

import (
	"fmt"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/keys"
	"dirpx.dev/mappers/strategy"
	uref "dirpx.dev/mappers/utils/reflect"
)

// DiscriminatorSuffix is appended to a polymorphic field name to find the
// field naming the concrete type: "commentable" -> "commentable_type".
const DiscriminatorSuffix = "_type"

// New constructs an apis.Resolver over the mapper registry reg, naming
// runtime types with names and resolving relations with the given strategies
// in order. Nil strategies are ignored. The returned resolver is safe for
// concurrent use provided strategies themselves are.
func New(reg apis.Registry, names Names, relations ...apis.Strategy) apis.Resolver {
	out := make([]apis.Strategy, 0, len(relations))
	for _, s := range relations {
		if s != nil {
			out = append(out, s)
		}
	}
	return &chain{reg: reg, names: names, strats: out}
}

// Names is an immutable, order-preserving chain of type naming strategies.
type Names []apis.TypeStrategy

// NewNames filters nil strategies out of the chain.
func NewNames(strategies ...apis.TypeStrategy) Names {
	out := make(Names, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Name runs strategies in order until one handles v.
// Returns an empty string if no strategy produced a name.
func (n Names) Name(v any, cfg apis.Config) string {
	if uref.IsNil(v) {
		return ""
	}
	for _, s := range n {
		if name, ok := s.TryResolve(v, cfg); ok {
			return name
		}
	}
	return ""
}

// chain is an immutable, order-preserving resolver.
type chain struct {
	reg    apis.Registry
	names  Names
	strats []apis.Strategy
}

// Relation runs the relation strategies until one handles req.
func (r chain) Relation(req apis.Request, cfg apis.Config) (apis.Mapper, error) {
	for _, s := range r.strats {
		if m, ok, err := s.TryResolve(req, cfg); ok {
			return m, err
		}
	}
	return nil, &apis.ResolutionError{Kind: apis.ErrUndefinedRelation, Mapper: name(req.Caller), Field: req.Field}
}

// Polymorphic reads the "<field>_type" discriminator on the source; without
// one, the runtime type of the related value decides. A nil value without a
// discriminator yields a nil mapper.
func (r chain) Polymorphic(req apis.Request, cfg apis.Config) (apis.Mapper, error) {
	var typeName string
	if d, ok := uref.Field(req.Source, req.Field+DiscriminatorSuffix); ok && !uref.IsNil(d) {
		typeName = discriminator(d)
	}
	if typeName == "" {
		if uref.IsNil(req.Value) {
			return nil, nil
		}
		typeName = strategy.ValueTypeName(req.Value, cfg, r.names.Name)
	}
	if typeName == "" {
		return nil, &apis.ResolutionError{Kind: apis.ErrNoMapperForResource, Mapper: name(req.Caller), Field: req.Field}
	}
	names := keys.Candidates(typeName, name(req.Caller), cfg)
	if m, ok := r.first(names); ok {
		return m, nil
	}
	return nil, &apis.ResolutionError{Kind: apis.ErrNoMapperForResource, Mapper: names[0], Field: req.Field, Type: typeName}
}

// Polymorph resolves the mapper of the whole src from its runtime type.
func (r chain) Polymorph(src any, caller apis.Mapper, cfg apis.Config) (apis.Mapper, error) {
	typeName := r.names.Name(src, cfg)
	if typeName == "" {
		return nil, &apis.ResolutionError{Kind: apis.ErrNoMapperForResource, Mapper: name(caller)}
	}
	names := keys.Candidates(typeName, name(caller), cfg)
	m, ok := r.first(names)
	if !ok {
		return nil, &apis.ResolutionError{Kind: apis.ErrNoMapperForResource, Mapper: names[0], Type: typeName}
	}
	return m, nil
}

// Specific returns the mapper of src's runtime type when it derives, directly
// or not, from root. It returns false when that mapper is root itself or is
// not part of root's hierarchy.
func (r chain) Specific(src any, root apis.Mapper, cfg apis.Config) (apis.Mapper, bool) {
	if root == nil {
		return nil, false
	}
	typeName := r.names.Name(src, cfg)
	if typeName == "" {
		return nil, false
	}
	for _, n := range keys.Candidates(typeName, root.Name(), cfg) {
		m, ok := r.reg.Lookup(n)
		if !ok || m.Name() == root.Name() {
			continue
		}
		if r.descends(m, root.Name()) {
			return m, true
		}
	}
	return nil, false
}

// TypeName returns the runtime type name of v.
func (r chain) TypeName(v any, cfg apis.Config) string {
	return r.names.Name(v, cfg)
}

func (r chain) descends(m apis.Mapper, ancestor string) bool {
	seen := map[string]bool{}
	for p := m.Parent(); p != "" && !seen[p]; {
		if p == ancestor {
			return true
		}
		seen[p] = true
		pm, ok := r.reg.Lookup(p)
		if !ok {
			return false
		}
		p = pm.Parent()
	}
	return false
}

func (r chain) first(names []string) (apis.Mapper, bool) {
	for _, n := range names {
		if m, ok := r.reg.Lookup(n); ok {
			return m, true
		}
	}
	return nil, false
}

func name(m apis.Mapper) string {
	if m == nil {
		return ""
	}
	return m.Name()
}

// discriminator renders a "<field>_type" value as a type name.
func discriminator(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case fmt.Stringer:
		return d.String()
	}
	return ""
}
