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

package dsl

import (
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/mappers/apis"
)

var (
	// ErrNoNames is raised when a declaration lists no names.
	ErrNoNames = errors.New("mappers(dsl): no names declared")
	// ErrEmptyPath is raised by Delegate without a target path.
	ErrEmptyPath = errors.New("mappers(dsl): empty delegate path")
	// ErrNilBody is raised when a scope is declared without a body.
	ErrNilBody = errors.New("mappers(dsl): nil scope body")
	// ErrNilFunc is raised by Rule with a nil function.
	ErrNilFunc = errors.New("mappers(dsl): nil rule func")
)

// Builder accumulates the rules of a mapper, or of one of its scopes.
// Declaration mistakes panic: mappers are declared once, at init time.
type Builder struct {
	host   Host
	mapper string
	// rules collects a scope body; nil when declaring base rules.
	rules *[]apis.Rule
}

func (b *Builder) add(r apis.Rule) *Builder {
	if b.rules != nil {
		*b.rules = append(*b.rules, r)
		return b
	}
	must(b.mapper, b.host.Registry().DeclareRule(b.mapper, r))
	return b
}

// Attributes copies the named members of the source, each independently
// nil when absent.
func (b *Builder) Attributes(names ...string) *Builder {
	if len(names) == 0 {
		must(b.mapper, ErrNoNames)
	}
	return b.add(attributesRule{names: names})
}

// Delegate copies the named members of the object reached by the dotted
// path to ("profile.address"), nil-safely at every step.
func (b *Builder) Delegate(to string, names ...string) *Builder {
	if strings.TrimSpace(to) == "" {
		must(b.mapper, ErrEmptyPath)
	}
	if len(names) == 0 {
		must(b.mapper, ErrNoNames)
	}
	return b.add(delegateRule{to: to, names: names})
}

// RelationOption configures Relation, Polymorphic and ActsAsPolymorph.
type RelationOption func(*relationSpec)

// Using names the mapper rendering the related value.
func Using(mapper string) RelationOption {
	return func(s *relationSpec) { s.mapper = mapper }
}

// Path reads the related value at a dotted path instead of the field.
// The output key stays the field name.
func Path(path string) RelationOption {
	return func(s *relationSpec) { s.path = path }
}

// InScope renders the related value with the named scope.
func InScope(name string) RelationOption {
	return func(s *relationSpec) { s.scope = name }
}

func relationOf(field string, opts []RelationOption) relationSpec {
	s := relationSpec{field: field}
	for _, o := range opts {
		if o != nil {
			o(&s)
		}
	}
	return s
}

// Relation renders the value of field through another mapper: the one
// given by Using, else the one following the naming convention for the
// declared type of field, else for the runtime type of the value.
func (b *Builder) Relation(field string, opts ...RelationOption) *Builder {
	if strings.TrimSpace(field) == "" {
		must(b.mapper, ErrNoNames)
	}
	return b.add(relationRule{relationOf(field, opts)})
}

// Polymorphic renders the value of field through the mapper named by the
// source's "<field>_type" member, else by the value's runtime type.
func (b *Builder) Polymorphic(field string, opts ...RelationOption) *Builder {
	if strings.TrimSpace(field) == "" {
		must(b.mapper, ErrNoNames)
	}
	return b.add(polymorphicRule{relationOf(field, opts)})
}

// ActsAsPolymorph renders every source through the mapper of its own
// runtime type instead of this mapper's rules. Only InScope is honored.
func (b *Builder) ActsAsPolymorph(opts ...RelationOption) *Builder {
	return b.add(polymorphRule{scope: relationOf("", opts).scope})
}

// Rule adds a custom rule.
func (b *Builder) Rule(fn RuleFunc) *Builder {
	if fn == nil {
		must(b.mapper, ErrNilFunc)
	}
	return b.add(fn)
}

// Use adds a raw rule.
func (b *Builder) Use(r apis.Rule) *Builder {
	return b.add(r)
}

// Scope declares the rules of the named scope. body runs against a fresh
// builder: a scope is a full rule list of its own, not a patch over the
// base rules.
func (b *Builder) Scope(name string, body func(*Builder)) *Builder {
	return b.Scopes([]string{name}, body)
}

// Scopes declares several scopes sharing one body.
func (b *Builder) Scopes(names []string, body func(*Builder)) *Builder {
	if len(names) == 0 {
		must(b.mapper, ErrNoNames)
	}
	if body == nil {
		must(b.mapper, ErrNilBody)
	}
	rules := make([]apis.Rule, 0)
	body(&Builder{host: b.host, mapper: b.mapper, rules: &rules})
	for _, n := range names {
		must(b.mapper, b.host.Registry().DeclareScope(b.mapper, n, rules))
	}
	return b
}

// InheritanceColumn marks the mapper as the root of a discriminated
// hierarchy: objects are rendered by the mapper of their runtime type when
// it derives from this one.
func (b *Builder) InheritanceColumn(on bool) *Builder {
	must(b.mapper, b.host.Registry().SetDiscriminator(b.mapper, on))
	return b
}

func must(mapper string, err error) {
	if err != nil {
		panic(fmt.Errorf("mappers(dsl): %s: %w", mapper, err))
	}
}
