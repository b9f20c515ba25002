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
	"dirpx.dev/mappers/apis"
	uref "dirpx.dev/mappers/utils/reflect"
)

// attributesRule copies named members of the source. Missing members
// render as nil.
type attributesRule struct {
	names []string
}

func (r attributesRule) Apply(src any, _ apis.Env) (map[string]any, error) {
	out := make(map[string]any, len(r.names))
	for _, n := range r.names {
		out[n], _ = uref.Field(src, n)
	}
	return out, nil
}

// delegateRule copies named members of the object found at a dotted path.
type delegateRule struct {
	to    string
	names []string
}

func (r delegateRule) Apply(src any, _ apis.Env) (map[string]any, error) {
	base := uref.Dig(src, r.to)
	out := make(map[string]any, len(r.names))
	for _, n := range r.names {
		out[n], _ = uref.Field(base, n)
	}
	return out, nil
}

// relationSpec is the declaration of a relation or a polymorphic field.
type relationSpec struct {
	field  string
	mapper string
	path   string
	scope  string
}

// value reads the related value: at the declared path, else at the field.
func (s relationSpec) value(src any) any {
	if s.path != "" {
		return uref.Dig(src, s.path)
	}
	v, _ := uref.Field(src, s.field)
	return v
}

func (s relationSpec) request(src any, env apis.Env) apis.Request {
	return apis.Request{
		Source:   src,
		Field:    s.field,
		Value:    s.value(src),
		Explicit: s.mapper,
		Caller:   env.Mapper(),
	}
}

// nested returns the options of a render one level down: rootless, with the
// declared scope only, and the caller's context and fallback policy.
func nested(env apis.Env, scope string) apis.Options {
	parent := env.Options()
	return apis.Options{
		Rootless:               true,
		Scope:                  scope,
		Context:                parent.Context,
		FallbackOnMissingScope: parent.FallbackOnMissingScope,
	}
}

type relationRule struct {
	relationSpec
}

func (r relationRule) Apply(src any, env apis.Env) (map[string]any, error) {
	req := r.request(src, env)
	m, err := env.Resolver().Relation(req, env.Config())
	if err != nil {
		return nil, err
	}
	return r.render(m, req.Value, env)
}

func (s relationSpec) render(m apis.Mapper, value any, env apis.Env) (map[string]any, error) {
	if m == nil || uref.IsNil(value) {
		return map[string]any{s.field: nil}, nil
	}
	out, err := env.Render(m, value, nested(env, s.scope))
	if err != nil {
		return nil, err
	}
	return map[string]any{s.field: out}, nil
}

type polymorphicRule struct {
	relationSpec
}

func (r polymorphicRule) Apply(src any, env apis.Env) (map[string]any, error) {
	req := r.request(src, env)
	m, err := env.Resolver().Polymorphic(req, env.Config())
	if err != nil {
		return nil, err
	}
	return r.render(m, req.Value, env)
}

// polymorphRule hands the whole source to the mapper of its runtime type.
// It forwards its declared scope, or the scope of the current call, and
// always falls back to base rules on the target.
type polymorphRule struct {
	scope string
}

var _ apis.Redirector = polymorphRule{}

// Apply contributes nothing; the rule only acts through Redirect.
func (polymorphRule) Apply(any, apis.Env) (map[string]any, error) {
	return nil, nil
}

// Redirect does not redirect when src resolves to the mapper already
// rendering it (a subtype mapper that inherited the rule).
func (r polymorphRule) Redirect(src any, env apis.Env) (any, bool, error) {
	m, err := env.Resolver().Polymorph(src, env.Mapper(), env.Config())
	if err != nil {
		return nil, false, err
	}
	if m.Name() == env.Mapper().Name() {
		return nil, false, nil
	}
	scope := r.scope
	if scope == "" {
		scope = env.Options().Scope
	}
	opts := nested(env, scope)
	opts.FallbackOnMissingScope = true

	out, err := env.Render(m, src, opts)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// RuleFunc is a custom rule: it receives the source and the opaque context
// given to the render call, and returns a partial output.
type RuleFunc func(src, ctx any) map[string]any

func (f RuleFunc) Apply(src any, env apis.Env) (map[string]any, error) {
	return f(src, env.Options().Context), nil
}
