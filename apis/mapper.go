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

// Mapper is a published, immutable mapper definition.
// Registries replace definitions on every declaration instead of mutating them,
// so a Mapper obtained from Lookup never changes under a render call.
type Mapper interface {
	// Name is the unique, dot-qualified mapper name (e.g. "admin.UserMapper").
	Name() string

	// Parent is the name of the mapper this one was derived from, or "".
	Parent() string

	// Rules returns the base rule list in declaration order.
	// Callers must not modify the returned slice.
	Rules() []Rule

	// Scope returns the rule list declared under name.
	Scope(name string) ([]Rule, bool)

	// ScopeNames returns the declared scope names in declaration order.
	ScopeNames() []string

	// Discriminator reports whether rendering through this mapper is redirected
	// to the most specific derived mapper for the object's runtime type.
	Discriminator() bool
}

// Rule contributes a partial dictionary for one source object.
type Rule interface {
	Apply(src any, env Env) (map[string]any, error)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(src any, env Env) (map[string]any, error)

// Apply implements Rule.
func (f RuleFunc) Apply(src any, env Env) (map[string]any, error) {
	return f(src, env)
}

// Redirector is a rule that may hand the whole source over to another
// mapper. When Redirect reports ok, its output replaces the rendered object
// and the other rules are not evaluated; otherwise rendering goes on with
// the rule list as usual.
type Redirector interface {
	Rule
	Redirect(src any, env Env) (out any, ok bool, err error)
}

// Env is the per-call environment a rule runs in.
type Env interface {
	// Mapper is the mapper whose rules are being evaluated.
	Mapper() Mapper

	// Options are the options of the current call.
	Options() Options

	// Config is the configuration snapshot of the current call.
	Config() Config

	// Resolver resolves nested mappers.
	Resolver() Resolver

	// Render renders src through m one level deeper.
	Render(m Mapper, src any, opts Options) (any, error)
}

// Renderer renders a source value through a mapper selected by name.
type Renderer interface {
	Render(mapper string, src any, opts Options) (any, error)
}
