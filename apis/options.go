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

// Options controls a single render call. It is passed by value through every
// recursive call; nested calls receive an extended copy, never a shared one.
type Options struct {
	// Root overrides the derived wrapper key.
	Root string

	// Rootless suppresses root wrapping.
	Rootless bool

	// Scope selects an alternate rule list by name.
	Scope string

	// Context is an opaque value handed to every rule unchanged.
	Context any

	// FallbackOnMissingScope degrades an unknown scope to the base rules
	// instead of failing with ErrScopeNotFound.
	FallbackOnMissingScope bool

	// FallbackMapper is consulted when Scope is missing on the mapper being
	// rendered. It is set by discriminator dispatch and never inherited by
	// relations.
	FallbackMapper Mapper

	// Depth counts nested render calls. It is maintained by the engine.
	Depth int
}

// Option mutates Options during construction.
type Option func(*Options)

// NewOptions builds Options from defaults (fallback on missing scope enabled)
// followed by opts in order.
func NewOptions(opts ...Option) Options {
	o := Options{FallbackOnMissingScope: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Root sets the wrapper key.
func Root(name string) Option {
	return func(o *Options) { o.Root = name }
}

// Rootless returns the rendered value without a wrapper key.
func Rootless() Option {
	return func(o *Options) { o.Rootless = true }
}

// WithScope requests the named scope.
func WithScope(name string) Option {
	return func(o *Options) { o.Scope = name }
}

// WithContext threads v to every rule.
func WithContext(v any) Option {
	return func(o *Options) { o.Context = v }
}

// FallbackOnMissingScope toggles the silent fallback for undeclared scopes.
func FallbackOnMissingScope(on bool) Option {
	return func(o *Options) { o.FallbackOnMissingScope = on }
}

// WithFallbackMapper sets the mapper consulted when the requested scope is missing.
func WithFallbackMapper(m Mapper) Option {
	return func(o *Options) { o.FallbackMapper = m }
}
