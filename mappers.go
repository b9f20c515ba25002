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

package mappers

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/builder"
	"dirpx.dev/mappers/config"
	"dirpx.dev/mappers/dsl"
	"dirpx.dev/mappers/render"
)

// init publishes the default state.
func init() {
	st.Store(fresh(config.DefaultConfig(), nil, builder.New()))
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("mappers: builder returned nil registry")
	// ErrNilTypes is returned when a builder returns a nil type registry.
	ErrNilTypes = errors.New("mappers: builder returned nil type registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("mappers: builder returned nil resolver")
)

// Define declares a mapper in the global registry. See dsl.Define.
func Define(name string, body ...func(*dsl.Builder)) *dsl.Mapper {
	return dsl.Define(host{}, name, body...)
}

// Derive declares a mapper inheriting the current rules and scopes of
// parent. See dsl.Derive.
func Derive(name, parent string, body ...func(*dsl.Builder)) *dsl.Mapper {
	return dsl.Derive(host{}, name, parent, body...)
}

// Render renders src through the mapper registered as name.
func Render(name string, src any, opts ...apis.Option) (any, error) {
	s := st.Load()
	return s.eng.Render(name, src, dsl.Options(s.cfg, opts...))
}

// RenderJSON renders src through the mapper registered as name and encodes
// the result as JSON.
func RenderJSON(name string, src any, opts ...apis.Option) ([]byte, error) {
	m, ok := Lookup(name)
	if !ok {
		return nil, &apis.ResolutionError{Kind: apis.ErrUndefinedMapper, Mapper: name}
	}
	return m.RenderJSON(src, opts...)
}

// Lookup returns a handle on the mapper registered as name.
func Lookup(name string) (*dsl.Mapper, bool) {
	return dsl.Lookup(host{}, name)
}

// TypeName returns the runtime type name used to find the mapper of v.
func TypeName(v any) string {
	s := st.Load()
	return s.res.TypeName(v, s.cfg)
}

// RegisterType names t explicitly for mapper lookup. It is the way to map
// types whose Go name differs from their mapper ("media.Clip" for Video).
func RegisterType(t reflect.Type, name string) error {
	return st.Load().types.Register(t, name)
}

// Configure applies opts over the current configuration, validates the
// result and publishes it.
func Configure(opts ...config.Option) error {
	cfg := Config()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	SetConfig(cfg)
	return nil
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the unpinned
// layers with it. Declared mappers and registered types are carried over.
func SetConfig(cfg apis.Config) {
	update(rebuildAll, func(s *state) { s.cfg = cfg })
}

// Registry returns the global mapper registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces and pins the global mapper registry, then rebuilds
// the resolver unless it is pinned. A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(rebuildResolver, func(s *state) {
		s.reg = reg
		s.preg = true
	})
}

// Types returns the global type registry.
func Types() apis.TypeRegistry {
	return st.Load().types
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver replaces and pins the global resolver. A nil res is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(0, func(s *state) {
		s.res = res
		s.pres = true
	})
}

// Renderer returns the engine rendering the current snapshot.
func Renderer() apis.Renderer {
	return st.Load().eng
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds the unpinned layers
// with it. A nil b is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(rebuildAll, func(s *state) { s.bld = b })
}

// SetExt replaces the extension value handed to the builder and rebuilds
// the unpinned layers.
func SetExt[T any](ext T) {
	update(rebuildAll, func(s *state) { s.ext = ext })
}

// ExtAs returns the extension value as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged (or rebuilt,
// for reg and res), except for ext which is always replaced. A non-nil reg
// or res is pinned; a nil one unpins its layer.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	update(rebuildAll, func(s *state) {
		if cfg != nil {
			s.cfg = *cfg
		}
		if bld != nil {
			s.bld = bld
		}
		s.ext = ext
		s.reg, s.preg = reg, reg != nil
		s.res, s.pres = res, res != nil
	})
}

// Reset publishes an empty state with the default configuration and builder.
// Every declared mapper and registered type is forgotten.
func Reset() {
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(fresh(config.DefaultConfig(), nil, builder.New()))
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops rebuilds of the global registry.
func PinRegistry() {
	update(0, func(s *state) { s.preg = true })
}

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() {
	update(0, func(s *state) { s.preg = false })
}

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops rebuilds of the global resolver.
func PinResolver() {
	update(0, func(s *state) { s.pres = true })
}

// UnpinResolver lets the global resolver be rebuilt again.
func UnpinResolver() {
	update(0, func(s *state) { s.pres = false })
}

// host exposes the current snapshot to dsl mappers. Handles returned by
// Define keep working across reconfigurations.
type host struct{}

func (host) Registry() apis.Registry { return st.Load().reg }
func (host) Renderer() apis.Renderer { return st.Load().eng }
func (host) Config() apis.Config     { return st.Load().cfg }

// Layers rebuilt by update.
const (
	rebuildRegistry = 1 << iota
	rebuildTypes
	rebuildResolver

	rebuildAll = rebuildRegistry | rebuildTypes | rebuildResolver
)

// update publishes a copy of the current state changed by fn, with the
// unpinned layers selected by what rebuilt from the previous ones.
func update(what int, fn func(s *state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	fn(&next)

	if what&rebuildRegistry != 0 && !next.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg, next.ext)
	}
	if what&rebuildTypes != 0 {
		next.types = next.bld.BuildTypes(next.cfg, old.types, next.ext)
	}
	if what&rebuildResolver != 0 && !next.pres {
		next.res = next.bld.BuildResolver(next.cfg, next.reg, next.types, old.res, next.ext)
	}
	st.Store(next.seal())
}

// fresh builds a state from scratch.
func fresh(cfg apis.Config, ext any, b apis.Builder) *state {
	s := &state{cfg: cfg, ext: ext, bld: b}
	s.reg = b.BuildRegistry(cfg, nil, ext)
	s.types = b.BuildTypes(cfg, nil, ext)
	s.res = b.BuildResolver(cfg, s.reg, s.types, nil, ext)
	return s.seal()
}

// seal checks the layers and attaches the render engine.
func (s *state) seal() *state {
	switch {
	case s.reg == nil:
		panic(ErrNilRegistry)
	case s.types == nil:
		panic(ErrNilTypes)
	case s.res == nil:
		panic(ErrNilResolver)
	}
	s.eng = render.New(s.cfg, s.reg, s.res)
	return s
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	cfg   apis.Config
	ext   any
	reg   apis.Registry
	types apis.TypeRegistry
	res   apis.Resolver
	bld   apis.Builder
	eng   *render.Engine
	// preg indicates whether the registry is pinned.
	preg bool
	// pres indicates whether the resolver is pinned.
	pres bool
}
