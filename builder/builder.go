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

package builder

import (
	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/registry"
	"dirpx.dev/mappers/resolver"
	"dirpx.dev/mappers/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new mapper registry. If a pre-existing
// registry is provided, its definitions are copied as they are.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry, _ any) apis.Registry {
	return registry.From(prev)
}

// BuildTypes builds and returns a new apis.TypeRegistry based on the provided
// configuration. If a pre-existing registry is provided, its entries are
// re-registered under cfg; entries the new configuration rejects are dropped.
func (b *builder) BuildTypes(cfg apis.Config, prev apis.TypeRegistry, _ any) apis.TypeRegistry {
	types := registry.NewTypes(cfg)
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = types.Register(e.Type, e.Name)
		}
	}
	return types
}

// BuildResolver builds the default resolution chains over reg and types:
// runtime types are named by Namer, then the type registry, then reflection;
// relations are resolved by explicit reference, then the configured
// Reflector, then the runtime type of the related value.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, types apis.TypeRegistry, _ apis.Resolver, _ any) apis.Resolver {
	var byType apis.TypeStrategy
	if types != nil {
		byType = strategy.NewTypeRegistryStrategy(types)
	}
	names := resolver.NewNames(
		strategy.NewNamerStrategy(),
		byType,
		strategy.NewReflectStrategy(),
	)
	return resolver.New(reg, names,
		strategy.NewExplicitStrategy(reg),
		strategy.NewReflectionStrategy(reg),
		strategy.NewRuntimeStrategy(reg, names.Name),
	)
}
