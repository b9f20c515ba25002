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

package strategy

import (
	"reflect"

	"dirpx.dev/mappers/apis"
)

// NewTypeRegistryStrategy creates an apis.TypeStrategy backed by a TypeRegistry.
func NewTypeRegistryStrategy(types apis.TypeRegistry) apis.TypeStrategy {
	return &typeRegistryStrategy{types: types}
}

// typeRegistryStrategy consults the explicit Go type -> entity name table.
type typeRegistryStrategy struct {
	types apis.TypeRegistry
}

var _ apis.TypeStrategy = (*typeRegistryStrategy)(nil)

// TryResolve looks up v's type in the registry.
func (s *typeRegistryStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	if v == nil || s.types == nil {
		return "", false
	}
	return s.types.Lookup(reflect.TypeOf(v))
}

// TryResolveType looks up t in the registry.
func (s *typeRegistryStrategy) TryResolveType(t reflect.Type, _ apis.Config) (string, bool) {
	if t == nil || s.types == nil {
		return "", false
	}
	return s.types.Lookup(t)
}
