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
	"sync"

	"dirpx.dev/mappers/apis"
	uref "dirpx.dev/mappers/utils/reflect"
)

// NewReflectStrategy creates an apis.TypeStrategy that names values after
// their Go type via utils/reflect.Normalize, with memoization.
func NewReflectStrategy() apis.TypeStrategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback. It unwraps containers
// (ptr/slice/array/chan/map), strips generic instantiation parameters and
// drops the package: *[]billing.Invoice is "Invoice". Builtin names are
// hidden unless cfg.IncludeBuiltins.
type reflectStrategy struct{}

var _ apis.TypeStrategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t              reflect.Type
	includeBuiltin bool
	maxUnwrap      int16
	mapPreferElem  bool
}

// typeNameCache caches resolved type names by (type, config knobs).
var typeNameCache sync.Map // key: cacheKey, val: string

// TryResolve computes the name of v's type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return byType(reflect.TypeOf(v), cfg), true
}

// TryResolveType computes the name of t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	return byType(t, cfg), true
}

func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
	}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	var name string
	if base, err := uref.Normalize(t, cfg); err == nil {
		if cfg.IncludeBuiltins || !uref.IsBuiltin(base) {
			name = uref.ShortName(base)
		}
	}

	typeNameCache.Store(key, name)
	return name
}
