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
	uref "dirpx.dev/mappers/utils/reflect"
)

// NewNamerStrategy creates an apis.TypeStrategy that uses apis.Namer.
func NewNamerStrategy() apis.TypeStrategy {
	return &namerStrategy{}
}

// namerStrategy is a zero-cost fast path: if v implements apis.Namer,
// return its EntityName() and stop the chain.
type namerStrategy struct{}

var _ apis.TypeStrategy = (*namerStrategy)(nil)

// TryResolve checks if v implements apis.Namer and returns its EntityName().
// A typed nil Namer is not asked.
func (*namerStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	n, ok := v.(apis.Namer)
	if !ok || uref.IsNil(v) {
		return "", false
	}
	if name := n.EntityName(); name != "" {
		return name, true
	}
	return "", false
}

// TryResolveType always returns false: Namer requires an instance.
func (*namerStrategy) TryResolveType(reflect.Type, apis.Config) (string, bool) {
	return "", false
}
