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

package reflect

import (
	"errors"
	"reflect"
	"strings"

	"dirpx.dev/mappers/apis"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping containers)
	// does not contain a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
)

// defaultMaxUnwrap mirrors config.DefaultMaxUnwrap without importing config.
const defaultMaxUnwrap = 8

// Normalize unwraps containers according to cfg (MaxUnwrap/MapPreferElem)
// and returns the nearest named inner type, or an error if none is found.
//
// Unwrapping policy:
//   - ptr/slice/array/chan  -> Elem()
//   - map[K]V: the preferred side (V if MapPreferElem, K otherwise) wins when
//     named, then the other side; if neither is named, keep unwrapping V.
//   - anything else: named -> returned, anonymous -> ErrReflectTypeNotNamed.
//
// A related collection such as []*Friend or map[string]Friend therefore
// normalizes to Friend, which is what relation resolution needs.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	limit := cfg.MaxUnwrap
	if limit <= 0 {
		limit = defaultMaxUnwrap
	}

	for range limit {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
			t = t.Elem()
			continue
		case reflect.Map:
			first, second := t.Key(), t.Elem()
			if cfg.MapPreferElem {
				first, second = second, first
			}
			if first.Name() != "" {
				return first, nil
			}
			if second.Name() != "" {
				return second, nil
			}
			t = t.Elem()
			continue
		}
		break
	}

	if t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// ShortName returns the bare name of t with generic instantiation parameters
// stripped: "Page[main.User]" -> "Page".
func ShortName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// IsBuiltin reports whether t is a predeclared (no package) named type.
func IsBuiltin(t reflect.Type) bool {
	return t.PkgPath() == "" && t.Name() != ""
}

// IsNil reports whether v is nil or a typed nil (pointer, map, slice,
// interface, func or chan).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// indirect dereferences pointers and interfaces until a concrete value is
// reached. It returns an invalid Value when a nil is met on the way.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
