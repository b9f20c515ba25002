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
	"reflect"
	"strings"
	"sync"
)

// Field reads the member called name from v with "try" semantics: a nil v, a
// nil pointer on the way, or an unknown member all yield (nil, false) instead
// of panicking.
//
// Lookup order:
//   - map with string keys: exact key, then a folded match ("first_name" ~ "firstName"),
//     the lexically smallest key when several fold to name;
//   - struct: json tag name, exact field name, folded field name ("id" ~ "ID"),
//     including promoted fields of embedded structs;
//   - exported zero-argument methods returning one value (or a value and an error
//     that is nil), matched the same way ("full_name" ~ FullName()).
//
// Typed nil pointers and interfaces are returned as an untyped nil.
func Field(v any, name string) (any, bool) {
	if v == nil || name == "" {
		return nil, false
	}
	outer := reflect.ValueOf(v)
	rv := indirect(outer)
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if out, ok := mapField(rv, name); ok {
			return out, true
		}
	case reflect.Struct:
		if idx, ok := fieldIndex(rv.Type(), name); ok {
			fv, err := rv.FieldByIndexErr(idx)
			if err != nil {
				// nil embedded pointer on the path
				return nil, false
			}
			return export(fv), true
		}
	}

	if out, ok := callMethod(outer, name); ok {
		return out, true
	}
	if outer.Kind() == reflect.Ptr {
		return callMethod(rv, name)
	}
	return nil, false
}

// Dig follows a dotted path ("friend.address") with Field at each step and
// returns nil as soon as a step is missing.
func Dig(v any, path string) any {
	if path == "" {
		return v
	}
	cur := v
	for _, part := range strings.Split(path, ".") {
		next, ok := Field(cur, part)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// fold normalizes a member name for loose matching.
func fold(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

func mapField(rv reflect.Value, name string) (any, bool) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	key := reflect.ValueOf(name).Convert(rv.Type().Key())
	if mv := rv.MapIndex(key); mv.IsValid() {
		return export(mv), true
	}
	// several keys may fold to the same name; the smallest one wins
	want := fold(name)
	var (
		best  string
		found reflect.Value
	)
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		if fold(k) != want || found.IsValid() && k >= best {
			continue
		}
		best, found = k, iter.Value()
	}
	if !found.IsValid() {
		return nil, false
	}
	return export(found), true
}

type fieldKey struct {
	t    reflect.Type
	name string
}

// fieldCache memoizes struct member lookups by (type, name).
var fieldCache sync.Map // key: fieldKey, val: []int (nil when absent)

func fieldIndex(t reflect.Type, name string) ([]int, bool) {
	key := fieldKey{t: t, name: name}
	if v, ok := fieldCache.Load(key); ok {
		idx := v.([]int)
		return idx, idx != nil
	}
	idx := lookupField(t, name)
	fieldCache.Store(key, idx)
	return idx, idx != nil
}

func lookupField(t reflect.Type, name string) []int {
	fields := reflect.VisibleFields(t)
	want := fold(name)
	var byName, byFold []int
	for _, f := range fields {
		if !f.IsExported() || f.Anonymous && f.Type.Kind() == reflect.Struct {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" && tag == name {
			return f.Index
		}
		if f.Name == name && byName == nil {
			byName = f.Index
		}
		if fold(f.Name) == want && byFold == nil {
			byFold = f.Index
		}
	}
	if byName != nil {
		return byName
	}
	return byFold
}

// StructField returns the struct field of t matching name the way Field does.
func StructField(t reflect.Type, name string) (reflect.StructField, bool) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	idx, ok := fieldIndex(t, name)
	if !ok {
		return reflect.StructField{}, false
	}
	return t.FieldByIndex(idx), true
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callMethod(rv reflect.Value, name string) (any, bool) {
	if !rv.IsValid() || rv.Kind() == reflect.Interface {
		return nil, false
	}
	t := rv.Type()
	want := fold(name)
	for i := range t.NumMethod() {
		m := t.Method(i)
		if fold(m.Name) != want {
			continue
		}
		mt := m.Type // includes the receiver
		if mt.NumIn() != 1 {
			return nil, false
		}
		switch {
		case mt.NumOut() == 1:
		case mt.NumOut() == 2 && mt.Out(1).Implements(errorType):
		default:
			return nil, false
		}
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil, false
		}
		out := rv.Method(i).Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, false
		}
		return export(out[0]), true
	}
	return nil, false
}

func export(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
