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
	"iter"
	"reflect"
)

// IsCollection reports whether v renders as a list: slices and arrays
// (except byte slices), iter.Seq[any] and plain func(func(any) bool) sequences.
// Maps are single objects.
func IsCollection(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case iter.Seq[any], func(func(any) bool):
		return true
	case []byte:
		return false
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// Each calls fn for every element of the collection v, in order, and stops
// at the first error. It is a no-op when v is not a collection.
func Each(v any, fn func(int, any) error) error {
	switch seq := v.(type) {
	case iter.Seq[any]:
		return eachSeq(seq, fn)
	case func(func(any) bool):
		return eachSeq(seq, fn)
	}
	if !IsCollection(v) {
		return nil
	}
	rv := indirect(reflect.ValueOf(v))
	for i := range rv.Len() {
		if err := fn(i, export(rv.Index(i))); err != nil {
			return err
		}
	}
	return nil
}

func eachSeq(seq iter.Seq[any], fn func(int, any) error) error {
	var (
		i   int
		err error
	)
	for e := range seq {
		if err = fn(i, e); err != nil {
			break
		}
		i++
	}
	return err
}
