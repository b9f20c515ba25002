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

	"dirpx.dev/mappers/apis"
)

// FieldReflector answers association questions from Go struct field types:
// the related type of Friend.Address (*Address) is "Address", and of
// User.Friends ([]Friend) is "Friend".
//
// Interface-typed fields (any, io.Reader, ...) carry no static answer, so the
// reflector reports false for them and relation resolution reports the
// relation as undefined.
type FieldReflector struct{}

var _ apis.Reflector = FieldReflector{}

// ReflectAssociation implements apis.Reflector.
func (FieldReflector) ReflectAssociation(owner reflect.Type, field string) (string, bool) {
	f, ok := StructField(owner, field)
	if !ok {
		return "", false
	}
	t, err := Normalize(f.Type, apis.Config{MapPreferElem: true})
	if err != nil {
		return "", false
	}
	if t.Kind() == reflect.Interface || IsBuiltin(t) {
		return "", false
	}
	return ShortName(t), true
}
