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

package keys

import (
	"maps"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"

	"dirpx.dev/mappers/apis"
)

// FormatKey camelizes one output key:
//
//	"admin?"     -> "isAdmin"
//	"first_name" -> "firstName"
//	"id", "ID"   -> unchanged (no underscore)
//
// FormatKey(FormatKey(k)) == FormatKey(k).
func FormatKey(key string) string {
	if strings.Contains(key, "?") {
		key = "is_" + strings.ReplaceAll(key, "?", "")
	}
	if !strings.Contains(key, "_") {
		return key
	}
	return strcase.ToLowerCamel(key)
}

// FormatKeys applies FormatKey to every key of v, descending into nested
// maps and lists. It returns v unchanged when cfg.CamelcaseKeys is off.
// Maps are rebuilt, never modified in place. Within one map, keys that
// collide once formatted ("first_name", "firstName") are resolved in sorted
// key order, so the result does not depend on map iteration.
func FormatKeys(v any, cfg apis.Config) any {
	if !cfg.CamelcaseKeys {
		return v
	}
	return formatKeys(v)
}

func formatKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			out[FormatKey(k)] = formatKeys(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = formatKeys(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = formatKeys(e)
		}
		return out
	}
	return v
}
