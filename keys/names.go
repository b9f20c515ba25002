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
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"

	"dirpx.dev/mappers/apis"
)

const (
	// Sep separates namespace segments in a mapper name ("admin.UserMapper").
	Sep = "."
	// Suffix ends every conventional mapper name.
	Suffix = "Mapper"
)

// Split returns the namespace segments and the base of a qualified name:
// "admin.api.UserMapper" -> ["admin" "api"], "UserMapper".
func Split(name string) ([]string, string) {
	i := strings.LastIndex(name, Sep)
	if i < 0 {
		return nil, name
	}
	return strings.Split(name[:i], Sep), name[i+1:]
}

// Namespace returns the namespace part of name, "" for a top-level name.
func Namespace(name string) string {
	if i := strings.LastIndex(name, Sep); i >= 0 {
		return name[:i]
	}
	return ""
}

// Join builds a qualified name from a namespace and a base.
func Join(ns, base string) string {
	if ns == "" {
		return base
	}
	return ns + Sep + base
}

// Ignored reports whether the namespace segment is listed in cfg.IgnoredNamespaces.
// Comparison is case-insensitive.
func Ignored(segment string, cfg apis.Config) bool {
	for _, ns := range cfg.IgnoredNamespaces {
		if strings.EqualFold(ns, segment) {
			return true
		}
	}
	return false
}

// StripIgnored removes ignored namespace segments from a qualified name:
// with "admin" ignored, "admin.UserMapper" -> "UserMapper".
func StripIgnored(name string, cfg apis.Config) string {
	if len(cfg.IgnoredNamespaces) == 0 {
		return name
	}
	segs, base := Split(name)
	kept := segs[:0:0]
	for _, s := range segs {
		if !Ignored(s, cfg) {
			kept = append(kept, s)
		}
	}
	return Join(strings.Join(kept, Sep), base)
}

// MapperName returns the conventional mapper name for typeName when the
// lookup happens on behalf of the caller mapper.
//
// A qualified type name ("billing.Invoice") is used as is: "billing.InvoiceMapper".
// A bare one is placed in the caller's namespace once ignored segments are
// removed: ("Friend", "admin.UserMapper") -> "admin.FriendMapper".
func MapperName(typeName, caller string, cfg apis.Config) string {
	if typeName == "" {
		return ""
	}
	if strings.Contains(typeName, Sep) {
		return typeName + Suffix
	}
	return Join(Namespace(StripIgnored(caller, cfg)), typeName+Suffix)
}

// Candidates lists the mapper names tried, in order, for typeName looked up
// on behalf of caller: the conventional name first, then the top-level one.
func Candidates(typeName, caller string, cfg apis.Config) []string {
	first := MapperName(typeName, caller, cfg)
	if first == "" {
		return nil
	}
	top := typeName + Suffix
	if first == top {
		return []string{first}
	}
	return []string{first, top}
}

// RootKey derives the default wrapper key of a render through the mapper
// called name. Ignored namespaces are stripped first; a configured
// RootKeyTransformer then receives that name and its result is used verbatim.
//
// Otherwise the "Mapper" suffix is dropped, every segment is snake_cased and
// the last one is pluralized for a collection or singularized for a single
// object. With CamelcaseKeys the segments are camelized:
//
//	admin.UserProfileMapper -> "admin/UserProfile", "admin/UserProfiles"
//	UserMapper              -> "user", "users"
//
// and without it they stay snake_cased ("admin/user_profile").
func RootKey(name string, collection bool, cfg apis.Config) string {
	name = StripIgnored(name, cfg)
	if cfg.RootKeyTransformer != nil {
		return cfg.RootKeyTransformer(name)
	}

	segs, base := Split(name)
	base = strings.TrimSuffix(base, Suffix)
	parts := make([]string, 0, len(segs)+1)
	for _, s := range segs {
		parts = append(parts, strcase.ToSnake(s))
	}
	last := strcase.ToSnake(base)
	if collection {
		last = inflection.Plural(last)
	} else {
		last = inflection.Singular(last)
	}
	parts = append(parts, last)

	if cfg.CamelcaseKeys {
		for i, p := range parts {
			if i == 0 {
				parts[i] = strcase.ToLowerCamel(p)
			} else {
				parts[i] = strcase.ToCamel(p)
			}
		}
	}
	return strings.Join(parts, "/")
}
