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

// Package mappers turns domain objects into plain maps ready for JSON
// encoding, following rules declared once per mapper.
//
// A mapper is a named, ordered list of rules. Each rule contributes part of
// the output object; later rules overwrite earlier keys:
//
//	mappers.Define("FriendMapper", func(b *dsl.Builder) {
//		b.Attributes("name")
//	})
//	mappers.Define("UserMapper", func(b *dsl.Builder) {
//		b.Attributes("id", "first_name")
//		b.Relation("friend")
//		b.Scope("summary", func(b *dsl.Builder) {
//			b.Attributes("id")
//		})
//	})
//
//	out, err := mappers.Render("UserMapper", user)
//	// {"user": {"id": "1", "firstName": "Michael", "friend": {"name": "Nicolas"}}}
//
// # Rules
//
//   - Attributes copies members of the source (map keys, struct fields by
//     json tag or name, or zero-argument methods). Absent members are nil.
//   - Delegate copies members of the object found at a dotted path.
//   - Relation renders a related value through another mapper: the one
//     given with dsl.Using, else "<Type>Mapper" for the declared type of
//     the field, else for the runtime type of the value.
//   - Polymorphic reads "<field>_type" on the source to pick the mapper.
//   - ActsAsPolymorph hands each source to the mapper of its own type.
//   - Rule adds a function of the source and the render context.
//
// # Scopes and inheritance
//
// A scope is an independent rule list chosen per call with apis.WithScope.
// An undeclared scope falls back to the base rules unless the fallback is
// turned off (apis.FallbackOnMissingScope or the configuration default),
// in which case the render fails with apis.ErrScopeNotFound.
//
// Derive copies the parent's rules and scopes as they are at that moment.
// InheritanceColumn makes a parent mapper render each object through the
// most specific derived mapper of its runtime type.
//
// # Naming
//
// Mapper names may carry a dot-separated namespace ("admin.UserMapper").
// Relations are looked up in the caller's namespace first. Namespaces listed
// in the configuration's IgnoredNamespaces are dropped both from that lookup
// and from root keys. The root key is derived from the mapper name
// ("UserMapper" gives "user", or "users" for a collection) and can be
// overridden per call with apis.Root or suppressed with apis.Rootless.
//
// # Global state
//
// The package keeps a read-mostly snapshot of the configuration, the mapper
// and type registries, the resolver and the render engine. Readers load it
// atomically and never lock. Writers (SetConfig, Configure, SetBuilder,
// SetExt, SetRegistry, SetResolver, SetAll) build a new snapshot under a
// mutex and publish it at once; declared mappers and registered types are
// migrated to the rebuilt registries.
//
// A registry or resolver set explicitly is pinned: reconfiguration does not
// rebuild it until UnpinRegistry or UnpinResolver. The builder receives an
// opaque extension value (SetExt) on every rebuild, so out-of-tree builders
// can carry their own policy.
//
// Declarations are expected at init time. A declaration racing with a
// reconfiguration may be lost.
//
// For isolated instances (tests, multi-tenant setups) compose the packages
// directly: registry.New, builder.New().BuildResolver, render.New and
// dsl.NewHost.
package mappers
