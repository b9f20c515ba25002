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

package registry

import (
	"maps"
	"slices"

	"dirpx.dev/mappers/apis"
)

// definition is one published version of a mapper. It is never modified
// after being stored: every declaration publishes a fresh copy, so renders
// holding an older version keep a consistent view.
type definition struct {
	name          string
	parent        string
	rules         []apis.Rule
	scopes        map[string][]apis.Rule
	scopeOrder    []string
	discriminator bool
}

var _ apis.Mapper = (*definition)(nil)

func (d *definition) Name() string        { return d.name }
func (d *definition) Parent() string      { return d.parent }
func (d *definition) Discriminator() bool { return d.discriminator }

// Rules returns the base rule list. The slice is clipped so appending to it
// never reaches the shared backing array.
func (d *definition) Rules() []apis.Rule { return slices.Clip(d.rules) }

func (d *definition) Scope(name string) ([]apis.Rule, bool) {
	rules, ok := d.scopes[name]
	return slices.Clip(rules), ok
}

func (d *definition) ScopeNames() []string { return slices.Clone(d.scopeOrder) }

func (d *definition) String() string { return d.name }

// clone returns a shallow copy whose lists can be extended independently.
func (d *definition) clone() *definition {
	return &definition{
		name:          d.name,
		parent:        d.parent,
		rules:         slices.Clip(d.rules),
		scopes:        maps.Clone(d.scopes),
		scopeOrder:    slices.Clip(d.scopeOrder),
		discriminator: d.discriminator,
	}
}

func (d *definition) setScope(name string, rules []apis.Rule) {
	if d.scopes == nil {
		d.scopes = make(map[string][]apis.Rule)
	}
	if _, ok := d.scopes[name]; !ok {
		d.scopeOrder = append(d.scopeOrder, name)
	}
	d.scopes[name] = slices.Clone(rules)
}
