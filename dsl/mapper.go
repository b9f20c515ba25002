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

package dsl

import (
	"fmt"

	json "github.com/goccy/go-json"

	"dirpx.dev/mappers/apis"
)

// Host gives declared mappers access to the registry they live in and to
// the renderer producing their output.
type Host interface {
	Registry() apis.Registry
	Renderer() apis.Renderer
	Config() apis.Config
}

// NewHost returns a Host over fixed components.
func NewHost(cfg apis.Config, reg apis.Registry, r apis.Renderer) Host {
	return staticHost{cfg: cfg, reg: reg, r: r}
}

type staticHost struct {
	cfg apis.Config
	reg apis.Registry
	r   apis.Renderer
}

func (h staticHost) Registry() apis.Registry { return h.reg }
func (h staticHost) Renderer() apis.Renderer { return h.r }
func (h staticHost) Config() apis.Config     { return h.cfg }

// Mapper is a handle on a declared mapper.
type Mapper struct {
	host Host
	name string
}

// Define declares the mapper called name and runs body against its builder.
func Define(host Host, name string, body ...func(*Builder)) *Mapper {
	must(name, host.Registry().Declare(name))
	m := &Mapper{host: host, name: name}
	for _, fn := range body {
		m.Declare(fn)
	}
	return m
}

// Derive declares name as a subtype of parent: it starts with a copy of the
// parent's rules and scopes as they are now, then body adds to them.
func Derive(host Host, name, parent string, body ...func(*Builder)) *Mapper {
	if parent != "" {
		must(name, host.Registry().Bind(name, parent))
	}
	return Define(host, name, body...)
}

// Lookup returns a handle on the mapper already registered as name.
func Lookup(host Host, name string) (*Mapper, bool) {
	if _, ok := host.Registry().Lookup(name); !ok {
		return nil, false
	}
	return &Mapper{host: host, name: name}, true
}

// Name returns the registered mapper name.
func (m *Mapper) Name() string { return m.name }

// Declare runs body against the mapper's builder.
func (m *Mapper) Declare(body func(*Builder)) *Mapper {
	if body != nil {
		body(&Builder{host: m.host, mapper: m.name})
	}
	return m
}

// Definition returns the current registered definition.
func (m *Mapper) Definition() (apis.Mapper, bool) {
	return m.host.Registry().Lookup(m.name)
}

// Render renders src (an object or a collection) through the mapper.
func (m *Mapper) Render(src any, opts ...apis.Option) (any, error) {
	return m.host.Renderer().Render(m.name, src, Options(m.host.Config(), opts...))
}

// RenderJSON renders src and encodes the result as JSON.
func (m *Mapper) RenderJSON(src any, opts ...apis.Option) ([]byte, error) {
	out, err := m.Render(src, opts...)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("mappers(dsl): %s: failed to encode: %w", m.name, err)
	}
	return b, nil
}

// Options builds render options, seeding the scope fallback policy from cfg.
func Options(cfg apis.Config, opts ...apis.Option) apis.Options {
	o := apis.NewOptions(apis.FallbackOnMissingScope(cfg.FallbackOnMissingScope))
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
