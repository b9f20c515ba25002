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

package render

import (
	"maps"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/keys"
	"dirpx.dev/mappers/scope"
	uref "dirpx.dev/mappers/utils/reflect"
)

// New constructs an Engine rendering the mappers of reg with cfg and res.
// The engine holds no per-call state and is safe for concurrent use.
func New(cfg apis.Config, reg apis.Registry, res apis.Resolver) *Engine {
	return &Engine{cfg: cfg, reg: reg, res: res}
}

// Engine runs sources through mapper rule lists.
type Engine struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
}

var _ apis.Renderer = (*Engine)(nil)

// Render renders src through the mapper registered as name.
func (e *Engine) Render(name string, src any, opts apis.Options) (any, error) {
	m, ok := e.reg.Lookup(name)
	if !ok {
		return nil, &apis.ResolutionError{Kind: apis.ErrUndefinedMapper, Mapper: name}
	}
	return e.RenderMapper(m, src, opts)
}

// RenderMapper renders src through m:
//
//  1. a nil src renders to nil whatever the options;
//  2. a collection renders element by element, nil elements dropped;
//  3. every object runs the call's effective rule list (see package scope),
//     each partial output has its keys formatted, then partials are merged
//     left to right;
//  4. the result is wrapped under opts.Root, or the key derived from m's
//     name, unless opts.Rootless.
func (e *Engine) RenderMapper(m apis.Mapper, src any, opts apis.Options) (any, error) {
	if m == nil {
		return nil, &apis.ResolutionError{Kind: apis.ErrUndefinedMapper}
	}
	if uref.IsNil(src) {
		return nil, nil
	}
	if e.cfg.MaxDepth > 0 && opts.Depth > e.cfg.MaxDepth {
		return nil, &apis.ResolutionError{Kind: apis.ErrMaxDepthExceeded, Mapper: m.Name(), Depth: opts.Depth}
	}

	collection := uref.IsCollection(src)
	e.cfg.Log().Debug("render",
		"mapper", m.Name(),
		"scope", opts.Scope,
		"depth", opts.Depth,
		"collection", collection,
	)

	var (
		body any
		err  error
	)
	if collection {
		body, err = e.all(m, src, opts)
	} else {
		body, err = e.one(m, src, opts)
	}
	if err != nil {
		return nil, err
	}

	if opts.Rootless {
		return body, nil
	}
	root := opts.Root
	if root == "" {
		root = keys.RootKey(m.Name(), collection, e.cfg)
	}
	return map[string]any{root: body}, nil
}

func (e *Engine) all(m apis.Mapper, src any, opts apis.Options) ([]any, error) {
	out := make([]any, 0)
	err := uref.Each(src, func(_ int, el any) error {
		if uref.IsNil(el) {
			return nil
		}
		v, err := e.one(m, el, opts)
		if err != nil {
			return err
		}
		if v != nil {
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// one renders a single object.
func (e *Engine) one(m apis.Mapper, src any, opts apis.Options) (any, error) {
	r, err := scope.Resolve(m, src, opts, e.cfg, e.res)
	if err != nil {
		return nil, err
	}
	en := &env{engine: e, mapper: r.Mapper, opts: r.Options}

	for _, rule := range r.Rules {
		rd, ok := rule.(apis.Redirector)
		if !ok {
			continue
		}
		out, redirected, err := rd.Redirect(src, en)
		if err != nil {
			return nil, err
		}
		if redirected {
			return out, nil
		}
	}

	merged := make(map[string]any)
	for _, rule := range r.Rules {
		part, err := rule.Apply(src, en)
		if err != nil {
			return nil, err
		}
		maps.Copy(merged, e.format(part))
	}
	return merged, nil
}

// format normalizes the keys of one partial output so that the merge sees
// the final names and a later rule wins every collision.
func (e *Engine) format(part map[string]any) map[string]any {
	if f, ok := keys.FormatKeys(part, e.cfg).(map[string]any); ok {
		return f
	}
	return part
}

// Config returns the engine configuration.
func (e *Engine) Config() apis.Config { return e.cfg }

// Registry returns the mapper registry the engine renders from.
func (e *Engine) Registry() apis.Registry { return e.reg }

// Resolver returns the engine resolver.
func (e *Engine) Resolver() apis.Resolver { return e.res }
