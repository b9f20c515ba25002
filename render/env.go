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
	"dirpx.dev/mappers/apis"
)

// env is what a rule sees of the render call evaluating it.
type env struct {
	engine *Engine
	mapper apis.Mapper
	opts   apis.Options
}

var _ apis.Env = (*env)(nil)

func (e *env) Mapper() apis.Mapper     { return e.mapper }
func (e *env) Options() apis.Options   { return e.opts }
func (e *env) Config() apis.Config     { return e.engine.cfg }
func (e *env) Resolver() apis.Resolver { return e.engine.res }

// Render renders src through m one level deeper than the current call.
// The caller context is forwarded unless opts carries its own.
func (e *env) Render(m apis.Mapper, src any, opts apis.Options) (any, error) {
	opts.Depth = e.opts.Depth + 1
	if opts.Context == nil {
		opts.Context = e.opts.Context
	}
	return e.engine.RenderMapper(m, src, opts)
}
