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

package strategy

import (
	"errors"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/keys"
	uref "dirpx.dev/mappers/utils/reflect"
)

// TypeNamer names a runtime value, typically apis.Resolver.TypeName.
type TypeNamer func(v any, cfg apis.Config) string

// NewRuntimeStrategy creates the last-resort relation strategy: the mapper
// is derived from the runtime type of the related value.
func NewRuntimeStrategy(reg apis.Registry, name TypeNamer) apis.Strategy {
	return &runtimeStrategy{reg: reg, name: name}
}

type runtimeStrategy struct {
	reg  apis.Registry
	name TypeNamer
}

var _ apis.Strategy = (*runtimeStrategy)(nil)

// TryResolve always handles the request. A nil value (or an empty
// collection whose element type is unknown) yields a nil mapper.
func (s *runtimeStrategy) TryResolve(req apis.Request, cfg apis.Config) (apis.Mapper, bool, error) {
	if uref.IsNil(req.Value) {
		return nil, true, nil
	}
	typeName := ValueTypeName(req.Value, cfg, s.name)
	if typeName == "" {
		if uref.IsCollection(req.Value) {
			return nil, true, nil
		}
		return nil, true, &apis.ResolutionError{
			Kind:   apis.ErrUndefinedMapper,
			Mapper: callerName(req.Caller),
			Field:  req.Field,
		}
	}

	names := keys.Candidates(typeName, callerName(req.Caller), cfg)
	if m, ok := first(s.reg, names); ok {
		return m, true, nil
	}
	return nil, true, &apis.ResolutionError{
		Kind:   apis.ErrUndefinedMapper,
		Mapper: names[0],
		Field:  req.Field,
		Type:   typeName,
	}
}

// ValueTypeName names v, looking at the first non-nil element when v is a
// collection whose static element type carries no name ([]any).
func ValueTypeName(v any, cfg apis.Config, name TypeNamer) string {
	if name == nil {
		return ""
	}
	if n := name(v, cfg); n != "" {
		return n
	}
	if !uref.IsCollection(v) {
		return ""
	}
	var n string
	_ = uref.Each(v, func(_ int, e any) error {
		if uref.IsNil(e) {
			return nil
		}
		n = name(e, cfg)
		return errStop
	})
	return n
}

var errStop = errors.New("stop")
