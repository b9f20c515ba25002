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
	"reflect"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/keys"
	uref "dirpx.dev/mappers/utils/reflect"
)

// NewReflectionStrategy creates an apis.Strategy asking cfg.Reflector for the
// declared target type of a relation. It does not handle requests when no
// Reflector is configured.
func NewReflectionStrategy(reg apis.Registry) apis.Strategy {
	return &reflectionStrategy{reg: reg}
}

type reflectionStrategy struct {
	reg apis.Registry
}

var _ apis.Strategy = (*reflectionStrategy)(nil)

// TryResolve reports ErrUndefinedRelation when the reflector has no answer
// and ErrUndefinedMapper when no mapper follows the naming convention for
// the answered type.
func (s *reflectionStrategy) TryResolve(req apis.Request, cfg apis.Config) (apis.Mapper, bool, error) {
	if cfg.Reflector == nil {
		return nil, false, nil
	}
	owner := reflect.TypeOf(req.Source)
	var (
		target string
		ok     bool
	)
	if owner != nil {
		target, ok = cfg.Reflector.ReflectAssociation(owner, req.Field)
	}
	if !ok || target == "" {
		rerr := &apis.ResolutionError{
			Kind:   apis.ErrUndefinedRelation,
			Mapper: callerName(req.Caller),
			Field:  req.Field,
		}
		if owner != nil {
			if base, err := uref.Normalize(owner, cfg); err == nil {
				rerr.Type = uref.ShortName(base)
			}
		}
		return nil, true, rerr
	}

	names := keys.Candidates(target, callerName(req.Caller), cfg)
	if m, found := first(s.reg, names); found {
		return m, true, nil
	}
	return nil, true, &apis.ResolutionError{
		Kind:   apis.ErrUndefinedMapper,
		Mapper: names[0],
		Field:  req.Field,
		Type:   target,
	}
}
