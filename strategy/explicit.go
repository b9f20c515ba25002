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
	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/keys"
)

// NewExplicitStrategy creates an apis.Strategy for relations declared with a
// mapper reference. The reference is looked up as given, then inside the
// caller's namespace ("FriendMapper" from admin.UserMapper also tries
// admin.FriendMapper).
func NewExplicitStrategy(reg apis.Registry) apis.Strategy {
	return &explicitStrategy{reg: reg}
}

type explicitStrategy struct {
	reg apis.Registry
}

var _ apis.Strategy = (*explicitStrategy)(nil)

// TryResolve handles every request carrying an explicit reference.
// An unknown reference is ErrInvalidMapperReference.
func (s *explicitStrategy) TryResolve(req apis.Request, _ apis.Config) (apis.Mapper, bool, error) {
	if req.Explicit == "" {
		return nil, false, nil
	}
	names := []string{req.Explicit}
	if req.Caller != nil {
		if ns := keys.Namespace(req.Caller.Name()); ns != "" {
			names = append(names, keys.Join(ns, req.Explicit))
		}
	}
	if m, ok := first(s.reg, names); ok {
		return m, true, nil
	}
	return nil, true, &apis.ResolutionError{
		Kind:   apis.ErrInvalidMapperReference,
		Mapper: req.Explicit,
		Field:  req.Field,
	}
}

// first returns the first registered mapper among names.
func first(reg apis.Registry, names []string) (apis.Mapper, bool) {
	if reg == nil {
		return nil, false
	}
	for _, n := range names {
		if m, ok := reg.Lookup(n); ok {
			return m, true
		}
	}
	return nil, false
}

func callerName(m apis.Mapper) string {
	if m == nil {
		return ""
	}
	return m.Name()
}
