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

// Package scope selects the rule list a single render call evaluates.
//
// The result is a plain value computed per call. Definitions held by the
// registry are never modified, so concurrent renders of the same mapper
// with different scopes do not interfere.
package scope

import (
	"dirpx.dev/mappers/apis"
)

// Resolution is the effective rule list of one render call.
type Resolution struct {
	// Mapper is the definition whose rules were selected. It differs from
	// the requested one after discriminator re-dispatch or when a fallback
	// mapper supplied the rules.
	Mapper apis.Mapper
	// Rules is the ordered rule list to evaluate.
	Rules []apis.Rule
	// Options are the call options, with FallbackMapper set when the
	// discriminator chain recorded one.
	Options apis.Options
	// Fallback reports that the requested scope was missing and rules came
	// from a fallback.
	Fallback bool
}

// Resolve returns the rules rendering src through m.
//
//   - No scope requested: the base rules.
//   - Requested scope declared: that scope's rules, base rules excluded.
//   - Requested scope missing: ErrScopeNotFound when opts.FallbackOnMissingScope
//     is off; otherwise opts.FallbackMapper (its scope when declared, else its
//     base rules) or, without one, m's own base rules.
//
// When m is a discriminator root and res finds a more specific mapper for
// src, that mapper is tried first. If it lacks the requested scope and no
// fallback mapper is recorded yet, m becomes the fallback mapper and is
// resolved instead; a fallback mapper recorded by an earlier level is kept.
func Resolve(m apis.Mapper, src any, opts apis.Options, cfg apis.Config, res apis.Resolver) (Resolution, error) {
	if m.Discriminator() && res != nil {
		if sp, ok := res.Specific(src, m, cfg); ok {
			cfg.Log().Debug("discriminator re-dispatch", "mapper", m.Name(), "specific", sp.Name(), "scope", opts.Scope)
			if opts.Scope == "" || hasScope(sp, opts.Scope) || opts.FallbackMapper != nil {
				return forMapper(sp, opts, cfg)
			}
			opts.FallbackMapper = m
			return forMapper(m, opts, cfg)
		}
	}
	return forMapper(m, opts, cfg)
}

func forMapper(m apis.Mapper, opts apis.Options, cfg apis.Config) (Resolution, error) {
	if opts.Scope == "" {
		return Resolution{Mapper: m, Rules: m.Rules(), Options: opts}, nil
	}
	if rules, ok := m.Scope(opts.Scope); ok {
		return Resolution{Mapper: m, Rules: rules, Options: opts}, nil
	}
	if !opts.FallbackOnMissingScope {
		return Resolution{}, &apis.ResolutionError{Kind: apis.ErrScopeNotFound, Mapper: m.Name(), Scope: opts.Scope}
	}

	out := Resolution{Mapper: m, Rules: m.Rules(), Options: opts, Fallback: true}
	if fb := opts.FallbackMapper; fb != nil && fb.Name() != m.Name() {
		out.Mapper = fb
		if rules, ok := fb.Scope(opts.Scope); ok {
			out.Rules = rules
		} else {
			out.Rules = fb.Rules()
		}
	}
	cfg.Log().Debug("scope fallback", "mapper", m.Name(), "scope", opts.Scope, "using", out.Mapper.Name())
	return out, nil
}

func hasScope(m apis.Mapper, name string) bool {
	_, ok := m.Scope(name)
	return ok
}
