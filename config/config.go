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

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dirpx.dev/mappers/apis"
	uref "dirpx.dev/mappers/utils/reflect"
)

const (
	// DefaultCamelcaseKeys represents the default for CamelcaseKeys.
	DefaultCamelcaseKeys = true

	// DefaultFallbackOnMissingScope represents the default for FallbackOnMissingScope.
	DefaultFallbackOnMissingScope = true

	// DefaultMaxDepth represents the default for MaxDepth.
	// Relation graphs deeper than this are almost always cycles.
	DefaultMaxDepth = 64

	// DefaultIncludeBuiltins represents the default for IncludeBuiltins.
	// When false, builtin types never name a mapper.
	DefaultIncludeBuiltins = false

	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8

	// DefaultMapPreferElem represents the default for MapPreferElem.
	// When true, map value types are preferred when searching for named inner types.
	DefaultMapPreferElem = true
)

var (
	// ErrNegativeMaxDepth is returned by Validate for a negative MaxDepth.
	ErrNegativeMaxDepth = errors.New("mappers(config): negative max depth")
	// ErrNegativeMaxUnwrap is returned by Validate for a negative MaxUnwrap.
	ErrNegativeMaxUnwrap = errors.New("mappers(config): negative max unwrap")
	// ErrEmptyNamespace is returned by Validate for a blank ignored namespace.
	ErrEmptyNamespace = errors.New("mappers(config): empty ignored namespace")
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		CamelcaseKeys:          DefaultCamelcaseKeys,
		FallbackOnMissingScope: DefaultFallbackOnMissingScope,
		MaxDepth:               DefaultMaxDepth,
		IncludeBuiltins:        DefaultIncludeBuiltins,
		MaxUnwrap:              DefaultMaxUnwrap,
		MapPreferElem:          DefaultMapPreferElem,
		Reflector:              uref.FieldReflector{},
	}
}

// Validate reports every invalid knob of cfg at once.
func Validate(cfg apis.Config) error {
	var errs []error
	if cfg.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrNegativeMaxDepth, cfg.MaxDepth))
	}
	if cfg.MaxUnwrap < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrNegativeMaxUnwrap, cfg.MaxUnwrap))
	}
	for i, ns := range cfg.IgnoredNamespaces {
		if strings.TrimSpace(ns) == "" {
			errs = append(errs, fmt.Errorf("%w at index %d", ErrEmptyNamespace, i))
		}
	}
	return errors.Join(errs...)
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithIgnoredNamespaces replaces the ignored namespace list.
func WithIgnoredNamespaces(ns ...string) Option {
	return func(c *apis.Config) {
		c.IgnoredNamespaces = append([]string(nil), ns...)
	}
}

// WithCamelcaseKeys sets the CamelcaseKeys option.
func WithCamelcaseKeys(on bool) Option {
	return func(c *apis.Config) {
		c.CamelcaseKeys = on
	}
}

// WithRootKeyTransformer sets a custom root key derivation.
func WithRootKeyTransformer(fn func(name string) string) Option {
	return func(c *apis.Config) {
		c.RootKeyTransformer = fn
	}
}

// WithFallbackOnMissingScope sets the default scope fallback policy.
func WithFallbackOnMissingScope(on bool) Option {
	return func(c *apis.Config) {
		c.FallbackOnMissingScope = on
	}
}

// WithMaxDepth sets the MaxDepth option.
// A negative value resets to the default; zero disables the guard.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithIncludeBuiltins sets the IncludeBuiltins option.
func WithIncludeBuiltins(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeBuiltins = include
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithMapPreferElem sets the MapPreferElem option.
func WithMapPreferElem(prefer bool) Option {
	return func(c *apis.Config) {
		c.MapPreferElem = prefer
	}
}

// WithReflector sets the relation reflector. nil switches relations to
// runtime type resolution.
func WithReflector(r apis.Reflector) Option {
	return func(c *apis.Config) {
		c.Reflector = r
	}
}

// WithLogger sets the logger used for render traces.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}
