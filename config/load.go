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
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dirpx.dev/mappers/apis"
)

// Environment variables read by LoadEnv.
const (
	EnvIgnoredNamespaces      = "MAPPERS_IGNORED_NAMESPACES"
	EnvCamelcaseKeys          = "MAPPERS_CAMELCASE_KEYS"
	EnvFallbackOnMissingScope = "MAPPERS_FALLBACK_ON_MISSING_SCOPE"
	EnvMaxDepth               = "MAPPERS_MAX_DEPTH"
	EnvIncludeBuiltins        = "MAPPERS_INCLUDE_BUILTINS"
	EnvLogLevel               = "MAPPERS_LOG_LEVEL"
	EnvLogFormat              = "MAPPERS_LOG_FORMAT"
)

// File is the on-disk configuration shape. Absent keys keep their defaults.
type File struct {
	IgnoredNamespaces      []string `yaml:"ignored_namespaces"`
	CamelcaseKeys          *bool    `yaml:"camelcase_keys"`
	FallbackOnMissingScope *bool    `yaml:"fallback_on_missing_scope"`
	MaxDepth               *int     `yaml:"max_depth"`
	IncludeBuiltins        *bool    `yaml:"include_builtins"`
	LogLevel               string   `yaml:"log_level"`
	LogFormat              string   `yaml:"log_format"`
}

// Options converts f to functional options applied over the defaults.
func (f File) Options() ([]Option, error) {
	var opts []Option
	if f.IgnoredNamespaces != nil {
		opts = append(opts, WithIgnoredNamespaces(f.IgnoredNamespaces...))
	}
	if f.CamelcaseKeys != nil {
		opts = append(opts, WithCamelcaseKeys(*f.CamelcaseKeys))
	}
	if f.FallbackOnMissingScope != nil {
		opts = append(opts, WithFallbackOnMissingScope(*f.FallbackOnMissingScope))
	}
	if f.MaxDepth != nil {
		opts = append(opts, WithMaxDepth(*f.MaxDepth))
	}
	if f.IncludeBuiltins != nil {
		opts = append(opts, WithIncludeBuiltins(*f.IncludeBuiltins))
	}
	if f.LogLevel != "" || f.LogFormat != "" {
		l, err := NewLogger(f.LogLevel, f.LogFormat, os.Stderr)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLogger(l))
	}
	return opts, nil
}

// Parse decodes YAML data into a validated configuration.
func Parse(data []byte, extra ...Option) (apis.Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return apis.Config{}, fmt.Errorf("mappers(config): failed to parse config: %w", err)
	}
	if f.MaxDepth != nil && *f.MaxDepth < 0 {
		return apis.Config{}, fmt.Errorf("%w: %d", ErrNegativeMaxDepth, *f.MaxDepth)
	}
	opts, err := f.Options()
	if err != nil {
		return apis.Config{}, err
	}
	cfg := NewConfig(append(opts, extra...)...)
	if err := Validate(cfg); err != nil {
		return apis.Config{}, fmt.Errorf("mappers(config): configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from a YAML file.
func LoadFile(path string, extra ...Option) (apis.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("mappers(config): failed to read config file: %w", err)
	}
	return Parse(data, extra...)
}

// LoadEnv loads configuration from MAPPERS_* environment variables.
// Dotenv files, when given, are read first; the process environment wins over them.
func LoadEnv(files ...string) (apis.Config, error) {
	env := map[string]string{}
	if len(files) > 0 {
		read, err := godotenv.Read(files...)
		if err != nil {
			return apis.Config{}, fmt.Errorf("mappers(config): failed to read env files: %w", err)
		}
		env = read
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return env[key]
	}

	var f File
	if v := lookup(EnvIgnoredNamespaces); v != "" {
		for _, ns := range strings.Split(v, ",") {
			f.IgnoredNamespaces = append(f.IgnoredNamespaces, strings.TrimSpace(ns))
		}
	}
	var err error
	if f.CamelcaseKeys, err = envBool(EnvCamelcaseKeys, lookup(EnvCamelcaseKeys)); err != nil {
		return apis.Config{}, err
	}
	if f.FallbackOnMissingScope, err = envBool(EnvFallbackOnMissingScope, lookup(EnvFallbackOnMissingScope)); err != nil {
		return apis.Config{}, err
	}
	if f.IncludeBuiltins, err = envBool(EnvIncludeBuiltins, lookup(EnvIncludeBuiltins)); err != nil {
		return apis.Config{}, err
	}
	if v := lookup(EnvMaxDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apis.Config{}, fmt.Errorf("mappers(config): %s: %w", EnvMaxDepth, err)
		}
		f.MaxDepth = &n
	}
	f.LogLevel = lookup(EnvLogLevel)
	f.LogFormat = lookup(EnvLogFormat)

	opts, err := f.Options()
	if err != nil {
		return apis.Config{}, err
	}
	cfg := NewConfig(opts...)
	if err := Validate(cfg); err != nil {
		return apis.Config{}, fmt.Errorf("mappers(config): configuration validation failed: %w", err)
	}
	return cfg, nil
}

func envBool(key, v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("mappers(config): %s: %w", key, err)
	}
	return &b, nil
}

// NewLogger builds a slog logger writing to w.
// level is one of debug, info, warn, error (default info);
// format is json or text (default json).
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("mappers(config): unknown log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("mappers(config): unknown log format %q", format)
	}
	return slog.New(h).With("component", "mappers"), nil
}
