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

package apis

import "log/slog"

// Config carries read-only rendering knobs shared by every component.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// IgnoredNamespaces lists namespace segments that are stripped when deriving
	// root keys and when resolving nested mapper names by convention.
	// Matching is case-insensitive.
	IgnoredNamespaces []string

	// CamelcaseKeys turns on the lowerCamelCase key pass over rendered output
	// and camelizes derived root keys.
	CamelcaseKeys bool

	// RootKeyTransformer, when set, replaces the default root key derivation.
	// It receives the mapper name with ignored namespaces already stripped.
	RootKeyTransformer func(name string) string

	// FallbackOnMissingScope is the default for Options.FallbackOnMissingScope.
	FallbackOnMissingScope bool

	// MaxDepth bounds nested render calls. Zero disables the guard.
	MaxDepth int

	// IncludeBuiltins controls whether builtin/no-package named types
	// (e.g., "int", "string") are returned as runtime type names. If false, such cases yield "".
	IncludeBuiltins bool

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map).
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int

	// MapPreferElem controls which side of map[K]V is considered “primary”
	// when searching for a nearest named inner type. If true, prefer V; otherwise K.
	MapPreferElem bool

	// Reflector answers "which type does this field point to". A nil Reflector
	// makes relations resolve from the runtime type of the related value.
	Reflector Reflector

	// Logger receives debug traces of render calls. Nil means discard.
	Logger *slog.Logger
}

// Log returns the configured logger or a discarding one.
func (c Config) Log() *slog.Logger {
	if c.Logger == nil {
		return discard
	}
	return c.Logger
}

var discard = slog.New(slog.DiscardHandler)
