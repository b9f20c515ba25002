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

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrUndefinedRelation is returned when reflection knows no target type for a relation field.
	ErrUndefinedRelation = errors.New("mappers: undefined relation")
	// ErrUndefinedMapper is returned when a resolved target type has no registered mapper.
	ErrUndefinedMapper = errors.New("mappers: undefined mapper")
	// ErrInvalidMapperReference is returned when an explicit mapper reference is not registered.
	ErrInvalidMapperReference = errors.New("mappers: invalid mapper reference")
	// ErrNoMapperForResource is returned when polymorphic dispatch finds no mapper
	// for a concrete runtime type. Callers rendering heterogeneous collections may
	// catch it per element.
	ErrNoMapperForResource = errors.New("mappers: no mapper found for this type of resource")
	// ErrScopeNotFound is returned when a requested scope is undeclared and fallback is off.
	ErrScopeNotFound = errors.New("mappers: scope not found")
	// ErrMaxDepthExceeded is returned when nested renders exceed Config.MaxDepth.
	ErrMaxDepthExceeded = errors.New("mappers: maximum render depth exceeded")
)

// ResolutionError reports which names made a resolution fail.
// It unwraps to one of the sentinel errors above.
type ResolutionError struct {
	Kind   error
	Mapper string
	Field  string
	Type   string
	Scope  string
	Depth  int
}

// Error implements error.
func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	parts := make([]string, 0, 5)
	if e.Scope != "" {
		parts = append(parts, "scope named "+e.Scope+" has not been declared")
	}
	if e.Field != "" {
		parts = append(parts, "field "+strconv.Quote(e.Field))
	}
	if e.Type != "" {
		parts = append(parts, "type "+strconv.Quote(e.Type))
	}
	if e.Mapper != "" {
		parts = append(parts, "mapper "+strconv.Quote(e.Mapper))
	}
	if e.Depth > 0 {
		parts = append(parts, "depth "+strconv.Itoa(e.Depth))
	}
	if len(parts) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

// Unwrap returns the sentinel kind.
func (e *ResolutionError) Unwrap() error { return e.Kind }
