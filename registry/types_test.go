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

package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mappers/config"
	"dirpx.dev/mappers/registry"
	uref "dirpx.dev/mappers/utils/reflect"
)

type AdminUser struct{}
type Invoice struct{}

func TestTypes_RegisterIdempotentAndLookup(t *testing.T) {
	reg := registry.NewTypes(config.DefaultConfig())

	require.NoError(t, reg.Register(reflect.TypeOf(&AdminUser{}), "admin.User"))
	require.NoError(t, reg.Register(reflect.TypeOf(AdminUser{}), "admin.User"), "idempotent")

	name, ok := reg.Lookup(reflect.TypeOf(&AdminUser{}))
	assert.True(t, ok)
	assert.Equal(t, "admin.User", name)

	name, ok = reg.Lookup(reflect.TypeOf([]AdminUser{}))
	assert.True(t, ok, "containers normalize to the same base")
	assert.Equal(t, "admin.User", name)

	assert.Equal(t, 1, reg.Count())
}

func TestTypes_Conflict(t *testing.T) {
	reg := registry.NewTypes(config.DefaultConfig())

	require.NoError(t, reg.Register(reflect.TypeOf(&AdminUser{}), "admin.User"))
	err := reg.Register(reflect.TypeOf([]*AdminUser{}), "User")
	assert.ErrorIs(t, err, registry.ErrConflictingRegistration)
}

func TestTypes_Errors(t *testing.T) {
	reg := registry.NewTypes(config.DefaultConfig())

	assert.ErrorIs(t, reg.Register(nil, "x"), registry.ErrNilType)
	assert.ErrorIs(t, reg.Register(reflect.TypeOf(Invoice{}), ""), registry.ErrEmptyName)
	assert.ErrorIs(t, reg.Register(reflect.TypeOf(struct{}{}), "x"), uref.ErrReflectTypeNotNamed)
}

func TestTypes_MaxUnwrapLimit(t *testing.T) {
	tPP := reflect.TypeOf((**Invoice)(nil))

	cfg := config.DefaultConfig()
	cfg.MaxUnwrap = 1
	assert.Error(t, registry.NewTypes(cfg).Register(tPP, "billing.Invoice"))

	assert.NoError(t, registry.NewTypes(config.DefaultConfig()).Register(tPP, "billing.Invoice"))
}

func TestTypes_EntriesAndReset(t *testing.T) {
	reg := registry.NewTypes(config.DefaultConfig())

	_ = reg.Register(reflect.TypeOf(&AdminUser{}), "admin.User")
	_ = reg.Register(reflect.TypeOf(&Invoice{}), "billing.Invoice")

	assert.Len(t, reg.Entries(), 2)
	assert.Equal(t, 2, reg.Count())

	reg.Reset()

	assert.Equal(t, 0, reg.Count())
	_, ok := reg.Lookup(reflect.TypeOf(&AdminUser{}))
	assert.False(t, ok)
}

func TestTypes_LookupNilAndUnknown(t *testing.T) {
	reg := registry.NewTypes(config.DefaultConfig())

	_, ok := reg.Lookup(nil)
	assert.False(t, ok)
	_, ok = reg.Lookup(reflect.TypeOf(Invoice{}))
	assert.False(t, ok)
}
