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

package builder_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/builder"
	"dirpx.dev/mappers/config"
	"dirpx.dev/mappers/registry"
)

// userType is a plain named type with no special behavior.
// It is used to test fallback via reflection.
type userType struct{}

// hotType implements apis.Namer and is used to verify that the
// Namer-based strategy takes priority over other strategies.
type hotType struct{}

func (hotType) EntityName() string { return "Hot" }

type rule struct{ id string }

func (r rule) Apply(any, apis.Env) (map[string]any, error) {
	return map[string]any{"id": r.id}, nil
}

// TestBuildRegistry_CopiesDefinitions asserts that BuildRegistry migrates
// every definition verbatim and that the copy evolves independently.
func TestBuildRegistry_CopiesDefinitions(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	empty := b.BuildRegistry(cfg, nil, nil)
	require.NotNil(t, empty)
	assert.Zero(t, empty.Count())

	prev := registry.New()
	require.NoError(t, prev.DeclareRule("VehicleMapper", rule{"base"}))
	require.NoError(t, prev.DeclareScope("VehicleMapper", "short", []apis.Rule{rule{"short"}}))
	require.NoError(t, prev.SetDiscriminator("VehicleMapper", true))
	require.NoError(t, prev.Bind("CarMapper", "VehicleMapper"))
	require.NoError(t, prev.DeclareRule("CarMapper", rule{"car"}))

	next := b.BuildRegistry(cfg, prev, nil)
	require.Equal(t, 2, next.Count())

	car, ok := next.Lookup("CarMapper")
	require.True(t, ok)
	assert.Equal(t, "VehicleMapper", car.Parent())
	assert.Equal(t, []apis.Rule{rule{"base"}, rule{"car"}}, car.Rules(), "parent rules are not copied twice")
	assert.Equal(t, []string{"short"}, car.ScopeNames())

	vehicle, ok := next.Lookup("VehicleMapper")
	require.True(t, ok)
	assert.True(t, vehicle.Discriminator())

	require.NoError(t, next.DeclareRule("CarMapper", rule{"later"}))
	old, _ := prev.Lookup("CarMapper")
	assert.Len(t, old.Rules(), 2, "the previous registry is not affected")
}

// TestBuildTypes_MigratesEntries asserts that BuildTypes returns a working
// TypeRegistry carrying the previous entries.
func TestBuildTypes_MigratesEntries(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	prev := b.BuildTypes(cfg, nil, nil)
	require.NotNil(t, prev)
	tt := reflect.TypeOf(userType{})
	require.NoError(t, prev.Register(tt, "User"))

	next := b.BuildTypes(cfg, prev, nil)
	got, ok := next.Lookup(tt)
	require.True(t, ok)
	assert.Equal(t, "User", got)
	assert.Equal(t, 1, next.Count())
}

// TestBuildResolver_Order_NamerThenRegistryThenReflect verifies naming priority:
// 1. If the value implements apis.Namer, use EntityName().
// 2. Otherwise, if the type is registered in the TypeRegistry, use that.
// 3. Otherwise, fall back to the reflect-based strategy.
func TestBuildResolver_Order_NamerThenRegistryThenReflect(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	reg := b.BuildRegistry(cfg, nil, nil)
	types := b.BuildTypes(cfg, nil, nil)

	type fromRegistry struct{}
	require.NoError(t, types.Register(reflect.TypeOf(fromRegistry{}), "Registered"))
	require.NoError(t, types.Register(reflect.TypeOf(hotType{}), "Shadowed"))

	res := b.BuildResolver(cfg, reg, types, nil, nil)
	require.NotNil(t, res)

	assert.Equal(t, "Hot", res.TypeName(hotType{}, cfg), "Namer priority")
	assert.Equal(t, "Registered", res.TypeName(&fromRegistry{}, cfg), "TypeRegistry second")
	assert.Equal(t, "userType", res.TypeName(userType{}, cfg), "reflection fallback")
}

// TestBuildResolver_Relations asserts that the built resolver resolves
// relations against reg.
func TestBuildResolver_Relations(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	reg := b.BuildRegistry(cfg, nil, nil)
	require.NoError(t, reg.Declare("HotMapper"))
	require.NoError(t, reg.Declare("OwnerMapper"))
	require.NoError(t, reg.Declare("userTypeMapper"))
	owner, _ := reg.Lookup("OwnerMapper")

	res := b.BuildResolver(cfg, reg, nil, nil, nil)

	m, err := res.Relation(apis.Request{Field: "x", Explicit: "HotMapper", Caller: owner}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "HotMapper", m.Name())

	type holder struct{ Pal *userType }
	m, err = res.Relation(apis.Request{Source: holder{}, Field: "pal", Caller: owner}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "userTypeMapper", m.Name(), "declared field type")

	runtimeCfg := config.NewConfig(config.WithReflector(nil))
	m, err = res.Relation(apis.Request{Field: "x", Value: hotType{}, Caller: owner}, runtimeCfg)
	require.NoError(t, err)
	assert.Equal(t, "HotMapper", m.Name(), "Namer names the runtime value")
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to ensure
// it is safe to call TypeName and Relation concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.NewConfig(config.WithReflector(nil))

	reg := b.BuildRegistry(cfg, nil, nil)
	require.NoError(t, reg.Declare("HotMapper"))
	require.NoError(t, reg.Declare("userTypeMapper"))
	types := b.BuildTypes(cfg, nil, nil)
	require.NoError(t, types.Register(reflect.TypeOf(hotType{}), "Cold"))

	res := b.BuildResolver(cfg, reg, types, nil, nil)

	values := []any{userType{}, hotType{}, &userType{}, []userType{}}

	var wg sync.WaitGroup
	for w := range runtime.GOMAXPROCS(0) * 4 {
		wg.Go(func() {
			for i := range 2000 {
				v := values[(i+w)%len(values)]
				_ = res.TypeName(v, cfg)
				if _, err := res.Relation(apis.Request{Field: "x", Value: v}, cfg); err != nil {
					t.Error(err)
					return
				}
			}
		})
	}
	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
