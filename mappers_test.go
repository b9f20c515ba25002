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

package mappers

import (
	"reflect"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mappers/apis"
	"dirpx.dev/mappers/builder"
	"dirpx.dev/mappers/config"
	"dirpx.dev/mappers/dsl"
	"dirpx.dev/mappers/registry"
)

// countingBuilder delegates to the default builder and records its inputs.
type countingBuilder struct {
	mu         sync.Mutex
	inner      apis.Builder
	lastCfg    apis.Config
	lastExt    any
	regCounter int
	resCounter int
}

func newCountingBuilder() *countingBuilder {
	return &countingBuilder{inner: builder.New()}
}

func (b *countingBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	b.regCounter++
	return b.inner.BuildRegistry(cfg, prev, ext)
}

func (b *countingBuilder) BuildTypes(cfg apis.Config, prev apis.TypeRegistry, ext any) apis.TypeRegistry {
	return b.inner.BuildTypes(cfg, prev, ext)
}

func (b *countingBuilder) BuildResolver(cfg apis.Config, reg apis.Registry, types apis.TypeRegistry, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	b.resCounter++
	return b.inner.BuildResolver(cfg, reg, types, prev, ext)
}

func (b *countingBuilder) counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter
}

// reset publishes a clean snapshot built by b and restores the defaults
// when the test ends.
func reset(tb testing.TB, b apis.Builder, opts ...config.Option) {
	tb.Helper()
	cfg := config.NewConfig(opts...)
	Reset()
	SetAll(&cfg, nil, nil, nil, b)
	tb.Cleanup(Reset)
}

type Friend struct{ Name string }

type User struct {
	ID        string
	FirstName string
	Friend    *Friend
}

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := newCountingBuilder()
	reset(t, b)

	s1Reg, s1Res := Registry(), Resolver()

	SetConfig(config.NewConfig(config.WithCamelcaseKeys(false), config.WithMaxDepth(4)))

	assert.NotSame(t, s1Reg, Registry(), "registry was not rebuilt on SetConfig (unpinned)")
	assert.NotSame(t, s1Res, Resolver(), "resolver was not rebuilt on SetConfig (unpinned)")

	b.mu.Lock()
	gotCfg := b.lastCfg
	b.mu.Unlock()
	assert.Equal(t, 4, gotCfg.MaxDepth)
	assert.False(t, gotCfg.CamelcaseKeys)
}

func TestSetConfig_KeepsDeclarations(t *testing.T) {
	reset(t, builder.New())
	Define("UserMapper", func(b *dsl.Builder) { b.Attributes("id", "first_name") })
	require.NoError(t, RegisterType(reflect.TypeOf(Friend{}), "Pal"))

	require.NoError(t, Configure(config.WithCamelcaseKeys(false)))

	out, err := Render("UserMapper", User{ID: "1", FirstName: "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{"id": "1", "first_name": "a"}}, out)
	assert.Equal(t, "Pal", TypeName(&Friend{}))
}

func TestConfigure_Validates(t *testing.T) {
	reset(t, builder.New())
	before := Config()

	err := Configure(config.WithIgnoredNamespaces(""))
	require.ErrorIs(t, err, config.ErrEmptyNamespace)
	assert.Equal(t, before.IgnoredNamespaces, Config().IgnoredNamespaces, "invalid configuration is not published")
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	reset(t, newCountingBuilder())

	custom := registry.New()
	SetRegistry(custom)
	assert.True(t, IsRegistryPinned())

	beforeRes := Resolver()
	SetConfig(config.NewConfig(config.WithIncludeBuiltins(true)))

	assert.Same(t, custom, Registry(), "pinned registry was rebuilt unexpectedly")
	assert.NotSame(t, beforeRes, Resolver(), "resolver was not rebuilt when cfg changed and res not pinned")
}

func TestSetResolver_PinsResolver(t *testing.T) {
	reset(t, newCountingBuilder())

	custom := builder.New().BuildResolver(Config(), Registry(), Types(), nil, nil)
	SetResolver(custom)
	assert.True(t, IsResolverPinned())
	regBefore := Registry()

	SetConfig(config.NewConfig(config.WithIncludeBuiltins(true)))

	assert.Same(t, custom, Resolver(), "pinned resolver was rebuilt unexpectedly")
	assert.NotSame(t, regBefore, Registry(), "registry was not rebuilt on SetConfig when resolver is pinned")
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	reset(t, newCountingBuilder())
	PinResolver()
	resBefore := Resolver()

	b := newCountingBuilder()
	SetBuilder(b)

	regs, ress := b.counts()
	assert.Equal(t, 1, regs, "unpinned registry rebuilt by the new builder")
	assert.Zero(t, ress, "pinned resolver left alone")
	assert.Same(t, resBefore, Resolver())
	assert.Same(t, b, Builder())
}

func TestSetExt_Rebuilds_Unpinned_and_PassesValue(t *testing.T) {
	b := newCountingBuilder()
	reset(t, b)

	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	assert.Equal(t, extCfg{X: 42}, got)
	ext, ok := ExtAs[extCfg]()
	require.True(t, ok)
	assert.Equal(t, 42, ext.X)

	PinRegistry()
	PinResolver()
	r1, s1 := b.counts()
	SetExt(extCfg{X: 7})
	r2, s2 := b.counts()
	assert.Equal(t, r1, r2, "SetExt should not rebuild a pinned registry")
	assert.Equal(t, s1, s2, "SetExt should not rebuild a pinned resolver")
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	reset(t, newCountingBuilder())

	SetRegistry(Registry())
	SetResolver(Resolver())
	reg1, res1 := Registry(), Resolver()

	SetConfig(config.NewConfig(config.WithMaxDepth(4)))
	assert.Same(t, reg1, Registry())
	assert.Same(t, res1, Resolver())

	UnpinRegistry()
	UnpinResolver()
	assert.False(t, IsRegistryPinned())
	assert.False(t, IsResolverPinned())

	SetConfig(config.NewConfig(config.WithMaxDepth(6)))
	assert.NotSame(t, reg1, Registry(), "registry should rebuild after UnpinRegistry+SetConfig")
	assert.NotSame(t, res1, Resolver(), "resolver should rebuild after UnpinResolver+SetConfig")
}

type nilBuilder struct{ apis.Builder }

func (nilBuilder) BuildRegistry(apis.Config, apis.Registry, any) apis.Registry { return nil }

func TestNilLayerPanics(t *testing.T) {
	reset(t, builder.New())
	assert.PanicsWithValue(t, ErrNilRegistry, func() { SetBuilder(nilBuilder{builder.New()}) })
	assert.NotNil(t, Registry(), "failed rebuild is not published")
}

func TestRender_Global(t *testing.T) {
	reset(t, builder.New())
	Define("FriendMapper", func(b *dsl.Builder) { b.Attributes("name") })
	Define("UserMapper", func(b *dsl.Builder) {
		b.Attributes("id", "first_name")
		b.Relation("friend")
		b.Scope("tiny", func(b *dsl.Builder) { b.Attributes("id") })
	})
	u := User{ID: "1", FirstName: "Michael", Friend: &Friend{Name: "Nicolas"}}

	out, err := Render("UserMapper", u)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{
		"id":        "1",
		"firstName": "Michael",
		"friend":    map[string]any{"name": "Nicolas"},
	}}, out, spew.Sdump(out))

	out, err = Render("UserMapper", []User{u}, apis.WithScope("tiny"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"users": []any{map[string]any{"id": "1"}}}, out)

	b, err := RenderJSON("UserMapper", u, apis.WithScope("tiny"), apis.Root("me"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"me":{"id":"1"}}`, string(b))

	_, err = RenderJSON("GhostMapper", u)
	assert.ErrorIs(t, err, apis.ErrUndefinedMapper)
	_, err = Render("GhostMapper", u)
	assert.ErrorIs(t, err, apis.ErrUndefinedMapper)
}

func TestRender_ConfigDefaultsFallback(t *testing.T) {
	reset(t, builder.New(), config.WithFallbackOnMissingScope(false))
	Define("UserMapper", func(b *dsl.Builder) { b.Attributes("id") })

	_, err := Render("UserMapper", User{}, apis.WithScope("dza"))
	require.ErrorIs(t, err, apis.ErrScopeNotFound)

	out, err := Render("UserMapper", User{ID: "1"}, apis.WithScope("dza"), apis.FallbackOnMissingScope(true), apis.Rootless())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "1"}, out)
}

func TestRender_IgnoredNamespaces(t *testing.T) {
	reset(t, builder.New(), config.WithIgnoredNamespaces("api"))
	Define("FriendMapper", func(b *dsl.Builder) { b.Attributes("name") })
	m := Define("api.UserMapper", func(b *dsl.Builder) { b.Relation("friend") })

	out, err := m.Render(User{Friend: &Friend{Name: "n"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{"friend": map[string]any{"name": "n"}}}, out)

	h, ok := Lookup("api.UserMapper")
	require.True(t, ok)
	assert.Equal(t, m.Name(), h.Name())
}

func TestReset(t *testing.T) {
	reset(t, builder.New())
	Define("UserMapper")
	require.NoError(t, RegisterType(reflect.TypeOf(Friend{}), "Pal"))

	Reset()
	assert.Zero(t, Registry().Count())
	assert.Zero(t, Types().Count())
	assert.Equal(t, config.DefaultConfig().MaxDepth, Config().MaxDepth)
}

func TestRender_Concurrent_With_SetConfig(t *testing.T) {
	reset(t, builder.New())
	Define("UserMapper", func(b *dsl.Builder) {
		b.Attributes("id")
		b.Scope("s", func(b *dsl.Builder) { b.Attributes("first_name") })
	})
	u := User{ID: "1", FirstName: "a"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 20 {
			SetConfig(config.NewConfig(config.WithMaxDepth(4 + i%5)))
			time.Sleep(time.Millisecond)
		}
	}()

	var wg sync.WaitGroup
	for i := range runtime.GOMAXPROCS(0) * 4 {
		wg.Go(func() {
			scope := ""
			if i%2 == 0 {
				scope = "s"
			}
			for range 500 {
				out, err := Render("UserMapper", u, apis.WithScope(scope), apis.Rootless())
				if err != nil {
					t.Error(err)
					return
				}
				if len(out.(map[string]any)) != 1 {
					t.Errorf("unexpected output %v", out)
					return
				}
			}
		})
	}
	wg.Wait()
	<-done
	assert.Equal(t, "User", TypeName(u))
}
