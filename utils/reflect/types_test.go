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

package reflect_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mappers/apis"
	uref "dirpx.dev/mappers/utils/reflect"
)

type Friend struct{}
type Page[T any] struct{ Items []T }

func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{MaxUnwrap: 8, MapPreferElem: true}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestNormalize_Containers(t *testing.T) {
	want := reflect.TypeOf(Friend{})
	cases := []struct {
		name string
		typ  reflect.Type
	}{
		{"plain", reflect.TypeOf(Friend{})},
		{"ptr", reflect.TypeOf(&Friend{})},
		{"slice of ptr", reflect.TypeOf([]*Friend{})},
		{"array", reflect.TypeOf([2]Friend{})},
		{"chan", reflect.TypeOf((chan Friend)(nil))},
		{"map value", reflect.TypeOf(map[string]Friend{})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ, cfg())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalize_MapPreference(t *testing.T) {
	tMap := reflect.TypeOf(map[string]Friend{})

	got, err := uref.Normalize(tMap, cfg(func(c *apis.Config) { c.MapPreferElem = false }))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), got, "prefer key")

	// Anonymous value falls back to the named key.
	got, err = uref.Normalize(reflect.TypeOf(map[string]struct{ X int }{}), cfg())
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), got)
}

func TestNormalize_MaxUnwrap(t *testing.T) {
	tPP := reflect.TypeOf((**Friend)(nil))

	_, err := uref.Normalize(tPP, cfg(func(c *apis.Config) { c.MaxUnwrap = 1 }))
	assert.ErrorIs(t, err, uref.ErrReflectTypeNotNamed)

	got, err := uref.Normalize(tPP, cfg(func(c *apis.Config) { c.MaxUnwrap = 0 }))
	require.NoError(t, err, "zero means the default limit")
	assert.Equal(t, reflect.TypeOf(Friend{}), got)
}

func TestNormalize_Errors(t *testing.T) {
	_, err := uref.Normalize(nil, cfg())
	assert.ErrorIs(t, err, uref.ErrReflectNilType)

	_, err = uref.Normalize(reflect.TypeOf(struct{ X int }{}), cfg())
	assert.ErrorIs(t, err, uref.ErrReflectTypeNotNamed)
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "Friend", uref.ShortName(reflect.TypeOf(Friend{})))
	assert.Equal(t, "Page", uref.ShortName(reflect.TypeOf(Page[Friend]{})))
	assert.Equal(t, "", uref.ShortName(reflect.TypeOf(struct{}{})))
}

func TestIsBuiltin(t *testing.T) {
	assert.True(t, uref.IsBuiltin(reflect.TypeOf(0)))
	assert.True(t, uref.IsBuiltin(reflect.TypeOf("")))
	assert.False(t, uref.IsBuiltin(reflect.TypeOf(Friend{})))
	assert.False(t, uref.IsBuiltin(reflect.TypeOf([]int{})), "unnamed")
}

func TestIsNil(t *testing.T) {
	var p *Friend
	var m map[string]any
	var e error

	assert.True(t, uref.IsNil(nil))
	assert.True(t, uref.IsNil(p))
	assert.True(t, uref.IsNil(m))
	assert.True(t, uref.IsNil(e))
	assert.False(t, uref.IsNil(Friend{}))
	assert.False(t, uref.IsNil(0))
	assert.False(t, uref.IsNil(&Friend{}))
}

func TestNormalize_Concurrent(t *testing.T) {
	types := []reflect.Type{
		reflect.TypeOf(Friend{}),
		reflect.TypeOf(&Friend{}),
		reflect.TypeOf([]Friend{}),
		reflect.TypeOf(map[string]Friend{}),
		reflect.TypeOf(Page[int]{}),
		reflect.TypeOf(0),
	}
	conf := cfg()

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for range workers {
		wg.Go(func() {
			for i := range iters {
				if _, err := uref.Normalize(types[i%len(types)], conf); err != nil {
					errCh <- err
					return
				}
			}
		})
	}
	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatal(e)
	}
}

func BenchmarkNormalize(b *testing.B) {
	types := []reflect.Type{
		reflect.TypeOf(Friend{}),
		reflect.TypeOf(&Friend{}),
		reflect.TypeOf([]*Friend{}),
		reflect.TypeOf(map[string]Friend{}),
	}
	conf := cfg()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = uref.Normalize(types[i%len(types)], conf)
	}
}
