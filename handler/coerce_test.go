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

package handler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ifx"
	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/handler"
	"dirpx.dev/ifx/internal/testshapes"
)

// untyped answers from a table keyed by member name.
type untyped struct {
	values map[string]any
	set    map[string]any
}

func (u *untyped) Method(m *apis.Method, _ []any) any {
	return u.values[m.Name]
}

func (u *untyped) GetProperty(p *apis.Property) any {
	return u.values[p.Name]
}

func (u *untyped) SetProperty(p *apis.Property, v any) any {
	u.set[p.Name] = v
	return nil
}

func TestCoerce_ForwardsPlainValues(t *testing.T) {
	fetched := make(chan string, 1)
	fetched <- "f"
	done := make(chan struct{})
	close(done)

	u := &untyped{
		values: map[string]any{
			"Greet": "hi",
			"Sum":   int64(6), // converted to int
			"Split": []any{"a", "b", nil},
			"Fetch": fetched, // bidirectional channel
			"Flush": done,
			"ID":    7,
			"Name":  "n",
		},
		set: map[string]any{},
	}

	g, err := ifx.Create[testshapes.Greeter](handler.Coerce(u))
	require.NoError(t, err)

	assert.Equal(t, "hi", g.Greet("x", 1))
	assert.Equal(t, 6, g.Sum(1, 2, 3))
	head, tail, err := g.Split("a/b")
	assert.Equal(t, "a", head)
	assert.Equal(t, "b", tail)
	assert.NoError(t, err)
	assert.Equal(t, "f", <-g.Fetch(1))
	<-g.Flush()
	assert.Equal(t, 7, g.GetID())
	assert.Equal(t, "n", g.GetName())

	g.SetName("m")
	assert.Equal(t, "m", u.set["Name"])
	g.Reset()
}

func TestCoerce_ErrorResult(t *testing.T) {
	boom := errors.New("boom")
	u := &untyped{values: map[string]any{"Save": boom}, set: map[string]any{}}

	s, err := ifx.Create[testshapes.Store[string, int]](handler.Coerce(u))
	require.NoError(t, err)
	assert.Same(t, boom, s.Save(context.Background(), "k", 1))
}

func TestCoerce_IncompatibleValuePanics(t *testing.T) {
	u := &untyped{
		values: map[string]any{"Greet": 42, "Split": "not a slice", "Flush": "nope"},
		set:    map[string]any{},
	}

	g, err := ifx.Create[testshapes.Greeter](handler.Coerce(u))
	require.NoError(t, err)

	for name, call := range map[string]func(){
		"Greet": func() { g.Greet("x", 1) },
		"Split": func() { _, _, _ = g.Split("x") },
		"Flush": func() { g.Flush() },
	} {
		t.Run(name, func(t *testing.T) {
			var got any
			func() {
				defer func() { got = recover() }()
				call()
			}()
			ce, ok := got.(*handler.CoercionError)
			require.True(t, ok, "panic value %T", got)
			assert.Equal(t, name, ce.Member)
		})
	}
}
