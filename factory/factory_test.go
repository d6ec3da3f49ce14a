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

package factory_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ifx"
	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/config"
	"dirpx.dev/ifx/factory"
	"dirpx.dev/ifx/instantiator"
	"dirpx.dev/ifx/internal/handlertest"
	"dirpx.dev/ifx/internal/testshapes"
	"dirpx.dev/ifx/registry"
)

var generatedShapes = []reflect.Type{
	reflect.TypeFor[testshapes.Greeter](),
	reflect.TypeFor[testshapes.Sample](),
	reflect.TypeFor[testshapes.Echo[int]](),
	reflect.TypeFor[testshapes.Echo[string]](),
	reflect.TypeFor[testshapes.Store[string, int]](),
}

// newFactory returns a private factory over the generated test bindings.
func newFactory(t *testing.T, opts ...factory.Option) (*factory.Factory, apis.Cache) {
	t.Helper()
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	for _, tt := range generatedShapes {
		b, ok := ifx.Registry().Lookup(tt)
		require.True(t, ok, "no generated binding for %s", tt)
		require.NoError(t, reg.Register(b))
	}
	cache := instantiator.NewCache(cfg)
	return factory.New(cfg, reg, cache, opts...), cache
}

func TestCreate_SameShapeSharesImplementation(t *testing.T) {
	f, cache := newFactory(t)

	a, err := factory.Create[testshapes.Sample](f, &handlertest.Recorder{})
	require.NoError(t, err)
	b, err := factory.Create[testshapes.Sample](f, &handlertest.Recorder{})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, reflect.TypeOf(a), reflect.TypeOf(b))
	assert.Equal(t, 1, cache.Len())
}

func TestCreate_GenericInstantiationsAreDistinct(t *testing.T) {
	f, cache := newFactory(t)

	ei, err := factory.Create[testshapes.Echo[int]](f, &handlertest.Recorder{})
	require.NoError(t, err)
	es, err := factory.Create[testshapes.Echo[string]](f, &handlertest.Recorder{})
	require.NoError(t, err)

	assert.NotEqual(t, reflect.TypeOf(ei), reflect.TypeOf(es))
	assert.Equal(t, 2, cache.Len())
}

func TestCreate_PropertyAccessForwardsOnce(t *testing.T) {
	f, _ := newFactory(t)
	h := &handlertest.Mock{}
	h.On("GetProperty", "Bar", mock.Anything).Run(handlertest.Yields(1, "from-handler")).Once()
	h.On("SetProperty", "Bar", "assigned").Once()

	s, err := factory.Create[testshapes.Sample](f, h)
	require.NoError(t, err)

	assert.Equal(t, "from-handler", s.GetBar())
	s.SetBar("assigned")

	h.AssertExpectations(t)
	h.AssertNumberOfCalls(t, "GetProperty", 1)
	h.AssertNumberOfCalls(t, "SetProperty", 1)
	h.AssertNotCalled(t, "MethodValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_SetterOnlyPropertyForwardsOnce(t *testing.T) {
	f, _ := newFactory(t)
	rec := &handlertest.Recorder{}

	g, err := factory.Create[testshapes.Greeter](f, rec)
	require.NoError(t, err)

	g.SetMood("calm")

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "SetProperty", calls[0].Op)
	assert.Equal(t, []any{"calm"}, calls[0].Args)
	assert.Equal(t, 1, rec.Count("SetProperty", "Mood"))
	assert.Zero(t, rec.Count("GetProperty", "Mood"))

	mood, ok := calls[0].Member.(*apis.Property)
	require.True(t, ok)
	assert.Equal(t, apis.AccessWrite, mood.Access())
	assert.Equal(t, reflect.TypeFor[string](), mood.Type)
}

func TestCreate_MethodForwardsArgumentsInOrder(t *testing.T) {
	f, _ := newFactory(t)
	h := &handlertest.Mock{}
	h.On("MethodValue", "Foo", []any{"example", 123}, mock.Anything).
		Run(handlertest.Returns("handled")).Once()

	s, err := factory.Create[testshapes.Sample](f, h)
	require.NoError(t, err)

	assert.Equal(t, "handled", s.Foo("example", 123))
	h.AssertExpectations(t)
}

func TestCreate_GenericResultResolvesToTypeArgument(t *testing.T) {
	f, _ := newFactory(t)
	rec := &handlertest.Recorder{
		Reply: func(m apis.Member, args []any) []any { return []any{args[0].(int) * 2} },
	}

	e, err := factory.Create[testshapes.Echo[int]](f, rec)
	require.NoError(t, err)
	assert.Equal(t, 14, e.Foo(7))

	calls := rec.Calls()
	require.Len(t, calls, 1)
	m := calls[0].Member.(*apis.Method)
	assert.True(t, m.Generic)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[int]()}, calls[0].Dest)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[int]()}, m.In)
}

func TestCreate_RejectsNonInterfaces(t *testing.T) {
	f, cache := newFactory(t)
	h := &handlertest.Recorder{}

	for _, tt := range []reflect.Type{
		reflect.TypeFor[testshapes.Widget](),
		reflect.TypeFor[*testshapes.Widget](),
		reflect.TypeFor[int](),
		reflect.TypeFor[func()](),
	} {
		_, err := f.Create(tt, h)
		require.ErrorIs(t, err, apis.ErrNotInterface, "type %s", tt)
	}

	_, err := factory.Create[testshapes.Widget](f, h)
	require.ErrorIs(t, err, apis.ErrNotInterface)

	// A pointer to an interface is only accepted by the untyped form.
	_, err = factory.Create[*testshapes.Sample](f, h)
	require.ErrorIs(t, err, apis.ErrNotInterface)

	assert.Equal(t, 0, cache.Len())
	assert.Empty(t, h.Calls())
}

func TestCreate_PointerToInterfaceDenotesInterface(t *testing.T) {
	f, _ := newFactory(t)

	v, err := f.Create(reflect.TypeOf((*testshapes.Sample)(nil)), &handlertest.Recorder{})
	require.NoError(t, err)
	_, ok := v.(testshapes.Sample)
	assert.True(t, ok)
}

func TestCreate_NoBinding(t *testing.T) {
	f, cache := newFactory(t)

	_, err := factory.Create[testshapes.Unbound](f, &handlertest.Recorder{})
	require.ErrorIs(t, err, factory.ErrNoBinding)
	assert.Equal(t, 0, cache.Len())
}

func TestCreate_NilHandler(t *testing.T) {
	f, _ := newFactory(t)

	_, err := factory.Create[testshapes.Sample](f, nil)
	require.ErrorIs(t, err, factory.ErrNilHandler)
}

func TestCreate_AsyncHandlesAreNotAwaited(t *testing.T) {
	f, _ := newFactory(t)
	values := make(chan string, 1)
	done := make(chan struct{})
	rec := &handlertest.Recorder{
		Reply: func(m apis.Member, _ []any) []any {
			switch m.MemberName() {
			case "Fetch":
				return []any{(<-chan string)(values)}
			case "Flush":
				return []any{(<-chan struct{})(done)}
			}
			return nil
		},
	}

	g, err := factory.Create[testshapes.Greeter](f, rec)
	require.NoError(t, err)

	// Neither channel has been written to or closed; both calls return.
	fetch := g.Fetch(1)
	flush := g.Flush()

	values <- "late"
	assert.Equal(t, "late", <-fetch)
	close(done)
	_, open := <-flush
	assert.False(t, open)

	assert.Equal(t, 1, rec.Count("MethodValueAsync", "Fetch"))
	assert.Equal(t, 1, rec.Count("MethodVoidAsync", "Flush"))
}

func TestCreate_MultiResultAndVariadic(t *testing.T) {
	f, _ := newFactory(t)
	rec := &handlertest.Recorder{
		Reply: func(m apis.Member, args []any) []any {
			switch m.MemberName() {
			case "Split":
				return []any{"a", "b", nil}
			case "Sum":
				n := 0
				for _, v := range args[0].([]int) {
					n += v
				}
				return []any{n}
			}
			return nil
		},
	}

	g, err := factory.Create[testshapes.Greeter](f, rec)
	require.NoError(t, err)

	head, tail, err := g.Split("a/b")
	require.NoError(t, err)
	assert.Equal(t, "a", head)
	assert.Equal(t, "b", tail)
	assert.Equal(t, 6, g.Sum(1, 2, 3))

	g.Reset()
	assert.Equal(t, 1, rec.Count("MethodVoid", "Reset"))
}

func TestCreate_HandlerPanicPropagates(t *testing.T) {
	f, _ := newFactory(t)
	boom := errors.New("boom")
	rec := &handlertest.Recorder{
		Reply: func(apis.Member, []any) []any { panic(boom) },
	}

	g, err := factory.Create[testshapes.Greeter](f, rec)
	require.NoError(t, err)
	assert.PanicsWithError(t, "boom", func() { g.Reset() })
}

func TestCreate_ContextArgumentIsForwarded(t *testing.T) {
	f, _ := newFactory(t)
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	rec := &handlertest.Recorder{
		Reply: func(m apis.Member, args []any) []any {
			if m.MemberName() == "Load" {
				return []any{len(args[1].(string)), nil}
			}
			return nil
		},
	}

	s, err := factory.Create[testshapes.Store[string, int]](f, rec)
	require.NoError(t, err)
	n, err := s.Load(ctx, "four")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ctx, calls[0].Args[0])
	assert.Equal(t, []reflect.Type{reflect.TypeFor[int](), reflect.TypeFor[error]()}, calls[0].Dest)
}

func TestCreate_ConcurrentFirstUse(t *testing.T) {
	f, cache := newFactory(t)

	workers := runtime.GOMAXPROCS(0) * 8
	start := make(chan struct{})
	types := make([]reflect.Type, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			<-start
			g, err := factory.Create[testshapes.Greeter](f, &handlertest.Recorder{})
			if err != nil {
				t.Errorf("worker %d: %v", id, err)
				return
			}
			types[id] = reflect.TypeOf(g)
		}(w)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, cache.Len())
	for _, tt := range types {
		assert.Equal(t, types[0], tt)
	}
}

func TestBind_RejectsConflictingOrigin(t *testing.T) {
	f, _ := newFactory(t)
	b, ok := f.Registry().Lookup(reflect.TypeFor[testshapes.Sample]())
	require.True(t, ok)

	// Same origin: idempotent.
	_, err := factory.Bind[testshapes.Sample](f, b, &handlertest.Recorder{})
	require.NoError(t, err)

	b.Origin = "example.com/other.Sample"
	_, err = factory.Bind[testshapes.Sample](f, b, &handlertest.Recorder{})
	require.ErrorIs(t, err, registry.ErrConflictingBinding)
}

func TestCreate_LogsPreparation(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f, _ := newFactory(t, factory.WithLogger(log))

	_, err := factory.Create[testshapes.Sample](f, &handlertest.Recorder{})
	require.NoError(t, err)
	_, err = factory.Create[testshapes.Sample](f, &handlertest.Recorder{})
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("prepared implementation")), out)
	assert.Contains(t, out, "testshapes.Sample")
}
