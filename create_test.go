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

package ifx_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ifx"
	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/factory"
	"dirpx.dev/ifx/handler"
	"dirpx.dev/ifx/internal/handlertest"
	"dirpx.dev/ifx/internal/testshapes"
)

func TestCreate_ForwardsToHandler(t *testing.T) {
	h := &handlertest.Mock{}
	h.On("MethodValue", "Foo", []any{"example", 123}, mock.Anything).
		Run(handlertest.Returns("ok")).Once()
	h.On("GetProperty", "Bar", mock.Anything).Run(handlertest.Yields(1, "bar")).Once()

	s, err := ifx.Create[testshapes.Sample](h)
	require.NoError(t, err)
	assert.Equal(t, "ok", s.Foo("example", 123))
	assert.Equal(t, "bar", s.GetBar())
	h.AssertExpectations(t)
}

func TestCreate_RejectsStructs(t *testing.T) {
	before := ifx.Cache().Len()

	_, err := ifx.Create[testshapes.Widget](&handlertest.Recorder{})
	require.ErrorIs(t, err, apis.ErrNotInterface)
	_, err = ifx.CreateType(reflect.TypeFor[testshapes.Widget](), &handlertest.Recorder{})
	require.ErrorIs(t, err, apis.ErrNotInterface)

	assert.Equal(t, before, ifx.Cache().Len())
	for _, tt := range ifx.Cache().Types() {
		assert.NotEqual(t, reflect.TypeFor[testshapes.Widget](), tt)
	}
}

func TestCreateType_PointerToInterface(t *testing.T) {
	v, err := ifx.CreateType(reflect.TypeOf((*testshapes.Greeter)(nil)), &handlertest.Recorder{})
	require.NoError(t, err)
	assert.Implements(t, (*testshapes.Greeter)(nil), v)
}

func TestMustCreate_PanicsWithoutBinding(t *testing.T) {
	assert.Panics(t, func() { ifx.MustCreate[testshapes.Unbound](&handlertest.Recorder{}) })
	assert.NotPanics(t, func() { ifx.MustCreate[testshapes.Sample](&handlertest.Recorder{}) })
}

func TestAdapt_RegistersNewInstantiationOnDemand(t *testing.T) {
	tt := reflect.TypeFor[testshapes.Echo[float64]]()
	rec := &handlertest.Recorder{Reply: func(_ apis.Member, args []any) []any { return args }}

	e, err := testshapes.AdaptEcho[float64](rec)
	require.NoError(t, err)
	assert.Equal(t, 1.5, e.Foo(1.5))

	b, ok := ifx.Registry().Lookup(tt)
	require.True(t, ok)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[float64]()}, b.TypeArgs)

	ei, err := ifx.Create[testshapes.Echo[int]](rec)
	require.NoError(t, err)
	assert.NotEqual(t, reflect.TypeOf(e), reflect.TypeOf(ei))

	// A second request for the same instantiation reuses the implementation.
	e2, err := ifx.Create[testshapes.Echo[float64]](rec)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(e), reflect.TypeOf(e2))
}

func TestInstantiator_ExposesDescriptors(t *testing.T) {
	inst, err := ifx.Instantiator(reflect.TypeFor[testshapes.Store[string, int]]())
	require.NoError(t, err)

	shape := inst.Shape()
	require.Len(t, shape.Properties, 1)
	assert.Equal(t, "Len", shape.Properties[0].Name)
	assert.True(t, shape.Properties[0].CanRead())
	assert.False(t, shape.Properties[0].CanWrite())

	watch, ok := shape.Method("Watch")
	require.True(t, ok)
	assert.Equal(t, apis.CallValueAsync, watch.Call)
	assert.Equal(t, reflect.TypeFor[int](), watch.Result)
	assert.True(t, watch.Generic)

	_, err = ifx.Instantiator(reflect.TypeFor[testshapes.Unbound]())
	require.ErrorIs(t, err, factory.ErrNoBinding)
}

func TestAdapt_InstantiationsKeepGeneratedLayout(t *testing.T) {
	boom := errors.New("boom")
	ch := make(<-chan int)

	tests := map[string]struct {
		adapt func(h apis.Handler) (func(), error)
		reply any
	}{
		"error": {
			adapt: func(h apis.Handler) (func(), error) {
				e, err := testshapes.AdaptEcho[error](h)
				if err != nil {
					return nil, err
				}
				return func() {
					assert.Equal(t, boom, e.Foo(boom))
					assert.Equal(t, boom, e.GetLast())
					e.SetLast(boom)
				}, nil
			},
			reply: boom,
		},
		"receive channel": {
			adapt: func(h apis.Handler) (func(), error) {
				e, err := testshapes.AdaptEcho[<-chan int](h)
				if err != nil {
					return nil, err
				}
				return func() {
					assert.Equal(t, ch, e.Foo(ch))
					assert.Equal(t, ch, e.GetLast())
					e.SetLast(ch)
				}, nil
			},
			reply: ch,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rec := &handlertest.Recorder{Reply: func(apis.Member, []any) []any { return []any{tc.reply} }}

			use, err := tc.adapt(rec)
			require.NoError(t, err)
			use()

			assert.Equal(t, 1, rec.Count("MethodValue", "Foo"))
			assert.Equal(t, 1, rec.Count("GetProperty", "Last"))
			assert.Equal(t, 1, rec.Count("SetProperty", "Last"))
			assert.Len(t, rec.Calls(), 3)
		})
	}
}

func TestAdapt_EmptyStructValueStaysValueAsync(t *testing.T) {
	rec := &handlertest.Recorder{}

	s, err := testshapes.AdaptStore[string, struct{}](rec)
	require.NoError(t, err)
	s.Watch("k")

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "MethodValueAsync", calls[0].Op)
	watch, ok := calls[0].Member.(*apis.Method)
	require.True(t, ok)
	assert.Equal(t, apis.CallValueAsync, watch.Call)
	assert.Equal(t, reflect.TypeFor[struct{}](), watch.Result)
	assert.Equal(t, []any{"k"}, calls[0].Args)
}

// greetings answers Sample.Foo with its arguments joined by '#'.
type greetings struct{}

func (greetings) Method(m *apis.Method, args []any) any {
	return fmt.Sprintf("%v#%v", args[0], args[1])
}

func (greetings) GetProperty(*apis.Property) any { return "" }

func (greetings) SetProperty(*apis.Property, any) any { return nil }

func ExampleCreate() {
	s, err := ifx.Create[testshapes.Sample](handler.Coerce(greetings{}))
	if err != nil {
		panic(err)
	}
	fmt.Println(s.Foo("example", 123))
	// Output: example#123
}
