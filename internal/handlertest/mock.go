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

package handlertest

import (
	"github.com/stretchr/testify/mock"

	"dirpx.dev/ifx/apis"
)

// Mock is a testify mock of apis.Handler. Expectations match on the member
// name rather than the descriptor pointer:
//
//	m.On("MethodValue", "Foo", []any{"example", 123}, mock.Anything).
//		Run(handlertest.Returns("result"))
type Mock struct {
	mock.Mock
}

// Ensure *Mock implements apis.Handler.
var _ apis.Handler = (*Mock)(nil)

func (m *Mock) MethodValue(md *apis.Method, args []any, results []any) {
	m.Called(md.Name, args, results)
}

func (m *Mock) MethodVoid(md *apis.Method, args []any) {
	m.Called(md.Name, args)
}

func (m *Mock) MethodValueAsync(md *apis.Method, args []any, result any) {
	m.Called(md.Name, args, result)
}

func (m *Mock) MethodVoidAsync(md *apis.Method, args []any) <-chan struct{} {
	ret := m.Called(md.Name, args)
	ch, _ := ret.Get(0).(<-chan struct{})
	return ch
}

func (m *Mock) GetProperty(p *apis.Property, result any) {
	m.Called(p.Name, result)
}

func (m *Mock) SetProperty(p *apis.Property, value any) {
	m.Called(p.Name, value)
}

// Returns builds a Run function that stores values into the result
// destinations of a MethodValue call.
func Returns(values ...any) func(mock.Arguments) {
	return func(a mock.Arguments) {
		if err := storeAll(a.Get(2).([]any), values); err != nil {
			panic(err)
		}
	}
}

// Yields builds a Run function that stores v into the result destination
// of a GetProperty or MethodValueAsync call. pos is the argument position
// of the destination (1 for GetProperty, 2 for MethodValueAsync).
func Yields(pos int, v any) func(mock.Arguments) {
	return func(a mock.Arguments) {
		if err := storeAll([]any{a.Get(pos)}, []any{v}); err != nil {
			panic(err)
		}
	}
}
