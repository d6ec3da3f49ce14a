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

package handler

import (
	"fmt"
	"reflect"

	"dirpx.dev/ifx/apis"
)

// PassThrough returns a handler that forwards every member access to impl
// through the interface T. It panics if T is not an interface type or impl
// is nil.
//
// It is the building block of decorators: wrap its result with Audit,
// Instrument or Trace and adapt the whole to T again.
func PassThrough[T any](impl T) apis.Handler {
	target := reflect.ValueOf(&impl).Elem()
	if target.Kind() != reflect.Interface {
		panic(fmt.Errorf("%w: %s", apis.ErrNotInterface, target.Type()))
	}
	if target.IsNil() {
		panic(fmt.Sprintf("ifx(handler): nil %s target", target.Type()))
	}
	return &passThrough{target: target}
}

type passThrough struct {
	// target is an interface-kinded value, so Method(i) follows the
	// interface method order used by descriptors.
	target reflect.Value
}

// Ensure *passThrough implements apis.Handler.
var _ apis.Handler = (*passThrough)(nil)

func (p *passThrough) MethodValue(m *apis.Method, args []any, results []any) {
	out := p.call(m.Index, m.Variadic, args)
	for i, r := range results {
		reflect.ValueOf(r).Elem().Set(out[i])
	}
}

func (p *passThrough) MethodVoid(m *apis.Method, args []any) {
	p.call(m.Index, m.Variadic, args)
}

func (p *passThrough) MethodValueAsync(m *apis.Method, args []any, result any) {
	out := p.call(m.Index, m.Variadic, args)
	reflect.ValueOf(result).Elem().Set(out[0])
}

func (p *passThrough) MethodVoidAsync(m *apis.Method, args []any) <-chan struct{} {
	out := p.call(m.Index, m.Variadic, args)
	return out[0].Interface().(<-chan struct{})
}

func (p *passThrough) GetProperty(prop *apis.Property, result any) {
	out := p.call(prop.Getter, false, nil)
	reflect.ValueOf(result).Elem().Set(out[0])
}

func (p *passThrough) SetProperty(prop *apis.Property, value any) {
	p.call(prop.Setter, false, []any{value})
}

func (p *passThrough) call(index int, variadic bool, args []any) []reflect.Value {
	fn := p.target.Method(index)
	ft := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			// untyped nil for an interface, pointer, map, slice, chan or func parameter
			in[i] = reflect.Zero(ft.In(i))
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	if variadic {
		return fn.CallSlice(in)
	}
	return fn.Call(in)
}
