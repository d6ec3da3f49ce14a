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
	"reflect"

	"dirpx.dev/ifx/apis"
)

// Coerce adapts an untyped handler to the typed protocol.
//
// Values returned by u are stored into the adapter's result destinations
// with Assign. A value that cannot be stored panics with *CoercionError,
// just like a panic raised by a typed handler: it reaches the caller of the
// adapted member unchanged.
func Coerce(u apis.UntypedHandler) apis.Handler {
	return &coerced{u: u}
}

type coerced struct {
	u apis.UntypedHandler
}

// Ensure *coerced implements apis.Handler.
var _ apis.Handler = (*coerced)(nil)

func (c *coerced) MethodValue(m *apis.Method, args []any, results []any) {
	v := c.u.Method(m, args)
	if len(results) == 1 {
		must(m.Name, Assign(results[0], v))
		return
	}
	vs, ok := v.([]any)
	if !ok {
		panic(&CoercionError{
			Member: m.Name,
			From:   reflect.TypeOf(v),
			To:     reflect.TypeFor[[]any](),
			Reason: "multi-result methods expect a []any",
		})
	}
	must(m.Name, Store(results, vs...))
}

func (c *coerced) MethodVoid(m *apis.Method, args []any) {
	_ = c.u.Method(m, args)
}

func (c *coerced) MethodValueAsync(m *apis.Method, args []any, result any) {
	must(m.Name, Assign(result, c.u.Method(m, args)))
}

func (c *coerced) MethodVoidAsync(m *apis.Method, args []any) <-chan struct{} {
	switch ch := c.u.Method(m, args).(type) {
	case nil:
		return nil
	case <-chan struct{}:
		return ch
	case chan struct{}:
		return ch
	default:
		panic(&CoercionError{
			Member: m.Name,
			From:   reflect.TypeOf(ch),
			To:     reflect.TypeFor[<-chan struct{}](),
			Reason: "incompatible types",
		})
	}
}

func (c *coerced) GetProperty(p *apis.Property, result any) {
	must(p.Name, Assign(result, c.u.GetProperty(p)))
}

func (c *coerced) SetProperty(p *apis.Property, value any) {
	_ = c.u.SetProperty(p, value)
}

func must(member string, err error) {
	if err == nil {
		return
	}
	if ce, ok := err.(*CoercionError); ok && ce.Member == "" {
		ce.Member = member
	}
	panic(err)
}
