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

package apis

// Handler receives every member access forwarded by an adapter.
//
// Results travel through typed destination pointers, in the spirit of
// database/sql's Rows.Scan: the dynamic type of a destination carries the
// result type resolved at the call site. A handler stores into them and
// returns; the adapter hands the stored values back to its caller unchanged.
//
// Adapters call the handler synchronously and never recover its panics.
// Handlers are supplied by the caller and are never owned by ifx.
type Handler interface {
	// MethodValue handles a method with results. results[i] is a non-nil
	// pointer to the i-th declared result.
	MethodValue(m *Method, args []any, results []any)
	// MethodVoid handles a method without results.
	MethodVoid(m *Method, args []any)
	// MethodValueAsync handles a method returning <-chan T. result is a
	// non-nil *(<-chan T). The adapter returns the stored channel without
	// receiving from it.
	MethodValueAsync(m *Method, args []any, result any)
	// MethodVoidAsync handles a method returning <-chan struct{}. The adapter
	// returns the channel without receiving from it.
	MethodVoidAsync(m *Method, args []any) <-chan struct{}
	// GetProperty handles a property read. result is a non-nil *T.
	GetProperty(p *Property, result any)
	// SetProperty handles a property write.
	SetProperty(p *Property, value any)
}

// UntypedHandler is the simpler protocol for handlers that exchange plain
// values. Adapt it to Handler with handler.Coerce.
//
// Method returns nil for methods without results, the value for
// single-result methods (including the channel of asynchronous methods) and
// a []any in declaration order for multi-result methods.
type UntypedHandler interface {
	Method(m *Method, args []any) any
	GetProperty(p *Property) any
	SetProperty(p *Property, value any) any
}

// MethodValue forwards a single-result method to h and returns the value h
// stored. T is the result type in effect at the call site.
func MethodValue[T any](h Handler, m *Method, args ...any) T {
	var r T
	h.MethodValue(m, pack(args), []any{&r})
	return r
}

// MethodValueAsync forwards a method returning <-chan T to h. The returned
// channel is not received from.
func MethodValueAsync[T any](h Handler, m *Method, args ...any) <-chan T {
	var r <-chan T
	h.MethodValueAsync(m, pack(args), &r)
	return r
}

// GetProperty forwards a property read to h.
func GetProperty[T any](h Handler, p *Property) T {
	var r T
	h.GetProperty(p, &r)
	return r
}

// pack turns a nil variadic argument list into an empty one so handlers
// always see a non-nil sequence.
func pack(args []any) []any {
	if args == nil {
		return []any{}
	}
	return args
}
