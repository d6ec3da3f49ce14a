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

// Package handlertest provides handlers for tests: a Recorder that keeps a
// log of every forwarded access and a testify Mock.
package handlertest

import (
	"reflect"
	"sync"

	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/handler"
)

// Call is one recorded member access.
type Call struct {
	// Op is the handler operation name ("MethodValue", "GetProperty", ...).
	Op string
	// Member is the accessed member.
	Member apis.Member
	// Args holds the forwarded arguments (for SetProperty, the value).
	Args []any
	// Dest holds the element types of the result destinations the adapter
	// offered, in order.
	Dest []reflect.Type
}

// Recorder records every forwarded access. It is safe for concurrent use.
type Recorder struct {
	// Reply, when set, supplies the values stored into result destinations
	// (one per result; the channel for asynchronous methods).
	Reply func(m apis.Member, args []any) []any

	mu    sync.Mutex
	calls []Call
}

// Ensure *Recorder implements apis.Handler.
var _ apis.Handler = (*Recorder)(nil)

// Calls returns a copy of the recorded accesses in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times op was invoked for the member named name.
func (r *Recorder) Count(op, name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op && c.Member.MemberName() == name {
			n++
		}
	}
	return n
}

func (r *Recorder) record(op string, m apis.Member, args []any, dest ...any) {
	c := Call{Op: op, Member: m, Args: args}
	for _, d := range dest {
		c.Dest = append(c.Dest, reflect.TypeOf(d).Elem())
	}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

func (r *Recorder) reply(m apis.Member, args []any) []any {
	if r.Reply == nil {
		return nil
	}
	return r.Reply(m, args)
}

func (r *Recorder) MethodValue(m *apis.Method, args []any, results []any) {
	r.record("MethodValue", m, args, results...)
	if vs := r.reply(m, args); vs != nil {
		if err := handler.Store(results, vs...); err != nil {
			panic(err)
		}
	}
}

func (r *Recorder) MethodVoid(m *apis.Method, args []any) {
	r.record("MethodVoid", m, args)
	r.reply(m, args)
}

func (r *Recorder) MethodValueAsync(m *apis.Method, args []any, result any) {
	r.record("MethodValueAsync", m, args, result)
	if vs := r.reply(m, args); len(vs) > 0 {
		if err := handler.Assign(result, vs[0]); err != nil {
			panic(err)
		}
	}
}

func (r *Recorder) MethodVoidAsync(m *apis.Method, args []any) <-chan struct{} {
	r.record("MethodVoidAsync", m, args)
	var ch <-chan struct{}
	if vs := r.reply(m, args); len(vs) > 0 {
		if err := handler.Assign(&ch, vs[0]); err != nil {
			panic(err)
		}
	}
	return ch
}

func (r *Recorder) GetProperty(p *apis.Property, result any) {
	r.record("GetProperty", p, nil, result)
	if vs := r.reply(p, nil); len(vs) > 0 {
		if err := handler.Assign(result, vs[0]); err != nil {
			panic(err)
		}
	}
}

func (r *Recorder) SetProperty(p *apis.Property, value any) {
	r.record("SetProperty", p, []any{value})
	r.reply(p, []any{value})
}

func storeAll(results, values []any) error {
	return handler.Store(results, values...)
}
