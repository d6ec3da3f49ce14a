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
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/ifx/apis"
)

// Audit wraps next so every forwarded member access is logged to log.
//
// Each access gets a fresh call id. The access is logged at Info before
// next runs and at Debug after it returns. Asynchronous handles are passed
// back without waiting for them. Panics from next propagate unchanged.
func Audit(next apis.Handler, log *slog.Logger) apis.Handler {
	if log == nil {
		log = slog.Default()
	}
	return &audited{next: next, log: log}
}

type audited struct {
	next apis.Handler
	log  *slog.Logger
}

// Ensure *audited implements apis.Handler.
var _ apis.Handler = (*audited)(nil)

func (a *audited) begin(op string, m apis.Member, args int) (string, time.Time) {
	id := uuid.NewString()
	a.log.Info("ifx: invoking member",
		"call_id", id,
		"op", op,
		"member", m.Signature(),
		"args", args,
	)
	return id, time.Now()
}

func (a *audited) end(id string, start time.Time) {
	a.log.Debug("ifx: member returned", "call_id", id, "elapsed", time.Since(start))
}

func (a *audited) MethodValue(m *apis.Method, args []any, results []any) {
	id, start := a.begin("MethodValue", m, len(args))
	a.next.MethodValue(m, args, results)
	a.end(id, start)
}

func (a *audited) MethodVoid(m *apis.Method, args []any) {
	id, start := a.begin("MethodVoid", m, len(args))
	a.next.MethodVoid(m, args)
	a.end(id, start)
}

func (a *audited) MethodValueAsync(m *apis.Method, args []any, result any) {
	id, start := a.begin("MethodValueAsync", m, len(args))
	a.next.MethodValueAsync(m, args, result)
	a.end(id, start)
}

func (a *audited) MethodVoidAsync(m *apis.Method, args []any) <-chan struct{} {
	id, start := a.begin("MethodVoidAsync", m, len(args))
	ch := a.next.MethodVoidAsync(m, args)
	a.end(id, start)
	return ch
}

func (a *audited) GetProperty(p *apis.Property, result any) {
	id, start := a.begin("GetProperty", p, 0)
	a.next.GetProperty(p, result)
	a.end(id, start)
}

func (a *audited) SetProperty(p *apis.Property, value any) {
	id, start := a.begin("SetProperty", p, 1)
	a.next.SetProperty(p, value)
	a.end(id, start)
}
