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
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/ifx/apis"
)

// TracerName is the instrumentation name used when Trace gets a nil tracer.
const TracerName = "dirpx.dev/ifx"

// Trace wraps next so every forwarded member access runs inside a span.
//
// When the first argument of a method is a context.Context the span is
// started from it and next receives the span's context in its place;
// otherwise it is a root span. A non-nil trailing error
// result is recorded on the span. If tracer is nil the global tracer
// provider is used.
func Trace(next apis.Handler, tracer trace.Tracer) apis.Handler {
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer(TracerName)
	}
	return &traced{next: next, tracer: tracer}
}

type traced struct {
	next   apis.Handler
	tracer trace.Tracer
}

// Ensure *traced implements apis.Handler.
var _ apis.Handler = (*traced)(nil)

func (t *traced) start(op string, m apis.Member, args []any) (context.Context, trace.Span) {
	ctx := context.Background()
	if len(args) > 0 {
		if c, ok := args[0].(context.Context); ok && c != nil {
			ctx = c
		}
	}
	return t.tracer.Start(ctx, "ifx."+m.MemberName(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("ifx.op", op),
			attribute.String("ifx.member", m.Signature()),
		),
	)
}

// withContext returns args with a leading context.Context replaced by ctx.
// args itself is left untouched.
func withContext(ctx context.Context, args []any) []any {
	if len(args) == 0 {
		return args
	}
	if _, ok := args[0].(context.Context); !ok {
		return args
	}
	out := make([]any, len(args))
	copy(out, args)
	out[0] = ctx
	return out
}

// finish ends span. It runs deferred so a panic is recorded before it
// continues to the caller.
func finish(span trace.Span) {
	if r := recover(); r != nil {
		span.SetStatus(codes.Error, fmt.Sprint(r))
		span.End()
		panic(r)
	}
	span.End()
}

func (t *traced) MethodValue(m *apis.Method, args []any, results []any) {
	ctx, span := t.start("MethodValue", m, args)
	defer finish(span)
	t.next.MethodValue(m, withContext(ctx, args), results)
	if n := len(results); n > 0 {
		if ep, ok := results[n-1].(*error); ok && *ep != nil {
			span.RecordError(*ep)
			span.SetStatus(codes.Error, (*ep).Error())
		}
	}
}

func (t *traced) MethodVoid(m *apis.Method, args []any) {
	ctx, span := t.start("MethodVoid", m, args)
	defer finish(span)
	t.next.MethodVoid(m, withContext(ctx, args))
}

func (t *traced) MethodValueAsync(m *apis.Method, args []any, result any) {
	ctx, span := t.start("MethodValueAsync", m, args)
	defer finish(span)
	t.next.MethodValueAsync(m, withContext(ctx, args), result)
}

func (t *traced) MethodVoidAsync(m *apis.Method, args []any) <-chan struct{} {
	ctx, span := t.start("MethodVoidAsync", m, args)
	defer finish(span)
	return t.next.MethodVoidAsync(m, withContext(ctx, args))
}

func (t *traced) GetProperty(p *apis.Property, result any) {
	_, span := t.start("GetProperty", p, nil)
	defer finish(span)
	t.next.GetProperty(p, result)
}

func (t *traced) SetProperty(p *apis.Property, value any) {
	_, span := t.start("SetProperty", p, nil)
	defer finish(span)
	t.next.SetProperty(p, value)
}
