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
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/ifx/apis"
)

// Metrics holds the collectors updated by Instrument.
type Metrics struct {
	// Calls counts member accesses by shape, member, op and status
	// ("ok" or "panic").
	Calls *prometheus.CounterVec
	// Duration observes handler latency by shape, member and op.
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors under namespace and registers them with
// reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ifx",
			Name:      "member_calls_total",
			Help:      "Total number of member accesses forwarded to handlers",
		}, []string{"shape", "member", "op", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ifx",
			Name:      "member_call_duration_seconds",
			Help:      "Duration of handler calls in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"shape", "member", "op"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Calls, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Instrument wraps next so every forwarded member access updates m.
// shape labels the series, usually the interface's qualified name.
func Instrument(next apis.Handler, m *Metrics, shape string) apis.Handler {
	return &instrumented{next: next, m: m, shape: shape}
}

type instrumented struct {
	next  apis.Handler
	m     *Metrics
	shape string
}

// Ensure *instrumented implements apis.Handler.
var _ apis.Handler = (*instrumented)(nil)

// observe records one access. It runs deferred, so a panicking handler is
// counted before the panic continues.
func (i *instrumented) observe(member, op string, start time.Time, ok *bool) {
	status := "panic"
	if *ok {
		status = "ok"
	}
	i.m.Calls.WithLabelValues(i.shape, member, op, status).Inc()
	i.m.Duration.WithLabelValues(i.shape, member, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) MethodValue(m *apis.Method, args []any, results []any) {
	ok := false
	defer i.observe(m.Name, "MethodValue", time.Now(), &ok)
	i.next.MethodValue(m, args, results)
	ok = true
}

func (i *instrumented) MethodVoid(m *apis.Method, args []any) {
	ok := false
	defer i.observe(m.Name, "MethodVoid", time.Now(), &ok)
	i.next.MethodVoid(m, args)
	ok = true
}

func (i *instrumented) MethodValueAsync(m *apis.Method, args []any, result any) {
	ok := false
	defer i.observe(m.Name, "MethodValueAsync", time.Now(), &ok)
	i.next.MethodValueAsync(m, args, result)
	ok = true
}

func (i *instrumented) MethodVoidAsync(m *apis.Method, args []any) <-chan struct{} {
	ok := false
	defer i.observe(m.Name, "MethodVoidAsync", time.Now(), &ok)
	ch := i.next.MethodVoidAsync(m, args)
	ok = true
	return ch
}

func (i *instrumented) GetProperty(p *apis.Property, result any) {
	ok := false
	defer i.observe(p.Name, "GetProperty", time.Now(), &ok)
	i.next.GetProperty(p, result)
	ok = true
}

func (i *instrumented) SetProperty(p *apis.Property, value any) {
	ok := false
	defer i.observe(p.Name, "SetProperty", time.Now(), &ok)
	i.next.SetProperty(p, value)
	ok = true
}
