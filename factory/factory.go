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

package factory

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/descriptor"
	"dirpx.dev/ifx/instantiator"
	uref "dirpx.dev/ifx/utils/reflect"
)

var (
	// ErrNoBinding is returned when no generated implementation is
	// registered for an interface. Run ifxgen for it.
	ErrNoBinding = errors.New("ifx(factory): no binding registered")
	// ErrNilHandler is returned when an adapter is requested for a nil handler.
	ErrNilHandler = instantiator.ErrNilHandler
)

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for preparation events.
// By default slog.Default() is consulted on every event.
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) { f.log = l }
}

// Factory creates adapters: it validates the requested type, prepares (or
// reuses) the implementation of the shape and binds a new instance to the
// handler.
type Factory struct {
	cfg   apis.Config
	reg   apis.Registry
	cache apis.Cache
	log   *slog.Logger
}

// New constructs a Factory over reg and cache.
func New(cfg apis.Config, reg apis.Registry, cache apis.Cache, opts ...Option) *Factory {
	f := &Factory{cfg: cfg, reg: reg, cache: cache}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) logger() *slog.Logger {
	if f.log != nil {
		return f.log
	}
	return slog.Default()
}

// Create returns a new adapter of the interface t forwarding to h.
//
// A non-interface t fails with apis.ErrNotInterface before anything is
// prepared or cached. Every call returns a distinct instance; instances of
// the same shape share one implementation type.
func (f *Factory) Create(t reflect.Type, h apis.Handler) (any, error) {
	inst, err := f.Instantiator(t)
	if err != nil {
		return nil, err
	}
	return inst.CreateInstance(h)
}

// Instantiator returns the prepared implementation of the interface t,
// preparing and caching it on first use.
func (f *Factory) Instantiator(t reflect.Type) (apis.Instantiator, error) {
	shape, err := uref.Shape(t)
	if err != nil {
		return nil, err
	}
	return f.cache.LoadOrPrepare(shape, func() (apis.Instantiator, error) {
		b, ok := f.reg.Lookup(shape)
		if !ok {
			return nil, fmt.Errorf("%w for %s", ErrNoBinding, uref.QualifiedName(shape))
		}
		return f.prepare(shape, b)
	})
}

func (f *Factory) prepare(t reflect.Type, b apis.Binding) (apis.Instantiator, error) {
	desc, err := descriptor.ExtractWith(t, b)
	if err != nil {
		return nil, err
	}
	inst, err := instantiator.Prepare(desc, b, f.cfg.ValidateBindings)
	if err != nil {
		f.logger().Error("ifx: preparing implementation failed",
			"shape", t.String(),
			"origin", b.Origin,
			"error", err,
		)
		return nil, err
	}
	f.logger().Debug("ifx: prepared implementation",
		"shape", t.String(),
		"origin", b.Origin,
		"implementation", inst.Implementation().String(),
		"properties", len(desc.Properties),
		"methods", len(desc.Methods),
	)
	return inst, nil
}

// Bind registers b (idempotent for the same origin) and returns a new
// adapter of b.Shape forwarding to h. Generated Adapt* constructors call it.
func (f *Factory) Bind(b apis.Binding, h apis.Handler) (any, error) {
	if err := f.reg.Register(b); err != nil {
		return nil, err
	}
	return f.Create(b.Shape, h)
}

// Registry returns the registry the factory resolves bindings from.
func (f *Factory) Registry() apis.Registry { return f.reg }

// Cache returns the instantiator cache.
func (f *Factory) Cache() apis.Cache { return f.cache }

// Create is the typed form of (*Factory).Create. T must be an interface
// type; the result is a T without further assertions by the caller.
func Create[T any](f *Factory, h apis.Handler) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Interface {
		return zero, fmt.Errorf("%w: %s (%s)", apis.ErrNotInterface, t, t.Kind())
	}
	v, err := f.Create(t, h)
	if err != nil {
		return zero, err
	}
	return assert[T](v, t)
}

// Bind is the typed form of (*Factory).Bind.
func Bind[T any](f *Factory, b apis.Binding, h apis.Handler) (T, error) {
	var zero T
	v, err := f.Bind(b, h)
	if err != nil {
		return zero, err
	}
	return assert[T](v, reflect.TypeFor[T]())
}

func assert[T any](v any, t reflect.Type) (T, error) {
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %T does not implement %s", instantiator.ErrInvalidBinding, v, t)
	}
	return out, nil
}
