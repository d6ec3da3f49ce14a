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

package ifx

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/builder"
	"dirpx.dev/ifx/config"
	"dirpx.dev/ifx/factory"
	"dirpx.dev/ifx/handler"
	uref "dirpx.dev/ifx/utils/reflect"
)

// init initializes the global state.
func init() {
	// Initialize state with default cfg, reg and cache.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.cache = b.BuildCache(s.cfg, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	publish(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("ifx: builder returned nil registry")
	// ErrNilCache is returned when a builder returns a nil cache.
	ErrNilCache = errors.New("ifx: builder returned nil cache")
)

// Create returns a new adapter of the interface T that forwards every
// member access to h.
//
// Create fails with apis.ErrNotInterface if T is not an interface type and
// with factory.ErrNoBinding if no implementation of T was generated.
func Create[T any](h apis.Handler) (T, error) {
	return factory.Create[T](st.Load().fac, h)
}

// MustCreate is like Create but panics on error.
// Intended for package-level initialization.
func MustCreate[T any](h apis.Handler) T {
	v, err := Create[T](h)
	if err != nil {
		panic(err)
	}
	return v
}

// CreateType is the untyped form of Create. A pointer to an interface type
// (reflect.TypeOf((*I)(nil))) denotes the interface itself.
func CreateType(t reflect.Type, h apis.Handler) (any, error) {
	return st.Load().fac.Create(t, h)
}

// Bind registers b and returns a new adapter of T forwarding to h.
// Generated Adapt* constructors call it.
func Bind[T any](b apis.Binding, h apis.Handler) (T, error) {
	return factory.Bind[T](st.Load().fac, b, h)
}

// Instantiator returns the prepared implementation of the interface t,
// preparing and caching it on first use.
func Instantiator(t reflect.Type) (apis.Instantiator, error) {
	return st.Load().fac.Instantiator(t)
}

// Register adds a generated binding to the global registry.
// Registering the same binding again is a no-op.
func Register(b apis.Binding) error {
	return st.Load().reg.Register(b)
}

// MustRegister is like Register but panics on error.
// Generated init functions call it.
func MustRegister(b apis.Binding) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// WithPassThrough returns an adapter of T that forwards every member access
// to impl. It is mostly useful as a base for decorated handlers.
func WithPassThrough[T any](impl T) (T, error) {
	return Create[T](handler.PassThrough(impl))
}

// WithAuditing returns an adapter of T that logs every member access to log
// before forwarding it to impl. A nil log uses slog.Default().
func WithAuditing[T any](impl T, log *slog.Logger) (T, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("shape", uref.QualifiedName(reflect.TypeFor[T]()))
	return Create[T](handler.Audit(handler.PassThrough(impl), log))
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged (or rebuild it
// via the builder), except for ext and log which are always replaced.
// Explicitly passed reg and cache are pinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, cache apis.Cache, bld apis.Builder, log *slog.Logger) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, ext)
	} else {
		npreg = true
	}

	// Cache
	ncache := cache
	npcache := false
	if ncache == nil {
		ncache = nbld.BuildCache(ncfg, old.cache, ext)
	} else {
		npcache = true
	}

	publish(&state{
		cfg:    ncfg,
		ext:    ext,
		reg:    nreg,
		cache:  ncache,
		bld:    nbld,
		log:    log,
		preg:   npreg,
		pcache: npcache,
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// It rebuilds the non-pinned registry and cache using the new configuration.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s := old.with()
	s.cfg = cfg
	s.rebuild(old)
	publish(s)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().with()
	s.reg = reg
	s.preg = true
	publish(s)
}

// Cache returns the global instantiator cache.
func Cache() apis.Cache {
	return st.Load().cache
}

// SetCache sets and pins the global instantiator cache.
func SetCache(cache apis.Cache) {
	if cache == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().with()
	s.cache = cache
	s.pcache = true
	publish(s)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the non-pinned
// registry and cache with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s := old.with()
	s.bld = b
	s.rebuild(old)
	publish(s)
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s := old.with()
	s.ext = ext
	s.rebuild(old)
	publish(s)
}

// ExtAs returns the global extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// SetLogger sets the logger used for preparation events.
// A nil logger means slog.Default().
func SetLogger(log *slog.Logger) {
	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().with()
	s.log = log
	publish(s)
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() { setPins(ptr(true), nil) }

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() { setPins(ptr(false), nil) }

// IsCachePinned returns whether the global cache is pinned.
func IsCachePinned() bool {
	return st.Load().pcache
}

// PinCache stops the global cache from being rebuilt.
func PinCache() { setPins(nil, ptr(true)) }

// UnpinCache lets the global cache be rebuilt again.
func UnpinCache() { setPins(nil, ptr(false)) }

func setPins(reg, cache *bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().with()
	if reg != nil {
		s.preg = *reg
	}
	if cache != nil {
		s.pcache = *cache
	}
	publish(s)
}

func ptr(b bool) *bool { return &b }

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via publish; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the global extension configuration.
	ext any
	// reg is the global registry.
	reg apis.Registry
	// cache is the global instantiator cache.
	cache apis.Cache
	// bld is the global builder.
	bld apis.Builder
	// log receives preparation events; nil means slog.Default().
	log *slog.Logger
	// fac is derived from the fields above by publish.
	fac *factory.Factory
	// preg indicates whether the reg is pinned.
	preg bool
	// pcache indicates whether the cache is pinned.
	pcache bool
}

// with returns an unpublished copy of s.
func (s *state) with() *state {
	c := *s
	c.fac = nil
	return &c
}

// rebuild replaces the non-pinned layers of s using s.bld, migrating from old.
func (s *state) rebuild(old *state) {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, old.reg, s.ext)
	}
	if !s.pcache {
		s.cache = s.bld.BuildCache(s.cfg, old.cache, s.ext)
	}
}

// publish derives the factory of s and stores s atomically.
// It panics if a builder produced a nil layer.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.cache == nil {
		panic(ErrNilCache)
	}
	var opts []factory.Option
	if s.log != nil {
		opts = append(opts, factory.WithLogger(s.log))
	}
	s.fac = factory.New(s.cfg, s.reg, s.cache, opts...)
	st.Store(s)
}
