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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/ifx/apis"
	uref "dirpx.dev/ifx/utils/reflect"
)

var (
	// ErrNilType is returned when a binding carries a nil shape.
	ErrNilType = errors.New("ifx(registry): nil reflect.Type provided")
	// ErrEmptyOrigin is returned when a binding carries no origin.
	ErrEmptyOrigin = errors.New("ifx(registry): empty origin provided")
	// ErrNilConstructor is returned when a binding carries no constructor.
	ErrNilConstructor = errors.New("ifx(registry): nil constructor provided")
	// ErrConflictingBinding indicates an attempt to re-register a shape
	// from a different origin.
	ErrConflictingBinding = errors.New("ifx(registry): conflicting binding registration")
)

// New constructs an empty Registry. No Config knob currently affects it.
func New(_ apis.Config) apis.Registry {
	return &registry{}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to apis.Binding.
	m sync.Map // map[reflect.Type]apis.Binding
	// count tracks the number of registered entries.
	count int
}

// Register records b under its (normalized) shape.
// It is idempotent for the same (shape, origin) pair; the first binding
// registered for a shape stays in place.
func (r *registry) Register(b apis.Binding) error {
	// Validate inputs early.
	if b.Shape == nil {
		return ErrNilType
	}
	if b.Origin == "" {
		return ErrEmptyOrigin
	}
	if b.New == nil {
		return ErrNilConstructor
	}

	t, err := uref.Shape(b.Shape)
	if err != nil {
		return err // apis.ErrNotInterface
	}
	b.Shape = t

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(t); ok {
		return sameOrigin(old.(apis.Binding), b)
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(t); ok {
		return sameOrigin(old.(apis.Binding), b)
	}

	r.m.Store(t, b)
	r.count++
	return nil
}

func sameOrigin(old, b apis.Binding) error {
	if old.Origin == b.Origin {
		return nil // idempotent re-registration
	}
	return ErrConflictingBinding
}

// Lookup returns the binding registered for t. The (*I)(nil) idiom is accepted.
func (r *registry) Lookup(t reflect.Type) (apis.Binding, bool) {
	if t == nil {
		return apis.Binding{}, false
	}
	nt, err := uref.Shape(t)
	if err != nil {
		return apis.Binding{}, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(apis.Binding), true
	}
	return apis.Binding{}, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type:   key.(reflect.Type),
			Origin: value.(apis.Binding).Origin,
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
