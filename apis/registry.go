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

import "reflect"

// Registry maps closed interface types to the bindings generated for them.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register records b under b.Shape.
	// Implementations should be idempotent for the same origin; a different
	// origin for an already registered shape is a conflict.
	Register(b Binding) error
	// Lookup returns the binding registered for t.
	Lookup(t reflect.Type) (b Binding, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered bindings.
	Count() int
	// Reset clears all registered bindings.
	Reset()
}

// Entry is a single (shape, origin) association in a Registry snapshot.
type Entry struct {
	// Type is the registered interface type.
	Type reflect.Type
	// Origin is the generated code that registered it.
	Origin string
}
