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

import (
	"reflect"
)

// Instantiator produces adapter instances of one synthesized implementation.
// It is prepared once per shape and is safe for concurrent use.
type Instantiator interface {
	// Shape returns the descriptor set captured by the implementation.
	Shape() *Shape
	// Implementation returns the concrete adapter type.
	Implementation() reflect.Type
	// CreateInstance binds a new adapter instance to h.
	CreateInstance(h Handler) (any, error)
}

// Cache holds one prepared Instantiator per closed interface type.
// Entries are never evicted; reads must not block on writers.
type Cache interface {
	// Load returns the cached instantiator for t.
	Load(t reflect.Type) (Instantiator, bool)
	// LoadOrPrepare returns the cached instantiator for t, preparing and
	// storing one via prepare on a miss. Failed preparations store nothing.
	LoadOrPrepare(t reflect.Type, prepare func() (Instantiator, error)) (Instantiator, error)
	// Types returns a snapshot of cached shapes (order is unspecified).
	Types() []reflect.Type
	// Len returns the number of cached shapes.
	Len() int
	// Reset drops every entry. Intended for tests.
	Reset()
}
