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

// Config carries read-only knobs that influence how implementations are
// prepared and cached. It is passed by value and should be treated as
// immutable by implementations.
type Config struct {
	// ExactlyOnce collapses concurrent first-time preparation of the same
	// shape into a single build. When false, racing builders may each
	// prepare an implementation and the last insert wins.
	ExactlyOnce bool

	// ValidateBindings checks every binding once before caching it and
	// rejects constructors whose instances do not implement the shape.
	ValidateBindings bool
}
