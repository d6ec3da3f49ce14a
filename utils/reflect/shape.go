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

package reflect

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/ifx/apis"
)

// ErrReflectNilType is returned when a nil reflect.Type is provided.
var ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")

// Shape returns the interface type denoted by t.
//
// Normalization policy:
//   - interface  -> t
//   - *interface -> t.Elem() (the reflect.TypeOf((*I)(nil)) idiom); only one
//     level is unwrapped
//   - anything else -> apis.ErrNotInterface, wrapped with the type name
func Shape(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		t = t.Elem()
	}
	if t.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %s (%s)", apis.ErrNotInterface, t, t.Kind())
	}
	return t, nil
}

// QualifiedName returns "import/path.Name" for named types and t.String()
// otherwise.
func QualifiedName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if p := t.PkgPath(); p != "" && t.Name() != "" {
		return p + "." + t.Name()
	}
	return t.String()
}
