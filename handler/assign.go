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
	"fmt"
	"reflect"
)

// CoercionError reports a value that cannot be stored into a result
// destination of the adapted member.
type CoercionError struct {
	// Member is the member name, if known.
	Member string
	// From is the offered value type (nil for a missing value).
	From reflect.Type
	// To is the destination type (nil when the destination itself is invalid).
	To reflect.Type
	// Reason describes the failure.
	Reason string
}

// Error implements error.
func (e *CoercionError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("ifx(handler): %s: cannot store %v into %v: %s", e.Member, e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("ifx(handler): cannot store %v into %v: %s", e.From, e.To, e.Reason)
}

// Assign stores v into the pointer dst.
//
// Rules, in order:
//   - nil v stores the zero value
//   - a value assignable to *dst is stored as is
//   - numeric values convert to other numeric types, and values convert
//     between types of the same kind (e.g. a named string type)
//   - anything else is a *CoercionError
func Assign(dst any, v any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return &CoercionError{From: reflect.TypeOf(v), Reason: "destination is not a non-nil pointer"}
	}
	elem := dv.Elem()
	if v == nil {
		elem.SetZero()
		return nil
	}

	sv := reflect.ValueOf(v)
	st, tt := sv.Type(), elem.Type()
	switch {
	case st.AssignableTo(tt):
		elem.Set(sv)
	case convertible(st, tt):
		elem.Set(sv.Convert(tt))
	default:
		return &CoercionError{From: st, To: tt, Reason: "incompatible types"}
	}
	return nil
}

// Store assigns values to the result destinations in order.
func Store(results []any, values ...any) error {
	if len(results) != len(values) {
		return &CoercionError{Reason: fmt.Sprintf("got %d values for %d results", len(values), len(results))}
	}
	for i := range results {
		if err := Assign(results[i], values[i]); err != nil {
			return err
		}
	}
	return nil
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if isNumeric(from.Kind()) && isNumeric(to.Kind()) {
		return true
	}
	// Same kind only: rules out int -> string and slice -> array.
	return from.Kind() == to.Kind()
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
