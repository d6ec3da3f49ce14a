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
	"errors"
	"reflect"
)

// ErrNotInterface is returned whenever a non-interface type is offered as
// an interface shape. No implementation is built or cached for such types.
var ErrNotInterface = errors.New("ifx: type is not an interface")

// Shape is the immutable descriptor set of one closed interface type.
type Shape struct {
	// Type is the closed interface type.
	Type reflect.Type
	// TypeArgs holds the closed generic arguments of Type, or nil.
	TypeArgs []reflect.Type
	// Properties holds one descriptor per property.
	Properties []*Property
	// Methods holds one descriptor per plain method. Accessor methods of
	// properties are never listed here.
	Methods []*Method
}

// Members returns the descriptors in construction order: properties first,
// then methods.
func (s *Shape) Members() []Member {
	out := make([]Member, 0, len(s.Properties)+len(s.Methods))
	for _, p := range s.Properties {
		out = append(out, p)
	}
	for _, m := range s.Methods {
		out = append(out, m)
	}
	return out
}

// Property returns the property named name.
func (s *Shape) Property(name string) (*Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Method returns the plain method named name.
func (s *Shape) Method(name string) (*Method, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Constructor builds one adapter instance whose slots are taken from members
// (in the binding's slot order) and whose handler slot is h.
// It must not call h.
type Constructor func(members []Member, h Handler) any

// Binding describes one synthesized implementation as emitted by ifxgen.
type Binding struct {
	// Shape is the closed interface type the implementation satisfies.
	Shape reflect.Type
	// TypeArgs holds the closed generic arguments of Shape, or nil.
	TypeArgs []reflect.Type
	// Origin identifies the generated code ("import/path.Name"). Registering
	// the same shape twice is idempotent only for the same origin.
	Origin string
	// Properties lists property slot names in slot order.
	Properties []string
	// Access holds the accessors of each entry of Properties.
	Access []Access
	// Methods lists method slot names in slot order.
	Methods []string
	// Calls holds the forwarding call of each entry of Methods.
	//
	// Access and Calls are the layout the adapter was generated for. When
	// both are nil the layout is classified from Shape at run time.
	Calls []CallKind
	// Generic lists the methods whose declared signature refers to type
	// parameters of the interface.
	Generic []string
	// New constructs bound instances.
	New Constructor
}

// HasLayout reports whether b carries its own member layout.
func (b Binding) HasLayout() bool { return b.Access != nil || b.Calls != nil }
