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
	"strings"
)

// MemberKind tags a Member as a plain method or a property.
type MemberKind uint8

const (
	// KindMethod marks a plain interface method.
	KindMethod MemberKind = iota + 1
	// KindProperty marks a Get/Set accessor pair folded into one property.
	KindProperty
)

// String returns the lower-case kind name.
func (k MemberKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// CallKind selects the Handler operation a method is forwarded to.
type CallKind uint8

const (
	// CallValue forwards to Handler.MethodValue.
	CallValue CallKind = iota + 1
	// CallVoid forwards to Handler.MethodVoid.
	CallVoid
	// CallValueAsync forwards to Handler.MethodValueAsync.
	// The method's only result is a receive-only channel of the result type.
	CallValueAsync
	// CallVoidAsync forwards to Handler.MethodVoidAsync.
	// The method's only result is a <-chan struct{}.
	CallVoidAsync
)

// String returns the Handler operation name for k.
func (k CallKind) String() string {
	switch k {
	case CallValue:
		return "MethodValue"
	case CallVoid:
		return "MethodVoid"
	case CallValueAsync:
		return "MethodValueAsync"
	case CallVoidAsync:
		return "MethodVoidAsync"
	default:
		return "unknown"
	}
}

// IsAsync reports whether k returns an asynchronous handle.
func (k CallKind) IsAsync() bool {
	return k == CallValueAsync || k == CallVoidAsync
}

// Access tells which accessors of a property exist.
type Access uint8

const (
	// AccessRead marks a property with a getter.
	AccessRead Access = 1 << iota
	// AccessWrite marks a property with a setter.
	AccessWrite
	// AccessReadWrite marks a property with both accessors.
	AccessReadWrite = AccessRead | AccessWrite
)

// CanRead reports whether a includes the getter.
func (a Access) CanRead() bool { return a&AccessRead != 0 }

// CanWrite reports whether a includes the setter.
func (a Access) CanWrite() bool { return a&AccessWrite != 0 }

// String returns "get", "set" or "get/set".
func (a Access) String() string {
	switch a {
	case AccessRead:
		return "get"
	case AccessWrite:
		return "set"
	case AccessReadWrite:
		return "get/set"
	default:
		return "none"
	}
}

// Member is the descriptor of one interface member.
// It is implemented only by *Method and *Property.
// Descriptors are built once per shape and never mutated afterwards.
type Member interface {
	// MemberName returns the member name (property name without accessor prefix).
	MemberName() string
	// Kind tags the member.
	Kind() MemberKind
	// Signature renders the member in Go syntax for logs and audit trails.
	Signature() string

	member()
}

// Method describes a plain interface method.
type Method struct {
	// Name is the method name.
	Name string
	// Index is the position of the method in the interface method set
	// (reflect.Type.Method order).
	Index int
	// In holds parameter types in declaration order. For variadic methods
	// the last entry is the slice type.
	In []reflect.Type
	// Out holds result types in declaration order.
	Out []reflect.Type
	// Variadic reports whether the last parameter is variadic.
	Variadic bool
	// Call is the forwarding operation for this method.
	Call CallKind
	// Result is the element type of the returned channel for CallValueAsync,
	// nil otherwise.
	Result reflect.Type
	// Generic reports whether the declared signature refers to type
	// parameters of the (generic) interface.
	Generic bool
}

// Ensure *Method implements Member.
var _ Member = (*Method)(nil)

// MemberName returns m.Name.
func (m *Method) MemberName() string { return m.Name }

// Kind returns KindMethod.
func (*Method) Kind() MemberKind { return KindMethod }

// Signature renders "Name(a, b) (c, d)".
func (m *Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, t := range m.In {
		if i > 0 {
			sb.WriteString(", ")
		}
		if m.Variadic && i == len(m.In)-1 {
			sb.WriteString("...")
			sb.WriteString(t.Elem().String())
			continue
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte(')')
	switch len(m.Out) {
	case 0:
	case 1:
		sb.WriteByte(' ')
		sb.WriteString(m.Out[0].String())
	default:
		sb.WriteString(" (")
		for i, t := range m.Out {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func (*Method) member() {}

// Property describes a Get/Set accessor pair. At least one of the accessors
// is present.
type Property struct {
	// Name is the property name without the accessor prefix.
	Name string
	// Type is the property value type.
	Type reflect.Type
	// Getter is the interface method index of GetName, or -1.
	Getter int
	// Setter is the interface method index of SetName, or -1.
	Setter int
}

// Ensure *Property implements Member.
var _ Member = (*Property)(nil)

// MemberName returns p.Name.
func (p *Property) MemberName() string { return p.Name }

// Kind returns KindProperty.
func (*Property) Kind() MemberKind { return KindProperty }

// CanRead reports whether the property has a getter.
func (p *Property) CanRead() bool { return p.Getter >= 0 }

// CanWrite reports whether the property has a setter.
func (p *Property) CanWrite() bool { return p.Setter >= 0 }

// Access returns the accessors the property has.
func (p *Property) Access() Access {
	var a Access
	if p.CanRead() {
		a |= AccessRead
	}
	if p.CanWrite() {
		a |= AccessWrite
	}
	return a
}

// Signature renders "Name T { get; set; }".
func (p *Property) Signature() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	sb.WriteByte(' ')
	sb.WriteString(p.Type.String())
	sb.WriteString(" {")
	if p.CanRead() {
		sb.WriteString(" get;")
	}
	if p.CanWrite() {
		sb.WriteString(" set;")
	}
	sb.WriteString(" }")
	return sb.String()
}

func (*Property) member() {}
