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

package descriptor

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"dirpx.dev/ifx/apis"
)

const (
	// GetterPrefix marks a property read accessor: GetX() T.
	GetterPrefix = "Get"
	// SetterPrefix marks a property write accessor: SetX(v T).
	SetterPrefix = "Set"
)

// Sig is the classification view of one interface method. T is the type
// representation of the source (reflect.Type at run time, types.Type in the
// generator).
type Sig[T any] struct {
	// Name is the method name.
	Name string
	// Index is the method's position in the interface method set.
	Index int
	// In holds parameter types in declaration order.
	In []T
	// Out holds result types in declaration order.
	Out []T
	// Variadic reports whether the last parameter is variadic.
	Variadic bool
}

// Types abstracts the type system the signatures come from.
type Types[T any] interface {
	// Identical reports whether a and b denote the same type.
	Identical(a, b T) bool
	// IsError reports whether t is the predeclared error type.
	IsError(t T) bool
	// RecvChan returns the element type of a receive-only channel type.
	RecvChan(t T) (elem T, ok bool)
	// IsEmptyStruct reports whether t is the unnamed struct{} type.
	IsEmptyStruct(t T) bool
}

// PropertySpec is a classified property. Getter and Setter are Sig.Index
// values, or -1 when the accessor is absent.
type PropertySpec[T any] struct {
	Name   string
	Type   T
	Getter int
	Setter int
}

// MethodSpec is a classified plain method.
type MethodSpec[T any] struct {
	Sig  Sig[T]
	Call apis.CallKind
	// Result is the channel element type for apis.CallValueAsync.
	Result T
}

// Layout is the outcome of Classify: properties and plain methods, each
// sorted by name.
type Layout[T any] struct {
	Properties []PropertySpec[T]
	Methods    []MethodSpec[T]
}

// Classify separates property accessors from plain methods and classifies
// each plain method's forwarding call.
//
// Accessor rules:
//   - GetX() T where T is neither error nor a receive-only channel
//   - SetX(v T), not variadic, no results
//   - X must start with an upper-case letter
//   - a getter and a setter of the same X form one property only when
//     their types are identical; otherwise both stay plain methods
//
// Every input signature ends up in exactly one of the two sets.
func Classify[T any](sigs []Sig[T], ts Types[T]) Layout[T] {
	getters := make(map[string]Sig[T])
	setters := make(map[string]Sig[T])
	for _, s := range sigs {
		if x, ok := accessorName(s.Name, GetterPrefix); ok && isGetter(s, ts) {
			getters[x] = s
			continue
		}
		if x, ok := accessorName(s.Name, SetterPrefix); ok && isSetter(s) {
			setters[x] = s
		}
	}

	consumed := make(map[int]bool)
	var out Layout[T]
	for x, g := range getters {
		p := PropertySpec[T]{Name: x, Type: g.Out[0], Getter: g.Index, Setter: -1}
		if s, ok := setters[x]; ok {
			if !ts.Identical(g.Out[0], s.In[0]) {
				// Mismatched pair: neither side is a property.
				continue
			}
			p.Setter = s.Index
			consumed[s.Index] = true
		}
		consumed[g.Index] = true
		out.Properties = append(out.Properties, p)
	}
	for x, s := range setters {
		if consumed[s.Index] {
			continue
		}
		if g, ok := getters[x]; ok && !consumed[g.Index] {
			continue
		}
		consumed[s.Index] = true
		out.Properties = append(out.Properties, PropertySpec[T]{Name: x, Type: s.In[0], Getter: -1, Setter: s.Index})
	}

	for _, s := range sigs {
		if consumed[s.Index] {
			continue
		}
		out.Methods = append(out.Methods, classifyMethod(s, ts))
	}

	sort.Slice(out.Properties, func(i, j int) bool { return out.Properties[i].Name < out.Properties[j].Name })
	sort.Slice(out.Methods, func(i, j int) bool { return out.Methods[i].Sig.Name < out.Methods[j].Sig.Name })
	return out
}

// classifyMethod selects the forwarding call for a plain method.
func classifyMethod[T any](s Sig[T], ts Types[T]) MethodSpec[T] {
	m := MethodSpec[T]{Sig: s}
	switch {
	case len(s.Out) == 0:
		m.Call = apis.CallVoid
	case len(s.Out) == 1:
		if elem, ok := ts.RecvChan(s.Out[0]); ok {
			if ts.IsEmptyStruct(elem) {
				m.Call = apis.CallVoidAsync
			} else {
				m.Call = apis.CallValueAsync
				m.Result = elem
			}
			return m
		}
		m.Call = apis.CallValue
	default:
		m.Call = apis.CallValue
	}
	return m
}

func isGetter[T any](s Sig[T], ts Types[T]) bool {
	if len(s.In) != 0 || len(s.Out) != 1 {
		return false
	}
	if ts.IsError(s.Out[0]) {
		return false
	}
	_, async := ts.RecvChan(s.Out[0])
	return !async
}

func isSetter[T any](s Sig[T]) bool {
	return len(s.In) == 1 && !s.Variadic && len(s.Out) == 0
}

// accessorName strips prefix from name and reports whether the remainder
// is a valid exported property name.
func accessorName(name, prefix string) (string, bool) {
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return "", false
	}
	rest := name[len(prefix):]
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}
