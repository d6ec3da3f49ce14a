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
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/ifx/apis"
	uref "dirpx.dev/ifx/utils/reflect"
)

// ErrLayoutMismatch is returned when a binding's layout cannot be applied
// to the interface it names (stale generated code).
var ErrLayoutMismatch = errors.New("ifx(descriptor): binding layout does not match shape")

// Extract builds the descriptor set of the interface type t.
// It fails with apis.ErrNotInterface before doing any work if t is not an
// interface (or a pointer to one).
func Extract(t reflect.Type) (*apis.Shape, error) {
	return ExtractWith(t, apis.Binding{})
}

// ExtractWith builds the descriptor set of t for the binding b.
//
// When b carries a layout (b.HasLayout) the layout is authoritative: t only
// supplies the closed parameter and result types, so every instantiation of
// a generic interface is described exactly as its adapter forwards it.
// Otherwise members are classified from t. b.TypeArgs is recorded on the
// shape and methods named in b.Generic are flagged.
func ExtractWith(t reflect.Type, b apis.Binding) (*apis.Shape, error) {
	it, err := uref.Shape(t)
	if err != nil {
		return nil, err
	}
	var shape *apis.Shape
	if b.HasLayout() {
		shape, err = fromLayout(it, b)
		if err != nil {
			return nil, err
		}
	} else {
		shape = classify(it)
	}

	shape.TypeArgs = b.TypeArgs
	for _, name := range b.Generic {
		if m, ok := shape.Method(name); ok {
			m.Generic = true
		}
	}
	return shape, nil
}

func classify(it reflect.Type) *apis.Shape {
	sigs := make([]Sig[reflect.Type], it.NumMethod())
	for i := range sigs {
		m := it.Method(i)
		sigs[i] = Sig[reflect.Type]{
			Name:     m.Name,
			Index:    i,
			In:       ins(m.Type),
			Out:      outs(m.Type),
			Variadic: m.Type.IsVariadic(),
		}
	}
	layout := Classify[reflect.Type](sigs, reflectTypes{})

	shape := &apis.Shape{
		Type:       it,
		Properties: make([]*apis.Property, 0, len(layout.Properties)),
		Methods:    make([]*apis.Method, 0, len(layout.Methods)),
	}
	for _, p := range layout.Properties {
		shape.Properties = append(shape.Properties, &apis.Property{
			Name:   p.Name,
			Type:   p.Type,
			Getter: p.Getter,
			Setter: p.Setter,
		})
	}
	for _, m := range layout.Methods {
		shape.Methods = append(shape.Methods, &apis.Method{
			Name:     m.Sig.Name,
			Index:    m.Sig.Index,
			In:       m.Sig.In,
			Out:      m.Sig.Out,
			Variadic: m.Sig.Variadic,
			Call:     m.Call,
			Result:   m.Result,
		})
	}
	return shape
}

// fromLayout applies b's layout to it. Every method of it must be claimed
// by exactly one slot, and each slot's signature must fit its call kind.
func fromLayout(it reflect.Type, b apis.Binding) (*apis.Shape, error) {
	if len(b.Access) != len(b.Properties) || len(b.Calls) != len(b.Methods) {
		return nil, fmt.Errorf("%w: binding %q has %d properties with %d accessor sets and %d methods with %d calls",
			ErrLayoutMismatch, b.Origin, len(b.Properties), len(b.Access), len(b.Methods), len(b.Calls))
	}

	claimed := make(map[int]bool, it.NumMethod())
	claim := func(name string) (reflect.Method, error) {
		m, ok := it.MethodByName(name)
		if !ok {
			return m, fmt.Errorf("%w: %s has no method %s", ErrLayoutMismatch, it, name)
		}
		if claimed[m.Index] {
			return m, fmt.Errorf("%w: %s.%s is claimed twice", ErrLayoutMismatch, it, name)
		}
		claimed[m.Index] = true
		return m, nil
	}

	shape := &apis.Shape{
		Type:       it,
		Properties: make([]*apis.Property, 0, len(b.Properties)),
		Methods:    make([]*apis.Method, 0, len(b.Methods)),
	}
	for i, name := range b.Properties {
		p := &apis.Property{Name: name, Getter: -1, Setter: -1}
		access := b.Access[i]
		if access == 0 {
			return nil, fmt.Errorf("%w: property %s has no accessors", ErrLayoutMismatch, name)
		}
		if access.CanRead() {
			g, err := claim(GetterPrefix + name)
			if err != nil {
				return nil, err
			}
			if g.Type.NumIn() != 0 || g.Type.NumOut() != 1 {
				return nil, fmt.Errorf("%w: %s.%s is not a getter", ErrLayoutMismatch, it, g.Name)
			}
			p.Getter, p.Type = g.Index, g.Type.Out(0)
		}
		if access.CanWrite() {
			s, err := claim(SetterPrefix + name)
			if err != nil {
				return nil, err
			}
			if s.Type.NumIn() != 1 || s.Type.NumOut() != 0 || s.Type.IsVariadic() {
				return nil, fmt.Errorf("%w: %s.%s is not a setter", ErrLayoutMismatch, it, s.Name)
			}
			if p.Type != nil && p.Type != s.Type.In(0) {
				return nil, fmt.Errorf("%w: %s.%s and %s.%s disagree on the property type",
					ErrLayoutMismatch, it, GetterPrefix+name, it, s.Name)
			}
			p.Setter, p.Type = s.Index, s.Type.In(0)
		}
		shape.Properties = append(shape.Properties, p)
	}

	for i, name := range b.Methods {
		rm, err := claim(name)
		if err != nil {
			return nil, err
		}
		m := &apis.Method{
			Name:     name,
			Index:    rm.Index,
			In:       ins(rm.Type),
			Out:      outs(rm.Type),
			Variadic: rm.Type.IsVariadic(),
			Call:     b.Calls[i],
		}
		if err := fitCall(m); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrLayoutMismatch, it, name, err)
		}
		shape.Methods = append(shape.Methods, m)
	}

	if len(claimed) != it.NumMethod() {
		return nil, fmt.Errorf("%w: %s has %d methods, binding %q covers %d",
			ErrLayoutMismatch, it, it.NumMethod(), b.Origin, len(claimed))
	}
	return shape, nil
}

// fitCall checks m's results against its call kind and sets m.Result.
func fitCall(m *apis.Method) error {
	switch m.Call {
	case apis.CallVoid:
		if len(m.Out) != 0 {
			return fmt.Errorf("%s with %d results", m.Call, len(m.Out))
		}
	case apis.CallValue:
		if len(m.Out) == 0 {
			return fmt.Errorf("%s without results", m.Call)
		}
	case apis.CallValueAsync, apis.CallVoidAsync:
		if len(m.Out) != 1 {
			return fmt.Errorf("%s with %d results", m.Call, len(m.Out))
		}
		elem, ok := reflectTypes{}.RecvChan(m.Out[0])
		if !ok {
			return fmt.Errorf("%s returning %s", m.Call, m.Out[0])
		}
		if m.Call == apis.CallVoidAsync {
			if m.Out[0] != voidChanType {
				return fmt.Errorf("%s returning %s", m.Call, m.Out[0])
			}
			break
		}
		m.Result = elem
	default:
		return fmt.Errorf("unknown call kind %d", m.Call)
	}
	return nil
}

func ins(ft reflect.Type) []reflect.Type {
	out := make([]reflect.Type, ft.NumIn())
	for i := range out {
		out[i] = ft.In(i)
	}
	return out
}

func outs(ft reflect.Type) []reflect.Type {
	out := make([]reflect.Type, ft.NumOut())
	for i := range out {
		out[i] = ft.Out(i)
	}
	return out
}

var (
	// errorType is the predeclared error interface.
	errorType = reflect.TypeFor[error]()
	// voidChanType is the result type of void asynchronous methods.
	voidChanType = reflect.TypeFor[<-chan struct{}]()
)

// reflectTypes implements Types over reflect.Type.
type reflectTypes struct{}

// Ensure reflectTypes implements Types.
var _ Types[reflect.Type] = reflectTypes{}

func (reflectTypes) Identical(a, b reflect.Type) bool { return a == b }

func (reflectTypes) IsError(t reflect.Type) bool { return t == errorType }

func (reflectTypes) RecvChan(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Chan && t.ChanDir() == reflect.RecvDir {
		return t.Elem(), true
	}
	return nil, false
}

func (reflectTypes) IsEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Name() == "" && t.NumField() == 0
}
