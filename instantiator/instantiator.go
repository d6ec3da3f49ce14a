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

package instantiator

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/descriptor"
)

var (
	// ErrLayoutMismatch is returned when a binding's slot layout disagrees
	// with the descriptors of its shape (stale generated code).
	ErrLayoutMismatch = descriptor.ErrLayoutMismatch
	// ErrInvalidBinding is returned when a binding's constructor does not
	// produce an implementation of its shape.
	ErrInvalidBinding = errors.New("ifx(instantiator): binding does not implement shape")
	// ErrNilHandler is returned when an instance is requested for a nil handler.
	ErrNilHandler = errors.New("ifx(instantiator): nil handler")
)

// Instantiator is a prepared synthesized implementation: the binding's
// constructor plus the ordered descriptor list it is constructed from.
type Instantiator struct {
	shape   *apis.Shape
	members []apis.Member
	impl    reflect.Type
	newFn   apis.Constructor
}

// Ensure *Instantiator implements apis.Instantiator.
var _ apis.Instantiator = (*Instantiator)(nil)

// Prepare binds shape's descriptors to b's slot layout.
//
// Members are ordered properties first, then methods, each group in the
// binding's slot order. The constructor runs once with a nil handler to
// learn the implementation type; with validate set that instance must
// implement shape.Type. No handler is ever called during preparation.
func Prepare(shape *apis.Shape, b apis.Binding, validate bool) (*Instantiator, error) {
	if len(b.Properties) != len(shape.Properties) || len(b.Methods) != len(shape.Methods) {
		return nil, fmt.Errorf("%w: %s has %d properties and %d methods, binding %q has %d and %d",
			ErrLayoutMismatch, shape.Type, len(shape.Properties), len(shape.Methods),
			b.Origin, len(b.Properties), len(b.Methods))
	}

	if (b.Access != nil && len(b.Access) != len(b.Properties)) || (b.Calls != nil && len(b.Calls) != len(b.Methods)) {
		return nil, fmt.Errorf("%w: binding %q has %d properties with %d accessor sets and %d methods with %d calls",
			ErrLayoutMismatch, b.Origin, len(b.Properties), len(b.Access), len(b.Methods), len(b.Calls))
	}

	members := make([]apis.Member, 0, len(b.Properties)+len(b.Methods))
	for i, name := range b.Properties {
		p, ok := shape.Property(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no property %q", ErrLayoutMismatch, shape.Type, name)
		}
		if b.Access != nil && p.Access() != b.Access[i] {
			return nil, fmt.Errorf("%w: property %s of %s is %s, binding %q expects %s",
				ErrLayoutMismatch, name, shape.Type, p.Access(), b.Origin, b.Access[i])
		}
		members = append(members, p)
	}
	for i, name := range b.Methods {
		m, ok := shape.Method(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no method %q", ErrLayoutMismatch, shape.Type, name)
		}
		if b.Calls != nil && m.Call != b.Calls[i] {
			return nil, fmt.Errorf("%w: method %s of %s forwards to %s, binding %q calls %s",
				ErrLayoutMismatch, name, shape.Type, m.Call, b.Origin, b.Calls[i])
		}
		members = append(members, m)
	}

	impl, err := implType(b, members)
	if err != nil {
		return nil, err
	}
	if validate && !impl.Implements(shape.Type) {
		return nil, fmt.Errorf("%w: %s does not implement %s", ErrInvalidBinding, impl, shape.Type)
	}

	return &Instantiator{
		shape:   shape,
		members: members,
		impl:    impl,
		newFn:   b.New,
	}, nil
}

// implType constructs one throw-away instance to learn the implementation type.
func implType(b apis.Binding, members []apis.Member) (impl reflect.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: constructor of %q panicked: %v", ErrInvalidBinding, b.Origin, r)
		}
	}()
	v := b.New(members, nil)
	if v == nil {
		return nil, fmt.Errorf("%w: constructor of %q returned nil", ErrInvalidBinding, b.Origin)
	}
	return reflect.TypeOf(v), nil
}

// Shape returns the descriptor set captured by the implementation.
func (i *Instantiator) Shape() *apis.Shape { return i.shape }

// Implementation returns the concrete adapter type.
func (i *Instantiator) Implementation() reflect.Type { return i.impl }

// Members returns the ordered descriptor list handed to every constructor call.
func (i *Instantiator) Members() []apis.Member { return i.members }

// CreateInstance binds a new adapter instance to h.
// The instance holds h by reference; h's lifetime is the caller's concern.
func (i *Instantiator) CreateInstance(h apis.Handler) (any, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	return i.newFn(i.members, h), nil
}
