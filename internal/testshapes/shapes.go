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

// Package testshapes holds interfaces with generated adapters, shared by
// tests across the module.
package testshapes

import "context"

//go:generate go run dirpx.dev/ifx/cmd/ifxgen generate --config ifxgen.yaml

// Greeter exercises every forwarding path of a non-generic interface.
type Greeter interface {
	GetID() int
	GetName() string
	SetName(name string)
	SetMood(mood string)
	Greet(who string, times int) string
	Sum(nums ...int) int
	Split(s string) (head, tail string, err error)
	Reset()
	Fetch(id int) <-chan string
	Flush() <-chan struct{}
}

// Sample has one method and one read-write property.
type Sample interface {
	Foo(a string, b int) string
	GetBar() string
	SetBar(v string)
}

// Echo is a generic interface whose signatures depend on T.
type Echo[T any] interface {
	Foo(v T) T
	GetLast() T
	SetLast(v T)
}

// Store is a generic interface with two type parameters.
type Store[K comparable, V any] interface {
	Load(ctx context.Context, key K) (V, error)
	Save(ctx context.Context, key K, value V) error
	Watch(key K) <-chan V
	GetLen() int
}

// Unbound has no generated adapter.
type Unbound interface {
	Do()
}

// Widget is a plain struct; it can never be adapted.
type Widget struct {
	Name string
}
