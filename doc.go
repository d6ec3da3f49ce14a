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

// Package ifx builds implementations of arbitrary Go interfaces that forward
// every member access to a single handler.
//
// An adapter for interface I is an object that satisfies I and does nothing
// but report each call to an apis.Handler: which member was accessed, with
// which arguments, and where the results go. Proxies, decorators, auditing
// layers, mocks and remote stubs are all handlers; ifx supplies the glue.
//
// # Synthesis
//
// Go cannot add method sets to types at runtime, so the forwarding code is
// synthesized ahead of time by the ifxgen command and registered on package
// initialization:
//
//	//go:generate go run dirpx.dev/ifx/cmd/ifxgen generate --config ifxgen.yaml
//
// For every listed interface ifxgen writes an unexported adapter type, a
// binding (the adapter constructor plus its slot layout) and an Adapt*
// constructor. Everything else happens at runtime:
//
//   - Descriptor extraction (package descriptor) reads the interface once
//     and classifies its members: GetX/SetX accessor pairs become properties,
//     everything else is a method, and each method gets the handler
//     operation it forwards to.
//
//   - The instantiator (package instantiator) binds the extracted
//     descriptors to the binding's slots and caches the result per closed
//     interface type. Entries are never evicted; repeated requests for the
//     same shape reuse one implementation.
//
//   - The factory (package factory) rejects non-interface types with
//     apis.ErrNotInterface, prepares or reuses the implementation and binds
//     a fresh instance to the caller's handler.
//
// # Handler protocol
//
// A handler implements six operations: MethodValue, MethodVoid,
// MethodValueAsync, MethodVoidAsync, GetProperty and SetProperty. Results
// travel through typed destination pointers, so the result type in effect
// at the call site (including the type arguments of a generic interface)
// is visible to the handler. Methods returning a receive-only channel are
// asynchronous: the adapter returns the handler's channel without waiting.
//
// Handlers that prefer plain values implement apis.UntypedHandler and are
// adapted with handler.Coerce.
//
// # Global API
//
// The package keeps the read-mostly global snapshot familiar from other
// DIRPX libraries: configuration, binding registry, instantiator cache and
// builder live in one immutable state that writers swap atomically.
//
//	g, err := ifx.Create[Greeter](h)          // typed
//	v, err := ifx.CreateType(reflect.TypeOf((*Greeter)(nil)), h)
//	g, err = ifx.WithAuditing[Greeter](impl, logger)
//
// Reads are lock-free. SetConfig, SetBuilder and SetExt rebuild the
// non-pinned layers; SetRegistry and SetCache pin the layer they replace
// until it is unpinned again. SetAll replaces everything at once and is
// mainly used by tests.
//
// # Scope
//
// ifx does not synthesize structs, does not pick handlers, does not
// intercept calls beyond forwarding, and never evicts prepared
// implementations.
package ifx
