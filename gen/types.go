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

package gen

import (
	"go/types"

	"dirpx.dev/ifx/descriptor"
)

// goTypes classifies go/types signatures with the same rules the runtime
// applies to reflect.Type.
type goTypes struct{}

// Ensure goTypes implements descriptor.Types.
var _ descriptor.Types[types.Type] = goTypes{}

var errorType = types.Universe.Lookup("error").Type()

func (goTypes) Identical(a, b types.Type) bool { return types.Identical(a, b) }

func (goTypes) IsError(t types.Type) bool { return types.Identical(t, errorType) }

func (goTypes) RecvChan(t types.Type) (types.Type, bool) {
	ch, ok := t.Underlying().(*types.Chan)
	if !ok || ch.Dir() != types.RecvOnly {
		return nil, false
	}
	return ch.Elem(), true
}

func (goTypes) IsEmptyStruct(t types.Type) bool {
	st, ok := types.Unalias(t).(*types.Struct)
	return ok && st.NumFields() == 0
}

// signature converts an interface method to its classification view.
func signature(index int, fn *types.Func) descriptor.Sig[types.Type] {
	sig := fn.Type().(*types.Signature)
	s := descriptor.Sig[types.Type]{
		Name:     fn.Name(),
		Index:    index,
		Variadic: sig.Variadic(),
	}
	for i := 0; i < sig.Params().Len(); i++ {
		s.In = append(s.In, sig.Params().At(i).Type())
	}
	for i := 0; i < sig.Results().Len(); i++ {
		s.Out = append(s.Out, sig.Results().At(i).Type())
	}
	return s
}

// mentions reports whether t refers to any of the type parameters in tps.
func mentions(t types.Type, tps *types.TypeParamList) bool {
	if tps == nil || tps.Len() == 0 {
		return false
	}
	seen := make(map[types.Type]bool)
	var walk func(types.Type) bool
	walk = func(t types.Type) bool {
		if t == nil || seen[t] {
			return false
		}
		seen[t] = true
		switch t := t.(type) {
		case *types.TypeParam:
			for i := 0; i < tps.Len(); i++ {
				if tps.At(i) == t {
					return true
				}
			}
			return false
		case *types.Alias:
			return walk(types.Unalias(t))
		case *types.Named:
			args := t.TypeArgs()
			for i := 0; i < args.Len(); i++ {
				if walk(args.At(i)) {
					return true
				}
			}
			return false
		case *types.Pointer:
			return walk(t.Elem())
		case *types.Slice:
			return walk(t.Elem())
		case *types.Array:
			return walk(t.Elem())
		case *types.Chan:
			return walk(t.Elem())
		case *types.Map:
			return walk(t.Key()) || walk(t.Elem())
		case *types.Signature:
			return walk(t.Params()) || walk(t.Results())
		case *types.Tuple:
			for i := 0; i < t.Len(); i++ {
				if walk(t.At(i).Type()) {
					return true
				}
			}
			return false
		case *types.Struct:
			for i := 0; i < t.NumFields(); i++ {
				if walk(t.Field(i).Type()) {
					return true
				}
			}
			return false
		case *types.Interface:
			for i := 0; i < t.NumMethods(); i++ {
				if walk(t.Method(i).Type()) {
					return true
				}
			}
			return false
		}
		return false
	}
	return walk(t)
}
