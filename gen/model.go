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
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/descriptor"
)

const (
	ifxPath     = "dirpx.dev/ifx"
	ifxAPIsPath = "dirpx.dev/ifx/apis"
)

var (
	// ErrNotInterface is returned for targets that are not interface types.
	// Nothing is generated for a config that names one.
	ErrNotInterface = errors.New("ifx(gen): target is not an interface")
	// ErrUnknownType is returned for targets missing from the package scope.
	ErrUnknownType = errors.New("ifx(gen): no such type")
	// ErrUnsupported is returned for interfaces that cannot be implemented
	// outside their declaring package or that are type constraints.
	ErrUnsupported = errors.New("ifx(gen): unsupported interface")
	// ErrInstantiation is returned for invalid closed instantiations.
	ErrInstantiation = errors.New("ifx(gen): invalid instantiation")
)

// Shape is the analyzed form of one target interface, ready to be emitted.
type Shape struct {
	// Name is the interface name.
	Name string
	// Origin is "import/path.Name".
	Origin string
	// Adapter, NewFunc, BindFunc and AdaptFunc name the emitted declarations.
	Adapter   string
	NewFunc   string
	BindFunc  string
	AdaptFunc string
	// TypeParams is the declaration list ("[K comparable, V any]"), or "".
	TypeParams string
	// TypeArgs is the use list ("[K, V]"), or "".
	TypeArgs string
	// Params holds the type parameter names.
	Params []string
	// Properties and Methods are sorted by name.
	Properties []*Property
	Methods    []*Method
	// Registrations holds the bind calls emitted into init.
	Registrations []string
	// Constructors selects the Adapt* function.
	Constructors bool
}

// Property is one analyzed property.
type Property struct {
	Name string
	Slot string
	Type string
	Get  bool
	Set  bool
}

// Signature renders the property like apis.Property.Signature.
func (p *Property) Signature() string {
	var sb strings.Builder
	sb.WriteString(p.Name + " " + p.Type + " {")
	if p.Get {
		sb.WriteString(" get;")
	}
	if p.Set {
		sb.WriteString(" set;")
	}
	sb.WriteString(" }")
	return sb.String()
}

// Method is one analyzed plain method.
type Method struct {
	Name    string
	Slot    string
	Call    apis.CallKind
	Generic bool
	// Params is the parameter list ("p0 string, p1 ...int").
	Params string
	// Results is the result list including its leading space, or "".
	Results string
	// Body holds the statements of the forwarding body.
	Body []string
	// Signature is the declared signature with source parameter names.
	Signature string
}

// IsGeneric reports whether the interface has type parameters.
func (s *Shape) IsGeneric() bool { return len(s.Params) > 0 }

// Slot is one adapter field populated from the member list.
type Slot struct {
	Name string
	Kind string
}

// Slots returns the adapter slots in member order.
func (s *Shape) Slots() []Slot {
	out := make([]Slot, 0, len(s.Properties)+len(s.Methods))
	for _, p := range s.Properties {
		out = append(out, Slot{Name: p.Slot, Kind: "Property"})
	}
	for _, m := range s.Methods {
		out = append(out, Slot{Name: m.Slot, Kind: "Method"})
	}
	return out
}

// PropertyNames returns the quoted property slot names as a Go slice literal.
func (s *Shape) PropertyNames() string {
	names := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		names[i] = p.Name
	}
	return stringsLit(names)
}

// MethodNames returns the quoted method slot names as a Go slice literal.
func (s *Shape) MethodNames() string {
	names := make([]string, len(s.Methods))
	for i, m := range s.Methods {
		names[i] = m.Name
	}
	return stringsLit(names)
}

// AccessLit returns the accessor sets of the properties as a Go slice
// literal.
func (s *Shape) AccessLit() string {
	parts := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		switch {
		case p.Get && p.Set:
			parts[i] = "ifxapis.AccessReadWrite"
		case p.Get:
			parts[i] = "ifxapis.AccessRead"
		default:
			parts[i] = "ifxapis.AccessWrite"
		}
	}
	return "[]ifxapis.Access{" + strings.Join(parts, ", ") + "}"
}

// CallsLit returns the forwarding calls of the methods as a Go slice
// literal.
func (s *Shape) CallsLit() string {
	parts := make([]string, len(s.Methods))
	for i, m := range s.Methods {
		parts[i] = "ifxapis." + callConst[m.Call]
	}
	return "[]ifxapis.CallKind{" + strings.Join(parts, ", ") + "}"
}

var callConst = map[apis.CallKind]string{
	apis.CallValue:      "CallValue",
	apis.CallVoid:       "CallVoid",
	apis.CallValueAsync: "CallValueAsync",
	apis.CallVoidAsync:  "CallVoidAsync",
}

// GenericNames returns the quoted names of generic methods as a Go slice
// literal, or "" when there are none.
func (s *Shape) GenericNames() string {
	var names []string
	for _, m := range s.Methods {
		if m.Generic {
			names = append(names, m.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return stringsLit(names)
}

// TypeArgsLit returns the reflect.Type slice literal of the type parameters.
func (s *Shape) TypeArgsLit() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = "reflect.TypeFor[" + p + "]()"
	}
	return "[]reflect.Type{" + strings.Join(parts, ", ") + "}"
}

func stringsLit(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%q", n)
	}
	return "[]string{" + strings.Join(parts, ", ") + "}"
}

// Analyze classifies the members of the interface named by t in pkg.
// Types are rendered through im, which records the imports they need.
func Analyze(pkg *types.Package, t Target, im *Imports, constructors bool) (*Shape, error) {
	obj := pkg.Scope().Lookup(t.Name)
	if obj == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownType, pkg.Path(), t.Name)
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is a %s", ErrNotInterface, pkg.Path(), t.Name, objectKind(obj))
	}
	iface, ok := tn.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is %s", ErrNotInterface, pkg.Path(), t.Name, typeKind(tn.Type().Underlying()))
	}
	if !iface.IsMethodSet() {
		return nil, fmt.Errorf("%w: %s.%s is a type constraint", ErrUnsupported, pkg.Path(), t.Name)
	}

	var tparams *types.TypeParamList
	named, _ := types.Unalias(tn.Type()).(*types.Named)
	if named != nil && !tn.IsAlias() {
		tparams = named.TypeParams()
	}

	title := upperFirst(t.Name)
	s := &Shape{
		Name:         t.Name,
		Origin:       pkg.Path() + "." + t.Name,
		Adapter:      lowerFirst(t.Name) + "Adapter",
		NewFunc:      "new" + title + "Adapter",
		BindFunc:     "bind" + title,
		AdaptFunc:    "adapt" + title,
		Constructors: constructors,
	}
	if token.IsExported(t.Name) {
		s.AdaptFunc = "Adapt" + t.Name
	}

	if tparams.Len() > 0 {
		decl := make([]string, tparams.Len())
		for i := 0; i < tparams.Len(); i++ {
			tp := tparams.At(i)
			s.Params = append(s.Params, tp.Obj().Name())
			decl[i] = tp.Obj().Name() + " " + types.TypeString(tp.Constraint(), im.Qualifier)
		}
		s.TypeParams = "[" + strings.Join(decl, ", ") + "]"
		s.TypeArgs = "[" + strings.Join(s.Params, ", ") + "]"
	}

	sigs := make([]descriptor.Sig[types.Type], iface.NumMethods())
	funcs := make([]*types.Func, iface.NumMethods())
	for i := range sigs {
		fn := iface.Method(i)
		if !fn.Exported() && fn.Pkg() != pkg {
			return nil, fmt.Errorf("%w: %s.%s has unexported method %s.%s",
				ErrUnsupported, pkg.Path(), t.Name, fn.Pkg().Path(), fn.Name())
		}
		funcs[i] = fn
		sigs[i] = signature(i, fn)
	}
	layout := descriptor.Classify[types.Type](sigs, goTypes{})

	for _, p := range layout.Properties {
		s.Properties = append(s.Properties, &Property{
			Name: p.Name,
			Slot: "p" + p.Name,
			Type: types.TypeString(p.Type, im.Qualifier),
			Get:  p.Getter >= 0,
			Set:  p.Setter >= 0,
		})
	}
	for _, m := range layout.Methods {
		s.Methods = append(s.Methods, analyzeMethod(m, funcs[m.Sig.Index], tparams, im))
	}

	if err := s.registrations(pkg, named, t, im); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shape) registrations(pkg *types.Package, named *types.Named, t Target, im *Imports) error {
	if !s.IsGeneric() {
		if len(t.Instantiate) > 0 {
			return fmt.Errorf("%w: %s is not generic", ErrInstantiation, t.Name)
		}
		s.Registrations = []string{s.BindFunc + "()"}
		return nil
	}

	fset := token.NewFileSet()
	for _, inst := range t.Instantiate {
		if len(inst) != len(s.Params) {
			return fmt.Errorf("%w: %s%v: got %d type arguments, want %d",
				ErrInstantiation, t.Name, inst, len(inst), len(s.Params))
		}
		args := make([]types.Type, len(inst))
		rendered := make([]string, len(inst))
		for i, expr := range inst {
			tv, err := types.Eval(fset, pkg, token.NoPos, expr)
			if err != nil {
				return fmt.Errorf("%w: %s%v: %v", ErrInstantiation, t.Name, inst, err)
			}
			if !tv.IsType() {
				return fmt.Errorf("%w: %s%v: %s is not a type", ErrInstantiation, t.Name, inst, expr)
			}
			args[i] = tv.Type
			rendered[i] = types.TypeString(tv.Type, im.Qualifier)
		}
		if _, err := types.Instantiate(nil, named, args, true); err != nil {
			return fmt.Errorf("%w: %s%v: %v", ErrInstantiation, t.Name, inst, err)
		}
		s.Registrations = append(s.Registrations, s.BindFunc+"["+strings.Join(rendered, ", ")+"]()")
	}
	return nil
}

func analyzeMethod(m descriptor.MethodSpec[types.Type], fn *types.Func, tparams *types.TypeParamList, im *Imports) *Method {
	sig := fn.Type().(*types.Signature)
	out := &Method{
		Name:    m.Sig.Name,
		Slot:    "m" + m.Sig.Name,
		Call:    m.Call,
		Generic: mentions(sig, tparams),
	}

	params := make([]string, len(m.Sig.In))
	args := make([]string, len(m.Sig.In))
	for i, pt := range m.Sig.In {
		args[i] = fmt.Sprintf("p%d", i)
		ts := types.TypeString(pt, im.Qualifier)
		if m.Sig.Variadic && i == len(m.Sig.In)-1 {
			ts = "..." + types.TypeString(pt.(*types.Slice).Elem(), im.Qualifier)
		}
		params[i] = args[i] + " " + ts
	}
	out.Params = strings.Join(params, ", ")

	results := make([]string, len(m.Sig.Out))
	for i, rt := range m.Sig.Out {
		results[i] = types.TypeString(rt, im.Qualifier)
	}
	switch len(results) {
	case 0:
	case 1:
		out.Results = " " + results[0]
	default:
		out.Results = " (" + strings.Join(results, ", ") + ")"
	}

	slot := "x." + out.Slot
	packed := "[]any{" + strings.Join(args, ", ") + "}"
	trailing := ""
	if len(args) > 0 {
		trailing = ", " + strings.Join(args, ", ")
	}
	switch m.Call {
	case apis.CallVoid:
		out.Body = []string{"x.h.MethodVoid(" + slot + ", " + packed + ")"}
	case apis.CallVoidAsync:
		out.Body = []string{"return x.h.MethodVoidAsync(" + slot + ", " + packed + ")"}
	case apis.CallValueAsync:
		elem := types.TypeString(m.Result, im.Qualifier)
		out.Body = []string{"return ifxapis.MethodValueAsync[" + elem + "](x.h, " + slot + trailing + ")"}
	case apis.CallValue:
		if len(results) == 1 {
			out.Body = []string{"return ifxapis.MethodValue[" + results[0] + "](x.h, " + slot + trailing + ")"}
			break
		}
		refs := make([]string, len(results))
		names := make([]string, len(results))
		for i, r := range results {
			names[i] = fmt.Sprintf("r%d", i)
			refs[i] = "&" + names[i]
			out.Body = append(out.Body, "var "+names[i]+" "+r)
		}
		out.Body = append(out.Body,
			"x.h.MethodValue("+slot+", "+packed+", []any{"+strings.Join(refs, ", ")+"})",
			"return "+strings.Join(names, ", "),
		)
	}

	out.Signature = fn.Name() + strings.TrimPrefix(types.TypeString(sig, im.Qualifier), "func")
	return out
}

func objectKind(obj types.Object) string {
	switch obj.(type) {
	case *types.Func:
		return "function"
	case *types.Var:
		return "variable"
	case *types.Const:
		return "constant"
	default:
		return "non-type object"
	}
}

func typeKind(t types.Type) string {
	switch t.(type) {
	case *types.Struct:
		return "a struct"
	case *types.Basic:
		return "a basic type"
	case *types.Signature:
		return "a function type"
	case *types.Pointer:
		return "a pointer type"
	case *types.Slice, *types.Array:
		return "a sequence type"
	case *types.Map:
		return "a map type"
	case *types.Chan:
		return "a channel type"
	default:
		return "not an interface"
	}
}

// lowerFirst lower-cases the leading initialism or letter of s
// ("HTTPClient" -> "httpClient", "Greeter" -> "greeter").
func lowerFirst(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
