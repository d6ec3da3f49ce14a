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
	"context"
	"errors"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ifx/apis"
)

const shapesDir = "../internal/testshapes"

// check type-checks src as package "example.com/demo".
func check(t *testing.T, src string) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "demo.go", src, 0)
	require.NoError(t, err)
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check("example.com/demo", fset, []*ast.File{f}, nil)
	require.NoError(t, err)
	return pkg
}

const demoSrc = `package demo

import (
	"context"
	"io"
)

type Reader interface {
	GetSize() int64
	SetSize(n int64)
	GetClosed() bool
	Read(ctx context.Context, p []byte) (int, error)
	Close() error
	Stream(r io.Reader) <-chan []byte
	Done() <-chan struct{}
	Log(format string, args ...any)
}

type Pair[K comparable, V any] interface {
	Key() K
	Value() V
	Both() (K, V)
	Plain(n int) string
}

type number interface{ ~int | ~float64 }

type hidden interface {
	secret() int
	Public() string
}

type Config struct{ Name string }

type Alias = Reader

func Helper() {}
`

func TestAnalyze_PropertiesAndMethods(t *testing.T) {
	pkg := check(t, demoSrc)
	im := NewImports(pkg)

	s, err := Analyze(pkg, Target{Name: "Reader"}, im, true)
	require.NoError(t, err)

	assert.Equal(t, "readerAdapter", s.Adapter)
	assert.Equal(t, "AdaptReader", s.AdaptFunc)
	assert.Equal(t, "example.com/demo.Reader", s.Origin)
	assert.False(t, s.IsGeneric())
	assert.Equal(t, []string{"bindReader()"}, s.Registrations)

	require.Len(t, s.Properties, 2)
	assert.Equal(t, Property{Name: "Closed", Slot: "pClosed", Type: "bool", Get: true}, *s.Properties[0])
	assert.Equal(t, Property{Name: "Size", Slot: "pSize", Type: "int64", Get: true, Set: true}, *s.Properties[1])
	assert.Equal(t, "Size int64 { get; set; }", s.Properties[1].Signature())

	byName := map[string]*Method{}
	for _, m := range s.Methods {
		byName[m.Name] = m
	}
	require.Len(t, byName, 5)

	assert.Equal(t, apis.CallValue, byName["Read"].Call)
	assert.Equal(t, "p0 context.Context, p1 []byte", byName["Read"].Params)
	assert.Equal(t, " (int, error)", byName["Read"].Results)
	assert.Equal(t, "Read(ctx context.Context, p []byte) (int, error)", byName["Read"].Signature)

	assert.Equal(t, apis.CallValue, byName["Close"].Call)
	assert.Equal(t, []string{"return ifxapis.MethodValue[error](x.h, x.mClose)"}, byName["Close"].Body)

	assert.Equal(t, apis.CallValueAsync, byName["Stream"].Call)
	assert.Equal(t, []string{"return ifxapis.MethodValueAsync[[]byte](x.h, x.mStream, p0)"}, byName["Stream"].Body)

	assert.Equal(t, apis.CallVoidAsync, byName["Done"].Call)
	assert.Equal(t, apis.CallVoid, byName["Log"].Call)
	assert.Equal(t, "p0 string, p1 ...any", byName["Log"].Params)
	assert.Equal(t, []string{"x.h.MethodVoid(x.mLog, []any{p0, p1})"}, byName["Log"].Body)

	// The binding records the layout the adapter forwards to.
	assert.Equal(t, "[]ifxapis.Access{ifxapis.AccessRead, ifxapis.AccessReadWrite}", s.AccessLit())
	assert.Equal(t, "[]ifxapis.CallKind{ifxapis.CallValue, ifxapis.CallVoidAsync, ifxapis.CallVoid, ifxapis.CallValue, ifxapis.CallValueAsync}", s.CallsLit())

	std, _ := im.groups()
	var paths []string
	for _, s := range std {
		paths = append(paths, s.Path)
	}
	assert.Contains(t, paths, "context")
	assert.Contains(t, paths, "io")
}

func TestAnalyze_Generic(t *testing.T) {
	pkg := check(t, demoSrc)

	s, err := Analyze(pkg, Target{Name: "Pair", Instantiate: [][]string{{"string", "int"}, {"int", "Config"}}}, NewImports(pkg), false)
	require.NoError(t, err)

	assert.True(t, s.IsGeneric())
	assert.Equal(t, "[K comparable, V any]", s.TypeParams)
	assert.Equal(t, "[K, V]", s.TypeArgs)
	assert.Equal(t, `[]reflect.Type{reflect.TypeFor[K](), reflect.TypeFor[V]()}`, s.TypeArgsLit())
	assert.Equal(t, `[]string{"Both", "Key", "Value"}`, s.GenericNames())
	assert.Equal(t, []string{"bindPair[string, int]()", "bindPair[int, Config]()"}, s.Registrations)

	both := s.Methods[0]
	assert.Equal(t, "Both", both.Name)
	assert.Equal(t, []string{
		"var r0 K",
		"var r1 V",
		"x.h.MethodValue(x.mBoth, []any{}, []any{&r0, &r1})",
		"return r0, r1",
	}, both.Body)
}

func TestAnalyze_Rejections(t *testing.T) {
	pkg := check(t, demoSrc)

	cases := []struct {
		target Target
		want   error
	}{
		{Target{Name: "Config"}, ErrNotInterface},
		{Target{Name: "Helper"}, ErrNotInterface},
		{Target{Name: "Missing"}, ErrUnknownType},
		{Target{Name: "number"}, ErrUnsupported},
		{Target{Name: "Reader", Instantiate: [][]string{{"int"}}}, ErrInstantiation},
		{Target{Name: "Pair", Instantiate: [][]string{{"int"}}}, ErrInstantiation},
		{Target{Name: "Pair", Instantiate: [][]string{{"[]int", "int"}}}, ErrInstantiation},
		{Target{Name: "Pair", Instantiate: [][]string{{"Unknown", "int"}}}, ErrInstantiation},
	}
	for _, c := range cases {
		t.Run(c.target.Name, func(t *testing.T) {
			_, err := Analyze(pkg, c.target, NewImports(pkg), true)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestAnalyze_UnexportedMethodInSamePackage(t *testing.T) {
	pkg := check(t, demoSrc)

	s, err := Analyze(pkg, Target{Name: "hidden"}, NewImports(pkg), true)
	require.NoError(t, err)
	assert.Equal(t, "hiddenAdapter", s.Adapter)
	assert.Equal(t, "adaptHidden", s.AdaptFunc)
	assert.Equal(t, "bindHidden", s.BindFunc)
}

func TestAnalyze_Alias(t *testing.T) {
	pkg := check(t, demoSrc)

	s, err := Analyze(pkg, Target{Name: "Alias"}, NewImports(pkg), true)
	require.NoError(t, err)
	assert.Len(t, s.Properties, 2)
	assert.False(t, s.IsGeneric())
}

func TestBuild_RendersDemo(t *testing.T) {
	pkg := check(t, demoSrc)

	src, err := Build(pkg, &Config{Interfaces: []Target{
		{Name: "Reader"},
		{Name: "Pair", Instantiate: [][]string{{"string", "int"}}},
	}})
	require.NoError(t, err)

	out := string(src)
	assert.True(t, strings.HasPrefix(out, GeneratedHeader+"\n\npackage demo\n"))
	assert.Contains(t, out, "\t\"context\"\n\t\"io\"\n\t\"reflect\"\n\n\t\"dirpx.dev/ifx\"\n\tifxapis \"dirpx.dev/ifx/apis\"\n")
	assert.Contains(t, out, "ifx.MustRegister(bindPair[string, int]())")
	assert.Contains(t, out, "var _ Reader = (*readerAdapter)(nil)")
	assert.NotContains(t, out, "var _ Pair")
	assert.Contains(t, out, "func (x *pairAdapter[K, V]) Key() K {")

	// The rendered file must parse.
	fset := token.NewFileSet()
	_, err = parser.ParseFile(fset, "ifx_adapters.go", src, parser.ParseComments)
	require.NoError(t, err)
}

func TestBuild_FailsAtomically(t *testing.T) {
	pkg := check(t, demoSrc)

	_, err := Build(pkg, &Config{Interfaces: []Target{{Name: "Reader"}, {Name: "Config"}}})
	assert.ErrorIs(t, err, ErrNotInterface)
}

// TestBuild_Golden regenerates the test shapes and compares them with the
// committed adapter file.
func TestBuild_Golden(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	cfg, err := LoadConfig(filepath.Join(shapesDir, "ifxgen.yaml"))
	require.NoError(t, err)

	pkg, err := Load(context.Background(), cfg.Dir, cfg.Package, cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "dirpx.dev/ifx/internal/testshapes", pkg.Types.Path())

	got, err := Build(pkg.Types, cfg)
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join(shapesDir, cfg.Output))
	require.NoError(t, err)

	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("generated adapters differ from %s (-want +got):\n%s", cfg.Output, diff)
	}
}

func TestGenerate_RefusesForeignOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("go.mod", "module example.com/demo\n\ngo 1.25\n")
	write("demo.go", "package demo\n\ntype Pinger interface{ Ping() error }\n")
	write("ifx_adapters.go", "package demo\n\n// hand written\n")

	cfg := &Config{Package: ".", Output: DefaultOutput, Dir: dir, Interfaces: []Target{{Name: "Pinger"}}}
	_, err := Generate(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNotGenerated)

	body, err := os.ReadFile(filepath.Join(dir, "ifx_adapters.go"))
	require.NoError(t, err)
	assert.Equal(t, "package demo\n\n// hand written\n", string(body))
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.go")
	src := []byte(GeneratedHeader + "\n\npackage x\n")

	require.NoError(t, writeOutput(path, src))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	// Regenerating over a generated file is allowed.
	next := []byte(GeneratedHeader + "\n\npackage y\n")
	require.NoError(t, writeOutput(path, next))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	require.NoError(t, os.WriteFile(path, []byte("package x\n"), 0o644))
	err = writeOutput(path, src)
	assert.True(t, errors.Is(err, ErrNotGenerated))
}

func TestImports_Qualifier(t *testing.T) {
	self := types.NewPackage("example.com/demo", "demo")
	im := NewImports(self)

	assert.Equal(t, "", im.Qualifier(self))
	assert.Equal(t, "ifxapis", im.Qualifier(types.NewPackage("dirpx.dev/ifx/apis", "apis")))
	assert.Equal(t, "errors", im.Qualifier(types.NewPackage("errors", "errors")))
	assert.Equal(t, "errors2", im.Qualifier(types.NewPackage("github.com/pkg/errors", "errors")))
	assert.Equal(t, "errors2", im.Qualifier(types.NewPackage("github.com/pkg/errors", "errors")))

	std, ext := im.groups()
	assert.Equal(t, []importSpec{{Path: "errors"}}, std)
	assert.Equal(t, []importSpec{
		{Path: "dirpx.dev/ifx/apis", Alias: "ifxapis"},
		{Path: "github.com/pkg/errors", Alias: "errors2"},
	}, ext)
}

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"Greeter":    "greeter",
		"HTTPClient": "httpClient",
		"ID":         "id",
		"X":          "x",
		"already":    "already",
		"IOReader":   "ioReader",
	}
	for in, want := range cases {
		assert.Equal(t, want, lowerFirst(in), in)
	}
}

func TestMentions(t *testing.T) {
	pkg := check(t, demoSrc)
	named := pkg.Scope().Lookup("Pair").Type().(*types.Named)
	tps := named.TypeParams()
	iface := named.Underlying().(*types.Interface)

	for i := 0; i < iface.NumMethods(); i++ {
		fn := iface.Method(i)
		want := fn.Name() != "Plain"
		assert.Equal(t, want, mentions(fn.Type(), tps), fn.Name())
	}
	assert.False(t, mentions(types.Typ[types.Int], nil))
}

func TestInOutput(t *testing.T) {
	tests := map[string]struct {
		pos  string
		want bool
	}{
		"line and column": {pos: "/src/x/ifx_adapters.go:3:1", want: true},
		"line only":       {pos: "x/ifx_adapters.go:12", want: true},
		"file only":       {pos: "ifx_adapters.go", want: true},
		"longer name":     {pos: "/src/x/old_ifx_adapters.go:3:1", want: false},
		"name suffix":     {pos: "/src/x/ifx_adapters.go.orig:3:1", want: false},
		"directory match": {pos: "/src/ifx_adapters.go/shapes.go:3:1", want: false},
		"other file":      {pos: "/src/x/shapes.go:7:2", want: false},
		"no position":     {pos: "", want: false},
		"unknown":         {pos: "-", want: false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, inOutput(tc.pos, "ifx_adapters.go"))
		})
	}
}
