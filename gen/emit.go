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
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"sort"
	"strings"
	"text/template"
)

// Imports tracks the packages referenced by generated code and assigns
// each a unique local name.
type Imports struct {
	self   *types.Package
	byPath map[string]string
	byName map[string]string
	used   map[string]bool
}

// NewImports returns an import set for code generated into self. The ifx
// packages and reflect are reserved under their fixed names.
func NewImports(self *types.Package) *Imports {
	im := &Imports{
		self:   self,
		byPath: map[string]string{},
		byName: map[string]string{},
		used:   map[string]bool{},
	}
	im.reserve("reflect", "reflect")
	im.reserve(ifxPath, "ifx")
	im.reserve(ifxAPIsPath, "ifxapis")
	return im
}

func (im *Imports) reserve(path, name string) {
	im.byPath[path] = name
	im.byName[name] = path
}

// Use marks path as referenced.
func (im *Imports) Use(path string) { im.used[path] = true }

// Qualifier is a types.Qualifier that records every foreign package.
func (im *Imports) Qualifier(p *types.Package) string {
	if p == nil || p == im.self || p.Path() == im.self.Path() {
		return ""
	}
	im.used[p.Path()] = true
	if name, ok := im.byPath[p.Path()]; ok {
		return name
	}
	name := p.Name()
	for i := 2; im.byName[name] != ""; i++ {
		name = fmt.Sprintf("%s%d", p.Name(), i)
	}
	im.reserve(p.Path(), name)
	return name
}

type importSpec struct {
	Path  string
	Alias string
}

// groups splits the used imports into standard library and others, each
// sorted by path.
func (im *Imports) groups() (std, ext []importSpec) {
	for path := range im.used {
		spec := importSpec{Path: path}
		name := im.byPath[path]
		if name != lastElem(path) {
			spec.Alias = name
		}
		if isStd(path) {
			std = append(std, spec)
		} else {
			ext = append(ext, spec)
		}
	}
	sort.Slice(std, func(i, j int) bool { return std[i].Path < std[j].Path })
	sort.Slice(ext, func(i, j int) bool { return ext[i].Path < ext[j].Path })
	return std, ext
}

func isStd(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

func lastElem(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

type fileModel struct {
	Header        string
	Package       string
	Std           []importSpec
	Ext           []importSpec
	Registrations []string
	Shapes        []*Shape
}

var fileTmpl = template.Must(template.New("file").Parse(`{{.Header}}

package {{.Package}}

import (
{{- range .Std}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
{{if and .Std .Ext}}
{{end}}
{{- range .Ext}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{if .Registrations}}
func init() {
{{- range .Registrations}}
	ifx.MustRegister({{.}})
{{- end}}
}
{{end}}
{{- range .Shapes}}{{template "shape" .}}{{end}}`))

var _ = template.Must(fileTmpl.New("shape").Parse(`
// {{.Adapter}} forwards every member of {{.Name}} to a handler.
type {{.Adapter}}{{.TypeParams}} struct {
	h ifxapis.Handler
{{- range .Properties}}
	{{.Slot}} *ifxapis.Property
{{- end}}
{{- range .Methods}}
	{{.Slot}} *ifxapis.Method
{{- end}}
}
{{if not .IsGeneric}}
var _ {{.Name}} = (*{{.Adapter}})(nil)
{{end}}
func {{.NewFunc}}{{.TypeParams}}(ms []ifxapis.Member, h ifxapis.Handler) any {
	return &{{.Adapter}}{{.TypeArgs}}{
		h: h,
{{- range $i, $s := .Slots}}
		{{$s.Name}}: ms[{{$i}}].(*ifxapis.{{$s.Kind}}),
{{- end}}
	}
}

func {{.BindFunc}}{{.TypeParams}}() ifxapis.Binding {
	return ifxapis.Binding{
		Shape: reflect.TypeFor[{{.Name}}{{.TypeArgs}}](),
{{- if .IsGeneric}}
		TypeArgs: {{.TypeArgsLit}},
{{- end}}
		Origin: "{{.Origin}}",
{{- if .Properties}}
		Properties: {{.PropertyNames}},
		Access: {{.AccessLit}},
{{- end}}
{{- if .Methods}}
		Methods: {{.MethodNames}},
		Calls: {{.CallsLit}},
{{- end}}
{{- with .GenericNames}}
		Generic: {{.}},
{{- end}}
		New: {{.NewFunc}}{{.TypeArgs}},
	}
}
{{if .Constructors}}
// {{.AdaptFunc}} returns a new {{.Name}} forwarding every member access to h.
func {{.AdaptFunc}}{{.TypeParams}}(h ifxapis.Handler) ({{.Name}}{{.TypeArgs}}, error) {
	return ifx.Bind[{{.Name}}{{.TypeArgs}}]({{.BindFunc}}{{.TypeArgs}}(), h)
}
{{end}}
{{- $s := .}}
{{- range .Properties}}
{{- if .Get}}
func (x *{{$s.Adapter}}{{$s.TypeArgs}}) Get{{.Name}}() {{.Type}} {
	return ifxapis.GetProperty[{{.Type}}](x.h, x.{{.Slot}})
}
{{end}}
{{- if .Set}}
func (x *{{$s.Adapter}}{{$s.TypeArgs}}) Set{{.Name}}(p0 {{.Type}}) {
	x.h.SetProperty(x.{{.Slot}}, p0)
}
{{end}}
{{- end}}
{{- range .Methods}}
func (x *{{$s.Adapter}}{{$s.TypeArgs}}) {{.Name}}({{.Params}}){{.Results}} {
{{- range .Body}}
	{{.}}
{{- end}}
}
{{end}}`))

// Emit renders and formats the adapter file for shapes.
func Emit(pkgName string, shapes []*Shape, im *Imports) ([]byte, error) {
	im.Use("reflect")
	im.Use(ifxAPIsPath)

	m := fileModel{
		Header:  GeneratedHeader,
		Package: pkgName,
		Shapes:  shapes,
	}
	for _, s := range shapes {
		m.Registrations = append(m.Registrations, s.Registrations...)
		if s.Constructors {
			im.Use(ifxPath)
		}
	}
	if len(m.Registrations) > 0 {
		im.Use(ifxPath)
	}
	m.Std, m.Ext = im.groups()

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, m); err != nil {
		return nil, fmt.Errorf("ifx(gen): render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("ifx(gen): format generated code: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}
