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
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// GeneratedHeader is the first line of every file ifxgen writes.
const GeneratedHeader = "// Code generated by ifxgen. DO NOT EDIT."

var (
	// ErrLoad is returned when the target package cannot be loaded.
	ErrLoad = errors.New("ifx(gen): cannot load package")
	// ErrNotGenerated is returned instead of overwriting a file that was
	// not written by ifxgen.
	ErrNotGenerated = errors.New("ifx(gen): refusing to overwrite a file not generated by ifxgen")
)

// Package is a loaded, type-checked target package.
type Package struct {
	// Types is the type-checked package.
	Types *types.Package
	// Fset positions Types.
	Fset *token.FileSet
	// Dir is the package directory.
	Dir string
}

// Load loads the single package matching pattern (relative to dir).
//
// A previous output file in the package is read for its package clause
// only, so stale generated code never prevents regeneration.
func Load(ctx context.Context, dir, pattern, output string) (*Package, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Fset:    fset,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedImports | packages.NeedTypes | packages.NeedTypesInfo,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			if filepath.Base(filename) == output && isGenerated(src) {
				return parser.ParseFile(fset, filename, src, parser.PackageClauseOnly)
			}
			return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
		},
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrLoad, pattern, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%w %q: matched %d packages, want 1", ErrLoad, pattern, len(pkgs))
	}
	pkg := pkgs[0]

	var msgs []string
	for _, e := range pkg.Errors {
		// Errors inside the previous output are expected when it is stale.
		if inOutput(e.Pos, output) {
			continue
		}
		msgs = append(msgs, e.Error())
	}
	if len(msgs) > 0 {
		return nil, fmt.Errorf("%w %q:\n\t%s", ErrLoad, pattern, strings.Join(msgs, "\n\t"))
	}
	if pkg.Types == nil || len(pkg.GoFiles) == 0 {
		return nil, fmt.Errorf("%w %q: no Go files", ErrLoad, pattern)
	}

	return &Package{
		Types: pkg.Types,
		Fset:  fset,
		Dir:   filepath.Dir(pkg.GoFiles[0]),
	}, nil
}

// inOutput reports whether the error position pos ("file:line:col",
// "file:line" or "file") lies in the file named output.
func inOutput(pos, output string) bool {
	file := pos
	for range 2 {
		i := strings.LastIndexByte(file, ':')
		if i < 0 || !isDigits(file[i+1:]) {
			break
		}
		file = file[:i]
	}
	return file != "" && filepath.Base(file) == output
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(GeneratedHeader))
}

// writeOutput replaces path with src unless path holds a file that was
// not generated by ifxgen.
func writeOutput(path string, src []byte) error {
	old, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !isGenerated(old) {
			return fmt.Errorf("%w: %s", ErrNotGenerated, path)
		}
		if bytes.Equal(old, src) {
			return nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	return os.WriteFile(path, src, 0o644)
}
