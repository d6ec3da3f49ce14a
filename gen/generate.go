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
	"go/types"
	"log/slog"
	"path/filepath"
)

// Build analyzes every interface cfg names in pkg and renders the adapter
// file. Nothing is rendered if any target fails.
func Build(pkg *types.Package, cfg *Config) ([]byte, error) {
	im := NewImports(pkg)
	shapes := make([]*Shape, 0, len(cfg.Interfaces))
	for _, t := range cfg.Interfaces {
		s, err := Analyze(pkg, t, im, cfg.WantConstructors())
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	return Emit(pkg.Name(), shapes, im)
}

// Generate loads the package cfg targets, renders its adapters and writes
// them next to the package sources. It returns the written path.
func Generate(ctx context.Context, cfg *Config, log *slog.Logger) (string, error) {
	if log == nil {
		log = slog.Default()
	}
	pkg, err := Load(ctx, cfg.Dir, cfg.Package, cfg.Output)
	if err != nil {
		return "", err
	}
	src, err := Build(pkg.Types, cfg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(pkg.Dir, cfg.Output)
	if err := writeOutput(path, src); err != nil {
		return "", err
	}
	log.Info("ifxgen: wrote adapters",
		"package", pkg.Types.Path(),
		"file", path,
		"interfaces", len(cfg.Interfaces),
	)
	return path, nil
}
