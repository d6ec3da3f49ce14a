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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the output file name used when a config names none.
const DefaultOutput = "ifx_adapters.go"

var (
	// ErrInvalidConfig is returned for malformed generator configs.
	ErrInvalidConfig = errors.New("ifx(gen): invalid config")
)

// Config describes one generation target: a package and the interfaces in
// it that get adapters.
//
//	package: ./
//	output: ifx_adapters.go
//	constructors: true
//	interfaces:
//	  - name: Greeter
//	  - name: Store
//	    instantiate:
//	      - [string, int]
type Config struct {
	// Package is the package pattern, relative to Dir.
	Package string `yaml:"package"`
	// Output is the generated file name inside the package directory.
	Output string `yaml:"output"`
	// Constructors toggles the exported Adapt* functions (default true).
	Constructors *bool `yaml:"constructors"`
	// Interfaces lists the interfaces to adapt, in output order.
	Interfaces []Target `yaml:"interfaces"`

	// Dir is the directory Package is resolved against; LoadConfig sets it
	// to the config file's directory.
	Dir string `yaml:"-"`
}

// Target names one interface.
type Target struct {
	// Name is the interface's type name in the package.
	Name string `yaml:"name"`
	// Instantiate lists closed instantiations of a generic interface that
	// are registered on package initialization. Each entry holds one type
	// expression per type parameter, resolved in package scope.
	Instantiate [][]string `yaml:"instantiate"`
}

// WantConstructors reports whether Adapt* functions are emitted.
func (c *Config) WantConstructors() bool {
	return c.Constructors == nil || *c.Constructors
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.Dir = abs
	return cfg, nil
}

// ParseConfig decodes and validates a YAML config. Unknown keys are errors.
func ParseConfig(raw []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Package == "" {
		c.Package = "."
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if filepath.Base(c.Output) != c.Output || filepath.Ext(c.Output) != ".go" {
		return fmt.Errorf("%w: output %q must be a .go file name", ErrInvalidConfig, c.Output)
	}
	if len(c.Interfaces) == 0 {
		return fmt.Errorf("%w: no interfaces listed", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Interfaces))
	for _, t := range c.Interfaces {
		if t.Name == "" {
			return fmt.Errorf("%w: interface without name", ErrInvalidConfig)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: interface %s listed twice", ErrInvalidConfig, t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}
