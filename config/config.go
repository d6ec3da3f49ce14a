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

package config

import (
	"dirpx.dev/ifx/apis"
)

const (
	// DefaultExactlyOnce represents the default for ExactlyOnce.
	// Racing first-time builds of one shape are tolerated; the last insert wins.
	DefaultExactlyOnce = false
	// DefaultValidateBindings represents the default for ValidateBindings.
	// Bindings are checked once before they are cached.
	DefaultValidateBindings = true
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		ExactlyOnce:      DefaultExactlyOnce,
		ValidateBindings: DefaultValidateBindings,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithExactlyOnce sets the ExactlyOnce option.
func WithExactlyOnce(once bool) Option {
	return func(c *apis.Config) {
		c.ExactlyOnce = once
	}
}

// WithValidateBindings sets the ValidateBindings option.
func WithValidateBindings(validate bool) Option {
	return func(c *apis.Config) {
		c.ValidateBindings = validate
	}
}
