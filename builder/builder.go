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

package builder

import (
	"dirpx.dev/ifx/apis"
	"dirpx.dev/ifx/instantiator"
	"dirpx.dev/ifx/registry"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its bindings are copied
// into the new registry.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			if bd, ok := preg.Lookup(e.Type); ok {
				_ = nreg.Register(bd)
			}
		}
	}
	return nreg
}

// BuildCache builds and returns a new apis.Cache based on the provided configuration.
// Prepared instantiators of a pre-existing cache are carried over, so shapes
// keep their implementation across reconfiguration.
func (b *builder) BuildCache(cfg apis.Config, pcache apis.Cache, _ any) apis.Cache {
	ncache := instantiator.NewCache(cfg)
	if pcache != nil {
		for _, t := range pcache.Types() {
			if inst, ok := pcache.Load(t); ok {
				_, _ = ncache.LoadOrPrepare(t, func() (apis.Instantiator, error) { return inst, nil })
			}
		}
	}
	return ncache
}
