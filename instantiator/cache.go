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

package instantiator

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"dirpx.dev/ifx/apis"
)

// NewCache constructs an empty Cache honoring cfg.ExactlyOnce.
func NewCache(cfg apis.Config) *Cache {
	return &Cache{once: cfg.ExactlyOnce}
}

// Cache is the shape -> Instantiator map.
//
// Reads go straight to a sync.Map and never block. On a miss the caller
// prepares an instantiator itself: racing callers for the same shape may
// each prepare one and the last store wins, so every later lookup sees one
// consistent entry. With once set, racing callers share a single
// preparation through singleflight instead.
type Cache struct {
	// m maps reflect.Type to apis.Instantiator.
	m sync.Map
	// once selects singleflight-collapsed preparation.
	once bool
	// group collapses concurrent preparations when once is set.
	group singleflight.Group
	// prepared counts successful preparations (including lost races).
	prepared atomic.Int64
}

// Ensure *Cache implements apis.Cache.
var _ apis.Cache = (*Cache)(nil)

// Load returns the cached instantiator for t.
func (c *Cache) Load(t reflect.Type) (apis.Instantiator, bool) {
	if t == nil {
		return nil, false
	}
	if v, ok := c.m.Load(t); ok {
		return v.(apis.Instantiator), true
	}
	return nil, false
}

// LoadOrPrepare returns the cached instantiator for t, preparing one on a miss.
// Failed preparations store nothing.
func (c *Cache) LoadOrPrepare(t reflect.Type, prepare func() (apis.Instantiator, error)) (apis.Instantiator, error) {
	if inst, ok := c.Load(t); ok {
		return inst, nil
	}
	if !c.once {
		return c.prepareAndStore(t, prepare)
	}

	v, err, _ := c.group.Do(flightKey(t), func() (any, error) {
		// Re-check: a previous flight may have stored meanwhile.
		if inst, ok := c.Load(t); ok {
			return inst, nil
		}
		return c.prepareAndStore(t, prepare)
	})
	if err != nil {
		return nil, err
	}
	return v.(apis.Instantiator), nil
}

func (c *Cache) prepareAndStore(t reflect.Type, prepare func() (apis.Instantiator, error)) (apis.Instantiator, error) {
	inst, err := prepare()
	if err != nil {
		return nil, err
	}
	c.prepared.Add(1)
	c.m.Store(t, inst)
	return inst, nil
}

// flightKey identifies t by its runtime type descriptor address; type
// strings are not unique across packages.
func flightKey(t reflect.Type) string {
	return fmt.Sprintf("%p", t)
}

// Types returns a snapshot of cached shapes (order is unspecified).
func (c *Cache) Types() []reflect.Type {
	var out []reflect.Type
	c.m.Range(func(key, _ any) bool {
		out = append(out, key.(reflect.Type))
		return true
	})
	return out
}

// Len returns the number of cached shapes.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Prepared returns how many preparations succeeded, including those whose
// result lost a store race.
func (c *Cache) Prepared() int64 {
	return c.prepared.Load()
}

// Reset drops every entry. Intended for tests.
func (c *Cache) Reset() {
	c.m.Clear()
}
