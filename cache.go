/*
Copyright © 2026 the FluidScene authors.
This file is part of FluidScene.

FluidScene is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FluidScene is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FluidScene.  If not, see <http://www.gnu.org/licenses/>.
*/

package fluidscene

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/ctessum/sparse"
)

// ArrayReader reads the named fields at a frame. Scene and SceneBatch
// implement it.
type ArrayReader interface {
	ReadArray(names []string, frame int) ([]*sparse.DenseArray, error)
}

// CachedReader reads single fields through an in-memory cache.
// Concurrent requests for the same field and frame are read only once.
// It is safe for concurrent use.
type CachedReader struct {
	r ArrayReader

	// CacheSize specifies the number of arrays to hold in memory.
	CacheSize int

	cache *requestcache.Cache
	init  sync.Once
}

// NewCachedReader returns a reader that caches up to cacheSize arrays
// read from r. A cacheSize <= 0 uses a size of 100.
func NewCachedReader(r ArrayReader, cacheSize int) *CachedReader {
	if cacheSize <= 0 {
		cacheSize = 100
	}
	return &CachedReader{r: r, CacheSize: cacheSize}
}

type fieldRequest struct {
	name  string
	frame int
}

// ReadArray returns field name at frame. The returned array is shared
// with other callers and must not be modified; copy it first.
func (c *CachedReader) ReadArray(name string, frame int) (*sparse.DenseArray, error) {
	c.init.Do(func() {
		c.cache = requestcache.NewCache(c.read, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(c.CacheSize))
	})
	key := fmt.Sprintf("%s_%06d", name, frame)
	req := c.cache.NewRequest(context.Background(), fieldRequest{name: name, frame: frame}, key)
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*sparse.DenseArray), nil
}

func (c *CachedReader) read(ctx context.Context, request interface{}) (interface{}, error) {
	req := request.(fieldRequest)
	arrays, err := c.r.ReadArray([]string{req.name}, req.frame)
	if err != nil {
		return nil, err
	}
	return arrays[0], nil
}
