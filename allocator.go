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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// An Allocator hands out scene indices within a category directory.
type Allocator interface {
	// Next returns the next free index in categoryDir. When reserve is
	// true, the scene directory for the returned index has been
	// created and belongs to the caller.
	Next(categoryDir string, reserve bool) (int, error)
}

// DefaultAllocator is used by Create.
var DefaultAllocator Allocator = NewDirAllocator()

// DirAllocator allocates indices by scanning the sim_ directories of a
// category. Reserved indices are claimed with an exclusive directory
// creation, so two processes never receive the same reserved index.
// Unreserved indices are only unique within this allocator and never
// affect reserved ones, so a removed scene's index is handed out again.
type DirAllocator struct {
	mu      sync.Mutex
	pending map[string]int
}

// NewDirAllocator returns an allocator with no pending indices.
func NewDirAllocator() *DirAllocator {
	return &DirAllocator{pending: make(map[string]int)}
}

// Next implements Allocator.
func (d *DirAllocator) Next(categoryDir string, reserve bool) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	indices, err := sceneIndices(categoryDir)
	if err != nil {
		return 0, err
	}
	next := 0
	if len(indices) > 0 {
		next = indices[len(indices)-1] + 1
	}
	key := filepath.Clean(categoryDir)
	if reserve {
		if err := os.MkdirAll(categoryDir, os.ModePerm); err != nil {
			return 0, fmt.Errorf("fluidscene: creating category directory: %w", err)
		}
		for {
			err := os.Mkdir(filepath.Join(categoryDir, sceneDirName(next)), os.ModePerm)
			if err == nil {
				break
			}
			if !os.IsExist(err) {
				return 0, fmt.Errorf("fluidscene: reserving scene index: %w", err)
			}
			next++
		}
		return next, nil
	}
	if p, ok := d.pending[key]; ok && p > next {
		next = p
	}
	d.pending[key] = next + 1
	return next, nil
}

// sceneDirName returns the directory name of the scene with index.
func sceneDirName(index int) string {
	return fmt.Sprintf("sim_%06d", index)
}

// parseSceneDir returns the index encoded in a scene directory name.
func parseSceneDir(name string) (int, bool) {
	if !strings.HasPrefix(name, "sim_") {
		return 0, false
	}
	i, err := strconv.Atoi(name[len("sim_"):])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// sceneIndices returns the sorted indices of the scene directories in
// categoryDir. A missing directory has none.
func sceneIndices(categoryDir string) ([]int, error) {
	entries, err := os.ReadDir(categoryDir)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("fluidscene: %w", err)
	}
	var indices []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if i, ok := parseSceneDir(e.Name()); ok {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	return indices, nil
}
