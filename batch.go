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

	"github.com/ctessum/sparse"
)

// SceneBatch is an ordered group of scenes written and read together.
// The first axis of every array is the batch axis: slice i belongs to
// scene i. The embedded Scene is the first member and provides Path,
// properties and field listing for the batch.
type SceneBatch struct {
	*Scene
	Scenes []*Scene
}

// NewSceneBatch returns a batch of the given scenes.
func NewSceneBatch(scenes []*Scene) (*SceneBatch, error) {
	if len(scenes) == 0 {
		return nil, fmt.Errorf("fluidscene: a scene batch needs at least one scene")
	}
	return &SceneBatch{Scene: scenes[0], Scenes: scenes}, nil
}

// BatchSize returns the number of scenes in the batch.
func (b *SceneBatch) BatchSize() int { return len(b.Scenes) }

func (b *SceneBatch) String() string {
	return fmt.Sprintf("%s (batch of %d)", b.Scene.Path(), len(b.Scenes))
}

// WriteSimFrame writes slice i of every array to scene i. The first
// dimension of each array must equal the batch size.
func (b *SceneBatch) WriteSimFrame(arrays []*sparse.DenseArray, names []string, frame int, checkDims bool) ([]string, error) {
	if len(arrays) != len(names) {
		return nil, fmt.Errorf("%w: %d arrays, %d names", ErrFieldCount, len(arrays), len(names))
	}
	for i, a := range arrays {
		if a == nil {
			return nil, fmt.Errorf("fluidscene: array for field %q is nil", names[i])
		}
		if len(a.Shape) == 0 || a.Shape[0] != len(b.Scenes) {
			return nil, fmt.Errorf("%w: array %q has shape %v, batch size is %d",
				ErrBatchSize, names[i], a.Shape, len(b.Scenes))
		}
	}
	var files []string
	for i, s := range b.Scenes {
		slices := make([]*sparse.DenseArray, len(arrays))
		for j, a := range arrays {
			slices[j] = batchSlice(a, i)
		}
		f, err := s.WriteSimFrame(slices, names, frame, checkDims)
		if err != nil {
			return nil, fmt.Errorf("fluidscene: writing batch member %s: %w", s, err)
		}
		files = append(files, f...)
	}
	return files, nil
}

// ReadSimFrames is not supported for batches.
func (b *SceneBatch) ReadSimFrames(names []string, frames []int) ([]*sparse.DenseArray, error) {
	return nil, fmt.Errorf("%w: reading frame series of a scene batch", ErrNotImplemented)
}

// ReadArray reads the named fields at frame from every scene and joins
// them along the batch axis.
func (b *SceneBatch) ReadArray(names []string, frame int) ([]*sparse.DenseArray, error) {
	perField := make([][]*sparse.DenseArray, len(names))
	for _, s := range b.Scenes {
		arrays, err := s.ReadArray(names, frame)
		if err != nil {
			return nil, err
		}
		for i, a := range arrays {
			perField[i] = append(perField[i], a)
		}
	}
	out := make([]*sparse.DenseArray, len(names))
	for i, arrays := range perField {
		a, err := Concatenate(arrays)
		if err != nil {
			return nil, fmt.Errorf("fluidscene: joining %s across batch: %w", names[i], err)
		}
		out[i] = a
	}
	return out, nil
}

// Write stores the leaves of t at frame, one batch slice per scene.
func (b *SceneBatch) Write(t *Tree, name string, frame int) ([]string, error) {
	return writeTree(b, t, name, frame)
}

// Read loads a tree with the structure of template from every scene,
// joining the leaves along the batch axis.
func (b *SceneBatch) Read(template *Tree, name string, frame int) (*Tree, error) {
	return readTree(b, template, name, frame)
}

// Mkdir creates the directory, or subdir, of every scene.
func (b *SceneBatch) Mkdir(subdir string) error {
	for _, s := range b.Scenes {
		if err := s.Mkdir(subdir); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes every scene of the batch.
func (b *SceneBatch) Remove() error {
	for _, s := range b.Scenes {
		if err := s.Remove(); err != nil {
			return err
		}
	}
	return nil
}
