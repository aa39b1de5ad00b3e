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

// newDense returns an array with the given shape that uses data as its
// elements. len(data) must match the shape.
func newDense(shape []int, data []float64) *sparse.DenseArray {
	a := sparse.ZerosDense(append([]int{}, shape...)...)
	a.Elements = data
	return a
}

// Concatenate joins arrays along axis 0. All arrays must have the same
// shape on the remaining axes.
func Concatenate(arrays []*sparse.DenseArray) (*sparse.DenseArray, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("fluidscene: need at least one array to concatenate")
	}
	first := arrays[0]
	if len(first.Shape) == 0 {
		return nil, fmt.Errorf("fluidscene: cannot concatenate zero-dimensional arrays")
	}
	n := 0
	var size int
	for _, a := range arrays {
		if len(a.Shape) != len(first.Shape) || !sameShape(a.Shape[1:], first.Shape[1:]) {
			return nil, &DimensionError{Shape: a.Shape, Want: first.Shape}
		}
		n += a.Shape[0]
		size += len(a.Elements)
	}
	data := make([]float64, 0, size)
	for _, a := range arrays {
		data = append(data, a.Elements...)
	}
	shape := append([]int{n}, first.Shape[1:]...)
	return newDense(shape, data), nil
}

// batchSlice returns a copy of a[i, ...] with one dimension fewer.
func batchSlice(a *sparse.DenseArray, i int) *sparse.DenseArray {
	stride := 1
	for _, d := range a.Shape[1:] {
		stride *= d
	}
	data := append([]float64{}, a.Elements[i*stride:(i+1)*stride]...)
	return newDense(a.Shape[1:], data)
}

// spatialShape returns the dimensions of shape without the batch and
// channel axes.
func spatialShape(shape []int) []int {
	if len(shape) < 2 {
		return nil
	}
	return shape[1 : len(shape)-1]
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
