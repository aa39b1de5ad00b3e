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
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Summary holds summary statistics of an array.
type Summary struct {
	Shape          []int
	Min, Max, Mean float64
	// Norm is the Euclidean norm of all elements.
	Norm float64
}

// Summarize returns summary statistics of a. The statistics of an
// empty array are NaN, except for its norm, which is zero.
func Summarize(a *sparse.DenseArray) Summary {
	s := Summary{Shape: append([]int{}, a.Shape...)}
	if len(a.Elements) == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(a.Elements)
	s.Max = floats.Max(a.Elements)
	s.Mean = floats.Sum(a.Elements) / float64(len(a.Elements))
	s.Norm = floats.Norm(a.Elements, 2)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("shape=%v min=%g max=%g mean=%g norm=%g", s.Shape, s.Min, s.Max, s.Mean, s.Norm)
}
