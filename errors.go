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
	"errors"
	"fmt"
)

// Errors returned by the scene store. Use errors.Is to test for them.
var (
	ErrCorruptData       = errors.New("fluidscene: corrupt array data")
	ErrMissingFrame      = errors.New("fluidscene: missing frame")
	ErrDimensionMismatch = errors.New("fluidscene: spatial dimension mismatch")
	ErrInvalidSceneDir   = errors.New("fluidscene: not a valid scene directory")
	ErrNotImplemented    = errors.New("fluidscene: not implemented")
	ErrBatchSize         = errors.New("fluidscene: batch size mismatch")
	ErrFieldCount        = errors.New("fluidscene: number of arrays and field names differ")
)

// MissingFrameError is returned when a required frame file does not exist.
type MissingFrameError struct {
	Frame int
	Path  string
}

func (e *MissingFrameError) Error() string {
	return fmt.Sprintf("fluidscene: missing frame at frame %d: %s", e.Frame, e.Path)
}

// Is reports whether target is ErrMissingFrame.
func (e *MissingFrameError) Is(target error) bool { return target == ErrMissingFrame }

// DimensionError is returned when arrays written together at one frame
// do not share the same spatial extent.
type DimensionError struct {
	Shape, Want []int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("fluidscene: all arrays should have the same spatial dimensions, but got %v and %v", e.Shape, e.Want)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }
