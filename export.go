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
	"encoding/json"
	"fmt"

	"github.com/ctessum/cdf"
)

// frameDim is the NetCDF dimension and coordinate variable holding
// frame numbers.
const frameDim = "frame"

// ExportNetCDF writes the given frames of the named fields of s to w as
// a NetCDF file. Each field becomes a float64 variable whose first
// dimension is frame. The frame numbers are stored in an int32 frame
// variable and the scene properties in a JSON "properties" global
// attribute. If names is nil all fields are exported; if frames is nil
// the frames common to all exported fields are used.
func ExportNetCDF(w cdf.ReaderWriterAt, s *Scene, names []string, frames []int) error {
	var err error
	if names == nil {
		if names, err = s.FieldNames(); err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("fluidscene: exporting %s: scene has no fields", s)
	}
	if frames == nil {
		if frames, err = framesOf(s.Path(), names, Intersect); err != nil {
			return err
		}
	}
	arrays, err := s.ReadSimFrames(names, frames)
	if err != nil {
		return err
	}

	dims := []string{frameDim}
	lengths := []int{len(frames)}
	fieldDims := make([][]string, len(names))
	used := map[string]bool{frameDim: true}
	for i, a := range arrays {
		if used[names[i]] {
			return fmt.Errorf("fluidscene: exporting %s: duplicate name %q", s, names[i])
		}
		used[names[i]] = true
		if a.Shape[0] != len(frames) {
			return fmt.Errorf("fluidscene: exporting %s: field %s has shape %v for %d frames; batched frames cannot be exported",
				s, names[i], a.Shape, len(frames))
		}
		fieldDims[i] = []string{frameDim}
		for j, d := range a.Shape[1:] {
			if d == 0 {
				return fmt.Errorf("fluidscene: exporting %s: field %s is empty", s, names[i])
			}
			dim := fmt.Sprintf("%s_dim%d", names[i], j)
			if used[dim] {
				return fmt.Errorf("fluidscene: exporting %s: duplicate name %q", s, dim)
			}
			used[dim] = true
			dims = append(dims, dim)
			lengths = append(lengths, d)
			fieldDims[i] = append(fieldDims[i], dim)
		}
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", fmt.Sprintf("FluidScene export of %s", s))
	h.AddAttribute("", "fluidscene_version", Version)
	props, err := s.Properties()
	if err != nil {
		return err
	}
	if len(props) > 0 {
		b, err := json.Marshal(props)
		if err != nil {
			return fmt.Errorf("fluidscene: exporting properties: %w", err)
		}
		h.AddAttribute("", "properties", string(b))
	}
	h.AddVariable(frameDim, []string{frameDim}, []int32{0})
	h.AddAttribute(frameDim, "description", "Simulation frame number")
	for i, name := range names {
		h.AddVariable(name, fieldDims[i], []float64{0})
		h.AddAttribute(name, "description", fmt.Sprintf("Field %s", name))
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("fluidscene: creating NetCDF file: %w", err)
	}
	fr := make([]int32, len(frames))
	for i, v := range frames {
		fr[i] = int32(v)
	}
	if err := writeVar(f, frameDim, []int{len(frames)}, fr); err != nil {
		return err
	}
	for i, name := range names {
		if err := writeVar(f, name, arrays[i].Shape, arrays[i].Elements); err != nil {
			return err
		}
	}
	return nil
}

func writeVar(f *cdf.File, name string, shape []int, data interface{}) error {
	begin := make([]int, len(shape))
	end := make([]int, len(shape))
	for i, d := range shape {
		end[i] = d
	}
	w := f.Writer(name, begin, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("fluidscene: writing NetCDF variable %s: %w", name, err)
	}
	return nil
}
