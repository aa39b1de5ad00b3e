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
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// frameFilePattern matches frame file names and captures the field
// name and frame number.
var frameFilePattern = regexp.MustCompile(`^(.+)_(\d{6,})\.npz$`)

// FrameFile returns the name of the file holding field name at frame.
func FrameFile(name string, frame int) string {
	return fmt.Sprintf("%s_%06d.npz", name, frame)
}

// parseFrameFile splits a frame file name into its field name and frame.
func parseFrameFile(file string) (name string, frame int, ok bool) {
	m := frameFilePattern.FindStringSubmatch(file)
	if m == nil {
		return "", 0, false
	}
	frame, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], frame, true
}

// FrameMode specifies how the frames of several fields are combined.
type FrameMode int

const (
	// Intersect keeps frames that exist for every field.
	Intersect FrameMode = iota
	// Union keeps frames that exist for any field.
	Union
)

func (m FrameMode) String() string {
	switch m {
	case Intersect:
		return "intersect"
	case Union:
		return "union"
	}
	return fmt.Sprintf("FrameMode(%d)", int(m))
}

// ParseFrameMode converts "intersect" or "union" (in any case) to a FrameMode.
func ParseFrameMode(s string) (FrameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intersect":
		return Intersect, nil
	case "union":
		return Union, nil
	}
	return 0, fmt.Errorf("fluidscene: invalid frame mode %q; must be intersect or union", s)
}

// WriteFrame writes each array to the file for its paired field name
// at frame, creating path if it does not exist. When checkDims is true,
// all arrays must have the same shape on every axis except the first
// (batch) and last (channel) ones. The names of the written files are
// returned.
func WriteFrame(path string, arrays []*sparse.DenseArray, names []string, frame int, checkDims bool) ([]string, error) {
	if len(arrays) != len(names) {
		return nil, fmt.Errorf("%w: %d arrays, %d names", ErrFieldCount, len(arrays), len(names))
	}
	for i, a := range arrays {
		if a == nil {
			return nil, fmt.Errorf("fluidscene: array for field %q is nil", names[i])
		}
	}
	if checkDims && len(arrays) > 1 {
		want := arrays[0].Shape
		for _, a := range arrays[1:] {
			if len(a.Shape) != len(want) || !sameShape(spatialShape(a.Shape), spatialShape(want)) {
				return nil, &DimensionError{Shape: a.Shape, Want: want}
			}
		}
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, fmt.Errorf("fluidscene: creating frame directory: %w", err)
	}
	files := make([]string, len(arrays))
	for i, a := range arrays {
		files[i] = filepath.Join(path, FrameFile(names[i], frame))
		if err := WriteArrayFile(files[i], a); err != nil {
			return nil, err
		}
	}
	Log.WithFields(logrus.Fields{
		"path":   path,
		"frame":  frame,
		"fields": names,
	}).Debug("wrote frame")
	return files, nil
}

// WriteField writes a single array as field name at frame.
func WriteField(path string, a *sparse.DenseArray, name string, frame int) (string, error) {
	files, err := WriteFrame(path, []*sparse.DenseArray{a}, []string{name}, frame, false)
	if err != nil {
		return "", err
	}
	return files[0], nil
}

// NextArray returns the next array of a lazy read. It returns io.EOF
// after the last array.
type NextArray func() (*sparse.DenseArray, error)

// ReadFrame returns a function that reads the requested fields at frame,
// one field per call, in the order of names. If a file does not exist,
// the function returns (nil, nil) when missingOK is true and a
// *MissingFrameError otherwise.
func ReadFrame(path string, names []string, frame int, missingOK bool) NextArray {
	i := 0
	return func() (*sparse.DenseArray, error) {
		if i >= len(names) {
			return nil, io.EOF
		}
		file := filepath.Join(path, FrameFile(names[i], frame))
		i++
		fi, err := os.Stat(file)
		if err != nil || !fi.Mode().IsRegular() {
			if err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("fluidscene: %w", err)
			}
			if missingOK {
				return nil, nil
			}
			return nil, &MissingFrameError{Frame: frame, Path: file}
		}
		return ReadArrayFile(file)
	}
}

// readFrameAll reads every requested field at frame.
func readFrameAll(path string, names []string, frame int, missingOK bool) ([]*sparse.DenseArray, error) {
	next := ReadFrame(path, names, frame, missingOK)
	out := make([]*sparse.DenseArray, 0, len(names))
	for {
		a, err := next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
}

// ReadFrames reads the given frames of each named field and joins them
// along the batch axis in frame order, returning one array per field.
// If names is nil, every field in path is read. If frames is nil, the
// frames that exist for all requested fields are read.
func ReadFrames(path string, names []string, frames []int) ([]*sparse.DenseArray, error) {
	if names == nil {
		var err error
		names, err = ListFields(path)
		if err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	if frames == nil {
		var err error
		frames, err = framesOf(path, names, Intersect)
		if err != nil {
			return nil, err
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames to read for fields %v in %s", ErrMissingFrame, names, path)
	}
	perField := make([][]*sparse.DenseArray, len(names))
	for _, frame := range frames {
		arrays, err := readFrameAll(path, names, frame, false)
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
			return nil, fmt.Errorf("fluidscene: joining frames of %s: %w", names[i], err)
		}
		out[i] = a
	}
	return out, nil
}

// ReadFieldFrames is ReadFrames for a single field.
func ReadFieldFrames(path, name string, frames []int) (*sparse.DenseArray, error) {
	arrays, err := ReadFrames(path, []string{name}, frames)
	if err != nil {
		return nil, err
	}
	return arrays[0], nil
}

// scanFrames returns the frames of every field stored in path.
// A missing directory holds no fields.
func scanFrames(path string) (map[string][]int, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return map[string][]int{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("fluidscene: %w", err)
	}
	fields := make(map[string][]int)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, frame, ok := parseFrameFile(e.Name())
		if !ok {
			continue
		}
		fields[name] = append(fields[name], frame)
	}
	for _, frames := range fields {
		sort.Ints(frames)
	}
	return fields, nil
}

// ListFields returns the sorted names of the fields stored in path.
func ListFields(path string) ([]string, error) {
	fields, err := scanFrames(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListFrames returns the sorted frames stored for field in path.
// If field is empty, the frames of all fields are combined according
// to mode.
func ListFrames(path, field string, mode FrameMode) ([]int, error) {
	if field != "" {
		return framesOf(path, []string{field}, mode)
	}
	names, err := ListFields(path)
	if err != nil {
		return nil, err
	}
	return framesOf(path, names, mode)
}

// framesOf combines the frames of the named fields according to mode.
func framesOf(path string, names []string, mode FrameMode) ([]int, error) {
	if mode != Intersect && mode != Union {
		return nil, fmt.Errorf("fluidscene: invalid frame mode %v", mode)
	}
	fields, err := scanFrames(path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []int{}, nil
	}
	count := make(map[int]int)
	for _, name := range names {
		for _, f := range fields[name] {
			count[f]++
		}
	}
	frames := []int{}
	for f, n := range count {
		if mode == Union || n == len(names) {
			frames = append(frames, f)
		}
	}
	sort.Ints(frames)
	return frames, nil
}

// FirstFrame returns the smallest frame stored for field in path, or
// the smallest frame of any field if field is empty.
func FirstFrame(path, field string) (int, error) {
	frames, err := ListFrames(path, field, Union)
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, fmt.Errorf("%w: no frames in %s", ErrMissingFrame, path)
	}
	return frames[0], nil
}
