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

package fluidsceneutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phiflow/fluidscene"
	"github.com/phiflow/fluidscene/internal/hash"
)

// CreateScenes creates count scenes in dir/category, copies the files
// in src into each of them and prints their paths to w. Files in src
// may be URLs or blob storage locations.
func CreateScenes(ctx context.Context, w io.Writer, dir, category string, count int, src []string) error {
	tmp, err := os.MkdirTemp("", "fluidscene")
	if err != nil {
		return fmt.Errorf("fluidscene: creating temporary download directory: %v", err)
	}
	defer os.RemoveAll(tmp)
	local := make([]string, len(src))
	for i, f := range src {
		if local[i], err = maybeDownload(ctx, os.ExpandEnv(f), tmp); err != nil {
			return err
		}
	}

	r, err := fluidscene.Create(dir, category, count, true, false)
	if err != nil {
		return err
	}
	scenes := []*fluidscene.Scene{}
	switch s := r.(type) {
	case *fluidscene.Scene:
		scenes = append(scenes, s)
	case *fluidscene.SceneBatch:
		scenes = append(scenes, s.Scenes...)
	}
	for _, s := range scenes {
		for _, f := range local {
			if err := s.CopySrc(f); err != nil {
				return err
			}
		}
		fmt.Fprintln(w, s.Path())
	}
	return nil
}

// ListScenes writes the paths of the scenes in dir/category with an
// index of at least minIndex to w. At most max scenes are listed if
// max > 0.
func ListScenes(w io.Writer, dir, category string, minIndex, max int) error {
	scenes, err := fluidscene.List(dir, category, func(i int) bool { return i >= minIndex }, max)
	if err != nil {
		return err
	}
	for _, s := range scenes {
		fmt.Fprintln(w, s.Path())
	}
	return nil
}

// Fields writes the field names of the scene at path to w.
func Fields(w io.Writer, path string) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	names, err := s.FieldNames()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

// Frames writes the frames of the scene at path to w on a single line.
func Frames(w io.Writer, path, field, mode string) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	m, err := fluidscene.ParseFrameMode(mode)
	if err != nil {
		return err
	}
	frames, err := s.Frames(field, m)
	if err != nil {
		return err
	}
	str := make([]string, len(frames))
	for i, f := range frames {
		str[i] = fmt.Sprint(f)
	}
	fmt.Fprintln(w, strings.Join(str, " "))
	return nil
}

// PrintProperties writes the properties of the scene at path to w
// as indented JSON.
func PrintProperties(w io.Writer, path string) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	p, err := s.Properties()
	if err != nil {
		return err
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(p)
}

// SetProperty sets property key of the scene at path to value, which
// is parsed as JSON if possible.
func SetProperty(path, key, value string) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	return s.PutProperty(key, parseValue(value))
}

// LoadProperties merges the parameters in the TOML file paramFile into
// the properties of the scene at path. paramFile may be a URL or a blob
// storage location.
func LoadProperties(ctx context.Context, path, paramFile string) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	tmp, err := os.MkdirTemp("", "fluidscene")
	if err != nil {
		return fmt.Errorf("fluidscene: creating temporary download directory: %v", err)
	}
	defer os.RemoveAll(tmp)
	local, err := maybeDownload(ctx, os.ExpandEnv(paramFile), tmp)
	if err != nil {
		return err
	}
	params, err := readTOML(local)
	if err != nil {
		return err
	}
	p, err := s.Properties()
	if err != nil {
		return err
	}
	for k, v := range params {
		p[k] = v
	}
	return s.SetProperties(p)
}

// Inspect writes summary statistics and a content fingerprint of the
// fields of the scene at path to w. If field is empty all fields are
// inspected, and if frame is negative the first frame of each field is
// used.
func Inspect(w io.Writer, path, field string, frame int) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	names := []string{field}
	if field == "" {
		if names, err = s.FieldNames(); err != nil {
			return err
		}
	}
	for _, name := range names {
		f := frame
		if f < 0 {
			if f, err = fluidscene.FirstFrame(s.Path(), name); err != nil {
				return err
			}
		}
		arrays, err := s.ReadArray([]string{name}, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s frame=%d %v hash=%s\n", name, f, fluidscene.Summarize(arrays[0]), hash.Array(arrays[0]))
	}
	return nil
}

// Export writes the given fields of the scene at path to the NetCDF
// file output, which may be a blob storage location. If fields is
// empty, all fields are exported.
func Export(ctx context.Context, path, output string, fields []string) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		fields = nil
	}
	var u uploader
	local, err := u.maybeUpload(os.ExpandEnv(output))
	if err != nil {
		return err
	}
	defer u.cleanup()
	f, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("fluidscene: creating export file: %v", err)
	}
	if err := fluidscene.ExportNetCDF(f, s, fields, nil); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("fluidscene: closing export file: %v", err)
	}
	return u.upload(ctx)
}
