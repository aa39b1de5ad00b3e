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

// Package fluidscene stores fluid simulation runs on disk. Each run is a
// Scene directory holding one compressed array file per field and frame
// plus an optional JSON properties document.
package fluidscene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Log receives the log messages of the package.
var Log logrus.FieldLogger = logrus.StandardLogger()

// propertiesFile is the name of the properties document of a scene.
const propertiesFile = "description.json"

// Recorder is implemented by Scene and SceneBatch.
type Recorder interface {
	fmt.Stringer
	Path() string
	WriteSimFrame(arrays []*sparse.DenseArray, names []string, frame int, checkDims bool) ([]string, error)
	ReadSimFrames(names []string, frames []int) ([]*sparse.DenseArray, error)
	ReadArray(names []string, frame int) ([]*sparse.DenseArray, error)
	Write(t *Tree, name string, frame int) ([]string, error)
	Read(template *Tree, name string, frame int) (*Tree, error)
	Mkdir(subdir string) error
	Remove() error
}

// Scene is a single simulation run stored in
// <Dir>/<Category>/sim_<Index>.
type Scene struct {
	Dir      string
	Category string
	Index    int

	properties map[string]interface{}
}

// NewScene returns a handle to the scene with the given location.
// Nothing is created on disk.
func NewScene(dir, category string, index int) *Scene {
	return &Scene{Dir: dir, Category: category, Index: index}
}

// Path returns the directory of the scene.
func (s *Scene) Path() string {
	return filepath.Join(s.Dir, s.Category, sceneDirName(s.Index))
}

func (s *Scene) String() string { return s.Path() }

// Subpath returns the path of name within the scene directory. If
// create is true, the directory is created.
func (s *Scene) Subpath(name string, create bool) (string, error) {
	p := filepath.Join(s.Path(), name)
	if create {
		if err := os.MkdirAll(p, os.ModePerm); err != nil {
			return "", fmt.Errorf("fluidscene: %w", err)
		}
	}
	return p, nil
}

// Mkdir creates the scene directory, or subdir within it if subdir is
// not empty. Existing directories are not an error.
func (s *Scene) Mkdir(subdir string) error {
	_, err := s.Subpath(subdir, true)
	return err
}

// Remove deletes the scene directory and everything in it.
// Removing a scene that does not exist is not an error.
func (s *Scene) Remove() error {
	if err := os.RemoveAll(s.Path()); err != nil {
		return fmt.Errorf("fluidscene: removing scene: %w", err)
	}
	s.properties = nil
	Log.WithField("scene", s.Path()).Info("removed scene")
	return nil
}

// Properties returns the properties document of the scene, reading it
// from disk on first use. A scene without a document has no properties.
// The returned map is owned by the scene.
func (s *Scene) Properties() (map[string]interface{}, error) {
	if s.properties != nil {
		return s.properties, nil
	}
	b, err := os.ReadFile(filepath.Join(s.Path(), propertiesFile))
	if os.IsNotExist(err) {
		s.properties = make(map[string]interface{})
		return s.properties, nil
	} else if err != nil {
		return nil, fmt.Errorf("fluidscene: reading properties: %w", err)
	}
	p := make(map[string]interface{})
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("fluidscene: parsing %s: %w", propertiesFile, err)
	}
	s.properties = p
	return p, nil
}

// HasProperties reports whether the scene has a properties document.
func (s *Scene) HasProperties() bool {
	fi, err := os.Stat(filepath.Join(s.Path(), propertiesFile))
	return err == nil && fi.Mode().IsRegular()
}

// SetProperties replaces the properties of the scene and writes them
// to disk.
func (s *Scene) SetProperties(p map[string]interface{}) error {
	if p == nil {
		p = make(map[string]interface{})
	}
	s.properties = p
	return s.writeProperties()
}

// PutProperty sets a single property and writes the document to disk.
func (s *Scene) PutProperty(key string, value interface{}) error {
	p, err := s.Properties()
	if err != nil {
		return err
	}
	p[key] = value
	return s.writeProperties()
}

func (s *Scene) writeProperties() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.properties); err != nil {
		return fmt.Errorf("fluidscene: encoding properties: %w", err)
	}
	if err := os.MkdirAll(s.Path(), os.ModePerm); err != nil {
		return fmt.Errorf("fluidscene: %w", err)
	}
	b := bytes.TrimRight(buf.Bytes(), "\n")
	if err := os.WriteFile(filepath.Join(s.Path(), propertiesFile), b, 0644); err != nil {
		return fmt.Errorf("fluidscene: writing properties: %w", err)
	}
	return nil
}

// WriteSimFrame writes arrays as the named fields at frame. If
// checkDims is true, the arrays must share the same spatial dimensions.
func (s *Scene) WriteSimFrame(arrays []*sparse.DenseArray, names []string, frame int, checkDims bool) ([]string, error) {
	return WriteFrame(s.Path(), arrays, names, frame, checkDims)
}

// ReadSimFrames reads the given frames of the named fields. See ReadFrames.
func (s *Scene) ReadSimFrames(names []string, frames []int) ([]*sparse.DenseArray, error) {
	return ReadFrames(s.Path(), names, frames)
}

// ReadArray reads the named fields at frame. Every field must exist.
func (s *Scene) ReadArray(names []string, frame int) ([]*sparse.DenseArray, error) {
	return readFrameAll(s.Path(), names, frame, false)
}

// Write stores the leaves of t as fields at frame. A leaf tree is
// stored as name, or "unnamed" if name is empty; the leaves of a
// composite tree are stored under their sanitized paths prefixed by name.
func (s *Scene) Write(t *Tree, name string, frame int) ([]string, error) {
	return writeTree(s, t, name, frame)
}

// Read loads a tree with the structure of template from frame, using
// the same field names as Write.
func (s *Scene) Read(template *Tree, name string, frame int) (*Tree, error) {
	return readTree(s, template, name, frame)
}

// FieldNames returns the sorted names of the fields of the scene.
func (s *Scene) FieldNames() ([]string, error) {
	return ListFields(s.Path())
}

// Frames returns the sorted frames of field, or of all fields combined
// according to mode if field is empty.
func (s *Scene) Frames(field string, mode FrameMode) ([]int, error) {
	return ListFrames(s.Path(), field, mode)
}

// GetFrames returns the frames of all fields combined according to mode.
func (s *Scene) GetFrames(mode FrameMode) ([]int, error) {
	return ListFrames(s.Path(), "", mode)
}
