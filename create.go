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
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create allocates count new scenes in directory/category using
// DefaultAllocator. If count is 1 the result is a *Scene, otherwise a
// *SceneBatch of scenes with consecutive free indices. If category is
// empty, the last element of directory is used as the category.
// Categories are passed through Slugify. When mkdir is true the scene
// directories are created, and when copyCallingScript is also true the
// source file of the caller is copied into each scene's src directory.
func Create(directory, category string, count int, mkdir, copyCallingScript bool) (Recorder, error) {
	return create(DefaultAllocator, directory, category, count, mkdir, copyCallingScript, callerFile(2))
}

// CreateWith is Create with an explicit index allocator.
func CreateWith(alloc Allocator, directory, category string, count int, mkdir, copyCallingScript bool) (Recorder, error) {
	return create(alloc, directory, category, count, mkdir, copyCallingScript, callerFile(2))
}

// CreateBatch is Create for a batch of scenes; a count of 1 yields a
// batch with a single member.
func CreateBatch(directory, category string, count int, mkdir, copyCallingScript bool) (*SceneBatch, error) {
	scenes, err := createScenes(DefaultAllocator, directory, category, count, mkdir, copyCallingScript, callerFile(2))
	if err != nil {
		return nil, err
	}
	return NewSceneBatch(scenes)
}

func create(alloc Allocator, directory, category string, count int, mkdir, copyScript bool, script string) (Recorder, error) {
	scenes, err := createScenes(alloc, directory, category, count, mkdir, copyScript, script)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 1 {
		return scenes[0], nil
	}
	return NewSceneBatch(scenes)
}

func createScenes(alloc Allocator, directory, category string, count int, mkdir, copyScript bool, script string) ([]*Scene, error) {
	if count < 1 {
		return nil, fmt.Errorf("fluidscene: scene count must be at least 1, got %d", count)
	}
	if copyScript && !mkdir {
		return nil, fmt.Errorf("fluidscene: copying the calling script requires creating the scene directory")
	}
	directory, err := expandPath(directory)
	if err != nil {
		return nil, err
	}
	if category == "" {
		directory, category = splitCategory(directory)
	} else {
		category = Slugify(category)
	}
	categoryDir := filepath.Join(directory, category)
	scenes := make([]*Scene, count)
	for i := range scenes {
		index, err := alloc.Next(categoryDir, mkdir)
		if err != nil {
			return nil, err
		}
		s := NewScene(directory, category, index)
		if mkdir {
			if err := s.Mkdir(""); err != nil {
				return nil, err
			}
		}
		if copyScript {
			if err := s.copyFile(script); err != nil {
				return nil, err
			}
		}
		Log.WithFields(logrus.Fields{
			"scene": s.Path(),
			"index": index,
		}).Info("created scene")
		scenes[i] = s
	}
	return scenes, nil
}

// List returns the scenes of directory/category in increasing index
// order. If category is empty, the last element of directory is used.
// filter, if not nil, selects the indices to include, and at most
// maxCount scenes are returned if maxCount > 0.
func List(directory, category string, filter func(index int) bool, maxCount int) ([]*Scene, error) {
	directory, err := expandPath(directory)
	if err != nil {
		return nil, err
	}
	if category == "" {
		directory, category = splitCategory(directory)
	}
	indices, err := sceneIndices(filepath.Join(directory, category))
	if err != nil {
		return nil, err
	}
	var scenes []*Scene
	for _, i := range indices {
		if filter != nil && !filter(i) {
			continue
		}
		scenes = append(scenes, NewScene(directory, category, i))
		if maxCount > 0 && len(scenes) == maxCount {
			break
		}
	}
	return scenes, nil
}

// At returns the scene stored in the sim_<index> directory path.
func At(path string) (*Scene, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	dir, name := filepath.Split(path)
	index, ok := parseSceneDir(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSceneDir, path)
	}
	directory, category := splitCategory(filepath.Clean(dir))
	return NewScene(directory, category, index), nil
}

// splitCategory splits the last element off directory.
func splitCategory(directory string) (string, string) {
	directory = filepath.Clean(directory)
	return filepath.Dir(directory), filepath.Base(directory)
}

// expandPath expands environment variables and a leading "~" in path.
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("fluidscene: expanding %s: %w", path, err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// callerFile returns the source file skip frames up the stack.
func callerFile(skip int) string {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return file
}
