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

package cloud

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/phiflow/fluidscene"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
)

// sceneKey returns the key prefix, ending in "/", under which the scene
// with the given category and directory name is stored.
func sceneKey(prefix, category, simDir string) string {
	return path.Join(prefix, category, simDir) + "/"
}

// UploadScene copies every file of scene s to bucket, using keys of the
// form <prefix>/<category>/sim_<index>/<relative path>.
// It returns the number of files copied.
func UploadScene(ctx context.Context, bucket *blob.Bucket, prefix string, s *fluidscene.Scene) (int, error) {
	root := s.Path()
	fi, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("cloud: uploading scene: %v", err)
	}
	if !fi.IsDir() {
		return 0, fmt.Errorf("cloud: uploading scene: %s is not a directory", root)
	}
	keyPrefix := sceneKey(prefix, s.Category, filepath.Base(root))
	n := 0
	err = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := writeBlob(ctx, bucket, keyPrefix+filepath.ToSlash(rel), data); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("cloud: uploading scene %s: %v", s, err)
	}
	fluidscene.Log.WithFields(logrus.Fields{
		"scene": root,
		"key":   keyPrefix,
		"files": n,
	}).Info("uploaded scene")
	return n, nil
}

// DownloadScene copies the scene with the given category and index from
// bucket into dir and returns it. Files already present in the local
// scene are overwritten.
func DownloadScene(ctx context.Context, bucket *blob.Bucket, prefix, dir, category string, index int) (*fluidscene.Scene, error) {
	s := fluidscene.NewScene(dir, category, index)
	root := s.Path()
	keyPrefix := sceneKey(prefix, category, filepath.Base(root))
	keys, err := listBlobs(ctx, bucket, keyPrefix)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("cloud: no scene stored at %s", keyPrefix)
	}
	for _, key := range keys {
		rel := strings.TrimPrefix(key, keyPrefix)
		dst := filepath.Join(root, filepath.FromSlash(rel))
		if !strings.HasPrefix(dst, root+string(filepath.Separator)) {
			return nil, fmt.Errorf("cloud: blob key %s is outside of the scene", key)
		}
		data, err := readBlob(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
			return nil, fmt.Errorf("cloud: downloading scene: %v", err)
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return nil, fmt.Errorf("cloud: downloading scene: %v", err)
		}
	}
	fluidscene.Log.WithFields(logrus.Fields{
		"scene": root,
		"key":   keyPrefix,
		"files": len(keys),
	}).Info("downloaded scene")
	return s, nil
}

// DeleteScene deletes the stored copy of scene s from bucket and
// returns the number of deleted files.
func DeleteScene(ctx context.Context, bucket *blob.Bucket, prefix string, s *fluidscene.Scene) (int, error) {
	return deleteBlobDir(ctx, bucket, sceneKey(prefix, s.Category, filepath.Base(s.Path())))
}
