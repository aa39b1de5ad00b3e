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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phiflow/fluidscene/cloud"
	"gocloud.dev/blob"
)

// uploader holds an output file that is written locally first and
// copied to blob storage afterwards.
type uploader struct {
	// local is the temporary file location and dest is the
	// blob storage location it is uploaded to.
	local, dest string
	dir         string
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// the upload method is run.
func (u *uploader) maybeUpload(path string) (string, error) {
	if !IsBlob(path) {
		return path, nil
	}
	dir, err := os.MkdirTemp("", "fluidscene")
	if err != nil {
		return "", fmt.Errorf("fluidscene: creating temporary upload directory: %v", err)
	}
	u.dir = dir
	u.dest = path
	u.local = filepath.Join(dir, filepath.Base(path))
	return u.local, nil
}

// upload copies the temporary file, if any, to its blob storage
// location and removes the temporary directory.
func (u *uploader) upload(ctx context.Context) error {
	if u.dest == "" {
		return nil
	}
	defer u.cleanup()
	r, err := os.Open(u.local)
	if err != nil {
		return fmt.Errorf("fluidscene: opening file '%s' for upload: %v", u.local, err)
	}
	defer r.Close()
	bucketName, key, err := splitBlob(u.dest)
	if err != nil {
		return err
	}
	bucket, err := cloud.OpenBucket(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("fluidscene: opening bucket to upload file '%s': %v", u.dest, err)
	}
	defer bucket.Close()
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("fluidscene: opening writer to upload file '%s': %v", u.dest, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("fluidscene: uploading file '%s' to '%s': %v", u.local, u.dest, err)
	}
	return w.Close()
}

// cleanup removes the temporary directory, if any.
func (u *uploader) cleanup() {
	if u.dir != "" {
		os.RemoveAll(u.dir)
	}
}
