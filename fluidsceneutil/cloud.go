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

	"github.com/phiflow/fluidscene"
	"github.com/phiflow/fluidscene/cloud"
)

// Upload copies the scene at path to bucket.
func Upload(ctx context.Context, w io.Writer, path, bucketName, prefix string) error {
	if bucketName == "" {
		return fmt.Errorf("fluidscene: no bucket specified")
	}
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	bucket, err := cloud.OpenBucket(ctx, bucketName)
	if err != nil {
		return err
	}
	defer bucket.Close()
	n, err := cloud.UploadScene(ctx, bucket, prefix, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "uploaded %d files from %s\n", n, s)
	return nil
}

// Download copies the scene with the given category and index from
// bucket into dir and writes its path to w.
func Download(ctx context.Context, w io.Writer, bucketName, prefix, dir, category string, index int) error {
	if bucketName == "" {
		return fmt.Errorf("fluidscene: no bucket specified")
	}
	if category == "" {
		return fmt.Errorf("fluidscene: no category specified")
	}
	bucket, err := cloud.OpenBucket(ctx, bucketName)
	if err != nil {
		return err
	}
	defer bucket.Close()
	s, err := cloud.DownloadScene(ctx, bucket, prefix, dir, category, index)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.Path())
	return nil
}

// Remove deletes the scene at path and, if bucketName is not empty,
// its copy in the bucket.
func Remove(ctx context.Context, path, bucketName, prefix string) error {
	s, err := fluidscene.At(path)
	if err != nil {
		return err
	}
	if bucketName != "" {
		bucket, err := cloud.OpenBucket(ctx, bucketName)
		if err != nil {
			return err
		}
		defer bucket.Close()
		if _, err := cloud.DeleteScene(ctx, bucket, prefix, s); err != nil {
			return err
		}
	}
	return s.Remove()
}
