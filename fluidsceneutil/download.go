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
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/phiflow/fluidscene"
	"github.com/phiflow/fluidscene/cloud"
	"github.com/sirupsen/logrus"
)

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with 'gs://', 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// splitBlob splits a blob location into the name of its bucket and
// its key within the bucket. For the file provider the bucket is the
// directory holding the file.
func splitBlob(loc string) (bucket, key string, err error) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", "", fmt.Errorf("fluidscene: parsing blob location %s: %v", loc, err)
	}
	if u.Scheme == "file" {
		p := u.Host + u.Path
		return "file://" + path.Dir(p), path.Base(p), nil
	}
	return u.Scheme + "://" + u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// maybeDownload checks if the input is an existing file locally.
// If not, and path is a URL or blob location, it downloads the file
// into dir and returns the path to the downloaded file.
func maybeDownload(ctx context.Context, path, dir string) (string, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(ctx, path, dir)
	}
	if IsBlob(path) {
		return downloadBlob(ctx, path, dir)
	}
	return path, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file.
func downloadHTTP(ctx context.Context, loc, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return "", fmt.Errorf("fluidscene: downloading %s: %v", loc, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fluidscene: downloading %s: %v", loc, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fluidscene: downloading %s: %s", loc, resp.Status)
	}
	u, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("fluidscene: downloading %s: %v", loc, err)
	}
	return saveDownload(resp.Body, loc, filepath.Join(dir, path.Base(u.Path)))
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, loc, dir string) (string, error) {
	bucketName, key, err := splitBlob(loc)
	if err != nil {
		return "", err
	}
	bucket, err := cloud.OpenBucket(ctx, bucketName)
	if err != nil {
		return "", err
	}
	defer bucket.Close()
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("fluidscene: downloading %s: %v", loc, err)
	}
	defer r.Close()
	return saveDownload(r, loc, filepath.Join(dir, path.Base(key)))
}

func saveDownload(r io.Reader, loc, dst string) (string, error) {
	w, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("fluidscene: creating file for download: %v", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("fluidscene: downloading %s: %v", loc, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("fluidscene: downloading %s: %v", loc, err)
	}
	fluidscene.Log.WithFields(logrus.Fields{
		"from": loc,
		"to":   dst,
	}).Debug("downloaded file")
	return dst, nil
}
