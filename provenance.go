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

	"github.com/sirupsen/logrus"
)

// srcDir is the scene subdirectory holding copied source files.
const srcDir = "src"

// CopyCallingScript copies the source file of the calling function into
// the src directory of the scene.
func (s *Scene) CopyCallingScript() error {
	return s.copyFile(callerFile(2))
}

// CopySrc copies the file at path into the src directory of the scene.
func (s *Scene) CopySrc(path string) error {
	return s.copyFile(path)
}

func (s *Scene) copyFile(path string) error {
	if path == "" {
		return fmt.Errorf("fluidscene: cannot determine the calling source file")
	}
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("fluidscene: copying source: %w", err)
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return fmt.Errorf("fluidscene: copying source: %w", err)
	}
	dir, err := s.Subpath(srcDir, true)
	if err != nil {
		return err
	}
	dst := filepath.Join(dir, filepath.Base(path))
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("fluidscene: copying source: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("fluidscene: copying source: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("fluidscene: copying source: %w", err)
	}

	// Metadata is copied on a best-effort basis.
	log := Log.WithFields(logrus.Fields{"src": path, "dst": dst})
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		log.WithError(err).Warn("could not copy file mode")
	}
	if err := os.Chtimes(dst, fi.ModTime(), fi.ModTime()); err != nil {
		log.WithError(err).Warn("could not copy modification time")
	}
	return nil
}
