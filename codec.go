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

	"github.com/ctessum/sparse"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// npzEntry is the name of the single array stored in a frame file.
const npzEntry = "arr_0.npy"

// EncodeArray writes a as a compressed npz container to w. The values
// are stored as little-endian float64.
// A leading (batch) dimension of size 1 is dropped and, when the last
// (channel) dimension is not 1, the channel order is reversed.
// a itself is not modified.
func EncodeArray(w io.Writer, a *sparse.DenseArray) error {
	if a == nil {
		return fmt.Errorf("fluidscene: encoding nil array")
	}
	shape := append([]int{}, a.Shape...)
	data := append([]float64{}, a.Elements...)
	if len(shape) > 0 && shape[0] == 1 {
		shape = shape[1:]
	}
	if len(shape) > 0 && shape[len(shape)-1] != 1 {
		reverseChannels(shape, data)
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: npzEntry, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("fluidscene: creating npz entry: %w", err)
	}
	if err := writeNPY(fw, shape, data); err != nil {
		return fmt.Errorf("fluidscene: writing npz entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("fluidscene: closing npz container: %w", err)
	}
	return nil
}

// DecodeArray reads an array from an npz container of the given size.
// If the container holds several arrays, the last one is used.
// The stored array gets a leading batch dimension of size 1 unless its
// first dimension already is 1, and its channel order is reversed when
// the last dimension is not 1.
func DecodeArray(r io.ReaderAt, size int64) (*sparse.DenseArray, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("%w: empty npz container", ErrCorruptData)
	}
	entry := zr.File[len(zr.File)-1]
	f, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	defer f.Close()
	shape, data, err := readNPY(f, entrySizeLimit(entry))
	if err != nil {
		return nil, err
	}
	if len(shape) == 0 || shape[0] != 1 {
		shape = append([]int{1}, shape...)
	}
	if shape[len(shape)-1] != 1 {
		reverseChannels(shape, data)
	}
	return newDense(shape, data), nil
}

// maxDeflateRatio bounds how much deflate can expand its input.
const maxDeflateRatio = 1032

// entrySizeLimit returns the largest number of bytes entry can
// decompress to.
func entrySizeLimit(entry *zip.File) uint64 {
	limit := entry.UncompressedSize64
	stored := entry.CompressedSize64
	if entry.Method != zip.Store {
		stored = stored*maxDeflateRatio + 1024
	}
	if stored < limit {
		limit = stored
	}
	return limit
}

// WriteArrayFile encodes a to the file at path, replacing any existing file.
func WriteArrayFile(path string, a *sparse.DenseArray) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fluidscene: %w", err)
	}
	if err := EncodeArray(f, a); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("fluidscene: %w", err)
	}
	return nil
}

// ReadArrayFile decodes the array stored in the file at path.
func ReadArrayFile(path string) (*sparse.DenseArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	a, err := DecodeArray(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// reverseChannels reverses the order of the values along the last
// axis of the row-major data in place.
func reverseChannels(shape []int, data []float64) {
	c := shape[len(shape)-1]
	if c < 2 {
		return
	}
	for off := 0; off+c <= len(data); off += c {
		row := data[off : off+c]
		for i, j := 0, c-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
}
