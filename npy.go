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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"
	"unsafe"

	"github.com/sbinet/npyio/npy"
)

// writeNPY writes data with the given shape as a little-endian float64
// array in .npy format.
func writeNPY(w io.Writer, shape []int, data []float64) error {
	if len(shape) == 0 {
		if len(data) != 1 {
			return fmt.Errorf("fluidscene: zero-dimensional array holds %d values", len(data))
		}
		return npy.Write(w, data[0])
	}
	// npy.Write takes the shape from nested Go arrays, so the values
	// are copied into a [d0][d1]...float64 of the same layout.
	t := reflect.TypeOf(float64(0))
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] == 0 {
			return fmt.Errorf("fluidscene: cannot encode array with empty dimension, shape %v", shape)
		}
		t = reflect.ArrayOf(shape[i], t)
	}
	v := reflect.New(t)
	copy(unsafe.Slice((*float64)(v.UnsafePointer()), len(data)), data)
	return npy.Write(w, v.Interface())
}

// readNPY reads an array in .npy format, converting the values to float64.
// limit is the size of the stored entry; headers and payloads claiming
// more bytes than that are rejected before anything is allocated.
func readNPY(r io.Reader, limit uint64) (shape []int, data []float64, err error) {
	br := bufio.NewReader(r)
	pre, _ := br.Peek(12)
	if len(pre) < 10 || string(pre[:6]) != string(npy.Magic[:]) {
		return nil, nil, fmt.Errorf("%w: invalid npy preamble", ErrCorruptData)
	}
	var hlen uint64
	switch pre[6] {
	case 1:
		hlen = uint64(binary.LittleEndian.Uint16(pre[8:10]))
	case 2:
		if len(pre) < 12 {
			return nil, nil, fmt.Errorf("%w: invalid npy preamble", ErrCorruptData)
		}
		hlen = uint64(binary.LittleEndian.Uint32(pre[8:12]))
	default:
		return nil, nil, fmt.Errorf("%w: unsupported npy version %d.%d", ErrCorruptData, pre[6], pre[7])
	}
	if hlen > limit {
		return nil, nil, fmt.Errorf("%w: npy header length %d exceeds entry size %d", ErrCorruptData, hlen, limit)
	}

	// The npy header parser panics on some malformed dictionaries.
	defer func() {
		if p := recover(); p != nil {
			shape, data = nil, nil
			err = fmt.Errorf("%w: malformed npy header: %v", ErrCorruptData, p)
		}
	}()
	nr, err := npy.NewReader(br)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if nr.Header.Descr.Fortran {
		return nil, nil, fmt.Errorf("%w: fortran-ordered arrays are not supported", ErrCorruptData)
	}
	rt := npy.TypeFrom(nr.Header.Descr.Type)
	if rt == nil {
		return nil, nil, fmt.Errorf("%w: unsupported npy dtype %s", ErrCorruptData, nr.Header.Descr.Type)
	}

	shape = append([]int{}, nr.Header.Descr.Shape...)
	n := 1
	for _, d := range shape {
		if d < 0 || (d > 0 && n > math.MaxInt/d) {
			return nil, nil, fmt.Errorf("%w: invalid npy shape %v", ErrCorruptData, shape)
		}
		n *= d
	}
	if size := uint64(rt.Size()); size > 0 && uint64(n) > limit/size {
		return nil, nil, fmt.Errorf("%w: npy shape %v exceeds entry size %d", ErrCorruptData, shape, limit)
	}

	switch rt.Kind() {
	case reflect.Float64:
		data = make([]float64, n)
		err = nr.Read(&data)
	case reflect.Float32:
		data, err = readConvert[float32](nr, n)
	case reflect.Int8:
		data, err = readConvert[int8](nr, n)
	case reflect.Int16:
		data, err = readConvert[int16](nr, n)
	case reflect.Int32:
		data, err = readConvert[int32](nr, n)
	case reflect.Int64:
		data, err = readConvert[int64](nr, n)
	case reflect.Uint8:
		data, err = readConvert[uint8](nr, n)
	case reflect.Uint16:
		data, err = readConvert[uint16](nr, n)
	case reflect.Uint32:
		data, err = readConvert[uint32](nr, n)
	case reflect.Uint64:
		data, err = readConvert[uint64](nr, n)
	case reflect.Bool:
		v := make([]bool, n)
		if err = nr.Read(&v); err == nil {
			data = make([]float64, n)
			for i, b := range v {
				if b {
					data[i] = 1
				}
			}
		}
	default:
		return nil, nil, fmt.Errorf("%w: unsupported npy dtype %s", ErrCorruptData, nr.Header.Descr.Type)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %d npy values: %v", ErrCorruptData, n, err)
	}
	return shape, data, nil
}

// readConvert reads n values of type T and converts them to float64.
func readConvert[T float32 | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](nr *npy.Reader, n int) ([]float64, error) {
	v := make([]T, n)
	if err := nr.Read(&v); err != nil {
		return nil, err
	}
	data := make([]float64, n)
	for i, x := range v {
		data[i] = float64(x)
	}
	return data, nil
}
