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

// Package hash computes content fingerprints of arrays and properties.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"reflect"

	"github.com/ctessum/sparse"
	"github.com/davecgh/go-spew/spew"
)

// Hash returns a hash key for the specified object. Maps are hashed
// with their keys sorted, so equal maps have equal keys.
func Hash(object interface{}) string {
	h := fnv.New128a()
	if reflect.ValueOf(object).Kind() != reflect.Map {
		e := gob.NewEncoder(h)
		if err := e.Encode(object); err == nil {
			return fmt.Sprintf("%x", h.Sum(nil))
		}
		h.Reset()
	}
	// gob does not order map keys and fails for some values,
	// so use spew instead.
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Array returns a hash key for the shape and contents of a.
func Array(a *sparse.DenseArray) string {
	return Hash(struct {
		Shape    []int
		Elements []float64
	}{a.Shape, a.Elements})
}
