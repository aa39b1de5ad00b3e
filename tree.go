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
	"strings"

	"github.com/ctessum/sparse"
)

// Tree is either a leaf holding one array or a composite holding
// named child trees in insertion order. It is used to write and read
// structured simulation state as a set of fields.
type Tree struct {
	Array *sparse.DenseArray

	names    []string
	children map[string]*Tree
}

// Leaf returns a tree holding a single array.
func Leaf(a *sparse.DenseArray) *Tree { return &Tree{Array: a} }

// NewTree returns an empty composite tree.
func NewTree() *Tree { return &Tree{children: make(map[string]*Tree)} }

// IsLeaf reports whether t holds an array rather than children.
func (t *Tree) IsLeaf() bool { return t.children == nil }

// Set adds or replaces the child called name and returns t.
// A leaf becomes a composite.
func (t *Tree) Set(name string, child *Tree) *Tree {
	if t.children == nil {
		t.children = make(map[string]*Tree)
		t.Array = nil
	}
	if _, ok := t.children[name]; !ok {
		t.names = append(t.names, name)
	}
	t.children[name] = child
	return t
}

// SetArray adds or replaces a leaf child called name and returns t.
func (t *Tree) SetArray(name string, a *sparse.DenseArray) *Tree {
	return t.Set(name, Leaf(a))
}

// Get returns the child called name, or nil.
func (t *Tree) Get(name string) *Tree {
	if t.children == nil {
		return nil
	}
	return t.children[name]
}

// Names returns the names of the children of t in insertion order.
func (t *Tree) Names() []string {
	return append([]string{}, t.names...)
}

// Walk calls fn for every leaf of t in depth-first insertion order.
// The path of a leaf is the names leading to it joined with ".";
// the path of a leaf root is "".
func Walk(t *Tree, fn func(path string, leaf *Tree) error) error {
	return walk(t, "", fn)
}

func walk(t *Tree, prefix string, fn func(string, *Tree) error) error {
	if t.IsLeaf() {
		return fn(prefix, t)
	}
	for _, name := range t.names {
		p := name
		if prefix != "" {
			p = prefix + "." + name
		}
		if err := walk(t.children[name], p, fn); err != nil {
			return err
		}
	}
	return nil
}

// Flatten returns the paths and arrays of the leaves of t.
func Flatten(t *Tree) ([]string, []*sparse.DenseArray) {
	var paths []string
	var arrays []*sparse.DenseArray
	Walk(t, func(path string, leaf *Tree) error {
		paths = append(paths, path)
		arrays = append(arrays, leaf.Array)
		return nil
	})
	return paths, arrays
}

// Rebuild returns a tree with the structure of template whose leaves
// hold the arrays returned by load for each leaf path.
func Rebuild(template *Tree, load func(path string) (*sparse.DenseArray, error)) (*Tree, error) {
	return rebuild(template, "", load)
}

func rebuild(t *Tree, prefix string, load func(string) (*sparse.DenseArray, error)) (*Tree, error) {
	if t.IsLeaf() {
		a, err := load(prefix)
		if err != nil {
			return nil, err
		}
		return Leaf(a), nil
	}
	out := NewTree()
	for _, name := range t.names {
		p := name
		if prefix != "" {
			p = prefix + "." + name
		}
		c, err := rebuild(t.children[name], p, load)
		if err != nil {
			return nil, err
		}
		out.Set(name, c)
	}
	return out, nil
}

// FieldName converts a tree path to a field name: "._" becomes ".",
// "." becomes "_" and one leading "_" is removed.
func FieldName(path string) string {
	s := strings.Replace(path, "._", ".", -1)
	s = strings.Replace(s, ".", "_", -1)
	return strings.TrimPrefix(s, "_")
}

// treeFieldNames returns the field names the leaves of t are stored
// under. name is used for a leaf root and prefixes composite paths.
func treeFieldNames(t *Tree, name string) []string {
	paths, _ := Flatten(t)
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = leafFieldName(p, name)
	}
	return names
}

func leafFieldName(path, name string) string {
	switch {
	case path == "" && name == "":
		return "unnamed"
	case path == "":
		return name
	case name == "":
		return FieldName(path)
	}
	return FieldName(name + "." + path)
}

// frameStore is the part of a Scene or SceneBatch that structured
// reads and writes go through.
type frameStore interface {
	WriteSimFrame(arrays []*sparse.DenseArray, names []string, frame int, checkDims bool) ([]string, error)
	ReadArray(names []string, frame int) ([]*sparse.DenseArray, error)
}

func writeTree(s frameStore, t *Tree, name string, frame int) ([]string, error) {
	if t == nil {
		return nil, fmt.Errorf("fluidscene: writing nil tree")
	}
	names := treeFieldNames(t, name)
	_, arrays := Flatten(t)
	return s.WriteSimFrame(arrays, names, frame, false)
}

func readTree(s frameStore, template *Tree, name string, frame int) (*Tree, error) {
	if template == nil {
		return nil, fmt.Errorf("fluidscene: reading with nil template")
	}
	names := treeFieldNames(template, name)
	arrays, err := s.ReadArray(names, frame)
	if err != nil {
		return nil, err
	}
	i := 0
	return Rebuild(template, func(string) (*sparse.DenseArray, error) {
		a := arrays[i]
		i++
		return a, nil
	})
}
