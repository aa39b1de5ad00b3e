package fluidscene

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

func TestWriteReadFrame(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scene")
	density := dense(1, 4, 4, 1)
	velocity := dense(1, 4, 4, 2)
	files, err := WriteFrame(dir, []*sparse.DenseArray{density, velocity}, []string{"density", "velocity"}, 3, true)
	if err != nil {
		t.Fatal(err)
	}
	wantFiles := []string{
		filepath.Join(dir, "density_000003.npz"),
		filepath.Join(dir, "velocity_000003.npz"),
	}
	if !reflect.DeepEqual(files, wantFiles) {
		t.Errorf("files: have %v, want %v", files, wantFiles)
	}

	next := ReadFrame(dir, []string{"velocity", "density"}, 3, false)
	for _, want := range []*sparse.DenseArray{velocity, density} {
		a, err := next()
		if err != nil {
			t.Fatal(err)
		}
		checkArray(t, a, want)
	}
	if _, err := next(); err != io.EOF {
		t.Errorf("have %v, want io.EOF", err)
	}
}

func TestWriteFrameDimensions(t *testing.T) {
	dir := t.TempDir()
	a := dense(1, 4, 4, 1)
	b := dense(1, 4, 5, 1)
	_, err := WriteFrame(dir, []*sparse.DenseArray{a, b}, []string{"a", "b"}, 0, true)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("have %v, want dimension mismatch", err)
	}
	var dimErr *DimensionError
	if !errors.As(err, &dimErr) || !reflect.DeepEqual(dimErr.Shape, []int{1, 4, 5, 1}) {
		t.Errorf("unexpected error %#v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_000000.npz")); !os.IsNotExist(err) {
		t.Errorf("file written despite failed check")
	}

	if _, err := WriteFrame(dir, []*sparse.DenseArray{a, b}, []string{"a", "b"}, 0, false); err != nil {
		t.Errorf("unchecked write: %v", err)
	}

	// Batch and channel dimensions may differ.
	c := dense(2, 4, 4, 3)
	if _, err := WriteFrame(dir, []*sparse.DenseArray{a, c}, []string{"a", "c"}, 1, true); err != nil {
		t.Errorf("batch and channel: %v", err)
	}
}

func TestWriteFrameFieldCount(t *testing.T) {
	_, err := WriteFrame(t.TempDir(), []*sparse.DenseArray{dense(1, 2)}, []string{"a", "b"}, 0, false)
	if !errors.Is(err, ErrFieldCount) {
		t.Errorf("have %v, want field count error", err)
	}
}

func TestReadFrameMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteField(dir, dense(1, 2, 1), "a", 0); err != nil {
		t.Fatal(err)
	}

	next := ReadFrame(dir, []string{"b", "a"}, 0, true)
	a, err := next()
	if a != nil || err != nil {
		t.Errorf("missing field with missingOK: have %v, %v", a, err)
	}
	if a, err = next(); err != nil || a == nil {
		t.Errorf("existing field: have %v, %v", a, err)
	}

	_, err = ReadFrame(dir, []string{"a"}, 1, false)()
	var mfe *MissingFrameError
	if !errors.As(err, &mfe) {
		t.Fatalf("have %v, want *MissingFrameError", err)
	}
	if mfe.Frame != 1 || mfe.Path != filepath.Join(dir, "a_000001.npz") {
		t.Errorf("unexpected error contents %+v", mfe)
	}
	if !errors.Is(err, ErrMissingFrame) {
		t.Errorf("error does not match ErrMissingFrame")
	}
}

// writeSeries writes frames of field to dir; each frame holds the frame
// number in every element.
func writeSeries(t *testing.T, dir, field string, channels int, frames ...int) {
	t.Helper()
	for _, f := range frames {
		a := sparse.ZerosDense(1, 2, 2, channels)
		for i := range a.Elements {
			a.Elements[i] = float64(f)
		}
		if _, err := WriteField(dir, a, field, f); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReadFrames(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "density", 1, 0, 1, 2)
	writeSeries(t, dir, "velocity", 2, 1, 2)

	arrays, err := ReadFrames(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(arrays) != 2 {
		t.Fatalf("have %d arrays, want 2", len(arrays))
	}
	if !reflect.DeepEqual(arrays[0].Shape, []int{2, 2, 2, 1}) {
		t.Errorf("density shape %v", arrays[0].Shape)
	}
	if !reflect.DeepEqual(arrays[1].Shape, []int{2, 2, 2, 2}) {
		t.Errorf("velocity shape %v", arrays[1].Shape)
	}
	if arrays[0].Elements[0] != 1 || arrays[0].Elements[4] != 2 {
		t.Errorf("density frames out of order: %v", arrays[0].Elements)
	}

	d, err := ReadFieldFrames(dir, "density", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d.Shape, []int{3, 2, 2, 1}) {
		t.Errorf("density series shape %v", d.Shape)
	}

	d, err = ReadFieldFrames(dir, "density", []int{2, 0})
	if err != nil {
		t.Fatal(err)
	}
	if d.Elements[0] != 2 || d.Elements[4] != 0 {
		t.Errorf("explicit frames out of order: %v", d.Elements)
	}

	if _, err := ReadFrames(dir, []string{"velocity"}, []int{0}); !errors.Is(err, ErrMissingFrame) {
		t.Errorf("missing frame: have %v", err)
	}
}

func TestReadFramesEmpty(t *testing.T) {
	arrays, err := ReadFrames(t.TempDir(), nil, nil)
	if err != nil || arrays != nil {
		t.Errorf("have %v, %v; want nil, nil", arrays, err)
	}
}

func TestListFieldsAndFrames(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "density", 1, 0, 1, 2)
	writeSeries(t, dir, "velocity", 2, 1, 2, 4)
	writeSeries(t, dir, "density_2", 1, 7)
	for _, f := range []string{"notes.txt", "x_12.npz", "density.npz"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir_000001.npz"), 0755); err != nil {
		t.Fatal(err)
	}

	fields, err := ListFields(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"density", "density_2", "velocity"}; !reflect.DeepEqual(fields, want) {
		t.Errorf("fields: have %v, want %v", fields, want)
	}

	tests := []struct {
		field string
		mode  FrameMode
		want  []int
	}{
		{"density", Intersect, []int{0, 1, 2}},
		{"velocity", Union, []int{1, 2, 4}},
		{"dens", Union, []int{}},
		{"", Intersect, []int{}},
		{"", Union, []int{0, 1, 2, 4, 7}},
	}
	for _, test := range tests {
		frames, err := ListFrames(dir, test.field, test.mode)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(frames, test.want) {
			t.Errorf("%q %v: have %v, want %v", test.field, test.mode, frames, test.want)
		}
	}

	first, err := FirstFrame(dir, "velocity")
	if err != nil {
		t.Fatal(err)
	}
	if first != 1 {
		t.Errorf("first frame: have %d, want 1", first)
	}
	if _, err := FirstFrame(dir, "missing"); !errors.Is(err, ErrMissingFrame) {
		t.Errorf("first frame of missing field: %v", err)
	}
}

func TestListFramesIntersect(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "a", 1, 0, 1, 2)
	writeSeries(t, dir, "b", 1, 1, 2, 3)
	frames, err := ListFrames(dir, "", Intersect)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(frames, []int{1, 2}) {
		t.Errorf("have %v, want [1 2]", frames)
	}

	frames, err = ListFrames(filepath.Join(dir, "missing"), "", Union)
	if err != nil || len(frames) != 0 {
		t.Errorf("missing directory: have %v, %v", frames, err)
	}
}

func TestParseFrameMode(t *testing.T) {
	for s, want := range map[string]FrameMode{
		"intersect": Intersect,
		"UNION":     Union,
		" Union ":   Union,
	} {
		m, err := ParseFrameMode(s)
		if err != nil {
			t.Fatal(err)
		}
		if m != want {
			t.Errorf("%q: have %v, want %v", s, m, want)
		}
	}
	if _, err := ParseFrameMode("both"); err == nil {
		t.Error("expected an error for an invalid mode")
	}
	if Union.String() != "union" {
		t.Errorf("String: %s", Union)
	}
}

func TestFrameFile(t *testing.T) {
	if f := FrameFile("velocity", 12); f != "velocity_000012.npz" {
		t.Errorf("have %s", f)
	}
	if f := FrameFile("density", 1234567); f != "density_1234567.npz" {
		t.Errorf("have %s", f)
	}
	name, frame, ok := parseFrameFile("density_1234567.npz")
	if !ok || name != "density" || frame != 1234567 {
		t.Errorf("parse: %s %d %v", name, frame, ok)
	}
}
