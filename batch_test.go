package fluidscene

import (
	"errors"
	"testing"

	"github.com/ctessum/sparse"
)

func testBatch(t *testing.T, n int) *SceneBatch {
	t.Helper()
	dir := t.TempDir()
	scenes := make([]*Scene, n)
	for i := range scenes {
		scenes[i] = NewScene(dir, "batch", i)
	}
	b, err := NewSceneBatch(scenes)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSceneBatchWriteSimFrame(t *testing.T) {
	b := testBatch(t, 3)
	density := dense(3, 2, 2, 1)
	velocity := dense(3, 2, 2, 3)
	if _, err := b.WriteSimFrame([]*sparse.DenseArray{density, velocity}, []string{"density", "velocity"}, 0, false); err != nil {
		t.Fatal(err)
	}
	for i, s := range b.Scenes {
		arrays, err := s.ReadArray([]string{"density", "velocity"}, 0)
		if err != nil {
			t.Fatal(err)
		}
		checkArray(t, arrays[0], newDense([]int{1, 2, 2, 1}, density.Elements[i*4:(i+1)*4]))
		checkArray(t, arrays[1], newDense([]int{1, 2, 2, 3}, velocity.Elements[i*12:(i+1)*12]))
	}

	arrays, err := b.ReadArray([]string{"density", "velocity"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkArray(t, arrays[0], density)
	checkArray(t, arrays[1], velocity)
}

func TestSceneBatchSizeMismatch(t *testing.T) {
	b := testBatch(t, 2)
	_, err := b.WriteSimFrame([]*sparse.DenseArray{dense(3, 2, 1)}, []string{"density"}, 0, false)
	if !errors.Is(err, ErrBatchSize) {
		t.Errorf("have %v, want batch size error", err)
	}
	frames, err := b.Scenes[0].GetFrames(Union)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 0 {
		t.Errorf("frames written despite error: %v", frames)
	}
}

func TestSceneBatchReadSimFrames(t *testing.T) {
	_, err := testBatch(t, 2).ReadSimFrames([]string{"density"}, nil)
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("have %v, want not implemented", err)
	}
}

func TestSceneBatchStructured(t *testing.T) {
	b := testBatch(t, 2)
	state := NewTree().
		SetArray("density", dense(2, 3, 1)).
		Set("velocity", NewTree().SetArray("x", dense(2, 3, 1)))
	if _, err := b.Write(state, "", 4); err != nil {
		t.Fatal(err)
	}
	names, err := b.Scenes[1].FieldNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "density" || names[1] != "velocity_x" {
		t.Errorf("field names %v", names)
	}
	got, err := b.Read(state, "", 4)
	if err != nil {
		t.Fatal(err)
	}
	checkArray(t, got.Get("velocity").Get("x").Array, dense(2, 3, 1))
}

func TestSceneBatchMkdirRemove(t *testing.T) {
	b := testBatch(t, 2)
	if err := b.Mkdir(""); err != nil {
		t.Fatal(err)
	}
	scenes, err := List(b.Dir, b.Category, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenes) != 2 {
		t.Errorf("have %d scenes, want 2", len(scenes))
	}
	if err := b.Remove(); err != nil {
		t.Fatal(err)
	}
	if scenes, _ = List(b.Dir, b.Category, nil, 0); len(scenes) != 0 {
		t.Errorf("scenes not removed: %v", scenes)
	}
}

func TestNewSceneBatchEmpty(t *testing.T) {
	if _, err := NewSceneBatch(nil); err == nil {
		t.Error("expected an error for an empty batch")
	}
}
