package fluidscene

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"
)

func TestCreateSequential(t *testing.T) {
	dir := t.TempDir()
	for want := 0; want < 2; want++ {
		r, err := Create(dir, "Smoke Test", 1, true, false)
		if err != nil {
			t.Fatal(err)
		}
		s, ok := r.(*Scene)
		if !ok {
			t.Fatalf("have %T, want *Scene", r)
		}
		if s.Index != want || s.Category != "smoke-test" || s.Dir != dir {
			t.Errorf("have %+v, want index %d", s, want)
		}
		if fi, err := os.Stat(s.Path()); err != nil || !fi.IsDir() {
			t.Errorf("scene directory not created: %v", err)
		}
	}
}

func TestCreateAfterRemove(t *testing.T) {
	dir := t.TempDir()
	alloc := NewDirAllocator()
	for i := 0; i < 2; i++ {
		r, err := CreateWith(alloc, dir, "smoke", 1, true, false)
		if err != nil {
			t.Fatal(err)
		}
		if s := r.(*Scene); s.Index != 0 {
			t.Errorf("attempt %d: have index %d, want 0", i, s.Index)
		}
		if err := r.Remove(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCreateBatch(t *testing.T) {
	dir := t.TempDir()
	r, err := Create(dir, "batch", 3, true, false)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := r.(*SceneBatch)
	if !ok {
		t.Fatalf("have %T, want *SceneBatch", r)
	}
	if b.BatchSize() != 3 {
		t.Fatalf("batch size %d", b.BatchSize())
	}
	for i, s := range b.Scenes {
		if s.Index != i {
			t.Errorf("scene %d has index %d", i, s.Index)
		}
	}

	b2, err := CreateBatch(dir, "batch", 1, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if b2.BatchSize() != 1 || b2.Scenes[0].Index != 3 {
		t.Errorf("have %v", b2)
	}

	if _, err := Create(dir, "batch", 0, true, false); err == nil {
		t.Error("expected an error for count 0")
	}
}

func TestCreateCategoryFromDirectory(t *testing.T) {
	dir := t.TempDir()
	r, err := Create(filepath.Join(dir, "Runs"), "", 1, true, false)
	if err != nil {
		t.Fatal(err)
	}
	s := r.(*Scene)
	if s.Dir != dir || s.Category != "Runs" {
		t.Errorf("have dir %s, category %s", s.Dir, s.Category)
	}
}

func TestCreateCopyCallingScript(t *testing.T) {
	dir := t.TempDir()
	r, err := Create(dir, "provenance", 1, true, true)
	if err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(r.Path(), "src", "create_test.go")
	if _, err := os.Stat(src); err != nil {
		t.Errorf("calling script was not copied: %v", err)
	}

	if _, err := Create(dir, "provenance", 1, false, true); err == nil {
		t.Error("copying the script without creating the directory should fail")
	}
}

func TestCopySrc(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "params.toml")
	if err := os.WriteFile(f, []byte("viscosity = 0.1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewScene(dir, "c", 0)
	if err := s.CopySrc(f); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(s.Path(), "src", "params.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "viscosity = 0.1\n" {
		t.Errorf("copied contents %q", b)
	}
	if err := s.CopySrc(filepath.Join(dir, "missing.py")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if err := s.CopyCallingScript(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(s.Path(), "src", "create_test.go")); err != nil {
		t.Error(err)
	}
}

func TestCreateWithoutDirectory(t *testing.T) {
	dir := t.TempDir()
	alloc := NewDirAllocator()
	for want := 0; want < 2; want++ {
		r, err := CreateWith(alloc, dir, "dry", 1, false, false)
		if err != nil {
			t.Fatal(err)
		}
		if s := r.(*Scene); s.Index != want {
			t.Errorf("have index %d, want %d", s.Index, want)
		}
		if _, err := os.Stat(r.Path()); !os.IsNotExist(err) {
			t.Errorf("directory should not exist: %v", err)
		}
	}
}

func TestDirAllocatorConcurrent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "race")
	const n = 8
	indices := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			indices[i], errs[i] = NewDirAllocator().Next(dir, true)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
	sort.Ints(indices)
	for i, index := range indices {
		if index != i {
			t.Fatalf("indices %v are not distinct and sequential", indices)
		}
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, i := range []int{10, 2, 1, 100000000} {
		if err := NewScene(dir, "c", i).Mkdir(""); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "c", "sim_000005"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "c", "other"), 0755); err != nil {
		t.Fatal(err)
	}

	indices := func(scenes []*Scene) []int {
		var out []int
		for _, s := range scenes {
			out = append(out, s.Index)
		}
		return out
	}

	scenes, err := List(dir, "c", nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if have := indices(scenes); !reflect.DeepEqual(have, []int{1, 2, 10, 100000000}) {
		t.Errorf("have %v", have)
	}

	even := func(i int) bool { return i%2 == 0 }
	scenes, err = List(filepath.Join(dir, "c"), "", even, 2)
	if err != nil {
		t.Fatal(err)
	}
	if have := indices(scenes); !reflect.DeepEqual(have, []int{2, 10}) {
		t.Errorf("filtered: have %v", have)
	}

	scenes, err = List(dir, "missing", nil, 0)
	if err != nil || len(scenes) != 0 {
		t.Errorf("missing category: have %v, %v", scenes, err)
	}
}

func TestAt(t *testing.T) {
	dir := t.TempDir()
	s, err := At(filepath.Join(dir, "smoke", "sim_000007"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Dir != dir || s.Category != "smoke" || s.Index != 7 {
		t.Errorf("have %+v", s)
	}
	s, err = At(filepath.Join(dir, "smoke", "sim_12") + string(filepath.Separator))
	if err != nil || s.Index != 12 {
		t.Errorf("trailing separator: have %v, %v", s, err)
	}

	t.Setenv("HOME", dir)
	s, err = At("~/smoke/sim_000003")
	if err != nil {
		t.Fatal(err)
	}
	if s.Dir != dir || s.Category != "smoke" || s.Index != 3 {
		t.Errorf("home directory: have %+v", s)
	}

	for _, p := range []string{"smoke", filepath.Join(dir, "run_000001"), filepath.Join(dir, "sim_abc")} {
		if _, err := At(p); !errors.Is(err, ErrInvalidSceneDir) {
			t.Errorf("%s: have %v, want invalid scene directory", p, err)
		}
	}
}
