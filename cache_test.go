package fluidscene

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestCachedReader(t *testing.T) {
	s := NewScene(t.TempDir(), "cache", 0)
	writeSeries(t, s.Path(), "density", 1, 0, 1)

	r := NewCachedReader(s, 10)
	a, err := r.ReadArray("density", 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.Elements[0] != 1 {
		t.Errorf("have %v", a.Elements)
	}

	if err := os.Remove(filepath.Join(s.Path(), FrameFile("density", 1))); err != nil {
		t.Fatal(err)
	}
	b, err := r.ReadArray("density", 1)
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if a != b {
		t.Error("cached read returned a different array")
	}

	if _, err := r.ReadArray("density", 2); !errors.Is(err, ErrMissingFrame) {
		t.Errorf("have %v, want missing frame", err)
	}
}

func TestCachedReaderConcurrent(t *testing.T) {
	s := NewScene(t.TempDir(), "cache", 0)
	writeSeries(t, s.Path(), "density", 1, 0, 1, 2, 3)

	r := NewCachedReader(s, 0)
	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(frame int) {
			defer wg.Done()
			a, err := r.ReadArray("density", frame)
			if err != nil {
				errs <- err
				return
			}
			if a.Elements[0] != float64(frame) {
				errs <- errors.New("wrong frame returned")
			}
		}(i % 4)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
