package fluidsceneutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitBlob(t *testing.T) {
	for loc, want := range map[string][2]string{
		"gs://bucket/runs/params.toml": {"gs://bucket", "runs/params.toml"},
		"s3://bucket/scene.nc":         {"s3://bucket", "scene.nc"},
		"file:///tmp/runs/params.toml": {"file:///tmp/runs", "params.toml"},
	} {
		bucket, key, err := splitBlob(loc)
		if err != nil {
			t.Fatal(err)
		}
		if bucket != want[0] || key != want[1] {
			t.Errorf("%s: have %s %s, want %s %s", loc, bucket, key, want[0], want[1])
		}
	}
}

func TestMaybeDownload(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	local := filepath.Join(src, "params.toml")
	if err := os.WriteFile(local, []byte("viscosity = 0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/params.toml" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "viscosity = 0.1\n")
	}))
	defer ts.Close()

	for _, loc := range []string{local, "file://" + local, ts.URL + "/files/params.toml"} {
		dir := t.TempDir()
		p, err := maybeDownload(ctx, loc, dir)
		if err != nil {
			t.Fatalf("%s: %v", loc, err)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("%s: %v", loc, err)
		}
		if string(b) != "viscosity = 0.1\n" {
			t.Errorf("%s: have %q", loc, b)
		}
	}

	if _, err := maybeDownload(ctx, ts.URL+"/missing.toml", t.TempDir()); err == nil {
		t.Error("expected an error for a missing URL")
	}
}

func TestUploader(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")
	var u uploader
	local, err := u.maybeUpload("file://" + dest)
	if err != nil {
		t.Fatal(err)
	}
	if local == dest {
		t.Fatal("blob location should be written to a temporary file")
	}
	if err := os.WriteFile(local, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := u.upload(context.Background()); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "data" {
		t.Errorf("have %q", b)
	}
	if _, err := os.Stat(u.dir); !os.IsNotExist(err) {
		t.Error("temporary directory was not removed")
	}

	var plain uploader
	if p, err := plain.maybeUpload(dest); err != nil || p != dest {
		t.Errorf("local path changed to %s: %v", p, err)
	}
	if err := plain.upload(context.Background()); err != nil {
		t.Error(err)
	}
}
