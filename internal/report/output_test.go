package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteOutputs(dir,
		Output{Name: "a.png", Data: []byte("first")},
		Output{Name: "b.png", Data: []byte("second")},
	)
	if err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	got, err := os.ReadFile(filepath.Join(dir, "b.png"))
	if err != nil || string(got) != "second" {
		t.Errorf("b.png = %q, %v", got, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("directory has %d entries, want 2 (temp files left behind?)", len(entries))
	}
}

func TestWriteOutputsRejectsPaths(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteOutputs(dir,
		Output{Name: "ok.png", Data: []byte("x")},
		Output{Name: "../escape.png", Data: []byte("y")},
	)
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("error = %v, want ErrInvalidOptions", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed write left %d entries behind", len(entries))
	}
}

func TestWriteOutputsMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	if _, err := WriteOutputs(dir, Output{Name: "a.png"}); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
