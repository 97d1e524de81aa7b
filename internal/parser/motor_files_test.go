package parser

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleMotorData = "3 4\n" +
	"0 1 0 0 0\n" +
	"1 0 3 4 0\n" +
	"0 1 2\n" + // wrong field count
	"0 0 0 0 0\r\n"

func TestParseMotorData(t *testing.T) {
	mf, err := ParseMotorData(strings.NewReader(sampleMotorData), "sample.out")
	if err != nil {
		t.Fatalf("ParseMotorData: %v", err)
	}
	if mf.Bins != 4 || len(mf.Points) != 3 {
		t.Fatalf("got bins=%d points=%d", mf.Bins, len(mf.Points))
	}
	if mf.Points[0].Bad || !mf.Points[1].Bad {
		t.Fatalf("labels not parsed: %+v", mf.Points)
	}
	if len(mf.Warnings) != 1 || !strings.Contains(mf.Warnings[0], "line 4") {
		t.Fatalf("expected one skipped-line warning, got %v", mf.Warnings)
	}
}

func TestParseMotorData_BadHeader(t *testing.T) {
	for _, in := range []string{"", "abc\n", "3\n", "3 0\n"} {
		if _, err := ParseMotorData(strings.NewReader(in), "bad.out"); !errors.Is(err, ErrDataFormat) {
			t.Fatalf("%q: expected ErrDataFormat, got %v", in, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	mf, err := ParseMotorData(strings.NewReader(sampleMotorData), "sample.out")
	if err != nil {
		t.Fatal(err)
	}
	n := mf.Normalize()
	want := []float64{0, 0.6, 0.8, 0}
	for i, v := range n.Points[1].Bins {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Fatalf("normalized bins %v, want %v", n.Points[1].Bins, want)
		}
	}
	for _, v := range n.Points[2].Bins {
		if v != 0 {
			t.Fatalf("zero sample changed: %v", n.Points[2].Bins)
		}
	}
	if mf.Points[1].Bins[1] != 3 {
		t.Fatalf("Normalize modified its receiver")
	}
}

func TestLoadMotorFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(path, body string) {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(dir, "a.out"), "1 2\n0 1 1\n")
	write(filepath.Join(sub, "c.out"), "1 2\n1 2 2\n")
	write(filepath.Join(dir, "ignored.txt"), "not data")

	files, err := LoadMotorFiles(dir)
	if err != nil {
		t.Fatalf("LoadMotorFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if filepath.Base(files[0].Path) != "a.out" || filepath.Base(files[1].Path) != "c.out" {
		t.Fatalf("unexpected order: %s, %s", files[0].Path, files[1].Path)
	}

	merged, err := MergeMotorFiles(files)
	if err != nil {
		t.Fatal(err)
	}
	if len(merged.Points) != 2 || !merged.Points[1].Bad {
		t.Fatalf("unexpected merge %+v", merged.Points)
	}
}

func TestMergeMotorFiles_BinMismatch(t *testing.T) {
	a := &MotorFile{Path: "a", Bins: 2}
	b := &MotorFile{Path: "b", Bins: 3}
	if _, err := MergeMotorFiles([]*MotorFile{a, b}); !errors.Is(err, ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
	if _, err := MergeMotorFiles(nil); !errors.Is(err, ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat for no files, got %v", err)
	}
}
