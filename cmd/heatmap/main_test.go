package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/somplot/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pngFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		args     func(in, out string) []string
		wantCode int
		wantPNG  []string
	}{
		{
			name:     "default name",
			csv:      "0,1\n2,3\n",
			args:     func(in, out string) []string { return []string{"-out", out, in, "4"} },
			wantCode: 0,
			wantPNG:  []string{"heatmap4.png"},
		},
		{
			name:     "legacy name with subtitle",
			csv:      "0,1\n2,3\n",
			args:     func(in, out string) []string { return []string{"-out", out, "-legacy-name", in, "4", "motor 1"} },
			wantCode: 0,
			wantPNG:  []string{"heatmap.png"},
		},
		{
			name:     "no colorbar",
			csv:      "1,2,3\n",
			args:     func(in, out string) []string { return []string{"-out", out, "-no-colorbar", in, "16"} },
			wantCode: 0,
			wantPNG:  []string{"heatmap16.png"},
		},
		{
			name:     "missing bins label",
			csv:      "0,1\n",
			args:     func(in, out string) []string { return []string{"-out", out, in} },
			wantCode: 2,
		},
		{
			name:     "too many arguments",
			csv:      "0,1\n",
			args:     func(in, out string) []string { return []string{"-out", out, in, "4", "sub", "extra"} },
			wantCode: 2,
		},
		{
			name:     "unknown flag",
			csv:      "0,1\n",
			args:     func(in, out string) []string { return []string{"-bogus", in, "4"} },
			wantCode: 2,
		},
		{
			name:     "ragged grid",
			csv:      "0,1\n2\n",
			args:     func(in, out string) []string { return []string{"-out", out, in, "4"} },
			wantCode: 1,
		},
		{
			name:     "non numeric cell",
			csv:      "0,x\n",
			args:     func(in, out string) []string { return []string{"-out", out, in, "4"} },
			wantCode: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := writeFile(t, t.TempDir(), "grid.csv", tt.csv)
			out := t.TempDir()
			var stderr bytes.Buffer
			if code := run(tt.args(in, out), &stderr); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d; stderr: %s", code, tt.wantCode, stderr.String())
			}
			got := pngFiles(t, out)
			if strings.Join(got, ",") != strings.Join(tt.wantPNG, ",") {
				t.Errorf("png files = %v, want %v", got, tt.wantPNG)
			}
			if tt.wantCode == 2 && !strings.Contains(stderr.String(), "usage: heatmap") {
				t.Errorf("usage not printed: %q", stderr.String())
			}
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	out := t.TempDir()
	var stderr bytes.Buffer
	if code := run([]string{"-out", out, filepath.Join(out, "nope.csv"), "4"}, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}
