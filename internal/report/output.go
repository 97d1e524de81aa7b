package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Output is one rendered file kept in memory until it is written.
type Output struct {
	Name string
	Data []byte
}

// WriteOutputs writes every output into dir and returns the written paths.
// Each file goes to a temporary name first; the final names only appear once
// all temporaries are complete, so a failure leaves no partial outputs.
func WriteOutputs(dir string, outputs ...Output) ([]string, error) {
	temps := make([]string, len(outputs))
	cleanup := func() {
		for _, t := range temps {
			if t != "" {
				os.Remove(t)
			}
		}
	}

	for i, out := range outputs {
		if out.Name == "" || filepath.Base(out.Name) != out.Name {
			cleanup()
			return nil, fmt.Errorf("%w: output name %q must be a plain file name", ErrInvalidOptions, out.Name)
		}
		tmp, err := writeTemp(dir, out)
		if err != nil {
			cleanup()
			return nil, err
		}
		temps[i] = tmp
	}

	paths := make([]string, 0, len(outputs))
	for i, out := range outputs {
		final := filepath.Join(dir, out.Name)
		if err := os.Rename(temps[i], final); err != nil {
			cleanup()
			return paths, fmt.Errorf("failed to move %s into place: %w", final, err)
		}
		temps[i] = ""
		paths = append(paths, final)
	}
	return paths, nil
}

func writeTemp(dir string, out Output) (string, error) {
	f, err := os.CreateTemp(dir, "."+out.Name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", out.Name, err)
	}
	name := f.Name()
	if _, err := f.Write(out.Data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("failed to write %s: %w", out.Name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to close %s: %w", out.Name, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to set mode on %s: %w", out.Name, err)
	}
	return name, nil
}

// renderPNG draws p over the whole canvas of the given size.
func renderPNG(p *plot.Plot, size ImageSize) ([]byte, error) {
	c := size.canvas()
	p.Draw(draw.New(c))
	return encodePNG(c)
}

func encodePNG(c *vgimg.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
