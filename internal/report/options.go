package report

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrInvalidOptions is returned when rendering parameters are unusable.
var ErrInvalidOptions = errors.New("invalid plot options")

// ImageSize is the raster size of one output image.
type ImageSize struct {
	Width  int // pixels
	Height int // pixels
	DPI    int
}

// DefaultImageSize matches a 6.4x4.8 inch figure at 100 DPI.
func DefaultImageSize() ImageSize { return ImageSize{Width: 640, Height: 480, DPI: 100} }

func (s ImageSize) Validate() error {
	if s.Width <= 0 || s.Height <= 0 || s.DPI <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d at %d dpi", ErrInvalidOptions, s.Width, s.Height, s.DPI)
	}
	return nil
}

// canvas returns an empty raster canvas of this size.
func (s ImageSize) canvas() *vgimg.Canvas {
	w := vg.Length(float64(s.Width)/float64(s.DPI)) * vg.Inch
	h := vg.Length(float64(s.Height)/float64(s.DPI)) * vg.Inch
	return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(s.DPI))
}

// validateLabel checks the bins label is present and safe to embed in a file name.
func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("%w: bins label is required", ErrInvalidOptions)
	}
	if strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return fmt.Errorf("%w: bins label %q cannot be used in a file name", ErrInvalidOptions, label)
	}
	return nil
}

func withSubtitle(title, subtitle, sep string) string {
	if subtitle == "" {
		return title
	}
	return title + sep + subtitle
}

// HeatmapOptions are the presentation settings for one heatmap.
type HeatmapOptions struct {
	BinsLabel      string // Opaque token shown in the title and file name
	Subtitle       string
	ShowColorbar   bool
	ColorbarLabel  string
	LegacyFilename bool // Write heatmap.png instead of heatmap<bins>.png
	Size           ImageSize
}

// DefaultHeatmapOptions returns options for the given bins label with a colorbar.
func DefaultHeatmapOptions(binsLabel string) HeatmapOptions {
	return HeatmapOptions{
		BinsLabel:     binsLabel,
		ShowColorbar:  true,
		ColorbarLabel: "Activation (red = bad, blue = good)",
		Size:          DefaultImageSize(),
	}
}

func (o HeatmapOptions) Validate() error {
	if err := validateLabel(o.BinsLabel); err != nil {
		return err
	}
	return o.Size.Validate()
}

// Title is the plot title, with the subtitle on a second line.
func (o HeatmapOptions) Title() string {
	return withSubtitle(fmt.Sprintf("Heatmap of Motor Data (Bins: %s)", o.BinsLabel), o.Subtitle, "\n")
}

// Filename is the output file name.
func (o HeatmapOptions) Filename() string {
	if o.LegacyFilename {
		return "heatmap.png"
	}
	return fmt.Sprintf("heatmap%s.png", o.BinsLabel)
}

// Layout selects how the two error series are drawn.
type Layout int

const (
	// LayoutCombined draws both series in one figure with two Y axes.
	LayoutCombined Layout = iota
	// LayoutSplit draws each series in its own figure.
	LayoutSplit
)

func (l Layout) String() string {
	switch l {
	case LayoutCombined:
		return "combined"
	case LayoutSplit:
		return "split"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout reads the split flag. "false" or "combined" select the
// combined layout, "true" or "split" the split layout, in any case.
// Other values are rejected.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "combined":
		return LayoutCombined, nil
	case "true", "split":
		return LayoutSplit, nil
	}
	return 0, fmt.Errorf("%w: split must be true or false, got %q", ErrInvalidOptions, s)
}

// ParseLayoutLenient reads the split flag the permissive way: only "false",
// in any case, selects the combined layout and every other value, typos
// included, selects the split layout.
func ParseLayoutLenient(s string) Layout {
	if strings.ToLower(s) == "false" {
		return LayoutCombined
	}
	return LayoutSplit
}

// ErrorPlotOptions are the presentation settings for the error line graphs.
type ErrorPlotOptions struct {
	BinsLabel            string
	TopologicalSubtitle  string
	QuantizationSubtitle string
	Layout               Layout
	Size                 ImageSize
}

// DefaultErrorPlotOptions returns options for the given bins label and layout.
func DefaultErrorPlotOptions(binsLabel string, layout Layout) ErrorPlotOptions {
	return ErrorPlotOptions{BinsLabel: binsLabel, Layout: layout, Size: DefaultImageSize()}
}

func (o ErrorPlotOptions) Validate() error {
	if err := validateLabel(o.BinsLabel); err != nil {
		return err
	}
	if o.Layout != LayoutCombined && o.Layout != LayoutSplit {
		return fmt.Errorf("%w: unknown layout %v", ErrInvalidOptions, o.Layout)
	}
	return o.Size.Validate()
}

// Filenames lists the files the layout produces, in render order.
func (o ErrorPlotOptions) Filenames() []string {
	if o.Layout == LayoutCombined {
		return []string{fmt.Sprintf("errors%s.png", o.BinsLabel)}
	}
	return []string{
		fmt.Sprintf("errors-topological%s.png", o.BinsLabel),
		fmt.Sprintf("errors-quantization%s.png", o.BinsLabel),
	}
}

func (o ErrorPlotOptions) combinedTitle() string {
	title := fmt.Sprintf("Topological and Quantization Error (Bins: %s)", o.BinsLabel)
	var subs []string
	for _, s := range []string{o.TopologicalSubtitle, o.QuantizationSubtitle} {
		if s != "" {
			subs = append(subs, s)
		}
	}
	return withSubtitle(title, strings.Join(subs, ", "), " - ")
}

func (o ErrorPlotOptions) topologicalTitle() string {
	return withSubtitle(fmt.Sprintf("Topological Error (Bins: %s)", o.BinsLabel), o.TopologicalSubtitle, "\n")
}

func (o ErrorPlotOptions) quantizationTitle() string {
	return withSubtitle(fmt.Sprintf("Quantization Error (Bins: %s)", o.BinsLabel), o.QuantizationSubtitle, "\n")
}
