package report

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/user/somplot/internal/parser"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const maxEpochTicks = 10

var (
	topologicalColor  = color.RGBA{B: 255, A: 255}
	quantizationColor = color.RGBA{R: 255, A: 255}
)

// lastEpoch is the right end of the shared epoch axis.
func lastEpoch(series ...*parser.Series) int {
	last := 1
	for _, s := range series {
		if n := s.Len() - 1; n > last {
			last = n
		}
	}
	return last
}

// epochStep picks 1, 2, 5, 10, 20, ... so at most maxEpochTicks fit in [0, last].
func epochStep(last int) int {
	for mag := 1; ; mag *= 10 {
		for _, m := range []int{1, 2, 5} {
			if step := m * mag; last/step <= maxEpochTicks {
				return step
			}
		}
	}
}

// generateTicks returns integer ticks from min to max. Multiples of step
// are labelled and max always closes the axis; a multiple too close to max
// is dropped so the labels do not collide.
func generateTicks(min, max, step int) []plot.Tick {
	var ticks []plot.Tick
	for v := min; v < max; v += step {
		if 2*(max-v) < step {
			break
		}
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return append(ticks, plot.Tick{Value: float64(max), Label: strconv.Itoa(max)})
}

func epochTicks(last int) []plot.Tick {
	return generateTicks(0, last, epochStep(last))
}

// valueRange returns the series range, widened when the series is constant.
func valueRange(s *parser.Series) (lo, hi float64) {
	lo, hi = s.Range()
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

func seriesXYs(s *parser.Series) plotter.XYs {
	pts := make(plotter.XYs, s.Len())
	for i, v := range s.Values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

// newSeriesPlot draws one error series over the epoch axis with a fixed Y range.
func newSeriesPlot(s *parser.Series, title, yLabel string, c color.Color, lo, hi float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = yLabel
	p.Y.Label.TextStyle.Color = c
	p.Y.Tick.Label.Color = c
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(seriesXYs(s))
	if err != nil {
		return nil, fmt.Errorf("failed to create line for %s: %w", s.Name, err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	p.Add(line)

	// Add widened the axes to the data, so the fixed ranges go in afterwards.
	last := lastEpoch(s)
	p.X.Min, p.X.Max = 0, float64(last)
	p.Y.Min, p.Y.Max = lo, hi
	p.X.Tick.Marker = plot.ConstantTicks(epochTicks(last))
	return p, nil
}

func newTopologicalPlot(s *parser.Series, opts ErrorPlotOptions) (*plot.Plot, error) {
	return newSeriesPlot(s, opts.topologicalTitle(), "Error %", topologicalColor, 0, 1)
}

func newQuantizationPlot(s *parser.Series, opts ErrorPlotOptions) (*plot.Plot, error) {
	lo, hi := valueRange(s)
	return newSeriesPlot(s, opts.quantizationTitle(), "Incorrect BMU", quantizationColor, lo, hi)
}

// RenderErrorPlots renders the topological and quantization series in the
// layout chosen by opts. Nothing is returned unless every image rendered.
func RenderErrorPlots(topological, quantization *parser.Series, opts ErrorPlotOptions) ([]Output, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if topological == nil || quantization == nil {
		return nil, fmt.Errorf("%w: both error series are required", parser.ErrDataFormat)
	}
	names := opts.Filenames()

	if opts.Layout == LayoutCombined {
		data, err := renderCombinedChart(topological, quantization, opts)
		if err != nil {
			return nil, err
		}
		return []Output{{Name: names[0], Data: data}}, nil
	}

	builders := []func(*parser.Series, ErrorPlotOptions) (*plot.Plot, error){newTopologicalPlot, newQuantizationPlot}
	series := []*parser.Series{topological, quantization}
	outputs := make([]Output, 0, len(builders))
	for i, build := range builders {
		p, err := build(series[i], opts)
		if err != nil {
			return nil, err
		}
		data, err := renderPNG(p, opts.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", names[i], err)
		}
		outputs = append(outputs, Output{Name: names[i], Data: data})
	}
	return outputs, nil
}
