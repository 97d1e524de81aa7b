package report

import (
	"bytes"
	"fmt"

	"github.com/user/somplot/internal/parser"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBlue = drawing.Color{B: 255, A: 255}
	chartRed  = drawing.Color{R: 255, A: 255}
)

type segment struct {
	xs, ys []float64
}

func (s *segment) add(x, y float64) {
	s.xs = append(s.xs, x)
	s.ys = append(s.ys, y)
}

// clipToBand cuts the polyline through (i, values[i]) to the part inside
// [lo, hi]. Each crossing ends a segment at the boundary; re-entering starts
// a new one. The values themselves are not changed.
func clipToBand(values []float64, lo, hi float64) []segment {
	if len(values) == 1 {
		if v := values[0]; v >= lo && v <= hi {
			return []segment{{xs: []float64{0}, ys: []float64{v}}}
		}
		return nil
	}

	var (
		segs []segment
		cur  *segment
	)
	for i := 0; i+1 < len(values); i++ {
		x0, y0 := float64(i), values[i]
		x1, y1 := float64(i+1), values[i+1]

		t0, t1 := 0.0, 1.0
		if y0 == y1 {
			if y0 < lo || y0 > hi {
				cur = nil
				continue
			}
		} else {
			ta, tb := (lo-y0)/(y1-y0), (hi-y0)/(y1-y0)
			if ta > tb {
				ta, tb = tb, ta
			}
			t0, t1 = max(t0, ta), min(t1, tb)
			if t0 > t1 {
				cur = nil
				continue
			}
		}

		sx, sy := x0, y0
		if t0 > 0 {
			sx, sy = x0+t0*(x1-x0), y0+t0*(y1-y0)
		}
		ex, ey := x1, y1
		if t1 < 1 {
			ex, ey = x0+t1*(x1-x0), y0+t1*(y1-y0)
		}

		if cur == nil || t0 > 0 {
			segs = append(segs, segment{})
			cur = &segs[len(segs)-1]
			cur.add(sx, sy)
		}
		cur.add(ex, ey)
		if t1 < 1 {
			cur = nil
		}
	}
	return segs
}

func chartTicks(last int) []chart.Tick {
	pt := epochTicks(last)
	ticks := make([]chart.Tick, len(pt))
	for i, t := range pt {
		ticks[i] = chart.Tick{Value: t.Value, Label: t.Label}
	}
	return ticks
}

func epochValues(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// newCombinedChart puts both series on one epoch axis: topological error on
// the left axis fixed to [0, 1], quantization error on the right axis fixed
// to the data range.
func newCombinedChart(topological, quantization *parser.Series, opts ErrorPlotOptions) chart.Chart {
	qlo, qhi := valueRange(quantization)
	last := lastEpoch(topological, quantization)

	topoStyle := chart.Style{StrokeColor: chartBlue, StrokeWidth: 1.5}
	var series []chart.Series
	for i, seg := range clipToBand(topological.Values, 0, 1) {
		s := chart.ContinuousSeries{Style: topoStyle, XValues: seg.xs, YValues: seg.ys}
		if i == 0 {
			s.Name = "Topological Error"
		}
		series = append(series, s)
	}
	series = append(series, chart.ContinuousSeries{
		Name:    "Quantization Error",
		Style:   chart.Style{StrokeColor: chartRed, StrokeWidth: 1.5},
		YAxis:   chart.YAxisSecondary,
		XValues: epochValues(quantization.Len()),
		YValues: quantization.Values,
	})

	return chart.Chart{
		Title:  opts.combinedTitle(),
		Width:  opts.Size.Width,
		Height: opts.Size.Height,
		DPI:    float64(opts.Size.DPI),
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Epoch",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(last)},
			Ticks: chartTicks(last),
		},
		YAxis: chart.YAxis{
			Name:      "Error %",
			NameStyle: chart.Style{FontColor: chartBlue},
			Style:     chart.Style{FontColor: chartBlue, StrokeColor: chartBlue},
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxisSecondary: chart.YAxis{
			Name:      "Incorrect BMU",
			NameStyle: chart.Style{FontColor: chartRed},
			Style:     chart.Style{FontColor: chartRed, StrokeColor: chartRed},
			Range:     &chart.ContinuousRange{Min: qlo, Max: qhi},
		},
		Series: series,
	}
}

func renderCombinedChart(topological, quantization *parser.Series, opts ErrorPlotOptions) ([]byte, error) {
	ch := newCombinedChart(topological, quantization, opts)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render combined error chart: %w", err)
	}
	return buf.Bytes(), nil
}
