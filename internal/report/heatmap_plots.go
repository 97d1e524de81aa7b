package report

import (
	"fmt"
	"strconv"

	"github.com/user/somplot/internal/parser"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

const (
	paletteColors = 255
	// Share of the image width given to the colorbar.
	colorbarFraction = 0.18
)

// heatmapColorMap is coolwarm reversed, so low values are red and high
// values blue.
func heatmapColorMap(lo, hi float64) palette.ColorMap {
	cm := palette.Reverse(moreland.SmoothBlueRed())
	cm.SetMax(hi)
	cm.SetMin(lo)
	return cm
}

// colorRange is the grid's value range, widened when every cell is equal.
func colorRange(g *parser.Grid) (lo, hi float64) {
	lo, hi = g.Range()
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

func indexTicks(n int) []plot.Tick {
	ticks := make([]plot.Tick, n)
	for i := range ticks {
		ticks[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(i)}
	}
	return ticks
}

// newHeatmapPlot builds the heatmap figure. Y grows upward, so row 0 is
// drawn at the bottom.
func newHeatmapPlot(g *parser.Grid, opts HeatmapOptions) (*plot.Plot, palette.ColorMap) {
	lo, hi := colorRange(g)
	cm := heatmapColorMap(lo, hi)

	p := plot.New()
	p.Title.Text = opts.Title()
	p.X.Label.Text = "X Pos"
	p.Y.Label.Text = "Y Pos"

	hm := plotter.NewHeatMap(g, cm.Palette(paletteColors))
	hm.Min, hm.Max = lo, hi
	p.Add(hm)

	p.X.Tick.Marker = plot.ConstantTicks(indexTicks(g.Width()))
	p.Y.Tick.Marker = plot.ConstantTicks(indexTicks(g.Height()))
	p.X.Min, p.X.Max = -0.5, float64(g.Width())-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(g.Height())-0.5
	return p, cm
}

func newColorbarPlot(cm palette.ColorMap, label string) *plot.Plot {
	p := plot.New()
	p.HideX()
	p.Y.Label.Text = label
	p.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	return p
}

// RenderHeatmap renders g as a PNG heatmap named by opts.Filename.
func RenderHeatmap(g *parser.Grid, opts HeatmapOptions) (Output, error) {
	if err := opts.Validate(); err != nil {
		return Output{}, err
	}
	if g == nil {
		return Output{}, fmt.Errorf("%w: empty grid", parser.ErrDataFormat)
	}

	p, cm := newHeatmapPlot(g, opts)
	c := opts.Size.canvas()
	dc := draw.New(c)
	if opts.ShowColorbar {
		cbWidth := (dc.Max.X - dc.Min.X) * colorbarFraction
		p.Draw(draw.Crop(dc, 0, -cbWidth, 0, 0))
		newColorbarPlot(cm, opts.ColorbarLabel).Draw(draw.Crop(dc, dc.Max.X-dc.Min.X-cbWidth, 0, 0, 0))
	} else {
		p.Draw(dc)
	}

	data, err := encodePNG(c)
	if err != nil {
		return Output{}, err
	}
	return Output{Name: opts.Filename(), Data: data}, nil
}
