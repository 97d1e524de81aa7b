package report

import (
	"errors"
	"strconv"
	"testing"

	"github.com/user/somplot/internal/parser"
)

func mustSeries(t *testing.T, name string, values ...float64) *parser.Series {
	t.Helper()
	s, err := parser.NewSeries(name, values)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}

func TestEpochTicks(t *testing.T) {
	tests := []struct {
		last int
		want []float64
	}{
		{1, []float64{0, 1}},
		{2, []float64{0, 1, 2}},
		{10, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{14, []float64{0, 2, 4, 6, 8, 10, 12, 14}},
		{95, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95}},
		{99, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 99}},
		{100, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
	}
	for _, tt := range tests {
		ticks := epochTicks(tt.last)
		if len(ticks) != len(tt.want) {
			t.Errorf("epochTicks(%d) has %d ticks, want %v", tt.last, len(ticks), tt.want)
			continue
		}
		for i, tk := range ticks {
			if tk.Value != tt.want[i] || tk.Label != strconv.Itoa(int(tt.want[i])) {
				t.Errorf("epochTicks(%d)[%d] = %+v, want %v", tt.last, i, tk, tt.want[i])
			}
		}
	}
}

func TestClipToBand(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []segment
	}{
		{
			name:   "inside",
			values: []float64{0.1, 0.5, 0.9},
			want:   []segment{{xs: []float64{0, 1, 2}, ys: []float64{0.1, 0.5, 0.9}}},
		},
		{
			name:   "leaves and returns",
			values: []float64{0.5, 1.5, 0.5},
			want: []segment{
				{xs: []float64{0, 0.5}, ys: []float64{0.5, 1}},
				{xs: []float64{1.5, 2}, ys: []float64{1, 0.5}},
			},
		},
		{
			name:   "entirely above",
			values: []float64{2, 3},
			want:   nil,
		},
		{
			name:   "single point inside",
			values: []float64{0.25},
			want:   []segment{{xs: []float64{0}, ys: []float64{0.25}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipToBand(tt.values, 0, 1)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				if !equalFloats(got[i].xs, tt.want[i].xs) || !equalFloats(got[i].ys, tt.want[i].ys) {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if d := a[i] - b[i]; d > 1e-12 || d < -1e-12 {
			return false
		}
	}
	return true
}

func TestCombinedChartRanges(t *testing.T) {
	topo := mustSeries(t, "topological_error", 0.1, 0.5, 0.9)
	quant := mustSeries(t, "quantization_error", 10, 50, 20)
	ch := newCombinedChart(topo, quant, DefaultErrorPlotOptions("4", LayoutCombined))

	if lo, hi := ch.YAxis.Range.GetMin(), ch.YAxis.Range.GetMax(); lo != 0 || hi != 1 {
		t.Errorf("left axis = [%v, %v], want [0, 1]", lo, hi)
	}
	if lo, hi := ch.YAxisSecondary.Range.GetMin(), ch.YAxisSecondary.Range.GetMax(); lo != 10 || hi != 50 {
		t.Errorf("right axis = [%v, %v], want [10, 50]", lo, hi)
	}
	if hi := ch.XAxis.Range.GetMax(); hi != 2 {
		t.Errorf("epoch axis ends at %v, want 2", hi)
	}
	if len(ch.Series) != 2 {
		t.Errorf("got %d series, want 2", len(ch.Series))
	}
}

func TestCombinedChartUsesLongerSeries(t *testing.T) {
	topo := mustSeries(t, "t", 0.2, 0.1, 0.05)
	quant := mustSeries(t, "q", 4, 3, 2, 1, 1)
	ch := newCombinedChart(topo, quant, DefaultErrorPlotOptions("4", LayoutCombined))
	if hi := ch.XAxis.Range.GetMax(); hi != 4 {
		t.Errorf("epoch axis ends at %v, want 4", hi)
	}
	if ticks := ch.XAxis.Ticks; ticks[len(ticks)-1].Value != 4 {
		t.Errorf("last tick = %v, want 4", ticks[len(ticks)-1].Value)
	}
}

func TestRenderErrorPlotsCombined(t *testing.T) {
	topo := mustSeries(t, "topological_error", 0.1, 0.5, 0.9)
	quant := mustSeries(t, "quantization_error", 10, 50, 20)
	outs, err := RenderErrorPlots(topo, quant, DefaultErrorPlotOptions("4", LayoutCombined))
	if err != nil {
		t.Fatalf("RenderErrorPlots: %v", err)
	}
	if len(outs) != 1 || outs[0].Name != "errors4.png" {
		t.Fatalf("outputs = %v, want one errors4.png", names(outs))
	}
	if w, h := decodeSize(t, outs[0].Data); w != 640 || h != 480 {
		t.Errorf("image is %dx%d, want 640x480", w, h)
	}
}

func TestRenderErrorPlotsCombinedOutOfBand(t *testing.T) {
	topo := mustSeries(t, "t", 1.5, 2, 3)
	quant := mustSeries(t, "q", 7, 7, 7)
	if _, err := RenderErrorPlots(topo, quant, DefaultErrorPlotOptions("4", LayoutCombined)); err != nil {
		t.Fatalf("RenderErrorPlots: %v", err)
	}
}

func TestRenderErrorPlotsSplit(t *testing.T) {
	topo := mustSeries(t, "topological_error", 0.1, 0.5, 0.9)
	quant := mustSeries(t, "quantization_error", 10, 50, 20)
	opts := DefaultErrorPlotOptions("4", LayoutSplit)

	outs, err := RenderErrorPlots(topo, quant, opts)
	if err != nil {
		t.Fatalf("RenderErrorPlots: %v", err)
	}
	got := names(outs)
	if len(got) != 2 || got[0] != "errors-topological4.png" || got[1] != "errors-quantization4.png" {
		t.Fatalf("outputs = %v", got)
	}
	for _, o := range outs {
		if w, h := decodeSize(t, o.Data); !near(w, 640) || !near(h, 480) {
			t.Errorf("%s is %dx%d, want 640x480", o.Name, w, h)
		}
	}

	tp, err := newTopologicalPlot(topo, opts)
	if err != nil {
		t.Fatal(err)
	}
	if tp.Y.Min != 0 || tp.Y.Max != 1 {
		t.Errorf("topological Y = [%v, %v], want [0, 1]", tp.Y.Min, tp.Y.Max)
	}
	qp, err := newQuantizationPlot(quant, opts)
	if err != nil {
		t.Fatal(err)
	}
	if qp.Y.Min != 10 || qp.Y.Max != 50 {
		t.Errorf("quantization Y = [%v, %v], want [10, 50]", qp.Y.Min, qp.Y.Max)
	}
	if qp.X.Min != 0 || qp.X.Max != 2 {
		t.Errorf("quantization X = [%v, %v], want [0, 2]", qp.X.Min, qp.X.Max)
	}
}

func TestRenderErrorPlotsErrors(t *testing.T) {
	s := mustSeries(t, "s", 1)
	if _, err := RenderErrorPlots(s, nil, DefaultErrorPlotOptions("4", LayoutSplit)); !errors.Is(err, parser.ErrDataFormat) {
		t.Errorf("missing series error = %v, want ErrDataFormat", err)
	}
	if _, err := RenderErrorPlots(s, s, DefaultErrorPlotOptions("", LayoutSplit)); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("missing label error = %v, want ErrInvalidOptions", err)
	}
}

func names(outs []Output) []string {
	var ns []string
	for _, o := range outs {
		ns = append(ns, o.Name)
	}
	return ns
}
