package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/user/somplot/internal/logging"
	"github.com/user/somplot/internal/parser"
	"github.com/user/somplot/internal/report"
	"github.com/user/somplot/internal/som"
)

// request is what one somtrain run was asked to do.
type request struct {
	DataDir   string
	FileIndex int // -1 merges every file
	Config    som.Config
	OutDir    string
	Plot      bool
}

// App runs the load, train, export pipeline for one request.
type App struct {
	req request
}

// NewApp creates a new App for req.
func NewApp(req request) *App {
	return &App{req: req}
}

func (a *App) sendStatus(format string, args ...interface{}) {
	logging.Infof(format, args...)
}

// selectData picks the requested file, or merges all of them.
func (a *App) selectData(files []*parser.MotorFile) (*parser.MotorFile, error) {
	if a.req.FileIndex < 0 {
		return parser.MergeMotorFiles(files)
	}
	if a.req.FileIndex >= len(files) {
		return nil, fmt.Errorf("%w: file index %d out of range, found %d file(s)", parser.ErrDataFormat, a.req.FileIndex, len(files))
	}
	return files[a.req.FileIndex], nil
}

// Run trains the map and writes its outputs. It returns the written paths.
func (a *App) Run(ctx context.Context) ([]string, error) {
	a.sendStatus("Parsing: %s", a.req.DataDir)
	files, err := parser.LoadMotorFiles(a.req.DataDir)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		logging.Debugf("%s: %d samples, %d bins", f.Path, len(f.Points), f.Bins)
		for _, w := range f.Warnings {
			logging.Warnf("%s", w)
		}
	}
	data, err := a.selectData(files)
	if err != nil {
		return nil, err
	}
	data = data.Normalize()
	a.sendStatus("Loaded %d samples with %d bins from %d file(s).", len(data.Points), data.Bins, len(files))

	cfg := a.req.Config
	m, err := som.New(data, cfg)
	if err != nil {
		return nil, err
	}
	a.sendStatus("Training %dx%d map for %d epochs...", cfg.Width, cfg.Height, cfg.Epochs)
	every := max(cfg.Epochs/10, 1)
	err = m.Train(ctx, func(s som.EpochStats) {
		logging.Debugf("epoch %d: lr=%.4f topological=%.4f quantization=%.4f", s.Epoch, s.LearnRate, s.TopologicalError, s.QuantizationError)
		if s.Epoch%every == 0 || s.Epoch == cfg.Epochs {
			a.sendStatus("Epoch %d/%d: topological error %.4f, quantization error %.4f", s.Epoch, cfg.Epochs, s.TopologicalError, s.QuantizationError)
		}
	})
	if err != nil {
		return nil, err
	}

	topo, quant, err := m.History()
	if err != nil {
		return nil, err
	}
	grid, err := m.Activations(data.Points)
	if err != nil {
		return nil, err
	}

	bins := strconv.Itoa(data.Bins)
	outputs, err := csvOutputs(bins, grid, topo, quant)
	if err != nil {
		return nil, err
	}
	if a.req.Plot {
		a.sendStatus("Generating plots...")
		plots, err := plotOutputs(bins, fmt.Sprintf("%dx%d map, %d epochs", cfg.Width, cfg.Height, cfg.Epochs), grid, topo, quant)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, plots...)
	}

	if err := os.MkdirAll(a.req.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths, err := report.WriteOutputs(a.req.OutDir, outputs...)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		a.sendStatus("Wrote: %s", p)
	}
	return paths, nil
}

func csvOutputs(bins string, grid *parser.Grid, topo, quant *parser.Series) ([]report.Output, error) {
	var gridBuf, topoBuf, quantBuf bytes.Buffer
	if err := parser.WriteGrid(&gridBuf, grid); err != nil {
		return nil, err
	}
	if err := parser.WriteSeries(&topoBuf, topo); err != nil {
		return nil, err
	}
	if err := parser.WriteSeries(&quantBuf, quant); err != nil {
		return nil, err
	}
	return []report.Output{
		{Name: "activations" + bins + ".csv", Data: gridBuf.Bytes()},
		{Name: "topological" + bins + ".csv", Data: topoBuf.Bytes()},
		{Name: "quantization" + bins + ".csv", Data: quantBuf.Bytes()},
	}, nil
}

func plotOutputs(bins, subtitle string, grid *parser.Grid, topo, quant *parser.Series) ([]report.Output, error) {
	hopts := report.DefaultHeatmapOptions(bins)
	hopts.Subtitle = subtitle
	heatmap, err := report.RenderHeatmap(grid, hopts)
	if err != nil {
		return nil, err
	}
	errs, err := report.RenderErrorPlots(topo, quant, report.DefaultErrorPlotOptions(bins, report.LayoutCombined))
	if err != nil {
		return nil, err
	}
	return append([]report.Output{heatmap}, errs...), nil
}
