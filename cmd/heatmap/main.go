// Command heatmap renders a headerless CSV grid as a PNG heatmap.
//
//	heatmap [flags] <input.csv> <bins_label> [subtitle]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/user/somplot/internal/cli"
	"github.com/user/somplot/internal/logging"
	"github.com/user/somplot/internal/parser"
	"github.com/user/somplot/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("heatmap", flag.ContinueOnError)
	outDir := fs.String("out", ".", "directory to write the PNG into")
	legacy := fs.Bool("legacy-name", false, "write heatmap.png instead of heatmap<bins>.png")
	noColorbar := fs.Bool("no-colorbar", false, "omit the colorbar")
	size := cli.ImageSizeFlags(fs, report.DefaultImageSize())
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: heatmap [flags] <input.csv> <bins_label> [subtitle]")
		fs.PrintDefaults()
	}

	err := func() error {
		if err := cli.Parse(fs, args); err != nil {
			return err
		}
		pos, err := cli.Positional(fs, 2, 3)
		if err != nil {
			return err
		}
		if err := cli.Setup("heatmap", *logLevel); err != nil {
			return err
		}

		opts := report.DefaultHeatmapOptions(pos[1])
		opts.Subtitle = cli.Optional(pos, 2)
		opts.LegacyFilename = *legacy
		opts.ShowColorbar = !*noColorbar
		opts.Size = *size
		if err := opts.Validate(); err != nil {
			return cli.Usagef("%v", err)
		}
		return renderHeatmap(pos[0], *outDir, opts)
	}()
	return cli.ExitCode(fs, stderr, err)
}

func renderHeatmap(input, outDir string, opts report.HeatmapOptions) error {
	logging.Infof("Parsing: %s", input)
	grid, err := parser.ReadGrid(input)
	if err != nil {
		return err
	}
	logging.Debugf("grid is %d rows x %d columns", grid.Height(), grid.Width())

	logging.Infof("Rendering: %s", opts.Filename())
	out, err := report.RenderHeatmap(grid, opts)
	if err != nil {
		return err
	}
	paths, err := report.WriteOutputs(outDir, out)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logging.Infof("Wrote: %s", p)
	}
	return nil
}
