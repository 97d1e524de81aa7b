// Command linegraph plots the topological and quantization error of a SOM
// training run, either combined in one dual-axis chart or split in two.
//
//	linegraph [flags] <topological.csv> <quantization.csv> <bins_label> <split> [subtitle1] [subtitle2]
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
	fs := flag.NewFlagSet("linegraph", flag.ContinueOnError)
	outDir := fs.String("out", ".", "directory to write the PNGs into")
	lenient := fs.Bool("lenient-split", false, `treat any <split> value other than "false" as true`)
	size := cli.ImageSizeFlags(fs, report.DefaultImageSize())
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: linegraph [flags] <topological.csv> <quantization.csv> <bins_label> <split> [subtitle1] [subtitle2]")
		fmt.Fprintln(fs.Output(), "  <split> is true (two figures) or false (one dual-axis figure)")
		fs.PrintDefaults()
	}

	err := func() error {
		if err := cli.Parse(fs, args); err != nil {
			return err
		}
		pos, err := cli.Positional(fs, 4, 6)
		if err != nil {
			return err
		}
		if err := cli.Setup("linegraph", *logLevel); err != nil {
			return err
		}

		layout := report.ParseLayoutLenient(pos[3])
		if !*lenient {
			if layout, err = report.ParseLayout(pos[3]); err != nil {
				return cli.Usagef("%v", err)
			}
		}
		opts := report.DefaultErrorPlotOptions(pos[2], layout)
		opts.TopologicalSubtitle = cli.Optional(pos, 4)
		opts.QuantizationSubtitle = cli.Optional(pos, 5)
		opts.Size = *size
		if err := opts.Validate(); err != nil {
			return cli.Usagef("%v", err)
		}
		return renderErrors(pos[0], pos[1], *outDir, opts)
	}()
	return cli.ExitCode(fs, stderr, err)
}

func renderErrors(topoPath, quantPath, outDir string, opts report.ErrorPlotOptions) error {
	logging.Infof("Parsing: %s", topoPath)
	topo, err := parser.ReadSeries(topoPath)
	if err != nil {
		return err
	}
	logging.Infof("Parsing: %s", quantPath)
	quant, err := parser.ReadSeries(quantPath)
	if err != nil {
		return err
	}
	if topo.Len() != quant.Len() {
		logging.Warnf("series lengths differ: %d topological, %d quantization epochs", topo.Len(), quant.Len())
	}

	logging.Infof("Rendering: %s layout", opts.Layout)
	outs, err := report.RenderErrorPlots(topo, quant, opts)
	if err != nil {
		return err
	}
	paths, err := report.WriteOutputs(outDir, outs...)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logging.Infof("Wrote: %s", p)
	}
	return nil
}
