// Command plotreport collects rendered PNG plots into a PDF report.
//
//	plotreport [flags] <image.png>...
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/user/somplot/internal/cli"
	"github.com/user/somplot/internal/logging"
	"github.com/user/somplot/internal/parser"
	"github.com/user/somplot/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("plotreport", flag.ContinueOnError)
	output := fs.String("o", "report.pdf", "PDF file to write")
	title := fs.String("title", "", "report title")
	topoPath := fs.String("topological", "", "topological error CSV for the summary table")
	quantPath := fs.String("quantization", "", "quantization error CSV for the summary table")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: plotreport [flags] <image.png>...")
		fs.PrintDefaults()
	}

	err := func() error {
		if err := cli.Parse(fs, args); err != nil {
			return err
		}
		images, err := cli.Positional(fs, 1, -1)
		if err != nil {
			return err
		}
		if err := cli.Setup("plotreport", *logLevel); err != nil {
			return err
		}
		if (*topoPath == "") != (*quantPath == "") {
			return cli.Usagef("-topological and -quantization must be given together")
		}

		in := report.ReportInput{Title: *title}
		if *topoPath != "" {
			if in.Topological, err = parser.ReadSeries(*topoPath); err != nil {
				return err
			}
			if in.Quantization, err = parser.ReadSeries(*quantPath); err != nil {
				return err
			}
		}
		for _, path := range images {
			logging.Infof("Adding: %s", path)
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			in.Images = append(in.Images, report.Output{Name: filepath.Base(path), Data: data})
		}
		return writeReport(*output, in)
	}()
	return cli.ExitCode(fs, stderr, err)
}

func writeReport(path string, in report.ReportInput) error {
	logging.Infof("Generating PDF: %s...", path)
	var buf bytes.Buffer
	if err := report.BuildPDFReport(&buf, in); err != nil {
		return err
	}
	if _, err := report.WriteOutputs(filepath.Dir(path), report.Output{Name: filepath.Base(path), Data: buf.Bytes()}); err != nil {
		return err
	}
	logging.Infof("PDF report successfully generated: %s", path)
	return nil
}
