// Command somtrain trains a self-organizing map on .out motor data files and
// writes the activation grid and error history CSVs the plot commands read.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/user/somplot/internal/cli"
	"github.com/user/somplot/internal/som"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	def := som.DefaultConfig()
	fs := flag.NewFlagSet("somtrain", flag.ContinueOnError)
	var req request
	fs.StringVar(&req.DataDir, "data", "data", "directory searched recursively for .out files")
	fs.IntVar(&req.FileIndex, "file", -1, "index of the data file to train on, -1 merges all files")
	fs.IntVar(&req.Config.Width, "width", def.Width, "map width in units")
	fs.IntVar(&req.Config.Height, "height", def.Height, "map height in units")
	fs.IntVar(&req.Config.Epochs, "epochs", def.Epochs, "number of training epochs")
	fs.Float64Var(&req.Config.LearnRate, "lr", def.LearnRate, "initial learning rate")
	fs.Uint64Var(&req.Config.Seed, "seed", def.Seed, "random seed for weights and sample order")
	fs.StringVar(&req.OutDir, "out", ".", "directory to write the CSVs (and plots) into")
	fs.BoolVar(&req.Plot, "plot", false, "also render the heatmap and combined error chart")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: somtrain [flags]")
		fs.PrintDefaults()
	}

	err := func() error {
		if err := cli.Parse(fs, args); err != nil {
			return err
		}
		if _, err := cli.Positional(fs, 0, 0); err != nil {
			return err
		}
		if err := cli.Setup("somtrain", *logLevel); err != nil {
			return err
		}
		if err := req.Config.Validate(); err != nil {
			return cli.Usagef("%v", err)
		}
		if req.FileIndex < -1 {
			return cli.Usagef("-file must be -1 or a file index, got %d", req.FileIndex)
		}

		_, err := NewApp(req).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("training interrupted: %w", err)
		}
		return err
	}()
	return cli.ExitCode(fs, stderr, err)
}
