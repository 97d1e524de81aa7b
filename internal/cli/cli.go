// Package cli holds the argument handling shared by the somplot commands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/user/somplot/internal/logging"
	"github.com/user/somplot/internal/report"
)

// ErrUsage marks argument errors. Commands exit with status 2 and print usage.
var ErrUsage = errors.New("usage error")

// Usagef returns an error wrapping ErrUsage.
func Usagef(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, a...))
}

// Parse parses args into fs. Flag errors come back wrapped in ErrUsage and
// usage printing is left to ExitCode.
func Parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return Usagef("%v", err)
	}
	return nil
}

// Positional checks that fs received between min and max positional
// arguments (max < 0 means unbounded) and returns them.
func Positional(fs *flag.FlagSet, min, max int) ([]string, error) {
	args := fs.Args()
	if len(args) < min {
		return nil, Usagef("expected at least %d arguments, got %d", min, len(args))
	}
	if max >= 0 && len(args) > max {
		return nil, Usagef("expected at most %d arguments, got %d", max, len(args))
	}
	return args, nil
}

// Optional returns args[i] or "" when it was not given.
func Optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// Setup configures logging for a command from its -log-level value.
func Setup(name, level string) error {
	logging.SetPrefix(name + " ")
	if err := logging.SetLogLevel(level); err != nil {
		return Usagef("%v", err)
	}
	if wd, err := os.Getwd(); err == nil {
		logging.Debugf("working directory: %s", wd)
	}
	return nil
}

// ExitCode maps a command error to a process exit status, printing usage for
// argument errors.
func ExitCode(fs *flag.FlagSet, stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		if fs != nil {
			fs.SetOutput(stderr)
			fs.Usage()
		}
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintln(stderr, err)
		if fs != nil {
			fs.SetOutput(stderr)
			fs.Usage()
		}
		return 2
	default:
		logging.Errorf("%v", err)
		return 1
	}
}

// ImageSizeFlags registers -width, -height and -dpi on fs, defaulting to def.
func ImageSizeFlags(fs *flag.FlagSet, def report.ImageSize) *report.ImageSize {
	size := def
	fs.IntVar(&size.Width, "width", def.Width, "image width in pixels")
	fs.IntVar(&size.Height, "height", def.Height, "image height in pixels")
	fs.IntVar(&size.DPI, "dpi", def.DPI, "image resolution in dots per inch")
	return &size
}
