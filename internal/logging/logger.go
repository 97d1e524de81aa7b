// Package logging is a small leveled wrapper around the standard logger used
// by the somplot commands for their status lines.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level represents severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var currentLevel = int32(LevelInfo)

var baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime)

// SetLogLevel parses and sets the global log level. Unknown names return an
// error and leave the level unchanged.
func SetLogLevel(s string) error {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return fmt.Errorf("unknown log level %q", s)
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	return nil
}

// GetLogLevel returns the current global log level.
func GetLogLevel() Level { return Level(atomic.LoadInt32(&currentLevel)) }

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) { baseLogger.SetOutput(w) }

// SetPrefix sets the prefix printed before each line, usually the command name.
func SetPrefix(p string) { baseLogger.SetPrefix(p) }

func logf(l Level, format string, args ...interface{}) {
	if GetLogLevel() > l {
		return
	}
	prefix := "INFO"
	switch l {
	case LevelDebug:
		prefix = "DEBUG"
	case LevelWarn:
		prefix = "WARN"
	case LevelError:
		prefix = "ERROR"
	}
	// Messages without args are printed as is so a literal % in file names
	// does not turn into %!x(MISSING).
	if len(args) == 0 {
		baseLogger.Printf("[%s] %s", prefix, format)
		return
	}
	baseLogger.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }
