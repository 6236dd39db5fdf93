// Package trust is a small leveled logger for the host tools.  Each level has
// a mask bit; a message is printed only if its bit is set in the logger's
// level.
package trust

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type MaskLevel int

const (
	Nothing   MaskLevel = 0x0
	ErrorMask MaskLevel = 0x1
	WarnMask  MaskLevel = 0x2
	InfoMask  MaskLevel = 0x4
	DebugMask MaskLevel = 0x8
	StatsMask MaskLevel = 0x10
	fatalMask MaskLevel = 0x80
)

const allLevels = StatsMask | ErrorMask | WarnMask | InfoMask | DebugMask

// Logger writes leveled messages to an io.Writer.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level MaskLevel
	exit  func(int)
}

//New returns a logger that writes to out with every level turned on.
func New(out io.Writer) *Logger {
	return &Logger{out: out, level: fatalMask | allLevels, exit: os.Exit}
}

var std = New(os.Stderr)

//Default returns the logger used by the package level functions.
func Default() *Logger {
	return std
}

// SetLevel lets you set an error mask directly. You can pass in something like
// ErrorMask | DebugMask to control exactly what gets printed.  It returns the
// previous mask.
func (l *Logger) SetLevel(mask MaskLevel) MaskLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mask&allLevels == 0 {
		fmt.Fprintf(l.out, " WARN: trust.SetLevel is turning off log messages\n")
	}
	r := l.level & allLevels
	l.level = mask&allLevels | fatalMask
	return r
}

//Level returns the current mask.
func (l *Logger) Level() MaskLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

//UpTo returns the mask that prints everything at least as important as
//level, e.g. UpTo(InfoMask) is errors, warnings, and info.
func UpTo(level MaskLevel) MaskLevel {
	result := Nothing
	for m := ErrorMask; m <= level && m <= StatsMask; m <<= 1 {
		result |= m
	}
	return result
}

func LevelToString(level MaskLevel) string {
	var names []string
	for _, n := range []struct {
		m    MaskLevel
		name string
	}{{ErrorMask, "error"}, {WarnMask, "warn"}, {InfoMask, "info"}, {DebugMask, "debug"}, {StatsMask, "stats"}} {
		if level&n.m != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, " ")
}

func (l *Logger) logf(m MaskLevel, format string, params ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level&m == 0 {
		return
	}
	start := 0
	switch {
	case m&ErrorMask > 0:
		fmt.Fprint(l.out, "ERROR:")
	case m&WarnMask > 0:
		fmt.Fprint(l.out, " WARN:")
	case m&InfoMask > 0:
		fmt.Fprint(l.out, " INFO:")
	case m&DebugMask > 0:
		fmt.Fprint(l.out, "DEBUG:")
	case m&StatsMask > 0:
		s, ok := params[0].(string)
		if !ok {
			s = "unknown"
		}
		fmt.Fprintf(l.out, "STATS[%s]:", s)
		start = 1
	case m&fatalMask > 0:
		fmt.Fprint(l.out, "FATAL:")
	}
	if len(format) == 0 {
		format = "\n"
	} else if format[len(format)-1] != '\n' {
		format += "\n"
	}
	fmt.Fprintf(l.out, format, params[start:]...)
}

//Fatalf prints the given log message (format + params) and then exits with
//the exitCode provided.  Fatalf is not maskable.
func (l *Logger) Fatalf(exitCode int, format string, params ...interface{}) {
	l.logf(fatalMask, format, params...)
	l.exit(exitCode)
}

//Errorf prints the given log message (format + params) using the ErrorMask level.
func (l *Logger) Errorf(format string, params ...interface{}) {
	l.logf(ErrorMask, format, params...)
}

//Warnf prints the given log message (format + params) using the WarnMask level.
func (l *Logger) Warnf(format string, params ...interface{}) {
	l.logf(WarnMask, format, params...)
}

//Infof prints the given log message (format + params) using the InfoMask level.
func (l *Logger) Infof(format string, params ...interface{}) {
	l.logf(InfoMask, format, params...)
}

//Debugf prints the given log message (format + params) using the DebugMask level.
func (l *Logger) Debugf(format string, params ...interface{}) {
	l.logf(DebugMask, format, params...)
}

//Statsf prints the given log message (format + params) using the StatsMask
//level and takes an extra parameter that will be visible in the log message
//as the category of stats that is reported.
func (l *Logger) Statsf(category string, format string, params ...interface{}) {
	l.logf(StatsMask, format, append([]interface{}{category}, params...)...)
}

func SetLevel(mask MaskLevel) MaskLevel { return std.SetLevel(mask) }
func Level() MaskLevel                  { return std.Level() }

func Fatalf(exitCode int, format string, params ...interface{}) {
	std.Fatalf(exitCode, format, params...)
}
func Errorf(format string, params ...interface{}) { std.Errorf(format, params...) }
func Warnf(format string, params ...interface{})  { std.Warnf(format, params...) }
func Infof(format string, params ...interface{})  { std.Infof(format, params...) }
func Debugf(format string, params ...interface{}) { std.Debugf(format, params...) }
func Statsf(category string, format string, params ...interface{}) {
	std.Statsf(category, format, params...)
}
