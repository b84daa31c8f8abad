package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

var (
	once sync.Once
	Log  zerolog.Logger
)

func configure(out io.Writer, noColor bool) {
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		if lastSlash := strings.LastIndexByte(file, '/'); lastSlash >= 0 {
			file = file[lastSlash+1:]
		}
		return fmt.Sprintf("%s:%d", file, line)
	}
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
		NoColor:    noColor,
	}
	Log = zerolog.New(output).With().Timestamp().Caller().Logger()
}

// Init configures the process logger once. When logFile is set, output is
// written to stdout and to the (truncated) file.
func Init(level zerolog.Level, logFile string) (*zerolog.Logger, error) {
	var initErr error
	once.Do(func() {
		if logFile == "" {
			configure(os.Stdout, false)
			return
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			configure(os.Stdout, false)
			initErr = fmt.Errorf("open log file: %w", err)
			return
		}
		configure(io.MultiWriter(os.Stdout, file), true)
	})
	zerolog.SetGlobalLevel(level)
	return &Log, initErr
}

func GetLogger() *zerolog.Logger {
	once.Do(func() {
		configure(os.Stdout, false)
	})
	return &Log
}

// ParseLevel accepts zerolog level names and falls back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// AddHook attaches h to the process logger. Call it before any component
// takes a child logger.
func AddHook(h zerolog.Hook) {
	l := GetLogger().Hook(h)
	Log = l
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return GetLogger().With().Str("component", name).Logger()
}
