package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"exovision/internal/common/fsutil"
)

// setupLogging installs the global zerolog logger. Output goes to a rotated
// file when logFile is set, to a console writer on a terminal, and to JSON on
// stderr otherwise.
func setupLogging(level, logFile string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	if logFile != "" {
		path, err := fsutil.Resolve(logFile)
		if err != nil {
			return zerolog.Logger{}, err
		}
		out = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	} else if isTerminal(os.Stderr) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	l := zerolog.New(out).With().Timestamp().Str("service", "exovision").Logger()
	log.Logger = l
	return l, nil
}

func isTerminal(f *os.File) bool {
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}
