package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/shinya/specimen/internal/config"
	"github.com/shinya/specimen/internal/logutils"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logLevelMatches = map[string]zerolog.Level{
	"NONE":  zerolog.Disabled,
	"TRACE": zerolog.TraceLevel,
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
	"FATAL": zerolog.FatalLevel,
}

// ParseLevel converts a config level string into zerolog level.
func ParseLevel(level string) (zerolog.Level, bool) {
	l, ok := logLevelMatches[strings.ToUpper(strings.TrimSpace(level))]
	return l, ok
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:                 out,
		TimeFormat:          "2006-01-02 15:04:05",
		FormatLevel:         logutils.ConsoleFormatLevel(),
		FormatFieldName:     logutils.ConsoleFormatFieldName(),
		FormatErrFieldName:  logutils.ConsoleFormatErrFieldName(),
		FormatErrFieldValue: logutils.ConsoleFormatErrFieldValue(),
	}
}

func isTerminalAttached(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) && runtime.GOOS != "windows"
}

// Setup configures the global logger. Console output is colored when stderr
// is a terminal, JSON otherwise. The returned func closes the log file if any.
func Setup(cfg config.Log) (func(), error) {
	logLevel, ok := ParseLevel(cfg.Level)
	if !ok {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return func() {}, fmt.Errorf("error opening log file: %w", err)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return func() {
			_ = f.Close()
		}, nil
	}

	if isTerminalAttached(os.Stderr) {
		log.Logger = log.Output(consoleWriter(os.Stderr))
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if !ok && cfg.Level != "" {
		log.Warn().Str("level", cfg.Level).Msg("unknown log level, using info")
	}
	return func() {}, nil
}
