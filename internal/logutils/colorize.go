package logutils

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	colorRed = iota + 31
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan

	colorBold = 1
)

// colorize returns the string s wrapped in ANSI code c.
func colorize(s interface{}, c int) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// ConsoleFormatLevel returns a custom colorizer for zerolog console level output.
func ConsoleFormatLevel() zerolog.Formatter {
	return func(i interface{}) string {
		ll, ok := i.(string)
		if !ok {
			return colorize("???", colorBold)
		}
		switch ll {
		case "trace":
			return colorize("TRC", colorBlue)
		case "debug":
			return colorize("DBG", colorMagenta)
		case "info":
			return colorize("INF", colorGreen)
		case "warn":
			return colorize("WRN", colorYellow)
		case "error":
			return colorize("ERR", colorRed)
		case "fatal":
			return colorize(colorize("FTL", colorRed), colorBold)
		default:
			return colorize("???", colorBold)
		}
	}
}

// ConsoleFormatFieldName colors field names so font names stand out.
func ConsoleFormatFieldName() zerolog.Formatter {
	return func(i interface{}) string {
		return colorize(fmt.Sprintf("%s=", i), colorCyan)
	}
}

// ConsoleFormatErrFieldName returns custom formatter for error field name.
func ConsoleFormatErrFieldName() zerolog.Formatter {
	return func(i interface{}) string {
		return fmt.Sprintf("%s=", i)
	}
}

// ConsoleFormatErrFieldValue returns custom formatter for error value.
func ConsoleFormatErrFieldValue() zerolog.Formatter {
	return func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
}
