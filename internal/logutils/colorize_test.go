package logutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsoleFormatLevel(t *testing.T) {
	f := ConsoleFormatLevel()
	require.Equal(t, "\x1b[32mINF\x1b[0m", f("info"))
	require.Equal(t, "\x1b[33mWRN\x1b[0m", f("warn"))
	require.Equal(t, "\x1b[31mERR\x1b[0m", f("error"))
	require.Equal(t, "\x1b[1m???\x1b[0m", f("bogus"))
	require.Equal(t, "\x1b[1m???\x1b[0m", f(42))
	require.Contains(t, f("fatal"), "FTL")
}

func TestConsoleFormatFields(t *testing.T) {
	require.Equal(t, "\x1b[36mfont=\x1b[0m", ConsoleFormatFieldName()("font"))
	require.Equal(t, "error=", ConsoleFormatErrFieldName()("error"))
	require.Equal(t, "boom", ConsoleFormatErrFieldValue()("boom"))
}
