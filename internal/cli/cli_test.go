package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/shinya/specimen/internal/build"
)

func fontDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Go-Mono.ttf"), gomono.TTF, 0644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(level)
	})

	var out bytes.Buffer
	cmd := Root()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log.level", "none"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	dir := fontDir(t)
	out := filepath.Join(t.TempDir(), "specimens")

	_, err := execute(t, "-i", dir, "-e", out, "-d", "72", "-p", "12", "-s", "4x3", "-f", "gif")
	require.NoError(t, err)

	for _, name := range []string{"Go-Regular.gif", "Go-Mono.gif"} {
		_, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	out := filepath.Join(t.TempDir(), "specimens")
	_, err := execute(t, "-i", fontDir(t), "-e", out, "-d", "0")
	require.Error(t, err)

	// 設定エラーではファイルに触れない
	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_UnexpectedArgs(t *testing.T) {
	_, err := execute(t, "fonts")
	require.Error(t, err)
}

func TestList(t *testing.T) {
	out, err := execute(t, "list", "-i", fontDir(t))
	require.NoError(t, err)
	require.Contains(t, out, "FAMILY")
	require.Contains(t, out, "Go-Mono.ttf")
	require.Contains(t, out, "Go Mono")
	require.Contains(t, out, "glyf")
}

func TestList_Empty(t *testing.T) {
	out, err := execute(t, "list", "-i", t.TempDir())
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "specimen v"+build.Version)
}
