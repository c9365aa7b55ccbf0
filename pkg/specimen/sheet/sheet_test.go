package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.Len(t, s.Rows, 8)
	assert.Equal(t, DefaultSpacing, s.Spacing)
	assert.Equal(t, "ABCDEFGHI", s.Rows[0].Text)
	assert.Equal(t, KindPunctuation, s.Rows[7].Kind)

	// 呼び出しごとに独立したシートを返す
	s.Rows[0].Text = "changed"
	assert.Equal(t, "ABCDEFGHI", Default().Rows[0].Text)
}

func TestWithoutPunctuation(t *testing.T) {
	s := Default().WithoutPunctuation()
	require.Len(t, s.Rows, 7)
	for _, row := range s.Rows {
		assert.NotEqual(t, KindPunctuation, row.Kind)
	}
	assert.Len(t, Default().Rows, 8)
}

func TestRunes(t *testing.T) {
	s := &Sheet{Rows: []Row{{Text: "abca"}, {Text: "b d"}}}
	if diff := cmp.Diff([]rune{'a', 'b', 'c', 'd'}, s.Runes()); diff != "" {
		t.Errorf("Runes() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
name: greek
rows:
  - text: ΑΒΓΔΕ
    kind: upper
  - text: αβγδε
  - text: "   "
`)

	s, err := Parse(data)
	require.NoError(t, err)

	want := &Sheet{
		Name:    "greek",
		Spacing: DefaultSpacing,
		Rows: []Row{
			{Text: "ΑΒΓΔΕ", Kind: KindUpper},
			{Text: "αβγδε", Kind: KindCustom},
		},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Spacing(t *testing.T) {
	s, err := Parse([]byte("spacing: 0\nrows:\n  - text: abc\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Spacing)

	_, err = Parse([]byte("spacing: -1\nrows:\n  - text: abc\n"))
	require.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("rows: []\n"))
	require.ErrorIs(t, err, ErrEmptySheet)

	_, err = Parse([]byte("rows: [\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows:\n  - text: Hamburgefonstiv\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "Hamburgefonstiv", s.Rows[0].Text)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
