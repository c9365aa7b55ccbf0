package sheet

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSpacing は文字間に挿入する空白の既定数です
const DefaultSpacing = 2

// ErrEmptySheet は行が1つもないシートを表します
var ErrEmptySheet = errors.New("sheet has no rows")

// Kind は行の種類を表します
type Kind string

const (
	KindUpper       Kind = "upper"
	KindLower       Kind = "lower"
	KindNumeral     Kind = "numeral"
	KindPunctuation Kind = "punctuation"
	KindCustom      Kind = "custom"
)

// Row は1行分のテキストを表します
type Row struct {
	Text string `yaml:"text"`
	Kind Kind   `yaml:"kind,omitempty"`
}

// Sheet は見本帳に描画する行の集合を表します
type Sheet struct {
	Name    string `yaml:"name,omitempty"`
	Spacing int    `yaml:"spacing"`
	Rows    []Row  `yaml:"rows"`
}

// Default は既定のシート（大文字3行、小文字3行、数字、記号）を返します
func Default() *Sheet {
	return &Sheet{
		Name:    "default",
		Spacing: DefaultSpacing,
		Rows: []Row{
			{Text: "ABCDEFGHI", Kind: KindUpper},
			{Text: "JKLMNOPQ", Kind: KindUpper},
			{Text: "RSTUVWXYZ", Kind: KindUpper},
			{Text: "abcdefghi", Kind: KindLower},
			{Text: "jklmnopq", Kind: KindLower},
			{Text: "rstuvwxyz", Kind: KindLower},
			{Text: "0123456789", Kind: KindNumeral},
			{Text: ".,!?#%@$&()’-+=/;:", Kind: KindPunctuation},
		},
	}
}

// WithoutPunctuation は記号行を除いたコピーを返します
func (s *Sheet) WithoutPunctuation() *Sheet {
	out := &Sheet{Name: s.Name, Spacing: s.Spacing}
	for _, row := range s.Rows {
		if row.Kind == KindPunctuation {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Runes はシートで使われる文字（空白を除く）を出現順に重複なしで返します
func (s *Sheet) Runes() []rune {
	seen := make(map[rune]bool)
	var runes []rune
	for _, row := range s.Rows {
		for _, r := range row.Text {
			if r == ' ' || seen[r] {
				continue
			}
			seen[r] = true
			runes = append(runes, r)
		}
	}
	return runes
}

// Parse はYAMLデータからシートをパースします
func Parse(data []byte) (*Sheet, error) {
	var raw struct {
		Name    string `yaml:"name"`
		Spacing *int   `yaml:"spacing"`
		Rows    []Row  `yaml:"rows"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}

	s := &Sheet{
		Name:    raw.Name,
		Spacing: DefaultSpacing,
	}
	if raw.Spacing != nil {
		if *raw.Spacing < 0 {
			return nil, fmt.Errorf("sheet spacing must not be negative, got %d", *raw.Spacing)
		}
		s.Spacing = *raw.Spacing
	}

	for _, row := range raw.Rows {
		if strings.TrimSpace(row.Text) == "" {
			continue
		}
		if row.Kind == "" {
			row.Kind = KindCustom
		}
		s.Rows = append(s.Rows, row)
	}
	if len(s.Rows) == 0 {
		return nil, ErrEmptySheet
	}

	return s, nil
}

// Load はファイルからシートを読み込みます
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet file %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
