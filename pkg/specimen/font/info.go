package font

import (
	"bytes"
	"fmt"

	sfntinfo "seehuhn.de/go/sfnt"
)

// Info はフォントの name テーブル等から得られる情報を表します
type Info struct {
	Family         string
	FullName       string
	PostScriptName string
	NumGlyphs      int
	UnitsPerEm     uint16
	Outlines       string // "glyf" or "CFF"
	Italic         bool
	FixedPitch     bool
}

// Describe はフォントファイルの情報を読み取ります（TTC は未対応）
func Describe(src FontSource) (*Info, error) {
	if src.IsCollection() {
		return nil, fmt.Errorf("font collections are not supported: %s", src.Name)
	}

	var f *sfntinfo.Font
	var err error
	switch {
	case src.Data != nil:
		f, err = sfntinfo.Read(bytes.NewReader(src.Data))
	case src.Path != "":
		f, err = sfntinfo.ReadFile(src.Path)
	default:
		return nil, ErrNoFontData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read font info %s: %w", src.Name, err)
	}

	info := &Info{
		Family:         f.FamilyName,
		FullName:       f.FullName(),
		PostScriptName: f.PostScriptName(),
		NumGlyphs:      f.NumGlyphs(),
		UnitsPerEm:     f.UnitsPerEm,
		Italic:         f.IsItalic,
		FixedPitch:     f.IsFixedPitch(),
	}
	switch {
	case f.IsGlyf():
		info.Outlines = "glyf"
	case f.IsCFF():
		info.Outlines = "CFF"
	}
	return info, nil
}
