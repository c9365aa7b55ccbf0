package font

import (
	"path/filepath"
	"strings"
)

// FontSource はフォントの供給源を表します
type FontSource struct {
	Name  string // ファイル名（例: "Inter-Regular.otf"）
	Path  string // ファイル登録用（Data or Path のいずれか）
	Data  []byte // TTF/OTF/TTC (任意: メモリ登録用)
	Index int    // TTC 内のフォント番号
}

// BaseName は拡張子を除いたファイル名を返します
func (s FontSource) BaseName() string {
	name := s.Name
	if name == "" {
		name = filepath.Base(s.Path)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Ext は拡張子（小文字、ドットなし）を返します
func (s FontSource) Ext() string {
	name := s.Name
	if name == "" {
		name = s.Path
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsCollection は TTC ファイルかどうかを返します
func (s FontSource) IsCollection() bool {
	return s.Ext() == "ttc"
}
