package font

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

var (
	// ErrNoFontData はフォントデータもパスも指定されていないことを表します
	ErrNoFontData = errors.New("no font data or path provided")
	// ErrFontIndex は TTC 内に指定番号のフォントがないことを表します
	ErrFontIndex = errors.New("font index out of range")
)

// Renderer はフォントの読み込みとフェイスの作成を行います
type Renderer struct {
	hinting font.Hinting
}

// FontFace は読み込まれたフォントを表します
type FontFace struct {
	Source FontSource
	Font   *opentype.Font
	Data   []byte
}

// NewRenderer は新しいフォントレンダラーを作成します
func NewRenderer() *Renderer {
	return &Renderer{
		hinting: font.HintingFull,
	}
}

// Load はフォントを読み込みます
func (r *Renderer) Load(src FontSource) (*FontFace, error) {
	var fontData []byte
	var err error

	if src.Data != nil {
		fontData = src.Data
		log.Debug().Str("font", src.Name).Msg("loading font from memory data")
	} else if src.Path != "" {
		fontData, err = readFontFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", src.Path, err)
		}
		log.Debug().Str("font", src.Path).Int("bytes", len(fontData)).Msg("loading font from file")
	} else {
		return nil, ErrNoFontData
	}

	var f *opentype.Font
	if src.IsCollection() {
		f, err = parseCollection(fontData, src.Index)
	} else {
		f, err = opentype.Parse(fontData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", src.Name, err)
	}

	return &FontFace{
		Source: src,
		Font:   f,
		Data:   fontData,
	}, nil
}

// parseCollection は TTC から指定番号のフォントを取り出します
func parseCollection(data []byte, index int) (*opentype.Font, error) {
	c, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= c.NumFonts() {
		return nil, fmt.Errorf("%w: %d (collection has %d fonts)", ErrFontIndex, index, c.NumFonts())
	}
	return c.Font(index)
}

// NewFace は指定ピクセルサイズのフェイスを作成します
func (r *Renderer) NewFace(ff *FontFace, sizePx int) (font.Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %dpx", sizePx)
	}
	// DPI 72 ではポイント数とピクセル数が一致する
	face, err := opentype.NewFace(ff.Font, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: r.hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// MissingGlyphs はフォントに含まれない文字（グリフ0に割り当てられる文字）を返します
func (r *Renderer) MissingGlyphs(ff *FontFace, runes []rune) []rune {
	var buf sfnt.Buffer
	var missing []rune
	for _, ch := range runes {
		idx, err := ff.Font.GlyphIndex(&buf, ch)
		if err != nil || idx == 0 {
			missing = append(missing, ch)
		}
	}
	return missing
}

// Name はフォントのファミリ名（取得できない場合は空文字）を返します
func (ff *FontFace) Name(id sfnt.NameID) string {
	var buf sfnt.Buffer
	name, err := ff.Font.Name(&buf, id)
	if err != nil {
		return ""
	}
	return name
}

// readFontFile はフォントファイルを読み込みます
func readFontFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
