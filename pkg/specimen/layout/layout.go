package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// PointsPerInch はポイントとインチの換算値です
const PointsPerInch = 72

// PageSize はキャンバスのサイズ（インチ）を表します
type PageSize struct {
	Width  float64
	Height float64
}

// DefaultPageSize は既定のキャンバスサイズ（11 x 8.5 インチ）です
var DefaultPageSize = PageSize{Width: 11, Height: 8.5}

// namedPageSizes は名前付きキャンバスサイズのマップです
var namedPageSizes = map[string]PageSize{
	"letter":           {Width: 8.5, Height: 11},
	"landscape":        {Width: 11, Height: 8.5},
	"letter-landscape": {Width: 11, Height: 8.5},
	"a4":               {Width: 8.27, Height: 11.69},
	"a4-landscape":     {Width: 11.69, Height: 8.27},
}

// Pixels は指定DPIでのピクセルサイズを返します（小数点以下切り捨て）
func (p PageSize) Pixels(dpi float64) (width, height int) {
	return int(p.Width * dpi), int(p.Height * dpi)
}

// String は "WxH" 形式の文字列を返します
func (p PageSize) String() string {
	return strconv.FormatFloat(p.Width, 'f', -1, 64) + "x" + strconv.FormatFloat(p.Height, 'f', -1, 64)
}

// ParsePageSize はキャンバスサイズを解析します（"11x8.5"、"11,8.5"、"11 8.5"、名前）
func ParsePageSize(value string) (PageSize, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultPageSize, nil
	}

	if p, ok := namedPageSizes[value]; ok {
		return p, nil
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == 'x' || r == ',' || r == ' ' || r == '*'
	})
	if len(parts) != 2 {
		return PageSize{}, fmt.Errorf("unsupported page size format: %q", value)
	}

	w, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return PageSize{}, fmt.Errorf("invalid page width %q: %w", parts[0], err)
	}
	h, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return PageSize{}, fmt.Errorf("invalid page height %q: %w", parts[1], err)
	}

	p := PageSize{Width: w, Height: h}
	if err := p.Validate(); err != nil {
		return PageSize{}, err
	}
	return p, nil
}

// Validate はサイズが正の値かを確認します
func (p PageSize) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("page size must be positive, got %s", p)
	}
	return nil
}

// Metrics は行配置に使うピクセル値を表します
type Metrics struct {
	FontSizePx   int
	XOffset      int
	YOffset      int
	YSep         int
	BottomOffset int
}

// NewMetrics はフォントサイズ（pt）とDPIから配置値を計算します
func NewMetrics(fontSizePt, dpi float64) Metrics {
	px := int(fontSizePt * dpi / PointsPerInch)
	return Metrics{
		FontSizePx:   px,
		XOffset:      px * 3 / 2,
		YOffset:      px,
		YSep:         px * 3 / 2,
		BottomOffset: px * 3 / 2,
	}
}

// RowY は i 行目の上端の y 座標を返します
func (m Metrics) RowY(i int) int {
	return m.YOffset + i*m.YSep
}

// FooterY はフッターラベルの上端の y 座標を返します
func (m Metrics) FooterY(height int) int {
	return height - m.FontSizePx - m.BottomOffset
}

// SpaceText は各文字の後ろに spaces 個の空白を挿入した文字列を返します
func SpaceText(s string, spaces int) string {
	if spaces < 0 {
		spaces = 0
	}
	if s == "" {
		return ""
	}

	pad := strings.Repeat(" ", spaces)
	var b strings.Builder
	b.Grow(len(s) + len(pad)*len(s))
	for _, r := range s {
		b.WriteRune(r)
		b.WriteString(pad)
	}
	return b.String()
}
