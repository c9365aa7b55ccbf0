package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Style は見本帳の描画スタイルを表します
type Style struct {
	Foreground color.RGBA
	Background color.RGBA
}

// Default は白地に黒文字のスタイルを返します
func Default() Style {
	return Style{
		Foreground: color.RGBA{0, 0, 0, 255},
		Background: color.RGBA{255, 255, 255, 255},
	}
}

// Resolve は前景色と背景色の文字列からスタイルを作成します（空文字は既定値）
func Resolve(foreground, background string) (Style, error) {
	st := Default()
	if foreground != "" {
		c, err := ParseColor(foreground)
		if err != nil {
			return Style{}, fmt.Errorf("foreground: %w", err)
		}
		st.Foreground = c
	}
	if background != "" {
		c, err := ParseColor(background)
		if err != nil {
			return Style{}, fmt.Errorf("background: %w", err)
		}
		st.Background = c
	}
	return st, nil
}

// ParseColor は色文字列（色名、#RGB、#RRGGBB、#RRGGBBAA、rgb()）を解析します
func ParseColor(value string) (color.RGBA, error) {
	value = strings.ToLower(strings.TrimSpace(value))

	// 名前付き色（SVG 1.1 の色名）
	if value == "transparent" {
		return color.RGBA{}, nil
	}
	if c, ok := colornames.Map[value]; ok {
		return c, nil
	}

	// 16進数色
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}

	// RGB色
	if strings.HasPrefix(value, "rgb(") && strings.HasSuffix(value, ")") {
		return parseRGBColor(value)
	}

	return color.RGBA{}, fmt.Errorf("unsupported color format: %q", value)
}

// parseHexColor は16進数色を解析します
func parseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		// #RGB
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: #%s", hex)
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i*2 < len(hex); i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color: #%s", hex)
		}
		ch[i] = uint8(v)
	}

	return premultiply(ch[0], ch[1], ch[2], ch[3]), nil
}

// parseRGBColor は rgb(r, g, b) 形式の色を解析します
func parseRGBColor(rgb string) (color.RGBA, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(rgb, "rgb("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("invalid rgb color: %s", rgb)
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid rgb component %q: %w", p, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{ch[0], ch[1], ch[2], 255}, nil
}

// premultiply は image/color の RGBA（乗算済みアルファ）に変換します
func premultiply(r, g, b, a uint8) color.RGBA {
	if a == 255 {
		return color.RGBA{r, g, b, a}
	}
	c := color.NRGBA{R: r, G: g, B: b, A: a}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
