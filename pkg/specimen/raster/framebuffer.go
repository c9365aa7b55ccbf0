package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"io"
)

// FrameBuffer は画像の描画バッファを表します
type FrameBuffer struct {
	img *image.RGBA
}

// NewFrameBuffer は背景色で塗りつぶした新しいフレームバッファを作成します
func NewFrameBuffer(width, height int, background color.RGBA) *FrameBuffer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	return &FrameBuffer{img: img}
}

// SetPixel は指定された座標にピクセルを設定します
func (fb *FrameBuffer) SetPixel(x, y int, c color.Color) {
	if image.Pt(x, y).In(fb.img.Bounds()) {
		fb.img.Set(x, y, c)
	}
}

// GetPixel は指定された座標のピクセルを取得します
func (fb *FrameBuffer) GetPixel(x, y int) color.RGBA {
	if image.Pt(x, y).In(fb.img.Bounds()) {
		return fb.img.RGBAAt(x, y)
	}
	return color.RGBA{}
}

// Bounds はフレームバッファの境界を返します
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.img.Bounds()
}

// Encode はフレームバッファを指定形式でエンコードします
func (fb *FrameBuffer) Encode(w io.Writer, format string, dpi float64) error {
	return Encode(w, fb.img, format, dpi)
}

// EncodePNG はフレームバッファをPNG形式でエンコードします
func (fb *FrameBuffer) EncodePNG(dpi float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, fb.img, FormatPNG, dpi); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Image は内部の画像を返します
func (fb *FrameBuffer) Image() *image.RGBA {
	return fb.img
}
