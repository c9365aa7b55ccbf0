package raster

import (
	"image"
	"image/color"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// RasterContext は描画コンテキストを表します
type RasterContext struct {
	fb *FrameBuffer
}

// NewRasterContext は新しいラスタリングコンテキストを作成します
func NewRasterContext(fb *FrameBuffer) *RasterContext {
	return &RasterContext{
		fb: fb,
	}
}

// FrameBuffer は描画先のフレームバッファを返します
func (rc *RasterContext) FrameBuffer() *FrameBuffer {
	return rc.fb
}

// Text はテキスト要素を表します（Y は行の上端）
type Text struct {
	X, Y    int
	Content string
}

// DrawText はテキストを描画し、描画後のペン位置（x）を返します
func (rc *RasterContext) DrawText(face font.Face, text *Text, textColor color.Color) int {
	if text.Content == "" {
		return text.X
	}

	// Y は行の上端なので、アセント分下げてベースラインにする
	baseline := fixed.I(text.Y) + face.Metrics().Ascent

	d := &font.Drawer{
		Dst:  rc.fb.Image(),
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(text.X), Y: baseline},
	}
	d.DrawString(text.Content)

	log.Trace().Int("x", text.X).Int("y", text.Y).Str("text", text.Content).Msg("text drawn")
	return d.Dot.X.Round()
}

// MeasureText はテキストのピクセル幅を返します
func (rc *RasterContext) MeasureText(face font.Face, content string) int {
	return font.MeasureString(face, content).Ceil()
}

// TextBounds はテキストを描画したときの境界を返します
func (rc *RasterContext) TextBounds(face font.Face, text *Text) image.Rectangle {
	baseline := fixed.I(text.Y) + face.Metrics().Ascent
	b, _ := font.BoundString(face, text.Content)
	return image.Rect(
		text.X+b.Min.X.Floor(),
		baseline.Floor()+b.Min.Y.Floor(),
		text.X+b.Max.X.Ceil(),
		baseline.Floor()+b.Max.Y.Ceil(),
	)
}
