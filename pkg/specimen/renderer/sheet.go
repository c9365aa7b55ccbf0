package renderer

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"

	"github.com/shinya/specimen/pkg/specimen/layout"
	"github.com/shinya/specimen/pkg/specimen/raster"
	"github.com/shinya/specimen/pkg/specimen/sheet"
	"github.com/shinya/specimen/pkg/specimen/style"
)

// Page は1枚の見本帳の描画内容を表します
type Page struct {
	Sheet   *sheet.Sheet
	Metrics layout.Metrics
	Style   style.Style
	Label   string
}

// RenderSheet はシートの各行とフッターラベルを描画します
func RenderSheet(page *Page, face font.Face, rc *raster.RasterContext) error {
	if page.Sheet == nil {
		return fmt.Errorf("no sheet to render")
	}
	log.Debug().Int("rows", len(page.Sheet.Rows)).Str("label", page.Label).Msg("rendering sheet")

	// 行の位置はテキストに依存しない（i 行目は常に RowY(i)）
	for i, row := range page.Sheet.Rows {
		renderRow(rc, face, page, i, row)
	}

	renderFooter(rc, face, page)
	return nil
}

// renderRow は i 行目を文字間に空白を入れて描画します
func renderRow(rc *raster.RasterContext, face font.Face, page *Page, i int, row sheet.Row) {
	text := &raster.Text{
		X:       page.Metrics.XOffset,
		Y:       page.Metrics.RowY(i),
		Content: layout.SpaceText(row.Text, page.Sheet.Spacing),
	}
	rc.DrawText(face, text, page.Style.Foreground)
}

// renderFooter はキャンバス下部にラベルを描画します
func renderFooter(rc *raster.RasterContext, face font.Face, page *Page) {
	height := rc.FrameBuffer().Bounds().Dy()
	y := page.Metrics.FooterY(height)
	if y < 0 {
		log.Warn().Int("height", height).Int("font_size_px", page.Metrics.FontSizePx).Msg("footer does not fit on canvas")
	}

	text := &raster.Text{
		X:       page.Metrics.XOffset,
		Y:       y,
		Content: page.Label,
	}
	rc.DrawText(face, text, page.Style.Foreground)
}
