package specimen

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasttemplate"
	"golang.org/x/image/font/sfnt"

	"github.com/shinya/specimen/pkg/specimen/font"
	"github.com/shinya/specimen/pkg/specimen/layout"
	"github.com/shinya/specimen/pkg/specimen/raster"
	"github.com/shinya/specimen/pkg/specimen/renderer"
	"github.com/shinya/specimen/pkg/specimen/sheet"
	"github.com/shinya/specimen/pkg/specimen/style"
)

// FontSource はフォントの供給源を表します
type FontSource = font.FontSource

// LabelMode はフッターラベルに使う名前の種類を表します
type LabelMode string

const (
	LabelFile     LabelMode = "file"
	LabelFamily   LabelMode = "family"
	LabelFullName LabelMode = "fullname"
)

// DefaultNameTemplate は出力ファイル名の既定テンプレートです
const DefaultNameTemplate = "{{name}}.{{ext}}"

// Options は見本帳の生成オプションを表します
type Options struct {
	ExportDir    string
	ImportDir    string
	Format       string
	PageSize     layout.PageSize
	DPI          float64 // 既定 300
	FontSize     float64 // ポイント、既定 36
	Lookup       string  // 空でなければシステムフォントから探す
	Punctuation  bool
	Spacing      int // 負の値はシートの値を使う
	Sheet        *sheet.Sheet
	Style        style.Style
	Label        LabelMode
	NameTemplate string
	FontIndex    int // TTC 内のフォント番号

	// Manager はフォントの探索に使われます（nil なら既定のマネージャー）
	Manager *font.Manager
}

// DefaultOptions は既定のオプションを返します
func DefaultOptions() Options {
	return Options{
		ExportDir:    "type specimens",
		ImportDir:    "fonts",
		Format:       raster.FormatPNG,
		PageSize:     layout.DefaultPageSize,
		DPI:          300,
		FontSize:     36,
		Punctuation:  true,
		Spacing:      -1,
		Style:        style.Default(),
		Label:        LabelFile,
		NameTemplate: DefaultNameTemplate,
	}
}

// Validate はオプションを検証します
func (o Options) Validate() error {
	if o.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %v", o.DPI)
	}
	if o.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", o.FontSize)
	}
	if err := o.PageSize.Validate(); err != nil {
		return err
	}
	if _, err := raster.NormalizeFormat(o.Format); err != nil {
		return err
	}
	switch o.Label {
	case LabelFile, LabelFamily, LabelFullName:
	default:
		return fmt.Errorf("unknown label mode %q", o.Label)
	}
	if o.FontIndex < 0 {
		return fmt.Errorf("font index must not be negative, got %d", o.FontIndex)
	}
	if layout.NewMetrics(o.FontSize, o.DPI).FontSizePx <= 0 {
		return fmt.Errorf("font size %vpt at %v dpi is smaller than one pixel", o.FontSize, o.DPI)
	}
	_, err := outputName(o.NameTemplate, nameVars{name: "font", ext: "png", family: "Font", dpi: o.DPI, size: o.FontSize})
	return err
}

// sheet はオプションを反映した描画用シートを返します
func (o Options) sheet() *sheet.Sheet {
	s := o.Sheet
	if s == nil {
		s = sheet.Default()
	}
	if !o.Punctuation {
		s = s.WithoutPunctuation()
	}
	if o.Spacing >= 0 {
		c := *s
		c.Spacing = o.Spacing
		s = &c
	}
	return s
}

func (o Options) manager() *font.Manager {
	if o.Manager != nil {
		return o.Manager
	}
	return font.NewManager()
}

// Diagnostics は診断情報を表します
type Diagnostics struct {
	Warnings      []string
	MissingGlyphs []rune
}

func (d *Diagnostics) warn(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Result は1フォント分の生成結果を表します
type Result struct {
	Source      FontSource
	Output      string
	Label       string
	Width       int
	Height      int
	Diagnostics Diagnostics
}

// Report は一括生成の結果を表します
type Report struct {
	Dir     string // フォントを探したディレクトリ（または照会名）
	Results []Result
}

// FindFonts はオプションに従ってフォントファイルを列挙します
func FindFonts(opts Options) ([]FontSource, string, error) {
	m := opts.manager()
	if opts.Lookup != "" {
		fonts, err := m.Lookup(opts.Lookup)
		if err != nil {
			return nil, "", err
		}
		return withIndex(fonts, opts.FontIndex), strings.Join(m.SystemPaths(), string(os.PathListSeparator)), nil
	}

	fonts, err := m.Scan(opts.ImportDir)
	if err != nil {
		return nil, "", err
	}
	return withIndex(fonts, opts.FontIndex), opts.ImportDir, nil
}

func withIndex(fonts []FontSource, index int) []FontSource {
	for i := range fonts {
		fonts[i].Index = index
	}
	return fonts
}

// NoFontsMessage はフォントが見つからなかったときの警告文を返します
func NoFontsMessage(opts Options, dir string) string {
	if opts.Lookup != "" {
		return fmt.Sprintf("No font files matching '%s' found in system font directories", opts.Lookup)
	}
	return fmt.Sprintf("No font files found. Check that fonts are in '%s' subdirectory", dir)
}

// Generate はフォントごとに見本帳画像を生成し、出力ディレクトリに保存します
func Generate(opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// 出力ディレクトリがなければ作成
	if err := os.MkdirAll(opts.ExportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	fonts, dir, err := FindFonts(opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Dir: dir}
	if len(fonts) == 0 {
		log.Warn().Msg(NoFontsMessage(opts, dir))
		return report, nil
	}

	log.Debug().Int("fonts", len(fonts)).Str("dir", dir).Msg("fonts found")

	fr := font.NewRenderer()
	for _, src := range fonts {
		log.Info().Str("font", src.BaseName()).Msg("processing font")

		res, err := generateOne(fr, src, opts)
		if err != nil {
			// 1つでも失敗したら処理を中断する
			return report, fmt.Errorf("%s: %w", src.Name, err)
		}
		for _, w := range res.Diagnostics.Warnings {
			log.Warn().Str("font", src.BaseName()).Msg(w)
		}
		report.Results = append(report.Results, *res)
	}

	return report, nil
}

// generateOne は1フォント分の見本帳を描画して保存します
func generateOne(fr *font.Renderer, src FontSource, opts Options) (*Result, error) {
	ff, err := fr.Load(src)
	if err != nil {
		return nil, err
	}

	res, img, err := render(fr, ff, "", opts)
	if err != nil {
		return nil, err
	}

	name, err := outputName(opts.NameTemplate, nameVars{
		name:   src.BaseName(),
		ext:    strings.ToLower(strings.TrimPrefix(opts.Format, ".")),
		family: familyName(ff),
		dpi:    opts.DPI,
		size:   opts.FontSize,
	})
	if err != nil {
		return nil, err
	}
	res.Output = filepath.Join(opts.ExportDir, name)

	if err := writeImage(res.Output, img, opts); err != nil {
		return nil, err
	}
	log.Debug().Str("output", res.Output).Int("width", res.Width).Int("height", res.Height).Msg("specimen written")

	return res, nil
}

// RenderImage は1つのフォントの見本帳を描画して画像を返します（ファイルは書き込みません）
func RenderImage(src FontSource, label string, opts Options) (*image.RGBA, Diagnostics, error) {
	if err := opts.Validate(); err != nil {
		return nil, Diagnostics{}, err
	}

	fr := font.NewRenderer()
	ff, err := fr.Load(src)
	if err != nil {
		return nil, Diagnostics{}, err
	}

	res, img, err := render(fr, ff, label, opts)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	return img, res.Diagnostics, nil
}

// Encode は RenderImage の結果をオプションの形式とDPIでエンコードします
func Encode(w io.Writer, img image.Image, opts Options) error {
	return raster.Encode(w, img, opts.Format, opts.DPI)
}

// render はキャンバスを作成してシートとラベルを描画します
func render(fr *font.Renderer, ff *font.FontFace, label string, opts Options) (*Result, *image.RGBA, error) {
	res := &Result{Source: ff.Source}

	metrics := layout.NewMetrics(opts.FontSize, opts.DPI)
	width, height := opts.PageSize.Pixels(opts.DPI)
	res.Width, res.Height = width, height

	s := opts.sheet()
	res.Diagnostics.MissingGlyphs = fr.MissingGlyphs(ff, s.Runes())
	if n := len(res.Diagnostics.MissingGlyphs); n > 0 {
		res.Diagnostics.warn("font has no glyph for %d characters: %q", n, string(res.Diagnostics.MissingGlyphs))
	}

	if len(s.Rows) > 0 {
		lastBottom := metrics.RowY(len(s.Rows)-1) + metrics.FontSizePx
		if lastBottom > metrics.FooterY(height) {
			res.Diagnostics.warn("rows overlap the footer: canvas is %dpx high, rows end at %dpx", height, lastBottom)
		}
	}

	if label == "" {
		label = resolveLabel(ff, opts.Label, &res.Diagnostics)
	}
	res.Label = label

	face, err := fr.NewFace(ff, metrics.FontSizePx)
	if err != nil {
		return nil, nil, err
	}
	defer face.Close()

	fb := raster.NewFrameBuffer(width, height, opts.Style.Background)
	rc := raster.NewRasterContext(fb)

	page := &renderer.Page{
		Sheet:   s,
		Metrics: metrics,
		Style:   opts.Style,
		Label:   label,
	}
	if err := renderer.RenderSheet(page, face, rc); err != nil {
		return nil, nil, err
	}

	return res, fb.Image(), nil
}

// resolveLabel はラベルモードに応じたフッターの文字列を返します
func resolveLabel(ff *font.FontFace, mode LabelMode, diag *Diagnostics) string {
	fallback := ff.Source.BaseName()
	if mode == LabelFile || mode == "" {
		return fallback
	}

	var nameID sfnt.NameID
	var fromInfo func(*font.Info) string
	switch mode {
	case LabelFamily:
		nameID = sfnt.NameIDFamily
		fromInfo = func(i *font.Info) string { return i.Family }
	case LabelFullName:
		nameID = sfnt.NameIDFull
		fromInfo = func(i *font.Info) string { return i.FullName }
	}

	src := ff.Source
	src.Data = ff.Data
	if info, err := font.Describe(src); err == nil {
		if s := strings.TrimSpace(fromInfo(info)); s != "" {
			return s
		}
	} else {
		log.Debug().Err(err).Str("font", src.Name).Msg("font info unavailable")
	}

	// name テーブルを直接参照（TTC など）
	if s := strings.TrimSpace(ff.Name(nameID)); s != "" {
		return s
	}

	diag.warn("no %s name in font, using file name for label", mode)
	return fallback
}

func familyName(ff *font.FontFace) string {
	if s := strings.TrimSpace(ff.Name(sfnt.NameIDFamily)); s != "" {
		return s
	}
	return ff.Source.BaseName()
}

// nameVars は出力ファイル名テンプレートの変数です
type nameVars struct {
	name   string
	ext    string
	family string
	dpi    float64
	size   float64
}

// outputName はテンプレートから出力ファイル名を作成します
func outputName(tmpl string, vars nameVars) (string, error) {
	if tmpl == "" {
		tmpl = DefaultNameTemplate
	}
	t, err := fasttemplate.NewTemplate(tmpl, "{{", "}}")
	if err != nil {
		return "", fmt.Errorf("invalid name template %q: %w", tmpl, err)
	}

	name, err := t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		switch strings.TrimSpace(tag) {
		case "name":
			return w.Write([]byte(vars.name))
		case "ext":
			return w.Write([]byte(vars.ext))
		case "family":
			return w.Write([]byte(vars.family))
		case "dpi":
			return w.Write([]byte(strconv.FormatFloat(vars.dpi, 'f', -1, 64)))
		case "size":
			return w.Write([]byte(strconv.FormatFloat(vars.size, 'f', -1, 64)))
		default:
			return 0, fmt.Errorf("unknown name template variable %q", tag)
		}
	})
	if err != nil {
		return "", err
	}

	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid output file name %q", name)
	}
	return name, nil
}

// writeImage は画像をファイルに書き込みます（失敗時は途中のファイルを削除）
func writeImage(path string, img image.Image, opts Options) error {
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
