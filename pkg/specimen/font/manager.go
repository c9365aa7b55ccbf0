package font

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

// Extensions は対象とするフォントファイルの拡張子です
var Extensions = []string{"ttf", "otf", "ttc"}

// Manager はフォントファイルの探索を行います
type Manager struct {
	systemPaths []string
}

// NewManager は新しいフォントマネージャーを作成します
func NewManager() *Manager {
	return &Manager{
		systemPaths: getSystemFontPaths(),
	}
}

// NewManagerWithSystemPaths はシステムフォントの探索先を指定してマネージャーを作成します
func NewManagerWithSystemPaths(paths ...string) *Manager {
	return &Manager{
		systemPaths: paths,
	}
}

// SystemPaths はシステムフォントの探索先を返します
func (m *Manager) SystemPaths() []string {
	return m.systemPaths
}

// NewMatcher はファイル名に対するパターンを作成します（name が空なら拡張子のみ）
func NewMatcher(name string) (glob.Glob, error) {
	pattern := "*." + "{" + strings.Join(Extensions, ",") + "}"
	if name != "" {
		pattern = "*" + glob.QuoteMeta(normalizeName(name)) + pattern
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("malformed font name pattern: %w", err)
	}
	return g, nil
}

// Scan は指定ディレクトリ直下のフォントファイルを列挙します
func (m *Manager) Scan(dir string) ([]FontSource, error) {
	matcher, err := NewMatcher("")
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read font directory %s: %w", dir, err)
	}

	log.Debug().Str("dir", dir).Int("entries", len(entries)).Msg("scanning font directory")

	var fonts []FontSource
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !matcher.Match(normalizeName(entry.Name())) {
			continue
		}
		fonts = append(fonts, FontSource{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}

	return dedupe(fonts), nil
}

// Lookup はシステムフォントから名前を含むフォントファイルを探します
func (m *Manager) Lookup(name string) ([]FontSource, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("font lookup name cannot be empty")
	}

	matcher, err := NewMatcher(name)
	if err != nil {
		return nil, err
	}

	log.Debug().Strs("paths", m.systemPaths).Str("name", name).Msg("looking up system fonts")

	var fonts []FontSource
	for _, path := range m.systemPaths {
		found, err := scanDirectory(path, matcher)
		if err != nil {
			// 警告として記録するが、処理は続行
			log.Warn().Err(err).Str("dir", path).Msg("failed to scan font directory")
			continue
		}
		fonts = append(fonts, found...)
	}

	return dedupe(fonts), nil
}

// scanDirectory は指定されたディレクトリ以下を再帰的にスキャンします
func scanDirectory(dir string, matcher glob.Glob) ([]FontSource, error) {
	var fonts []FontSource
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			if d != nil && d.IsDir() && path != dir {
				// 読めないサブディレクトリは飛ばす
				return fs.SkipDir
			}
			return err
		}

		if d.IsDir() {
			return nil
		}
		if !matcher.Match(normalizeName(d.Name())) {
			return nil
		}

		fonts = append(fonts, FontSource{
			Name: d.Name(),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fonts, nil
}

// dedupe はファイル名順に並べ、出力名が衝突するフォントを除外します
func dedupe(fonts []FontSource) []FontSource {
	sort.SliceStable(fonts, func(i, j int) bool {
		return fonts[i].Name < fonts[j].Name
	})

	seen := make(map[string]string)
	out := fonts[:0]
	for _, f := range fonts {
		key := normalizeName(f.BaseName())
		if prev, ok := seen[key]; ok {
			log.Warn().Str("font", f.Path).Str("kept", prev).Msg("skipping font with duplicate name")
			continue
		}
		seen[key] = f.Path
		out = append(out, f)
	}
	return out
}

// normalizeName は比較用にファイル名を正規化します（NFC、小文字）
func normalizeName(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}

// getSystemFontPaths はプラットフォーム別のフォントパスを返します
func getSystemFontPaths() []string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".local/share/fonts"),
			filepath.Join(home, ".fonts"),
		}
	case "darwin":
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library/Fonts"),
		}
	case "windows":
		return []string{
			filepath.Join(os.Getenv("WINDIR"), "Fonts"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Microsoft", "Windows", "Fonts"),
		}
	default:
		return []string{}
	}
}
