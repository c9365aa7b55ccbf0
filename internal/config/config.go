package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/shinya/specimen/pkg/specimen"
	"github.com/shinya/specimen/pkg/specimen/layout"
	"github.com/shinya/specimen/pkg/specimen/raster"
	"github.com/shinya/specimen/pkg/specimen/sheet"
	"github.com/shinya/specimen/pkg/specimen/style"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables, e.g. SPECIMEN_FONT_SIZE.
const EnvPrefix = "SPECIMEN"

// Config is the full specimen configuration. Spacing stays nil unless set
// explicitly, so a sheet file keeps its own spacing.
type Config struct {
	ExportDir    string          `mapstructure:"export_dir" json:"export_dir" yaml:"export_dir" toml:"export_dir"`
	ImportDir    string          `mapstructure:"import_dir" json:"import_dir" yaml:"import_dir" toml:"import_dir"`
	Format       string          `mapstructure:"format" json:"format" yaml:"format" toml:"format"`
	Size         layout.PageSize `mapstructure:"size" json:"size" yaml:"size" toml:"size"`
	DPI          float64         `mapstructure:"dpi" json:"dpi" yaml:"dpi" toml:"dpi"`
	FontSize     float64         `mapstructure:"font_size" json:"font_size" yaml:"font_size" toml:"font_size"`
	Lookup       string          `mapstructure:"lookup" json:"lookup" yaml:"lookup" toml:"lookup"`
	Punctuation  bool            `mapstructure:"punctuation" json:"punctuation" yaml:"punctuation" toml:"punctuation"`
	Spacing      *int            `mapstructure:"spacing" json:"spacing" yaml:"spacing" toml:"spacing"`
	Sheet        string          `mapstructure:"sheet" json:"sheet" yaml:"sheet" toml:"sheet"`
	Foreground   string          `mapstructure:"foreground" json:"foreground" yaml:"foreground" toml:"foreground"`
	Background   string          `mapstructure:"background" json:"background" yaml:"background" toml:"background"`
	Label        string          `mapstructure:"label" json:"label" yaml:"label" toml:"label"`
	NameTemplate string          `mapstructure:"name_template" json:"name_template" yaml:"name_template" toml:"name_template"`
	FontIndex    int             `mapstructure:"font_index" json:"font_index" yaml:"font_index" toml:"font_index"`

	Log Log `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// Log configures logging.
type Log struct {
	Level string `mapstructure:"level" json:"level" yaml:"level" toml:"level"`
	File  string `mapstructure:"file" json:"file" yaml:"file" toml:"file"`
}

// Meta describes how the configuration was loaded.
type Meta struct {
	FileNotFound bool
	ConfigFile   string
}

var defaults = map[string]any{
	"export_dir":    "type specimens",
	"import_dir":    "fonts",
	"format":        "png",
	"size":          layout.DefaultPageSize.String(),
	"dpi":           300.0,
	"font_size":     36.0,
	"lookup":        "",
	"punctuation":   true,
	"sheet":         "",
	"foreground":    "black",
	"background":    "white",
	"label":         string(specimen.LabelFile),
	"name_template": specimen.DefaultNameTemplate,
	"font_index":    0,
	"log.level":     "info",
	"log.file":      "",
}

var bindPFlags = []string{
	"export_dir", "import_dir", "format", "size", "dpi", "font_size", "lookup", "punctuation",
	"sheet", "foreground", "background", "label", "name_template", "font_index", "log.level", "log.file",
}

// DefineFlags registers command line flags for every config key.
func DefineFlags(flags *pflag.FlagSet) {
	flags.StringP("export_dir", "e", "type specimens", "directory to save specimen images to")
	flags.StringP("import_dir", "i", "fonts", "directory to read font files from")
	flags.StringP("format", "f", "png", "image format: "+strings.Join(raster.Formats(), ", "))
	flags.StringP("size", "s", layout.DefaultPageSize.String(), "page size in inches (WxH) or a name like letter, a4")
	flags.Float64P("dpi", "d", 300, "resolution of the output image")
	flags.Float64P("font_size", "p", 36, "font size in points")
	flags.StringP("lookup", "l", "", "find fonts by name in system font directories instead of import_dir")
	flags.Bool("punctuation", true, "render the punctuation row")
	flags.Int("spacing", sheet.DefaultSpacing, "spaces between characters (defaults to the sheet's value)")
	flags.String("sheet", "", "optional YAML sheet file with custom rows")
	flags.String("foreground", "black", "text color (name, #RRGGBB or rgb(r,g,b))")
	flags.String("background", "white", "background color (name, #RRGGBB or rgb(r,g,b))")
	flags.String("label", string(specimen.LabelFile), "footer label: file, family or fullname")
	flags.String("name_template", specimen.DefaultNameTemplate, "output file name template: {{name}}, {{ext}}, {{family}}, {{dpi}}, {{size}}")
	flags.Int("font_index", 0, "font index inside .ttc collections")
	flags.String("log.level", "info", "set the log level: trace, debug, info, warn, error or none")
	flags.String("log.file", "", "optional log file - if not specified logs go to STDERR")
}

// GetConfig builds Config from defaults, the optional config file, SPECIMEN_*
// environment variables and command line flags (in increasing priority).
func GetConfig(flags *pflag.FlagSet, configFile string) (Config, Meta, error) {
	v := viper.NewWithOptions(viper.WithDecodeHook(mapstructure.ComposeDecodeHookFunc(
		StringToPageSizeHookFunc(),
	)))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// spacing has no default so that AutomaticEnv alone would not see it.
	_ = v.BindEnv("spacing")

	if flags != nil {
		for _, flag := range bindPFlags {
			if f := flags.Lookup(flag); f != nil {
				_ = v.BindPFlag(flag, f)
			}
		}
	}

	meta := Meta{ConfigFile: configFile}

	if configFile != "" {
		v.SetConfigFile(configFile)
		err := v.ReadInConfig()
		if err != nil {
			var configFileNotFoundError *os.PathError
			if errors.As(err, &configFileNotFoundError) {
				meta.FileNotFound = true
			} else {
				return Config{}, Meta{}, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
		}
	}

	conf := &Config{}

	err := v.Unmarshal(conf)
	if err != nil {
		return Config{}, Meta{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if flags != nil && flags.Changed("spacing") {
		n, err := flags.GetInt("spacing")
		if err != nil {
			return Config{}, Meta{}, err
		}
		conf.Spacing = &n
	}

	return *conf, meta, nil
}

// StringToPageSizeHookFunc decodes "11x8.5", "a4" or [11, 8.5] into layout.PageSize.
func StringToPageSizeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(layout.PageSize{}) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return layout.ParsePageSize(v)
		case []interface{}:
			if len(v) != 2 {
				return nil, fmt.Errorf("page size needs width and height, got %d values", len(v))
			}
			w, err := cast.ToFloat64E(v[0])
			if err != nil {
				return nil, fmt.Errorf("page width: %w", err)
			}
			h, err := cast.ToFloat64E(v[1])
			if err != nil {
				return nil, fmt.Errorf("page height: %w", err)
			}
			return layout.PageSize{Width: w, Height: h}, nil
		}
		return data, nil
	}
}

// Validate checks the configuration before any file is touched.
func (c Config) Validate() error {
	if c.Spacing != nil && *c.Spacing < 0 {
		return fmt.Errorf("spacing must not be negative, got %d", *c.Spacing)
	}
	if _, err := style.Resolve(c.Foreground, c.Background); err != nil {
		return err
	}
	return c.baseOptions().Validate()
}

func (c Config) baseOptions() specimen.Options {
	opts := specimen.DefaultOptions()
	opts.ExportDir = c.ExportDir
	opts.ImportDir = c.ImportDir
	opts.Format = c.Format
	opts.PageSize = c.Size
	opts.DPI = c.DPI
	opts.FontSize = c.FontSize
	opts.Lookup = strings.TrimSpace(c.Lookup)
	opts.Punctuation = c.Punctuation
	opts.Label = specimen.LabelMode(strings.ToLower(strings.TrimSpace(c.Label)))
	opts.NameTemplate = c.NameTemplate
	opts.FontIndex = c.FontIndex
	if c.Spacing != nil {
		opts.Spacing = *c.Spacing
	}
	return opts
}

// Options validates the config and converts it to specimen options, loading
// the sheet file when one is configured.
func (c Config) Options() (specimen.Options, error) {
	if err := c.Validate(); err != nil {
		return specimen.Options{}, err
	}

	opts := c.baseOptions()

	st, err := style.Resolve(c.Foreground, c.Background)
	if err != nil {
		return specimen.Options{}, err
	}
	opts.Style = st

	if c.Sheet != "" {
		s, err := sheet.Load(c.Sheet)
		if err != nil {
			return specimen.Options{}, err
		}
		opts.Sheet = s
	}

	return opts, nil
}

// DefaultConfig is a helper to be used in tests.
func DefaultConfig() Config {
	conf, _, err := GetConfig(nil, "")
	if err != nil {
		panic("error during getting default config: " + err.Error())
	}
	return conf
}
