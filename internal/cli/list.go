package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shinya/specimen/pkg/specimen"
	"github.com/shinya/specimen/pkg/specimen/font"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/image/font/sfnt"
)

func List(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List matched fonts",
		Long:  `Print the fonts specimen would render together with their name table info`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd, *configFile)
		},
	}
}

func list(cmd *cobra.Command, configFile string) error {
	cfg, closeLog, err := loadConfig(cmd, configFile)
	if err != nil {
		return err
	}
	defer closeLog()

	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fonts, dir, err := specimen.FindFonts(opts)
	if err != nil {
		return err
	}
	if len(fonts) == 0 {
		log.Warn().Msg(specimen.NoFontsMessage(opts, dir))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tFAMILY\tFULL NAME\tGLYPHS\tOUTLINES")
	fr := font.NewRenderer()
	for _, src := range fonts {
		info, err := describe(fr, src)
		if err != nil {
			log.Warn().Err(err).Str("font", src.Name).Msg("unreadable font")
			_, _ = fmt.Fprintf(w, "%s\t-\t-\t-\t-\n", src.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", src.Name, info.Family, info.FullName, info.NumGlyphs, info.Outlines)
	}
	return w.Flush()
}

// describe falls back to the parsed name table for collections.
func describe(fr *font.Renderer, src font.FontSource) (*font.Info, error) {
	if !src.IsCollection() {
		return font.Describe(src)
	}
	ff, err := fr.Load(src)
	if err != nil {
		return nil, err
	}
	return &font.Info{
		Family:    ff.Name(sfnt.NameIDFamily),
		FullName:  ff.Name(sfnt.NameIDFull),
		NumGlyphs: ff.Font.NumGlyphs(),
		Outlines:  "-",
	}, nil
}
