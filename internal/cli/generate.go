package cli

import (
	"fmt"
	"time"

	"github.com/shinya/specimen/internal/config"
	"github.com/shinya/specimen/internal/logging"
	"github.com/shinya/specimen/pkg/specimen"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// loadConfig reads configuration and sets up logging. The returned func must
// be called when the command finishes.
func loadConfig(cmd *cobra.Command, configFile string) (config.Config, func(), error) {
	cfg, meta, err := config.GetConfig(cmd.Flags(), configFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}
	if meta.FileNotFound {
		log.Warn().Str("path", configFile).Msg("config file not found, using defaults")
	}
	return cfg, closeLog, nil
}

// Run generates specimens for all matched fonts.
func Run(cmd *cobra.Command, configFile string) error {
	cfg, closeLog, err := loadConfig(cmd, configFile)
	if err != nil {
		return err
	}
	defer closeLog()

	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	started := time.Now()
	report, err := specimen.Generate(opts)
	if err != nil {
		return err
	}

	log.Info().
		Int("specimens", len(report.Results)).
		Str("export_dir", opts.ExportDir).
		Dur("elapsed", time.Since(started)).
		Msg("done")
	return nil
}
