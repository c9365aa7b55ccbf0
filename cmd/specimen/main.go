package main

import (
	"os"

	"github.com/shinya/specimen/internal/cli"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		log.Error().Err(err).Msg("specimen failed")
		os.Exit(1)
	}
}
