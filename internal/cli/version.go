package cli

import (
	"fmt"
	"runtime"

	"github.com/shinya/specimen/internal/build"

	"github.com/spf13/cobra"
)

func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Specimen version information",
		Long:  `Print the version information of specimen`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "specimen v%s (Go version: %s)\n", build.Version, runtime.Version())
		},
	}
}
