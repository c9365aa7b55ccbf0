package cli

import (
	"github.com/shinya/specimen/internal/config"

	"github.com/spf13/cobra"
)

// Root builds the specimen command tree.
func Root() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "specimen",
		Short: "Type specimen generator",
		Long:  "Render a type specimen image for every font in a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, configFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file (json, yaml or toml)")
	config.DefineFlags(cmd.PersistentFlags())

	cmd.AddCommand(List(&configFile), Version())
	return cmd
}
