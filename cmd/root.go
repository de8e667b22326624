package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/birdlog/birding-go/cmd/serve"
	"github.com/birdlog/birding-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "birding-go",
		Short: "Birding-Go field notebook server",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	serveCmd := serve.Command(settings)

	rootCmd.AddCommand(serveCmd)

	// With no subcommand given, run the server.
	rootCmd.RunE = serveCmd.RunE

	return rootCmd
}

// setupFlags configures global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}
