package cmd

import (
	"github.com/spf13/cobra"

	"github.com/burakkonte/sinyalist/internal/conf"
)

var cfgFile string

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sinyalist",
		Short: "Real-time seismic P-wave detector",
		Long: `sinyalist streams tri-axial accelerometer samples through an
STA/LTA trigger with a noise-adaptive threshold and a rejection cascade,
and emits classified seismic events over MQTT and a WebSocket dashboard
feed.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", conf.DefaultConfigFileName, "path to the YAML config file")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(simulateCommand())
	rootCmd.AddCommand(configCommand())
	rootCmd.AddCommand(ingestCommand())

	return rootCmd
}
