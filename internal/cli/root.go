// Package cli defines the roomchat command tree.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "roomchat",
	Short:         "Multi room chat over Redis",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, chatCmd)
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}
