package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "highnoon",
	Short:   "Demo server for the highnoon routing core",
	Long: `highnoon runs a small demo application on top of the routing core:
sessions, JSON, errors, a mounted API with bearer auth, WebSockets and
static files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		readConfig(cmd)
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./highnoon.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: HIGHNOON_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json, text (env: HIGHNOON_LOG_FORMAT)")

	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
