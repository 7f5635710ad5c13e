// Package commands implements the CLI commands for surrogate.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "surrogate",
	Short: "Search and harvest New York Surrogate's Court file records",
	Long: `Surrogate drives a real Chrome session through the WebSurrogate portal:
it passes the portal's challenges, runs searches, and optionally follows
each result into its file history and downloads the filed documents.

Examples:
  # Probate petitions filed in Kings during January
  surrogate search -t file_info -c Kings --proceeding "PROBATE PETITION" \
      --from-date 2025-01-01 --to-date 2025-01-31

  # Same, following every result and downloading documents
  surrogate search -t file_info -c Kings --proceeding "PROBATE PETITION" \
      --from-date 2025-01-01 --to-date 2025-01-31 --deep --download

  # A person's files in two courts
  surrogate search -t name_person -c Kings -c Queens --last-name SMITH`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.surrogate.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".surrogate")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("SURROGATE")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
