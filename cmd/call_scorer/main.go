// Package main provides the call_scorer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/call-scorer/internal/config"
	"github.com/jonathan/call-scorer/internal/observability"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
)

// Populated by loadRuntime before any subcommand runs
var (
	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:               "call_scorer",
	Short:             "Customer service call scoring",
	Long:              "call_scorer identifies the agent in customer service call transcripts and scores the conversation against a weighted rubric.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed tables instead of JSON")
}

func loadRuntime(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		loaded.LogFormat = logFormat
	}
	if flags.Changed("verbose") {
		loaded.Verbose = verbose
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	logger, err := observability.SetupLogger(loaded.LogLevel, loaded.LogFormat)
	if err != nil {
		return err
	}

	cfg = loaded
	log = logger
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
