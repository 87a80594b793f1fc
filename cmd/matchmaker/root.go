package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/matchcycle/internal/logging"
)

// Environment variables consulted when the matching flag is not set.
// A .env file in the working directory is loaded first.
const (
	envRedisAddr     = "MATCHMAKER_REDIS_ADDR"
	envRedisPassword = "MATCHMAKER_REDIS_PASSWORD"
	envConfig        = "MATCHMAKER_CONFIG"
	envLogLevel      = "MATCHMAKER_LOG_LEVEL"
)

var rootCmd = &cobra.Command{
	Use:   "matchmaker",
	Short: "Recurring pairing engine",
	Long: `matchmaker pairs participants for a cycle so that nobody meets a recent
partner again and the overall freshness of the pairing is maximized.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "engine config file (.yaml or .toml); env "+envConfig)
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error; env "+envLogLevel)
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
}

// stringFlag returns the flag value, falling back to env when the flag was
// not given on the command line.
func stringFlag(cmd *cobra.Command, name, env string) string {
	v, _ := cmd.Flags().GetString(name)
	if !cmd.Flags().Changed(name) && env != "" {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	return v
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := logging.ParseLevel(stringFlag(cmd, "log-level", envLogLevel))
	if err != nil {
		return nil, err
	}
	format, _ := cmd.Flags().GetString("log-format")
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, format), nil
}
