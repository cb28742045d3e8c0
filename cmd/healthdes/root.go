package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/healthdes/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "healthdes",
	Short: "HealthDES runs discrete event simulations of care pathways",
	Long: `HealthDES simulates people travelling through health and social care pathways.
Models are YAML or JSON files describing resources, activities, routes and arrivals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelFlag, _ := cmd.Flags().GetString("log-level")
	formatFlag, _ := cmd.Flags().GetString("log-format")

	level, err := logging.ParseLevel(levelFlag)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format), nil
}
