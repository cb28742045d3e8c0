package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/healthdes"
	"github.com/aretw0/healthdes/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model>",
	Short: "Check a model for consistency",
	Long: `Loads the model, checks its structure and activity parameters, and reports
unknown resources, unreachable decisions and ambiguous routes without running it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if _, err := healthdes.FromModel(m); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Model %q is valid\n", m.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
