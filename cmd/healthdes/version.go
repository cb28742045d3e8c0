package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/healthdes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of healthdes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "healthdes version %s\n", healthdes.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
