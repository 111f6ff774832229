// Package main is realmctl, an offline tool for replaying narrator tags against saved
// game states, listing realm ladders and checking game state files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "realmctl",
		Short:         "Realm Engine offline tools",
		Long:          `realmctl applies narrator tags to game state files without a running API, prints realm ladders and validates saved games.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newRealmsCmd())
	rootCmd.AddCommand(newValidateCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
