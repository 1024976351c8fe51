package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MePrince47/JoeZik/server"
)

var rootCmd = &cobra.Command{
	Use:   "joezik",
	Short: "JoeZik is a collaborative music queue service.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
