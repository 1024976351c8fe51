package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MePrince47/JoeZik/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the JoeZik HTTP server",
	Long:  `Start the JoeZik HTTP server serving the REST API, uploaded audio and avatars.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
