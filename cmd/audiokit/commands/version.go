package commands

import (
	"github.com/spf13/cobra"

	"github.com/epsilon-records/audiokit/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("audiokit", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
