package commands

import (
	"github.com/spf13/cobra"

	"github.com/epsilon-records/audiokit/errors"
)

var createStrict bool

var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Validate a pipeline definition and store it",
	Long: `Validate a pipeline definition and store its normalized form under
the configured pipelines directory. Defaults declared by the node types
are filled in before storing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stored, err := kit.StorePipeline(args[0], createStrict)
		if err != nil {
			printViolations(cmd, err)
			return err
		}
		cmd.Printf("%s pipeline stored at %s\n", titleStyle.Render("✓"), stored)
		return nil
	},
}

func init() {
	createCmd.Flags().BoolVar(&createStrict, "strict", false, "reject undeclared parameters and unknown keys")
	rootCmd.AddCommand(createCmd)
}

// printViolations renders each validation violation on its own line.
func printViolations(cmd *cobra.Command, err error) {
	for _, v := range errors.ViolationsOf(err) {
		cmd.PrintErrln(failedStyle.Render("✗"), v.String())
	}
}
