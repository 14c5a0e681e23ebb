package commands

import (
	"github.com/spf13/cobra"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a pipeline definition",
	Long: `Validate a pipeline definition without executing it. All violations
are collected and reported together; with --strict, undeclared parameters
and unknown top-level keys are violations and no defaults are filled in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kit.ValidatePipeline(args[0], validateStrict); err != nil {
			printViolations(cmd, err)
			return err
		}
		cmd.Printf("%s %s is valid\n", titleStyle.Render("✓"), args[0])
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "reject undeclared parameters and unknown keys")
	rootCmd.AddCommand(validateCmd)
}
