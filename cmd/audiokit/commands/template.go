package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epsilon-records/audiokit/graph"
)

var templateKind string

var templateCmd = &cobra.Command{
	Use:   "template <file>",
	Short: "Emit a starter pipeline document",
	Long: `Write a starter pipeline document to the given file.
Available kinds: ` + strings.Join(graph.TemplateKinds, ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := graph.Template(templateKind)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return err
		}
		cmd.Printf("%s %s template written to %s\n", titleStyle.Render("✓"), templateKind, args[0])
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVar(&templateKind, "type", "basic", "template kind: "+strings.Join(graph.TemplateKinds, "|"))
	rootCmd.AddCommand(templateCmd)
}
