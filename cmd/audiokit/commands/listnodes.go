package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epsilon-records/audiokit/node"
)

var listNodesCmd = &cobra.Command{
	Use:   "list-nodes",
	Short: "Show the available node types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, desc := range kit.Registry().List() {
			cmd.Println(titleStyle.Render(desc.Type), dimStyle.Render("— "+desc.Summary))
			for _, p := range desc.Params {
				cmd.Printf("    %-14s %s%s\n", p.Name, paramDoc(p), dimStyle.Render("  "+p.Description))
			}
			if op := desc.RemoteOperation; op != "" {
				cmd.Println(dimStyle.Render("    remote: " + op))
			}
		}
		return nil
	},
}

func paramDoc(p node.ParamSpec) string {
	parts := []string{string(p.Type)}
	if p.Required {
		parts = append(parts, "required")
	} else if p.Default != nil {
		parts = append(parts, fmt.Sprintf("default=%v", p.Default))
	}
	if p.Min != nil || p.Max != nil {
		bound := ""
		if p.Min != nil {
			bound = fmt.Sprintf("%v", *p.Min)
		}
		bound += ".."
		if p.Max != nil {
			bound += fmt.Sprintf("%v", *p.Max)
		}
		parts = append(parts, bound)
	}
	if len(p.Enum) > 0 {
		parts = append(parts, "one of "+strings.Join(p.Enum, "|"))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func init() {
	rootCmd.AddCommand(listNodesCmd)
}
