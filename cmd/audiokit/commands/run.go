package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/epsilon-records/audiokit/audio"
	"github.com/epsilon-records/audiokit/dispatch"
)

var (
	runStrict bool
	runInput  string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a pipeline",
	Long: `Load, validate and execute a pipeline. Each node runs locally when
the host can serve it and is dispatched to the remote service otherwise.
The exit code reflects aggregate success.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := kit.LoadPipeline(args[0], runStrict)
		if err != nil {
			printViolations(cmd, err)
			return err
		}
		if runInput != "" {
			for i, n := range spec.Nodes {
				if n.Type == audio.TypeInput {
					if n.Params == nil {
						spec.Nodes[i].Params = map[string]any{}
					}
					spec.Nodes[i].Params["path"] = runInput
				}
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := kit.RunPipeline(ctx, spec)
		if err != nil {
			return err
		}

		renderReport(cmd, spec.Order(), report)
		if !report.OK() {
			return fmt.Errorf("pipeline finished with %d failed, %d skipped node(s)",
				len(report.Failed()), len(report.Skipped()))
		}
		return nil
	},
}

func renderReport(cmd *cobra.Command, order []string, report *dispatch.Report) {
	cmd.Println()
	cmd.Println(titleStyle.Render("run "+report.RunID), dimStyle.Render(report.Duration.Round(time.Millisecond).String()))
	cmd.Printf("%s\n", headerStyle.Render(fmt.Sprintf("%-16s %-16s %-10s %-8s %-10s %s",
		"NODE", "TYPE", "STATE", "WHERE", "DURATION", "DETAIL")))

	for _, id := range order {
		res, ok := report.Results[id]
		if !ok {
			continue
		}
		detail := res.Reason
		if res.Err != nil {
			detail = res.Err.Error()
		}
		cmd.Printf("%-16s %-16s %s %-8s %-10s %s\n",
			id, res.Type,
			stateCell(res.State),
			res.Location,
			res.Duration.Round(time.Millisecond),
			strings.TrimSpace(detail),
		)
	}
	cmd.Println()
}

func stateCell(s dispatch.State) string {
	// pad before styling so ANSI codes don't break column alignment
	cell := fmt.Sprintf("%-10s", string(s))
	switch s {
	case dispatch.StateDone:
		return doneStyle.Render(cell)
	case dispatch.StateFailed:
		return failedStyle.Render(cell)
	case dispatch.StateSkipped:
		return skippedStyle.Render(cell)
	}
	return cell
}

func init() {
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "reject undeclared parameters and unknown keys")
	runCmd.Flags().StringVar(&runInput, "input", "", "override the path of audio.input nodes")
	rootCmd.AddCommand(runCmd)
}
