package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hierarchytrix/solver/pkg/errors"
)

// solveCommand creates the "solve" command: compute a leaf order for one
// instance via the configured orchestrator.
func (c *CLI) solveCommand() *cobra.Command {
	var instanceID string
	var method string
	var timeLimit int
	var noCache bool
	var pickDir string

	cmd := &cobra.Command{
		Use:   "solve [graph.json]",
		Short: "Solve for a crossing-minimizing leaf order",
		Args:  cobra.MaximumNArgs(1),
		Example: `  hierarchytrix solve graph.json --instance demo --method hybrid
  hierarchytrix solve graph.json --instance demo --method ilp --time-limit 30
  hierarchytrix solve --pick ./instances --method heuristic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				dir := pickDir
				if dir == "" {
					dir = "."
				}
				selected, err := pickInstance(dir)
				if err != nil {
					return err
				}
				if selected == "" {
					printWarning("No instance selected")
					return nil
				}
				path = selected
			}
			dir := filepath.Dir(path)
			if instanceID == "" {
				instanceID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			orch, err := c.newOrchestrator(dir, noCache)
			if err != nil {
				return fmt.Errorf("build orchestrator: %w", err)
			}

			limit := time.Duration(timeLimit) * time.Second
			if limit == 0 {
				limit = c.Config.TimeLimits.Duration(method)
			}
			if limit == 0 {
				limit = defaultSolveTimeout * time.Second
			}

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Solving %s via %s...", instanceID, method))
			spinner.Start()
			result, err := orch.Solve(cmd.Context(), instanceID, method, limit)
			if err != nil {
				spinner.StopWithError(err.Error())
				printError("%s", errors.UserMessage(err))
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("solved (%s, %d crossings)", result.Status, result.Crossings))

			fmt.Println(strings.Join(result.LeafOrder, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "instance id (defaults to the file's base name)")
	cmd.Flags().StringVar(&method, "method", "hybrid", "solve method: input, ilp, heuristic, or hybrid")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 0, "solve time limit in seconds (0 uses the config default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the order cache")
	cmd.Flags().StringVar(&pickDir, "pick", "", "interactively pick an instance from this directory when no file is given (default \".\")")

	return cmd
}
