package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	hierarchyio "github.com/hierarchytrix/solver/pkg/io"
)

// validateCommand creates the "validate" command: load a graph document and
// check its invariants without solving anything.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <graph.json>",
		Short: "Validate a hierarchy graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			g, err := hierarchyio.ImportJSON(path)
			if err != nil {
				printError("%s", err)
				return err
			}

			printSuccess("Graph is valid")
			printKeyValue("Root", g.Root())
			printKeyValue("Nodes", fmt.Sprintf("%d", g.NodeCount()))
			printKeyValue("Leaves", fmt.Sprintf("%d", len(g.Leaves())))
			printKeyValue("Bottom edges", fmt.Sprintf("%d", len(g.BottomEdges())))
			return nil
		},
	}
}
