package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	hierarchyio "github.com/hierarchytrix/solver/pkg/io"
	"github.com/hierarchytrix/solver/pkg/visualize"
)

// visualizeCommand creates the "visualize" command: render a hierarchy
// graph, and optionally a computed leaf order, as a Graphviz diagram.
func (c *CLI) visualizeCommand() *cobra.Command {
	var output string
	var format string
	var orderFile string

	cmd := &cobra.Command{
		Use:   "visualize <graph.json>",
		Short: "Render a hierarchy graph as a Graphviz diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := hierarchyio.ImportJSON(args[0])
			if err != nil {
				return fmt.Errorf("load graph: %w", err)
			}

			var order []string
			if orderFile != "" {
				data, err := os.ReadFile(orderFile)
				if err != nil {
					return fmt.Errorf("read order file: %w", err)
				}
				order = strings.Fields(string(data))
			}

			dot := visualize.ToDOT(g, order)

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = visualize.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}

			if err := writeFile(data, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if output != "" {
				printSuccess("Diagram rendered")
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", "svg", "output format: dot or svg")
	cmd.Flags().StringVar(&orderFile, "order-file", "", "leaf order file to overlay on the diagram")

	return cmd
}
