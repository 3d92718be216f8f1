package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hierarchytrix/solver/internal/httpapi"
)

// serveCommand creates the "serve" command: run the thin HTTP surface.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var dataDir string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the instance-upload and order-solving HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				dir, err := c.resolveCacheDir()
				if err != nil {
					return fmt.Errorf("resolve data dir: %w", err)
				}
				dataDir = dir + "-instances"
			}

			store, err := httpapi.NewDirStore(dataDir)
			if err != nil {
				return fmt.Errorf("init instance store: %w", err)
			}

			orch, err := c.newOrchestrator(dataDir, noCache)
			if err != nil {
				return fmt.Errorf("build orchestrator: %w", err)
			}

			server := &httpapi.Server{Store: store, Orchestrator: orch}

			c.Logger.Info("listening", "addr", addr, "data_dir", dataDir)
			return http.ListenAndServe(addr, server.Router())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory to persist uploaded instances (defaults to a sibling of the cache dir)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the order cache")

	return cmd
}
