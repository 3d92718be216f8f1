// Package cli implements the hierarchytrix command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hierarchytrix/solver/pkg/audit"
	"github.com/hierarchytrix/solver/pkg/audit/mongo"
	"github.com/hierarchytrix/solver/pkg/buildinfo"
	"github.com/hierarchytrix/solver/pkg/cache"
	"github.com/hierarchytrix/solver/pkg/config"
	"github.com/hierarchytrix/solver/pkg/orchestrate"
	"github.com/hierarchytrix/solver/pkg/solver/mip"
	"github.com/hierarchytrix/solver/pkg/solver/mip/lpsolve"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "hierarchytrix"

	// defaultSolveTimeout is the default solve time limit (seconds), used
	// when neither --time-limit nor the config file sets one.
	defaultSolveTimeout = 60
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the config file
// loaded from its default path (a missing file is not an error).
func New(w io.Writer, level log.Level) *CLI {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	cfg := config.Default()
	if path, err := config.DefaultPath(); err == nil {
		if loaded, err := config.Load(path); err == nil {
			cfg = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "path", path, "err", err)
		}
	}

	return &CLI{Logger: logger, Config: cfg}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "hierarchytrix",
		Short:        "hierarchytrix orders cluster hierarchies for two-page book embedding",
		Long:         `hierarchytrix computes a linear leaf order for a cluster hierarchy that minimizes bottom-page edge crossings while keeping the top-page tree planar, using an exact ILP solver, a heuristic, or a hybrid of the two.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.pqtreeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Orchestrator Factory
// =============================================================================

// newOrchestrator builds an Orchestrator reading instances from dir and
// writing solved orders through the configured cache and audit backends.
func (c *CLI) newOrchestrator(dir string, noCache bool) (*orchestrate.Orchestrator, error) {
	instances := orchestrate.NewDirSource(dir)

	orderCache, err := newCache(noCache, c.Config.CacheDir)
	if err != nil {
		return nil, err
	}

	store, err := c.newAuditStore()
	if err != nil {
		return nil, err
	}

	engineNew := orchestrate.EngineFactory(func() mip.Model { return lpsolve.New() })

	return orchestrate.New(instances, orderCache, cache.NewDefaultKeyer(), store, c.Logger, engineNew), nil
}

func newCache(noCache bool, configuredDir string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir := configuredDir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newAuditStore builds the audit backend selected by c.Config.Audit.Backend.
func (c *CLI) newAuditStore() (audit.Store, error) {
	switch c.Config.Audit.Backend {
	case "file":
		return audit.NewFileStore(c.Config.Audit.Path)
	case "mongo":
		return mongo.New(context.Background(), mongo.Config{URI: c.Config.Audit.MongoURI})
	default:
		return audit.NewNullStore(), nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/hierarchytrix/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
