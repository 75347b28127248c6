// Package cli implements the reftree command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reftree/pkg/buildinfo"
	"github.com/matzehuels/reftree/pkg/config"
	"github.com/matzehuels/reftree/pkg/forest"
	rtio "github.com/matzehuels/reftree/pkg/io"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "reftree"

	// defaultConfigFile is read from the working directory when --config is unset.
	defaultConfigFile = "reftree.toml"
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

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Reftree analyses and simulates referral networks",
		Long:         `Reftree loads a referral network, answers reach and influence queries over it, and projects referral growth under a capacity-limited adoption model.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+defaultConfigFile+" if present)")

	// Network queries
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.reachCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.expansionCommand())
	root.AddCommand(c.centralityCommand())

	// Growth model
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.daysCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.bonusCommand())

	// Outputs
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Loaders
// =============================================================================

// loadConfig reads --config, falling back to ./reftree.toml and then to the
// built-in defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = defaultConfigFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("Loaded config", "path", path)
	return cfg, nil
}

// loadNetwork imports a network file and logs its size.
func loadNetwork(ctx context.Context, path string) (*forest.Forest, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	f, err := rtio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	prog.done(pluralize(f.Len(), "user", "users") + " loaded from " + path)
	return f, nil
}
