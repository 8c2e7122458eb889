package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/transitroute/pkg/buildinfo"
	"github.com/matzehuels/transitroute/pkg/cache"
	"github.com/matzehuels/transitroute/pkg/config"
	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName
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

	// Global flags.
	configPath string
	snapshot   string
	noCache    bool
	refresh    bool

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Find which subway routes connect two stops",
		Long: `transitroute loads a transit network from the MBTA v3 API (or a saved
snapshot) and answers which sequence of routes takes you from one stop to
another, optionally with some stops closed.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/transitroute/config.toml)")
	pf.StringVar(&c.snapshot, "network", "", "load the network from a snapshot file instead of the API")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")
	pf.BoolVar(&c.refresh, "refresh", false, "refetch from the API, ignoring cached responses")

	root.AddCommand(c.routesCommand())
	root.AddCommand(c.stopsCommand())
	root.AddCommand(c.tripCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads .env and the config file before any command runs.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	if err := config.LoadDotEnv(); err != nil {
		c.Logger.Warn("ignoring .env", "err", err)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "cache", cfg.Cache.Backend, "mode", cfg.Closures.Mode)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Cache.KeyPrefix)
	}
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache || c.snapshot != "" {
		return cache.NewNullCache(), nil
	}
	opts, err := c.cfg.CacheOptions()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, opts)
}

// loadOptions builds runner options from the config and global flags.
func (c *CLI) loadOptions() pipeline.LoadOptions {
	api := c.cfg.API
	return pipeline.LoadOptions{
		Snapshot:    c.snapshot,
		BaseURL:     api.BaseURL,
		APIKey:      api.APIKey,
		RouteTypes:  api.RouteTypes,
		Concurrency: api.Concurrency,
		Timeout:     api.Timeout,
		CacheTTL:    c.cfg.Cache.TTL,
		Refresh:     c.refresh,
	}
}

// loadNetwork loads the network, showing a spinner on interactive terminals.
func (c *CLI) loadNetwork(ctx context.Context) (*network.Network, bool, error) {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, false, err
	}
	defer runner.Close()

	var spinner *Spinner
	if c.snapshot == "" && stderrIsTerminal() && c.Logger.GetLevel() > log.DebugLevel {
		spinner = newSpinner(ctx, os.Stderr, "Loading network...")
		spinner.Start()
	}

	n, cached, err := runner.LoadWithCacheInfo(ctx, c.loadOptions())
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, false, err
	}
	loggerFromContext(ctx).Debug("network ready", "routes", n.Index().Len(), "stops", n.Catalog().Len(), "cached", cached)
	return n, cached, nil
}

// queryOptions merges command flags over the configured closures.
func (c *CLI) queryOptions(mode string, closed []string) pipeline.QueryOptions {
	opts := pipeline.QueryOptions{Mode: c.cfg.Closures.Mode, Closed: c.cfg.Closures.Stops}
	if mode != "" {
		opts.Mode = mode
	}
	if len(closed) > 0 {
		opts.Closed = append(append([]string(nil), opts.Closed...), closed...)
	}
	return opts
}

// =============================================================================
// Terminal Helpers
// =============================================================================

func stdinIsTerminal() bool  { return isTerminal(os.Stdin) }
func stderrIsTerminal() bool { return isTerminal(os.Stderr) }

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
