package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/testplot/internal/config"
	"github.com/matzehuels/testplot/pkg/buildinfo"
	"github.com/matzehuels/testplot/pkg/cache"
	"github.com/matzehuels/testplot/pkg/dataset"
	"github.com/matzehuels/testplot/pkg/observability"
	"github.com/matzehuels/testplot/pkg/pipeline"
	"github.com/matzehuels/testplot/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "testplot"

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
	Config *config.Config

	configPath string
	verbose    bool
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
		Use:   appName,
		Short: "Testplot turns network test results into comparison plots",
		Long: `Testplot walks a tree of test results described by "details" descriptor files,
arranges the test cases into columns and group labels, merges their
statistics and writes a gnuplot script that draws the comparison.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: .testplot.toml in . or $HOME)")

	root.AddCommand(c.collectionCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.flowsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.trafficCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies the log level before any
// command runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}

	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "gnuplot", cfg.Render.Gnuplot, "workers", cfg.Merge.Workers)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()

	engine, err := render.NewGnuplot(cfg.Render.Gnuplot, cfg.Render.Args)
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(noCache || cfg.Cache.Disabled)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(store, nil, engine, c.Logger)
	runner.Merger = dataset.NewMerger(cfg.Merge.Workers, c.Logger)
	return runner, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.NewFileCache(c.config().CacheDir())
	if err != nil {
		printWarning("Cache unavailable, rendering without it: %v", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root's setup hook.
func (c *CLI) config() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// =============================================================================
// Options Helpers
// =============================================================================

// collectionOptions returns pipeline options for dir with the configured
// canvas and font.
func (c *CLI) collectionOptions(dir string) pipeline.Options {
	cfg := c.config()
	return pipeline.Options{
		Dir:    dir,
		Font:   cfg.Render.Font,
		Scale:  cfg.ScaleOptions(),
		Logger: c.Logger,
	}
}

// levelsArg parses the optional trailing levels argument.
func levelsArg(args []string, i int) ([]int, error) {
	if len(args) <= i {
		return nil, nil
	}
	return pipeline.ParseLevels(args[i])
}
