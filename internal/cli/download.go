package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/licensetower/pkg/cache"
	"github.com/matzehuels/licensetower/pkg/deps"
	"github.com/matzehuels/licensetower/pkg/download"
	"github.com/matzehuels/licensetower/pkg/integrations/maven"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/reconcile"
)

// Flag names of the download command.
const (
	flagConfig          = "config"
	flagSummaryFile     = "summary-file"
	flagOutputDir       = "output-dir"
	flagSummaryOutput   = "summary-output"
	flagQuiet           = "quiet"
	flagTransitive      = "transitive"
	flagPOM             = "pom"
	flagDependencyList  = "dependency-list"
	flagRepository      = "repository"
	flagConcurrency     = "concurrency"
	flagDownloadTimeout = "download-timeout"
	flagCacheTTL        = "cache-ttl"
	flagRedisAddr       = "redis-addr"
	flagNoCache         = "no-cache"
	flagRefresh         = "refresh"
)

// downloadFlags holds the values bound to the download command's flags.
type downloadFlags struct {
	config  string
	noCache bool
	refresh bool
	set     Config
}

// downloadCommand creates the download command.
func (c *CLI) downloadCommand() *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Resolve dependency licenses and download the license texts",
		Long: `Download resolves the licenses of every dependency of a Maven project,
writes them to a license summary and downloads each referenced license text.

Entries of an existing summary are reused without network access; only
dependencies missing from it are resolved from their POM. When no summary
exists yet, the operator-curated summary file seeds the run.`,
		Example: `  # Reconcile the project in the current directory
  licensetower download

  # Use the output of mvn dependency:list instead of pom.xml
  licensetower download --dependency-list target/deps.txt

  # Direct dependencies only, without license warnings
  licensetower download --transitive=false --quiet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd.Flags(), &flags)
			if err != nil {
				return err
			}
			return c.runDownload(cmd.Context(), cfg, flags.noCache, flags.refresh)
		},
	}

	bindDownloadFlags(cmd.Flags(), &flags)
	registerDownloadCompletions(cmd)

	return cmd
}

// bindDownloadFlags registers the download flags on f, storing values in flags.
func bindDownloadFlags(f *pflag.FlagSet, flags *downloadFlags) {
	flags.set = defaultConfig()
	set := &flags.set
	f.StringVarP(&flags.config, flagConfig, "c", "", "config file (default: licensetower.toml or .licensetower.yaml if present)")
	f.StringVar(&set.SummaryFile, flagSummaryFile, set.SummaryFile, "operator-curated license summary used to seed the first run")
	f.StringVarP(&set.OutputDirectory, flagOutputDir, "o", set.OutputDirectory, "directory for downloaded license texts")
	f.StringVar(&set.SummaryOutputFile, flagSummaryOutput, set.SummaryOutputFile, "license summary written by the run (.xml or .json)")
	f.BoolVarP(&set.Quiet, flagQuiet, "q", set.Quiet, "suppress warnings about missing or invalid license information")
	f.BoolVar(&set.IncludeTransitive, flagTransitive, set.IncludeTransitive, "include transitive dependencies")
	f.StringVar(&set.POM, flagPOM, set.POM, "project POM to enumerate dependencies from")
	f.StringVar(&set.DependencyList, flagDependencyList, "", "output of mvn dependency:list (takes precedence over --pom)")
	f.StringSliceVar(&set.Repositories, flagRepository, set.Repositories, "Maven repository URLs, tried in order")
	f.IntVar(&set.Concurrency, flagConcurrency, set.Concurrency, "dependencies resolved in parallel")
	f.DurationVar(&set.DownloadTimeout.Duration, flagDownloadTimeout, set.DownloadTimeout.Duration, "timeout per license download")
	f.DurationVar(&set.CacheTTL.Duration, flagCacheTTL, set.CacheTTL.Duration, "how long fetched POMs stay cached")
	f.StringVar(&set.RedisAddr, flagRedisAddr, "", "share the POM cache through Redis at host:port")
	f.BoolVar(&flags.noCache, flagNoCache, false, "disable the POM cache")
	f.BoolVar(&flags.refresh, flagRefresh, false, "refetch POMs even when cached")
}

// resolveConfig layers defaults, the config file and explicitly set flags,
// in increasing precedence.
func (c *CLI) resolveConfig(fs *pflag.FlagSet, flags *downloadFlags) (Config, error) {
	cfg := defaultConfig()

	path := flags.config
	if path == "" {
		path = findConfigFile(".")
	}
	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
		c.Logger.Debug("Loaded config", "file", path)
	}

	applyFlags(fs, &flags.set, &cfg)
	cfg.expandEnv(c.Logger.Warnf)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// runDownload performs one reconciliation and prints its outcome.
func (c *CLI) runDownload(ctx context.Context, cfg Config, noCache, refresh bool) error {
	runID := uuid.NewString()
	logger := c.Logger.With("run", runID[:8])

	cch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer cch.Close()

	observability.SetRunHooks(runLogger{logger})

	client := maven.NewClient(cch, cfg.CacheTTL.Duration, cfg.Repositories...)
	opts := cfg.options()
	opts.RunID = runID

	rec := reconcile.New(
		newSource(cfg, client, refresh, logger),
		maven.NewLicenseFetcher(client, refresh),
		download.NewHTTP(cfg.DownloadTimeout.Duration),
		logger,
		opts,
	)

	prog := newProgress(logger)
	res, err := rec.Run(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Reconciled %d dependencies", len(res.Projects)))

	printSuccess("License summary written")
	printKeyValue("Summary", cfg.SummaryOutputFile)
	printKeyValue("Licenses", cfg.OutputDirectory)
	printStats(res)
	if res.Dropped > 0 || res.Failed > 0 {
		printWarning("%d dependencies without descriptor, %d license files not downloaded", res.Dropped, res.Failed)
		if cfg.Quiet {
			printDetail("Run with --verbose to see the details")
		}
	}
	return nil
}

// newSource picks the dependency source: a dependency list when given,
// otherwise the project POM.
func newSource(cfg Config, client *maven.Client, refresh bool, logger *log.Logger) deps.Source {
	opts := deps.Options{
		Workers: cfg.Concurrency * 2,
		Refresh: refresh,
		Logger:  logger.Debugf,
	}
	if cfg.DependencyList != "" {
		return deps.NewListSource(cfg.DependencyList, opts)
	}
	return deps.NewPOMSource(cfg.POM, client, opts)
}

// newCache opens the POM cache: Redis when an address is configured,
// the file cache otherwise. An unreachable Redis falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, cfg Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("Redis cache unavailable, using file cache", "err", err)
	}
	return newFileCache()
}

// =============================================================================
// Run Hooks
// =============================================================================

// runLogger reports run events at debug level.
type runLogger struct {
	logger *log.Logger
}

func (h runLogger) OnRunStart(_ context.Context, runID string) {
	h.logger.Debug("Run started", "id", runID)
}

func (h runLogger) OnDependency(_ context.Context, key, outcome string) {
	h.logger.Debug("Dependency", "key", key, "outcome", outcome)
}

func (h runLogger) OnDownload(_ context.Context, fileName, outcome string, err error) {
	if err != nil {
		h.logger.Debug("License file", "name", fileName, "outcome", outcome, "err", err)
		return
	}
	h.logger.Debug("License file", "name", fileName, "outcome", outcome)
}

func (h runLogger) OnRunComplete(_ context.Context, _ string, dependencies int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Run failed", "dependencies", dependencies, "duration", duration, "err", err)
		return
	}
	h.logger.Debug("Run complete", "dependencies", dependencies, "duration", duration)
}
