// Package cli implements the licensetower command-line interface.
//
// # Commands
//
//   - download: resolve dependency licenses and download the license texts
//   - cache: inspect and clear the POM cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// The download command reads an optional config file (licensetower.toml or
// .licensetower.yaml in the working directory, or --config). Explicitly set
// flags override the file, which overrides the built-in defaults.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// doubles as the reconciler's reporter, so license warnings appear inline.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
	"github.com/matzehuels/licensetower/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "licensetower"

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
		Short: "Licensetower collects the licenses of Maven dependencies",
		Long: `Licensetower resolves the licenses declared by the dependencies of a Maven
project, keeps them in a license summary and downloads every referenced
license text, reusing previous results between builds.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.downloadCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/licensetower/).
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

// newFileCache opens the file cache in cacheDir. Without a usable home
// directory the run proceeds uncached.
func newFileCache() (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
