// Package cli implements the bigtime command-line interface.
//
// Each pipeline stage is its own subcommand (discover, identify, process,
// merge, top, render) so an external scheduler can compose them. Commands
// read and write line-delimited JSON; terminal decoration goes to stderr
// and stdout stays machine-readable.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/buildinfo"
	"github.com/davepeck/bigtime-t-strings/pkg/cache"
	"github.com/davepeck/bigtime-t-strings/pkg/integrations"
	"github.com/davepeck/bigtime-t-strings/pkg/integrations/github"
)

// appName is the application name used for directories and display.
const appName = "bigtime"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

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
		Use:          appName,
		Short:        "Bigtime tracks t-string adoption across Python 3.14 repositories",
		Long:         `Bigtime discovers GitHub repositories that declare requires-python = ">=3.14", scans them for PEP 750 template strings, and ranks them by usage density weighted by popularity.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.discoverCommand())
	root.AddCommand(c.identifyCommand())
	root.AddCommand(c.processCommand())
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.repoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newGitHub creates a GitHub client backed by the configured cache and the
// GITHUB_TOKEN environment variable. noCache disables response caching for
// this invocation without touching stored entries.
func (c *CLI) newGitHub(noCache bool) *github.Client {
	return github.NewClient(os.Getenv("GITHUB_TOKEN"), newCache(noCache), integrations.DefaultCacheTTL)
}

// newCache selects the response cache backend: null when disabled, Redis
// when BIGTIME_REDIS names a server, otherwise a file cache under the XDG
// cache directory. Backend failures degrade to no caching rather than
// failing the command.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if addr := os.Getenv("BIGTIME_REDIS"); addr != "" {
		if rc, err := cache.NewRedisCache(context.Background(), addr); err == nil {
			return rc
		}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/bigtime/).
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
