package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hypergopher/hashpress"
)

const defaultConfigFile = "hashpress.toml"

// globalOptions are the flags shared by every command.
type globalOptions struct {
	cfgFile string
	root    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "hashpress",
		Short: "Render a hash-routed markdown blog",
		Long: `hashpress loads a directory of markdown posts with front matter and renders
the views of URL fragments such as #/posts/<slug>, #/tags/go+linux or
#/type/tutorials/page/2. It also writes the sitemap and RSS feed of the blog.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is <root>/"+defaultConfigFile+" when present)")
	cmd.PersistentFlags().StringVar(&g.root, "root", ".", "site root holding the content and page files")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug messages")

	cmd.AddCommand(
		newResolveCmd(g),
		newSearchCmd(g),
		newSitemapCmd(g),
		newFeedCmd(g),
	)

	return cmd
}

// config loads the config file, falling back to the defaults when no file is given or found.
func (g *globalOptions) config() (hashpress.Config, error) {
	path := g.cfgFile
	if path == "" {
		path = filepath.Join(g.root, defaultConfigFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return hashpress.DefaultConfig(), nil
		}
	}

	return hashpress.LoadConfig(path)
}

func (g *globalOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (g *globalOptions) siteFS() fs.FS {
	return os.DirFS(g.root)
}
