package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hypergopher/hashpress"
)

func newSitemapCmd(g *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write the XML sitemap of the blog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, posts, err := loadPosts(cmd.Context(), g)
			if err != nil {
				return err
			}

			return writeOutput(cmd, out, g.logger(), func(w io.Writer) error {
				return hashpress.WriteSitemap(w, cfg.Site.BaseURL, posts)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default is stdout)")

	return cmd
}

// loadPosts loads the configured content directory into a store and returns its posts, newest first.
func loadPosts(ctx context.Context, g *globalOptions) (hashpress.Config, []hashpress.Post, error) {
	cfg, err := g.config()
	if err != nil {
		return hashpress.Config{}, nil, err
	}

	logger := g.logger()
	store := hashpress.NewStore(logger)
	loader := hashpress.NewFSLoader(g.siteFS(), cfg.Content.Dir, nil, logger)

	if _, err := store.Load(ctx, loader); err != nil {
		return hashpress.Config{}, nil, err
	}

	return cfg, store.Posts(), nil
}

func writeOutput(cmd *cobra.Command, path string, logger *slog.Logger, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	logger.Info("wrote file", slog.String("path", path))
	return nil
}
