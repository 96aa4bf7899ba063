package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hypergopher/hashpress"
)

func newResolveCmd(g *globalOptions) *cobra.Command {
	var (
		watch  bool
		chrome bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [fragment...]",
		Short: "Render the views of URL fragments",
		Long: `Render the view of each fragment to stdout. Without arguments the home view is
rendered and fragments are then read from stdin, one per line.

With --watch the content directory is watched and the current fragment is
rendered again after every change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}

			logger := g.logger()
			out := cmd.OutOrStdout()

			regions := hashpress.HTMLRegions{Content: out, Tags: out}
			if chrome {
				regions.Nav = out
				regions.Sidebar = out
			}

			opts, err := cfg.Options(g.siteFS(), hashpress.NewHTMLRenderer(regions), logger)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				opts.InitialFragment = args[0]
			}
			if closer, ok := opts.Searcher.(io.Closer); ok {
				defer closer.Close()
			}

			app, err := hashpress.NewApp(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.Start(ctx); err != nil {
				return err
			}

			if watch {
				dir := filepath.Join(g.root, cfg.Content.Dir)
				go func() {
					err := watchContent(ctx, dir, logger, func() {
						if err := app.Reload(ctx); err != nil {
							logger.Error("reload failed", slog.String("error", err.Error()))
						}
					})
					if err != nil && ctx.Err() == nil {
						logger.Error("watch stopped", slog.String("error", err.Error()))
					}
				}()
			}

			if len(args) > 0 {
				for _, fragment := range args[1:] {
					if err := app.Navigate(fragment); err != nil {
						return err
					}
				}
				if watch {
					<-ctx.Done()
				}
				return nil
			}

			d, err := app.Dispatcher()
			if err != nil {
				return err
			}
			return runFragments(ctx, d, cmd.InOrStdin())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render the current fragment when content changes")
	cmd.Flags().BoolVar(&chrome, "chrome", false, "also render the navigation and sidebar")

	return cmd
}

// runFragments feeds the lines of in to the dispatcher until in is exhausted or ctx is done.
func runFragments(ctx context.Context, d *hashpress.Dispatcher, in io.Reader) error {
	fragments := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(fragments)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case fragments <- line:
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	if err := d.Run(ctx, fragments); err != nil {
		return err
	}

	if err := <-scanErr; err != nil {
		return fmt.Errorf("failed to read fragments: %w", err)
	}
	return nil
}

func newSearchCmd(g *globalOptions) *cobra.Command {
	var first bool

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Render the posts matching a search term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}

			// Start renders the home view, which is not part of the output
			content := &switchWriter{w: io.Discard}
			opts, err := cfg.Options(g.siteFS(), hashpress.NewHTMLRenderer(hashpress.HTMLRegions{Content: content}), g.logger())
			if err != nil {
				return err
			}
			if closer, ok := opts.Searcher.(io.Closer); ok {
				defer closer.Close()
			}

			app, err := hashpress.NewApp(opts)
			if err != nil {
				return err
			}
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			content.w = cmd.OutOrStdout()

			d, err := app.Dispatcher()
			if err != nil {
				return err
			}

			term := strings.Join(args, " ")
			if !first {
				return d.Search(term)
			}

			found, err := d.SubmitSearch(term)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no post matches %q", term)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&first, "first", false, "render the first matching post instead of the result list")

	return cmd
}

type switchWriter struct {
	w io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}
