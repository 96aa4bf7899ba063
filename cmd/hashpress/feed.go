package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hypergopher/hashpress"
)

func newFeedCmd(g *globalOptions) *cobra.Command {
	var (
		out   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Write the RSS feed of the newest posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, posts, err := loadPosts(cmd.Context(), g)
			if err != nil {
				return err
			}

			return writeOutput(cmd, out, g.logger(), func(w io.Writer) error {
				return hashpress.WriteFeed(w, cfg.Site, posts, limit)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default is stdout)")
	cmd.Flags().IntVar(&limit, "limit", hashpress.DefaultFeedLimit, "number of posts in the feed")

	return cmd
}
