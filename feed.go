package hashpress

import (
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/feeds"
)

// DefaultFeedLimit is the number of posts in the feed when no limit is given.
const DefaultFeedLimit = 20

// WriteFeed writes an RSS 2.0 feed of the newest posts. Posts are expected newest first.
// A limit below 1 uses DefaultFeedLimit.
func WriteFeed(w io.Writer, site SiteConfig, posts []Post, limit int) error {
	if limit < 1 {
		limit = DefaultFeedLimit
	}

	siteURL := strings.TrimRight(site.BaseURL, "/")

	feed := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: siteURL + "/"},
		Description: site.Description,
	}

	if site.Author != "" {
		feed.Author = &feeds.Author{Name: site.Author}
	}

	for _, post := range posts[:min(limit, len(posts))] {
		teaser, _ := post.Teaser()
		item := &feeds.Item{
			Id:          siteURL + "/" + PostFragment(post.Slug()),
			Title:       titleOf(post),
			Link:        &feeds.Link{Href: siteURL + "/" + PostFragment(post.Slug())},
			Description: strings.TrimSpace(teaser),
			Created:     post.PublishedTime(),
		}

		if author := strings.TrimSpace(post.Metadata.Author); author != "" {
			item.Author = &feeds.Author{Name: author}
		}

		// The feed is as fresh as its newest post
		if item.Created.After(feed.Created) {
			feed.Created = item.Created
		}

		feed.Items = append(feed.Items, item)
	}

	if err := feed.WriteRss(w); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	return nil
}
