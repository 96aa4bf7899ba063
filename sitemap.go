package hashpress

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

// WriteSitemap writes an XML sitemap of the home page, the static pages and every post.
// Post entries carry the post date as lastmod when it parses.
func WriteSitemap(w io.Writer, baseURL string, posts []Post) error {
	baseURL = strings.TrimRight(baseURL, "/")

	urls := []sitemapURL{
		{Loc: baseURL + "/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: baseURL + "/#/about", ChangeFreq: "monthly", Priority: "0.7"},
		{Loc: baseURL + "/#/contact", ChangeFreq: "monthly", Priority: "0.5"},
		{Loc: baseURL + "/#/disclaimer", ChangeFreq: "yearly", Priority: "0.3"},
	}

	for _, post := range posts {
		entry := sitemapURL{
			Loc:        baseURL + "/" + PostFragment(post.Slug()),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		}
		if published := post.PublishedTime(); !published.IsZero() {
			entry.LastMod = published.Format("2006-01-02")
		}
		urls = append(urls, entry)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemapURLSet{URLs: urls}); err != nil {
		return fmt.Errorf("failed to encode sitemap: %w", err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}
	return nil
}
