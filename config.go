package hashpress

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	SearchEngineTitle    = "title"
	SearchEngineFullText = "fulltext"
)

// Config is the site configuration, usually decoded from a TOML file.
type Config struct {
	Site    SiteConfig            `toml:"site"`
	Content ContentConfig         `toml:"content"`
	Listing ListingConfig         `toml:"listing"`
	Widgets WidgetsConfig         `toml:"widgets"`
	Search  SearchConfig          `toml:"search"`
	Nav     []NavLink             `toml:"nav"`
	Pages   map[string]PageConfig `toml:"pages"`
}

type SiteConfig struct {
	Title       string `toml:"title"`
	BaseURL     string `toml:"base_url"`
	Description string `toml:"description"`
	Author      string `toml:"author"`
}

type ContentConfig struct {
	Dir string `toml:"dir"` // Dir holds the markdown posts, relative to the site root
}

type ListingConfig struct {
	PageSize int `toml:"page_size"`
}

type WidgetsConfig struct {
	RecentCount int `toml:"recent_count"`
}

type SearchConfig struct {
	Engine string `toml:"engine"`
}

// PageConfig configures one static page. File is a markdown file relative to the site root.
type PageConfig struct {
	Title string `toml:"title"`
	File  string `toml:"file"`
}

// DefaultConfig returns the configuration used for keys missing from a config file.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:   "Blog",
			BaseURL: "http://localhost:8080",
		},
		Content: ContentConfig{Dir: "blogs"},
		Listing: ListingConfig{PageSize: DefaultPageSize},
		Widgets: WidgetsConfig{RecentCount: DefaultRecentCount},
		Search:  SearchConfig{Engine: SearchEngineTitle},
		Nav: []NavLink{
			{Label: "Home", Href: "#"},
			{Label: "About", Href: "#/about"},
			{Label: "Contact", Href: "#/contact"},
			{Label: "Disclaimer", Href: "#/disclaimer"},
		},
	}
}

// LoadConfig decodes a TOML config file over DefaultConfig. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error

	if c.Content.Dir == "" {
		errs = append(errs, errors.New("content.dir is required"))
	}

	switch c.Search.Engine {
	case SearchEngineTitle, SearchEngineFullText:
	default:
		errs = append(errs, fmt.Errorf("search.engine must be %q or %q, got %q", SearchEngineTitle, SearchEngineFullText, c.Search.Engine))
	}

	for name := range c.Pages {
		if !slices.Contains(StaticPageNames(), StaticPageName(name)) {
			errs = append(errs, fmt.Errorf("pages.%s is not a static page", name))
		}
	}

	for i, link := range c.Nav {
		if link.Label == "" || link.Href == "" {
			errs = append(errs, fmt.Errorf("nav[%d] needs a label and an href", i))
		}
	}

	return errors.Join(errs...)
}

// NewSearcher returns the searcher selected by search.engine.
func (c Config) NewSearcher() (Searcher, error) {
	if c.Search.Engine == SearchEngineFullText {
		index, err := NewFullTextIndex()
		if err != nil {
			return nil, err
		}
		return index, nil
	}
	return TitleSearcher{}, nil
}

// StaticPages renders the configured static pages from fsys. Pages without a file get only a title.
func (c Config) StaticPages(fsys fs.FS, render MarkdownRenderer) (map[StaticPageName]StaticContent, error) {
	if render == nil {
		render = DefaultMarkdownRenderer()
	}

	pages := make(map[StaticPageName]StaticContent, len(c.Pages))
	for name, page := range c.Pages {
		content := StaticContent{Title: page.Title}

		if page.File != "" {
			raw, err := fs.ReadFile(fsys, page.File)
			if err != nil {
				return nil, fmt.Errorf("failed to read page %s: %w", name, err)
			}

			content.HTML, err = render(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to render page %s: %w", name, err)
			}
		}

		pages[StaticPageName(name)] = content
	}

	return pages, nil
}

// Options converts the config into App options. Posts are loaded from Content.Dir in fsys.
func (c Config) Options(fsys fs.FS, renderer Renderer, logger *slog.Logger) (Options, error) {
	if logger == nil {
		logger = defaultLogger()
	}

	render := DefaultMarkdownRenderer()

	pages, err := c.StaticPages(fsys, render)
	if err != nil {
		return Options{}, err
	}

	searcher, err := c.NewSearcher()
	if err != nil {
		return Options{}, err
	}

	return Options{
		Loader:      NewFSLoader(fsys, c.Content.Dir, render, logger),
		Renderer:    renderer,
		Logger:      logger,
		PageSize:    c.Listing.PageSize,
		RecentCount: c.Widgets.RecentCount,
		Nav:         slices.Clone(c.Nav),
		StaticPages: pages,
		Searcher:    searcher,
	}, nil
}
