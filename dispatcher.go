package hashpress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const notFoundTitle = "Post Not Found"

// StaticContent is the rendered body of a static page.
type StaticContent struct {
	Title string
	HTML  string
}

// View is everything a renderer needs to rebuild the content area.
type View struct {
	Kind       ResultKind
	Fragment   string
	Title      string
	Posts      []Post         // Posts holds the posts to list: the current page when Pagination is set
	Post       Post           // Post is set for ResultSingle
	Static     StaticContent  // Static is set for ResultStatic
	Pagination *Paginator     // Pagination is nil for unpaginated listings
	SearchTerm string         // SearchTerm is set for search results
	Page       StaticPageName // Page is set for ResultStatic
}

// Renderer draws the regions of the page. Each call fully replaces the region it draws.
type Renderer interface {
	RenderNav(links []NavLink) error
	RenderSidebar(sidebar Sidebar) error
	RenderView(view View) error
	RenderTagWidget(widget TagWidget) error
	RenderError(message string) error
}

// ContentAreaChecker is implemented by renderers that can tell whether their content area exists.
type ContentAreaChecker interface {
	HasContentArea() bool
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	PageSize    int // PageSize of listings; 0 uses DefaultPageSize and a negative value disables pagination
	Nav         []NavLink
	StaticPages map[StaticPageName]StaticContent
	Searcher    Searcher // Searcher defaults to TitleSearcher
	Logger      *slog.Logger
}

// Dispatcher turns navigation events into rendered views. Events are handled one at a time;
// each one parses the fragment, marks the nav, resolves and paginates the posts, renders the view
// and finally rebuilds the tag widget from the new route.
type Dispatcher struct {
	store    *Store
	renderer Renderer
	opts     DispatcherOptions
	logger   *slog.Logger

	mu      sync.Mutex
	current string
}

// NewDispatcher creates a dispatcher over store. It fails with ErrNavigationSetup when there is no
// renderer or the renderer has no content area.
func NewDispatcher(store *Store, renderer Renderer, opts DispatcherOptions) (*Dispatcher, error) {
	if renderer == nil {
		return nil, fmt.Errorf("%w: no renderer", ErrNavigationSetup)
	}

	if checker, ok := renderer.(ContentAreaChecker); ok && !checker.HasContentArea() {
		return nil, fmt.Errorf("%w: content area is missing", ErrNavigationSetup)
	}

	if store == nil {
		return nil, fmt.Errorf("%w: no post store", ErrNavigationSetup)
	}

	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}

	if opts.Searcher == nil {
		opts.Searcher = TitleSearcher{}
	}

	if opts.Logger == nil {
		opts.Logger = defaultLogger()
	}

	return &Dispatcher{
		store:    store,
		renderer: renderer,
		opts:     opts,
		logger:   opts.Logger,
		current:  homeFragment,
	}, nil
}

// Current returns the fragment of the last navigation.
func (d *Dispatcher) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Navigate renders the view of fragment.
func (d *Dispatcher) Navigate(fragment string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.navigate(fragment)
}

// Refresh renders the current fragment again, e.g. after a reload.
func (d *Dispatcher) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.navigate(d.current)
}

func (d *Dispatcher) navigate(fragment string) error {
	route := ParseRoute(fragment)
	d.current = fragment

	if err := d.renderer.RenderNav(MarkActiveNav(d.opts.Nav, fragment)); err != nil {
		return d.renderFailed("navigation", err)
	}

	posts := d.store.Posts()
	result := Resolve(posts, route)
	view := d.view(fragment, route, result)

	if err := d.renderer.RenderView(view); err != nil {
		return d.renderFailed("view", err)
	}

	if err := d.renderer.RenderTagWidget(BuildTagWidget(posts, route, nil)); err != nil {
		return d.renderFailed("tag widget", err)
	}

	d.logger.Debug("route dispatched",
		slog.String("fragment", fragment),
		slog.String("result", result.Kind.String()),
		slog.Int("posts", len(view.Posts)))

	return nil
}

func (d *Dispatcher) view(fragment string, route Route, result Result) View {
	view := View{Kind: result.Kind, Fragment: fragment, Title: result.Title}

	switch result.Kind {
	case ResultList:
		view.Posts = result.Posts
		if listing, ok := ListingOf(route); ok && d.opts.PageSize > 0 {
			p := Paginate(result.Posts, listing.Page(), d.opts.PageSize, listing.BaseURL)
			view.Pagination = &p
			view.Posts = p.Items
		}

	case ResultSingle:
		view.Post = result.Post

	case ResultStatic:
		view.Page = result.Page
		view.Static = d.opts.StaticPages[result.Page]
		if view.Static.Title == "" {
			view.Static.Title = result.Title
		}
		view.Title = view.Static.Title

	case ResultNotFound:
		view.Title = notFoundTitle
	}

	return view
}

// ClickTag toggles a tag of the tag selection widget. An accepted click navigates to the new
// selection; a rejected one only redraws the widget with the limit signal.
func (d *Dispatcher) ClickTag(slug string) (ToggleResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	posts := d.store.Posts()
	route := ParseRoute(d.current)
	res := ToggleTag(TagSlugs(TagVocabulary(posts)), SelectedTags(route), slug)

	if res.Accepted {
		return res, d.navigate(res.Fragment)
	}

	if res.Limit != nil {
		d.logger.Debug("tag limit reached",
			slog.String("tag", res.Limit.Clicked),
			slog.Int("limit", MaxSelectedTags))
	}

	if err := d.renderer.RenderTagWidget(BuildTagWidget(posts, route, res.Limit)); err != nil {
		return res, d.renderFailed("tag widget", err)
	}

	return res, nil
}

// ClearTags navigates away from any tag selection.
func (d *Dispatcher) ClearTags() error {
	return d.Navigate(ClearAllFragment())
}

// Search renders the posts matching term without changing the route. An empty term lists every post
// and leaves a single post fragment for #/.
func (d *Dispatcher) Search(term string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	posts := d.store.Posts()
	term = NormalizeSearchTerm(term)

	if term == "" {
		if strings.HasPrefix(d.current, postsPrefix) {
			d.current = "#/"
		}
		return d.renderSearch(View{Kind: ResultList, Fragment: d.current, Title: allPostsTitle, Posts: posts})
	}

	found, err := d.opts.Searcher.Search(posts, term)
	if err != nil {
		d.logger.Error("search failed", slog.String("term", term), slog.String("error", err.Error()))
		return fmt.Errorf("failed to search posts: %w", err)
	}

	return d.renderSearch(View{
		Kind:       ResultList,
		Fragment:   d.current,
		Title:      SearchTitle(term),
		Posts:      found,
		SearchTerm: term,
	})
}

func (d *Dispatcher) renderSearch(view View) error {
	if err := d.renderer.RenderView(view); err != nil {
		return d.renderFailed("search results", err)
	}
	return nil
}

// SubmitSearch navigates to the first post matching term. It returns false when nothing matched.
func (d *Dispatcher) SubmitSearch(term string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if NormalizeSearchTerm(term) == "" {
		return false, nil
	}

	found, err := d.opts.Searcher.Search(d.store.Posts(), term)
	if err != nil {
		return false, fmt.Errorf("failed to search posts: %w", err)
	}

	if len(found) == 0 {
		return false, nil
	}

	return true, d.navigate(PostFragment(found[0].Slug()))
}

// ClearSearch navigates to #/.
func (d *Dispatcher) ClearSearch() error {
	return d.Navigate("#/")
}

// Run dispatches every fragment received until the channel is closed or ctx is done.
// A failed navigation is logged and does not stop the loop.
func (d *Dispatcher) Run(ctx context.Context, fragments <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fragment, ok := <-fragments:
			if !ok {
				return nil
			}
			if err := d.Navigate(fragment); err != nil {
				d.logger.Warn("navigation failed",
					slog.String("fragment", fragment),
					slog.String("error", err.Error()))
			}
		}
	}
}

func (d *Dispatcher) renderFailed(region string, err error) error {
	d.logger.Error("render failed", slog.String("region", region), slog.String("error", err.Error()))
	return fmt.Errorf("failed to render %s: %w", region, err)
}
