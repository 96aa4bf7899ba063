package hashpress_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/hashpress"
)

// recordingRenderer records every render call in order.
type recordingRenderer struct {
	mu      sync.Mutex
	calls   []string
	navs    [][]hashpress.NavLink
	views   []hashpress.View
	widgets []hashpress.TagWidget
	errs    []string
	sidebar *hashpress.Sidebar
	noArea  bool
	failOn  string
}

func (r *recordingRenderer) record(call string) error {
	r.calls = append(r.calls, call)
	if r.failOn == call {
		return errors.New("render exploded")
	}
	return nil
}

func (r *recordingRenderer) RenderNav(links []hashpress.NavLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, links)
	return r.record("nav")
}

func (r *recordingRenderer) RenderSidebar(sidebar hashpress.Sidebar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sidebar = &sidebar
	return r.record("sidebar")
}

func (r *recordingRenderer) RenderView(view hashpress.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
	return r.record("view")
}

func (r *recordingRenderer) RenderTagWidget(widget hashpress.TagWidget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets = append(r.widgets, widget)
	return r.record("tags")
}

func (r *recordingRenderer) RenderError(message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, message)
	return r.record("error")
}

func (r *recordingRenderer) HasContentArea() bool {
	return !r.noArea
}

func (r *recordingRenderer) lastView(t *testing.T) hashpress.View {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.views)
	return r.views[len(r.views)-1]
}

func (r *recordingRenderer) lastWidget(t *testing.T) hashpress.TagWidget {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.widgets)
	return r.widgets[len(r.widgets)-1]
}

func loadedStore(t *testing.T, posts []hashpress.Post) *hashpress.Store {
	t.Helper()
	store := hashpress.NewStore(discardLogger())
	_, err := store.Load(context.Background(), staticLoader(posts))
	require.NoError(t, err)
	return store
}

func newDispatcher(t *testing.T, posts []hashpress.Post, opts hashpress.DispatcherOptions) (*hashpress.Dispatcher, *recordingRenderer) {
	t.Helper()
	renderer := &recordingRenderer{}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	d, err := hashpress.NewDispatcher(loadedStore(t, posts), renderer, opts)
	require.NoError(t, err)
	return d, renderer
}

func TestNewDispatcher_SetupFailures(t *testing.T) {
	store := hashpress.NewStore(discardLogger())

	_, err := hashpress.NewDispatcher(store, nil, hashpress.DispatcherOptions{Logger: discardLogger()})
	assert.ErrorIs(t, err, hashpress.ErrNavigationSetup)

	_, err = hashpress.NewDispatcher(store, &recordingRenderer{noArea: true}, hashpress.DispatcherOptions{Logger: discardLogger()})
	assert.ErrorIs(t, err, hashpress.ErrNavigationSetup)

	_, err = hashpress.NewDispatcher(nil, &recordingRenderer{}, hashpress.DispatcherOptions{Logger: discardLogger()})
	assert.ErrorIs(t, err, hashpress.ErrNavigationSetup)
}

func TestDispatcher_NavigateRenderOrder(t *testing.T) {
	d, renderer := newDispatcher(t, samplePosts(), hashpress.DispatcherOptions{Nav: navLinks()})

	require.NoError(t, d.Navigate("#/type/tutorials"))

	assert.Equal(t, []string{"nav", "view", "tags"}, renderer.calls)
	assert.Equal(t, []string{"Tutorials"}, activeLabels(renderer.navs[0]))
	assert.Equal(t, "#/type/tutorials", d.Current())
}

func TestDispatcher_NavigateListing(t *testing.T) {
	d, renderer := newDispatcher(t, numberedPosts(7), hashpress.DispatcherOptions{PageSize: 3})

	require.NoError(t, d.Navigate("#/page/3"))

	view := renderer.lastView(t)
	assert.Equal(t, hashpress.ResultList, view.Kind)
	assert.Equal(t, "All Posts", view.Title)
	assert.Equal(t, []string{"p7"}, slugsOf(view.Posts))
	require.NotNil(t, view.Pagination)
	assert.Equal(t, 3, view.Pagination.CurrentPage)
	assert.Equal(t, "#/page/2", view.Pagination.PrevLink)
	assert.False(t, view.Pagination.HasNext)

	require.NoError(t, d.Navigate("#/page/99"))

	view = renderer.lastView(t)
	assert.Equal(t, []string{"p7"}, slugsOf(view.Posts))
	assert.Equal(t, 3, view.Pagination.CurrentPage)
	assert.Equal(t, "#/page/99", d.Current())
}

func TestDispatcher_NegativePageSizeDisablesPagination(t *testing.T) {
	d, renderer := newDispatcher(t, numberedPosts(15), hashpress.DispatcherOptions{PageSize: -1})

	require.NoError(t, d.Navigate("#"))

	view := renderer.lastView(t)
	assert.Nil(t, view.Pagination)
	assert.Len(t, view.Posts, 15)
}

func TestDispatcher_NavigateSingleAndNotFound(t *testing.T) {
	d, renderer := newDispatcher(t, samplePosts(), hashpress.DispatcherOptions{})

	require.NoError(t, d.Navigate("#/posts/a"))
	view := renderer.lastView(t)
	assert.Equal(t, hashpress.ResultSingle, view.Kind)
	assert.Equal(t, "Post A", view.Post.Metadata.Title)
	assert.Nil(t, view.Pagination)

	require.NoError(t, d.Navigate("#/posts/nope"))
	view = renderer.lastView(t)
	assert.Equal(t, hashpress.ResultNotFound, view.Kind)
	assert.Equal(t, "Post Not Found", view.Title)
}

func TestDispatcher_NavigateStaticPage(t *testing.T) {
	d, renderer := newDispatcher(t, samplePosts(), hashpress.DispatcherOptions{
		StaticPages: map[hashpress.StaticPageName]hashpress.StaticContent{
			hashpress.PageAbout: {Title: "About Us", HTML: "<p>Hi.</p>"},
		},
	})

	require.NoError(t, d.Navigate("#/about"))
	view := renderer.lastView(t)
	assert.Equal(t, hashpress.ResultStatic, view.Kind)
	assert.Equal(t, "About Us", view.Title)
	assert.Equal(t, "<p>Hi.</p>", view.Static.HTML)

	require.NoError(t, d.Navigate("#/contact"))
	view = renderer.lastView(t)
	assert.Equal(t, "Contact", view.Title)
	assert.Empty(t, view.Static.HTML)
}

func TestDispatcher_EmptyStore(t *testing.T) {
	renderer := &recordingRenderer{}
	d, err := hashpress.NewDispatcher(hashpress.NewStore(discardLogger()), renderer, hashpress.DispatcherOptions{Logger: discardLogger()})
	require.NoError(t, err)

	require.NoError(t, d.Navigate("#/tags/go"))
	view := renderer.lastView(t)
	assert.Equal(t, hashpress.ResultList, view.Kind)
	assert.Empty(t, view.Posts)
	assert.Empty(t, renderer.lastWidget(t).Items)
}

func TestDispatcher_ClickTag(t *testing.T) {
	posts := append(samplePosts(), newPost("d", "2023-01-01", "Rust"))
	d, renderer := newDispatcher(t, posts, hashpress.DispatcherOptions{})

	require.NoError(t, d.Navigate("#/tags/go/page/2"))

	res, err := d.ClickTag("linux")
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "#/tags/go+linux", d.Current())
	assert.Equal(t, []string{"a"}, slugsOf(renderer.lastView(t).Posts))
	assert.True(t, renderer.lastWidget(t).ShowClearAll)

	_, err = d.ClickTag("c-tips")
	require.NoError(t, err)
	assert.Equal(t, "#/tags/go+linux+c-tips", d.Current())

	calls := len(renderer.calls)
	res, err = d.ClickTag("rust")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, "#/tags/go+linux+c-tips", d.Current())
	// A rejected click only redraws the widget
	assert.Equal(t, []string{"tags"}, renderer.calls[calls:])

	widget := renderer.lastWidget(t)
	require.NotNil(t, widget.Limit)
	assert.Equal(t, []string{"rust"}, widget.Limit.Targets)

	// The next render starts without the signal
	_, err = d.ClickTag("go")
	require.NoError(t, err)
	assert.Nil(t, renderer.lastWidget(t).Limit)
	assert.Equal(t, "#/tags/linux+c-tips", d.Current())

	require.NoError(t, d.ClearTags())
	assert.Equal(t, "#", d.Current())
	assert.Empty(t, renderer.lastWidget(t).Selected)
}

func TestDispatcher_Search(t *testing.T) {
	d, renderer := newDispatcher(t, searchPosts(), hashpress.DispatcherOptions{})

	require.NoError(t, d.Navigate("#/posts/pentest-notes"))

	require.NoError(t, d.Search("  KUBER "))
	view := renderer.lastView(t)
	assert.Equal(t, `Search Results for: "kuber"`, view.Title)
	assert.Equal(t, "kuber", view.SearchTerm)
	assert.Equal(t, []string{"kubernetes-intro", "rust-tips"}, slugsOf(view.Posts))
	assert.Nil(t, view.Pagination)
	assert.Equal(t, "#/posts/pentest-notes", d.Current())

	require.NoError(t, d.Search(""))
	view = renderer.lastView(t)
	assert.Equal(t, "All Posts", view.Title)
	assert.Len(t, view.Posts, 3)
	assert.Equal(t, "#/", d.Current())
}

func TestDispatcher_SubmitAndClearSearch(t *testing.T) {
	d, renderer := newDispatcher(t, searchPosts(), hashpress.DispatcherOptions{})

	found, err := d.SubmitSearch("kubernetes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "#/posts/kubernetes-intro", d.Current())
	assert.Equal(t, hashpress.ResultSingle, renderer.lastView(t).Kind)

	found, err = d.SubmitSearch("haskell")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "#/posts/kubernetes-intro", d.Current())

	require.NoError(t, d.ClearSearch())
	assert.Equal(t, "#/", d.Current())
	assert.Equal(t, "All Posts", renderer.lastView(t).Title)
}

type failingSearcher struct{}

func (failingSearcher) Search([]hashpress.Post, string) ([]hashpress.Post, error) {
	return nil, errors.New("index gone")
}

func TestDispatcher_SearchFailure(t *testing.T) {
	d, _ := newDispatcher(t, searchPosts(), hashpress.DispatcherOptions{Searcher: failingSearcher{}})

	assert.Error(t, d.Search("kubernetes"))

	_, err := d.SubmitSearch("kubernetes")
	assert.Error(t, err)
}

func TestDispatcher_RenderFailureIsReported(t *testing.T) {
	renderer := &recordingRenderer{failOn: "view"}
	d, err := hashpress.NewDispatcher(loadedStore(t, samplePosts()), renderer, hashpress.DispatcherOptions{Logger: discardLogger()})
	require.NoError(t, err)

	err = d.Navigate("#")
	assert.Error(t, err)
	// The tag widget is not drawn over a failed view
	assert.Equal(t, []string{"nav", "view"}, renderer.calls)
}

func TestDispatcher_Run(t *testing.T) {
	d, renderer := newDispatcher(t, samplePosts(), hashpress.DispatcherOptions{})

	fragments := make(chan string)
	done := make(chan error, 1)
	go func() {
		done <- d.Run(context.Background(), fragments)
	}()

	for _, fragment := range []string{"#/posts/a", "#/tags/go", "#/category/red-team"} {
		fragments <- fragment
	}
	close(fragments)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}

	assert.Equal(t, "#/category/red-team", d.Current())
	assert.Len(t, renderer.views, 3)
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	d, _ := newDispatcher(t, samplePosts(), hashpress.DispatcherOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx, make(chan string))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatcher_ConcurrentEvents(t *testing.T) {
	d, renderer := newDispatcher(t, samplePosts(), hashpress.DispatcherOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = d.Navigate(fmt.Sprintf("#/page/%d", i%3+1))
		}(i)
	}
	wg.Wait()

	// Every event renders nav, view and tags without interleaving
	require.Len(t, renderer.calls, 60)
	for i := 0; i < len(renderer.calls); i += 3 {
		assert.Equal(t, []string{"nav", "view", "tags"}, renderer.calls[i:i+3])
	}
}
