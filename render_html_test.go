package hashpress_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/hashpress"
)

func htmlDispatcher(t *testing.T, posts []hashpress.Post, pageSize int) (*hashpress.Dispatcher, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var content, tags bytes.Buffer
	renderer := hashpress.NewHTMLRenderer(hashpress.HTMLRegions{Content: &content, Tags: &tags})
	d, err := hashpress.NewDispatcher(loadedStore(t, posts), renderer, hashpress.DispatcherOptions{
		PageSize: pageSize,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	return d, &content, &tags
}

func TestHTMLRenderer_List(t *testing.T) {
	posts := samplePosts()
	posts[0].Content = "<p>Intro.</p>\n<!-- more -->\n<p>Rest.</p>"
	posts[1].Content = "<p>Short.</p>"

	d, content, _ := htmlDispatcher(t, posts, 2)
	require.NoError(t, d.Navigate("#"))

	out := content.String()
	assert.Contains(t, out, "<h2>All Posts</h2>")
	assert.Contains(t, out, `<a href="#/posts/a">Post A</a>`)
	assert.Contains(t, out, "<p>Intro.</p>")
	assert.NotContains(t, out, "<p>Rest.</p>")
	assert.Contains(t, out, `class="read-more">[ Continue Reading &rarr; ]</a>`)
	assert.Contains(t, out, "<p>Short.</p>")
	assert.Contains(t, out, `<a href="#/author/jane-doe">Jane Doe</a>`)
	assert.Contains(t, out, `<a href="#/tags/linux">[#Linux]</a>`)
	assert.Contains(t, out, `<span class="disabled">Previous</span>`)
	assert.Contains(t, out, `<span class="page-indicator">Page 1 of 2</span>`)
	assert.Contains(t, out, `<a href="#/page/2">Next</a>`)
	assert.NotContains(t, out, `href="#/posts/c"`)
}

func TestHTMLRenderer_EmptyListAndNoPagination(t *testing.T) {
	d, content, tags := htmlDispatcher(t, samplePosts(), 10)

	require.NoError(t, d.Navigate("#/category/purple"))
	assert.Contains(t, content.String(), "<p>No posts found matching the criteria.</p>")
	assert.NotContains(t, content.String(), "pagination")
	assert.Contains(t, tags.String(), "#Go")
}

func TestHTMLRenderer_SingleAndNotFound(t *testing.T) {
	posts := samplePosts()
	posts[2].Content = "<p>Full <!-- more --> body.</p>"
	posts[2].Metadata.Author = ""
	posts[2].Metadata.Tags = nil

	d, content, _ := htmlDispatcher(t, posts, 10)

	require.NoError(t, d.Navigate("#/posts/c"))
	out := content.String()
	assert.Contains(t, out, "<h2>Post C</h2>")
	assert.Contains(t, out, "<p>Full <!-- more --> body.</p>")
	assert.Contains(t, out, "&larr; Back to posts")
	assert.Contains(t, out, `<a href="#/author/unknown-author">Unknown Author</a>`)
	assert.Contains(t, out, "Tags: N/A")

	content.Reset()
	require.NoError(t, d.Navigate("#/posts/none"))
	assert.Contains(t, content.String(), "<h2>Post Not Found</h2>")
}

func TestHTMLRenderer_EscapesMetadata(t *testing.T) {
	posts := samplePosts()
	posts[0].Metadata.Title = "<script>alert(1)</script>"

	d, content, _ := htmlDispatcher(t, posts, 10)
	require.NoError(t, d.Navigate("#"))

	assert.NotContains(t, content.String(), "<script>")
	assert.Contains(t, content.String(), "&lt;script&gt;")
}

func TestHTMLRenderer_TagWidget(t *testing.T) {
	d, _, tags := htmlDispatcher(t, samplePosts(), 10)

	require.NoError(t, d.Navigate("#/tags/go+linux"))
	out := tags.String()
	assert.Contains(t, out, `<a href="#/tags/linux" class="tag selected">#Go</a>`)
	assert.Contains(t, out, `c-tips" class="tag">#C&#43;&#43; Tips</a>`)
	assert.Contains(t, out, `class="clear-all">[ Clear all ]</a>`)
}

func TestHTMLRenderer_SidebarNavAndError(t *testing.T) {
	var nav, sidebar, content bytes.Buffer
	renderer := hashpress.NewHTMLRenderer(hashpress.HTMLRegions{Content: &content, Nav: &nav, Sidebar: &sidebar})

	require.NoError(t, renderer.RenderNav(hashpress.MarkActiveNav(navLinks(), "#/about")))
	assert.Contains(t, nav.String(), `<a href="#/about" class="active">About</a>`)
	assert.Contains(t, nav.String(), `<a href="#">Home</a>`)

	require.NoError(t, renderer.RenderSidebar(hashpress.BuildSidebar(samplePosts(), 5)))
	assert.Contains(t, sidebar.String(), `<a href="#/category/blue-team">[ Blue Team ]</a>`)
	assert.Contains(t, sidebar.String(), `<a href="#/posts/a">Post A</a>`)

	sidebar.Reset()
	require.NoError(t, renderer.RenderSidebar(hashpress.BuildSidebar(nil, 5)))
	assert.Contains(t, sidebar.String(), "No posts found.")
	assert.Contains(t, sidebar.String(), "No categories found.")
	assert.Contains(t, sidebar.String(), "No authors found.")

	require.NoError(t, renderer.RenderError(hashpress.MessageLoadFailed))
	assert.Contains(t, content.String(), "<p>Error loading site content. Please try again later.</p>")

	// Regions without a writer are skipped
	require.NoError(t, renderer.RenderTagWidget(hashpress.TagWidget{}))
	assert.True(t, renderer.HasContentArea())
	assert.False(t, hashpress.NewHTMLRenderer(hashpress.HTMLRegions{}).HasContentArea())
}
