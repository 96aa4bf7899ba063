package hashpress_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/hashpress"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func blogFS() fstest.MapFS {
	return fstest.MapFS{
		"blogs/first-post.md": {Data: []byte("---\ntitle: First Post\ndate: 2024-01-01\nauthor: Jane Doe\ntype: tutorial\ncategory: Red Team\ntags: [Go, Linux]\n---\nHello *world*.\n\n<!-- more -->\n\nMore text.\n")},
		"blogs/Second Post.md": {Data: []byte("---\ntitle: Second Post\ndate: 2024-02-01\nauthor: John Smith\ntype: news\ncategory: Blue Team\ntags: Go\n---\nSecond body.\n")},
		"blogs/custom.md":      {Data: []byte("---\ntitle: Custom Slug\ndate: 2024-03-01\nslug: my-custom-slug\n---\nCustom.\n")},
		"blogs/toml-post.md":   {Data: []byte("+++\ntitle = \"Toml Post\"\ndate = \"2023-12-01\"\ntags = [\"Rust\"]\n+++\nToml body.\n")},
		"blogs/broken.md":      {Data: []byte("No front matter at all.\n")},
		"blogs/untitled.md":    {Data: []byte("---\ndate: 2024-01-01\n---\nNo title.\n")},
		"blogs/notes.txt":      {Data: []byte("not markdown")},
	}
}

func TestFSLoader_LoadPosts(t *testing.T) {
	loader := hashpress.NewFSLoader(blogFS(), "blogs", nil, discardLogger())

	posts, err := loader.LoadPosts(context.Background())
	require.NoError(t, err)

	slugs := make([]string, 0, len(posts))
	for _, post := range posts {
		slugs = append(slugs, post.Metadata.Slug)
	}

	// Lexical walk order, failing files skipped
	assert.Equal(t, []string{"second-post", "my-custom-slug", "first-post", "toml-post"}, slugs)

	first := posts[2]
	assert.Equal(t, "First Post", first.Metadata.Title)
	assert.Equal(t, "blogs/first-post.md", first.SourceID)
	assert.Equal(t, hashpress.TagList{"Go", "Linux"}, first.Metadata.Tags)
	assert.Contains(t, first.Content, "<em>world</em>")
	assert.Contains(t, first.Content, hashpress.MoreMarker)

	skipped := loader.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, "blogs/broken.md", skipped[0].SourceID)
	assert.ErrorIs(t, skipped[0], hashpress.ErrNoFrontMatter)
	assert.Equal(t, "blogs/untitled.md", skipped[1].SourceID)
	assert.ErrorIs(t, skipped[1], hashpress.ErrMissingTitle)
}

func TestFSLoader_EmptyDirectory(t *testing.T) {
	fsys := fstest.MapFS{"blogs/readme.txt": {Data: []byte("nothing")}}
	loader := hashpress.NewFSLoader(fsys, "blogs", nil, discardLogger())

	posts, err := loader.LoadPosts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestFSLoader_MissingDirectory(t *testing.T) {
	loader := hashpress.NewFSLoader(fstest.MapFS{}, "blogs", nil, discardLogger())

	_, err := loader.LoadPosts(context.Background())
	assert.Error(t, err)
}

func TestFSLoader_CanceledContext(t *testing.T) {
	loader := hashpress.NewFSLoader(blogFS(), "blogs", nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.LoadPosts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
