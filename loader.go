package hashpress

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// Loader loads the posts of a session. It is called once per (re)load.
//
// A nil slice with a nil error means the loader returned nothing and is treated as a content load failure.
// A non-nil empty slice is a valid, empty blog.
type Loader interface {
	LoadPosts(ctx context.Context) ([]Post, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]Post, error)

// LoadPosts calls f(ctx).
func (f LoaderFunc) LoadPosts(ctx context.Context) ([]Post, error) {
	return f(ctx)
}

// ParseError records a single source that could not be turned into a post.
type ParseError struct {
	SourceID string
	Err      error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.SourceID, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// SkipReporter is implemented by loaders that can report the sources skipped during their last load.
type SkipReporter interface {
	Skipped() []ParseError
}

// FSLoader loads markdown posts from a directory of a file system.
type FSLoader struct {
	fsys    fs.FS
	dir     string
	render  MarkdownRenderer
	logger  *slog.Logger
	mu      sync.Mutex
	skipped []ParseError
}

// NewFSLoader creates a loader for the *.md files under dir in fsys.
// A nil render uses DefaultMarkdownRenderer and a nil logger uses the default logger.
func NewFSLoader(fsys fs.FS, dir string, render MarkdownRenderer, logger *slog.Logger) *FSLoader {
	if render == nil {
		render = DefaultMarkdownRenderer()
	}

	if logger == nil {
		logger = defaultLogger()
	}

	if dir == "" {
		dir = "."
	}

	return &FSLoader{fsys: fsys, dir: dir, render: render, logger: logger}
}

// LoadPosts walks the directory in lexical order and parses every markdown file.
// Files that fail to parse are logged and skipped; they never abort the load.
func (l *FSLoader) LoadPosts(ctx context.Context) ([]Post, error) {
	posts := make([]Post, 0)
	var skipped []ParseError

	err := fs.WalkDir(l.fsys, l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".md") {
			return nil
		}

		post, err := l.readPost(p)
		if err != nil {
			l.logger.Warn("skipping post",
				slog.String("source", p),
				slog.String("error", err.Error()))
			skipped = append(skipped, ParseError{SourceID: p, Err: err})
			return nil
		}

		posts = append(posts, post)
		return nil
	})

	l.mu.Lock()
	l.skipped = skipped
	l.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", l.dir, err)
	}

	return posts, nil
}

// Skipped returns the sources skipped during the last call to LoadPosts.
func (l *FSLoader) Skipped() []ParseError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ParseError(nil), l.skipped...)
}

func (l *FSLoader) readPost(p string) (Post, error) {
	raw, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Post{}, fmt.Errorf("failed to read file: %w", err)
	}

	meta, content, err := ParseDocument(l.render, raw)
	if err != nil {
		return Post{}, err
	}

	// Posts without an explicit slug take it from their file name
	if strings.TrimSpace(meta.Slug) == "" {
		meta.Slug = SlugFromSource(p)
	}

	if meta.Slug == "" {
		return Post{}, fmt.Errorf("%w: cannot derive a slug", ErrInvalidFrontMatter)
	}

	return Post{
		Metadata: meta,
		Content:  content,
		SourceID: p,
	}, nil
}
