package hashpress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// LoadReport summarizes a call to Store.Load.
type LoadReport struct {
	Loaded  int          // Loaded is the number of posts kept in the store
	Skipped []ParseError // Skipped lists sources that were not loaded (parse failures and duplicate slugs)
}

// Store holds the posts of a session, sorted newest first.
// Posts are never mutated after a load; readers get copies.
type Store struct {
	posts  []Post
	bySlug map[string]int
	loaded bool
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewStore creates an empty store. A nil logger uses the default logger.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = defaultLogger()
	}

	return &Store{
		bySlug: make(map[string]int),
		logger: logger,
	}
}

// Load replaces the posts of the store with those of the loader. The previous posts stay
// visible until the new ones are swapped in, and a failed load keeps them.
//
// Posts without a slug after filling it from their source are rejected. Posts sharing a slug with an earlier-loaded post are rejected and reported in the LoadReport,
// so the first-loaded post always owns its slug. The kept posts are stable-sorted by date, newest first.
func (s *Store) Load(ctx context.Context, loader Loader) (LoadReport, error) {
	posts, err := loader.LoadPosts(ctx)
	if err != nil {
		return LoadReport{}, fmt.Errorf("%w: %w", ErrContentLoad, err)
	}

	if posts == nil {
		return LoadReport{}, fmt.Errorf("%w: loader returned nothing", ErrContentLoad)
	}

	var report LoadReport
	if reporter, ok := loader.(SkipReporter); ok {
		report.Skipped = append(report.Skipped, reporter.Skipped()...)
	}

	kept := make([]Post, 0, len(posts))
	seen := make(map[string]string, len(posts))
	for _, post := range posts {
		if post.Metadata.Slug == "" {
			post.Metadata.Slug = SlugFromSource(post.SourceID)
		}

		if post.Metadata.Slug == "" {
			s.logger.Warn("skipping post without slug", slog.String("source", post.SourceID))
			report.Skipped = append(report.Skipped, ParseError{
				SourceID: post.SourceID,
				Err:      fmt.Errorf("%w: cannot derive a slug", ErrInvalidFrontMatter),
			})
			continue
		}

		if first, dup := seen[post.Metadata.Slug]; dup {
			s.logger.Warn("duplicate slug, keeping first-loaded post",
				slog.String("slug", post.Metadata.Slug),
				slog.String("kept", first),
				slog.String("source", post.SourceID))
			report.Skipped = append(report.Skipped, ParseError{
				SourceID: post.SourceID,
				Err:      fmt.Errorf("%w: %s", ErrDuplicateSlug, post.Metadata.Slug),
			})
			continue
		}

		seen[post.Metadata.Slug] = post.SourceID
		kept = append(kept, post)
	}

	sortPosts(kept)

	bySlug := make(map[string]int, len(kept))
	for i, post := range kept {
		bySlug[post.Metadata.Slug] = i
	}

	s.mu.Lock()
	s.posts = kept
	s.bySlug = bySlug
	s.loaded = true
	s.mu.Unlock()

	report.Loaded = len(kept)
	s.logger.Info("posts loaded",
		slog.Int("posts", report.Loaded),
		slog.Int("skipped", len(report.Skipped)))

	return report, nil
}

// Reset clears all posts from the store.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	s.bySlug = make(map[string]int)
	s.loaded = false
}

// Loaded returns true once a load has completed successfully.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Len returns the number of posts in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Posts returns a snapshot of all posts, newest first. Changing the snapshot does not affect the store.
func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]Post, len(s.posts))
	for i, post := range s.posts {
		snapshot[i] = clonePost(post)
	}
	return snapshot
}

// Post retrieves a post by its slug.
func (s *Store) Post(slug string) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.bySlug[slug]
	if !ok {
		return Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, slug)
	}
	return clonePost(s.posts[idx]), nil
}

// IsNotFound reports whether err is a missing-post error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

func clonePost(post Post) Post {
	post.Metadata.Tags = slices.Clone(post.Metadata.Tags)
	return post
}

// sortPosts sorts posts by date, newest first. Posts with the same date keep their load order.
func sortPosts(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.PublishedTime().Compare(a.PublishedTime())
	})
}
