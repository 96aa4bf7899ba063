package hashpress

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	htmlchar "github.com/blevesearch/bleve/v2/analysis/char/html"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	unicodetok "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Searcher filters posts by a free-text term. Results keep the order of posts.
// An empty term matches every post.
type Searcher interface {
	Search(posts []Post, term string) ([]Post, error)
}

// Indexer is implemented by searchers that keep an index of the loaded posts.
type Indexer interface {
	Rebuild(posts []Post) error
}

// NormalizeSearchTerm trims and lowercases a search term.
func NormalizeSearchTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// TitleSearcher matches posts whose title contains the term, ignoring case.
type TitleSearcher struct{}

func (TitleSearcher) Search(posts []Post, term string) ([]Post, error) {
	term = NormalizeSearchTerm(term)
	if term == "" {
		return append([]Post(nil), posts...), nil
	}

	return filterPosts(posts, func(post Post) bool {
		return strings.Contains(strings.ToLower(post.Metadata.Title), term)
	}), nil
}

const contentAnalyzer = "html_content"

var searchFields = []string{"title", "content", "tags", "category", "author"}

// searchDoc is the indexed form of a post.
type searchDoc struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Author   string   `json:"author"`
}

// FullTextIndex searches posts with an in-memory bleve index over the title, content, tags,
// category and author. Rendered HTML is stripped before the content is tokenized.
// Unlike TitleSearcher it matches whole words, and every word of the term must appear in one field.
type FullTextIndex struct {
	index bleve.Index
	mu    sync.RWMutex
}

// NewFullTextIndex creates an empty index.
func NewFullTextIndex() (*FullTextIndex, error) {
	index, err := newMemIndex()
	if err != nil {
		return nil, err
	}
	return &FullTextIndex{index: index}, nil
}

// Rebuild replaces the indexed posts.
func (f *FullTextIndex) Rebuild(posts []Post) error {
	index, err := newMemIndex()
	if err != nil {
		return err
	}

	batch := index.NewBatch()
	for _, post := range posts {
		doc := searchDoc{
			Title:    post.Metadata.Title,
			Content:  post.Content,
			Tags:     post.Metadata.Tags,
			Category: post.Metadata.Category,
			Author:   strings.TrimSpace(post.Metadata.Author),
		}
		if err := batch.Index(post.Slug(), doc); err != nil {
			_ = index.Close()
			return fmt.Errorf("failed to index post %s: %w", post.Slug(), err)
		}
	}

	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return fmt.Errorf("failed to index posts: %w", err)
	}

	f.mu.Lock()
	old := f.index
	f.index = index
	f.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

// Search returns the posts matching term, in the order of posts. Posts that were not part of the
// last Rebuild are never matched.
func (f *FullTextIndex) Search(posts []Post, term string) ([]Post, error) {
	term = NormalizeSearchTerm(term)
	if term == "" {
		return append([]Post(nil), posts...), nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	count, err := f.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count indexed posts: %w", err)
	}

	if count == 0 {
		return []Post{}, nil
	}

	queries := make([]query.Query, 0, len(searchFields))
	for _, field := range searchFields {
		q := bleve.NewMatchQuery(term)
		q.SetField(field)
		q.SetOperator(query.MatchQueryOperatorAnd)
		queries = append(queries, q)
	}

	request := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), int(count), 0, false)
	result, err := f.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("error searching for posts: %w", err)
	}

	hits := make(map[string]struct{}, len(result.Hits))
	for _, hit := range result.Hits {
		hits[hit.ID] = struct{}{}
	}

	return filterPosts(posts, func(post Post) bool {
		_, ok := hits[post.Slug()]
		return ok
	}), nil
}

// Close releases the index.
func (f *FullTextIndex) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.index == nil {
		return nil
	}
	err := f.index.Close()
	f.index = nil
	return err
}

func newMemIndex() (bleve.Index, error) {
	m, err := searchMapping()
	if err != nil {
		return nil, err
	}

	index, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return index, nil
}

func searchMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(contentAnalyzer, map[string]any{
		"type":          custom.Name,
		"char_filters":  []string{htmlchar.Name},
		"tokenizer":     unicodetok.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to define content analyzer: %w", err)
	}

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = contentAnalyzer

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("title", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("content", contentField)
	docMapping.AddFieldMappingsAt("tags", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("category", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("author", bleve.NewTextFieldMapping())

	indexMapping.DefaultMapping = docMapping
	return indexMapping, nil
}
