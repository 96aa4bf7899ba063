package hashpress

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MoreMarker splits the teaser from the rest of a post's rendered content.
const MoreMarker = "<!-- more -->"

// Post is a single blog post loaded for the session.
type Post struct {
	Metadata PostMetadata `json:"metadata"` // Metadata is the decoded front matter
	Content  string       `json:"content"`  // Content is the rendered HTML of the post body
	SourceID string       `json:"sourceId"` // SourceID identifies where the post was loaded from (e.g. a file path)
}

// PostMetadata represents the front matter of a post
type PostMetadata struct {
	Title    string  `json:"title" yaml:"title" toml:"title"`
	Date     string  `json:"date" yaml:"date" toml:"date"` // Date is an ISO-8601 date (2006-01-02 or RFC 3339)
	Author   string  `json:"author" yaml:"author" toml:"author"`
	Type     string  `json:"type" yaml:"type" toml:"type"`
	Category string  `json:"category" yaml:"category" toml:"category"`
	Tags     TagList `json:"tags" yaml:"tags" toml:"tags"`
	Slug     string  `json:"slug" yaml:"slug" toml:"slug"`
}

// Validate checks the fields every post must carry.
func (m *PostMetadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrMissingTitle
	}

	if strings.TrimSpace(m.Date) == "" {
		return ErrMissingDate
	}

	return nil
}

// TagList is the list of tags of a post. In front matter it may be written as a list or as a single string.
type TagList []string

// UnmarshalYAML accepts both `tags: go` and `tags: [go, linux]`.
func (t *TagList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			*t = nil
			return nil
		}
		*t = TagList{node.Value}
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := node.Decode(&tags); err != nil {
			return fmt.Errorf("%w: tags: %w", ErrInvalidFrontMatter, err)
		}
		*t = tags
		return nil
	default:
		return fmt.Errorf("%w: tags must be a string or a list", ErrInvalidFrontMatter)
	}
}

// UnmarshalTOML accepts both `tags = "go"` and `tags = ["go", "linux"]`.
func (t *TagList) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case string:
		if v == "" {
			*t = nil
			return nil
		}
		*t = TagList{v}
		return nil
	case []any:
		tags := make(TagList, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("%w: tags must be strings", ErrInvalidFrontMatter)
			}
			tags = append(tags, s)
		}
		*t = tags
		return nil
	default:
		return fmt.Errorf("%w: tags must be a string or a list", ErrInvalidFrontMatter)
	}
}

// Slugs returns the distinct tag slugs of the list, in first-seen order.
func (t TagList) Slugs() []string {
	slugs := make([]string, 0, len(t))
	for _, tag := range t {
		s := Slugify(tag)
		if s == "" || slices.Contains(slugs, s) {
			continue
		}
		slugs = append(slugs, s)
	}
	return slugs
}

// HasSlug returns true if any tag of the list normalizes to tagSlug.
func (t TagList) HasSlug(tagSlug string) bool {
	for _, tag := range t {
		if Slugify(tag) == tagSlug {
			return true
		}
	}
	return false
}

// Slug returns the post's unique identifier.
func (p *Post) Slug() string {
	return p.Metadata.Slug
}

// HasTags returns true if the post has at least one tag
func (p *Post) HasTags() bool {
	return len(p.Metadata.Tags) > 0
}

// Teaser returns the rendered content up to the more marker and reports whether the post continues past it.
func (p *Post) Teaser() (string, bool) {
	idx := strings.Index(p.Content, MoreMarker)
	if idx == -1 {
		return p.Content, false
	}
	return p.Content[:idx], true
}

// PublishedTime returns the parsed post date, or the zero time if the date cannot be parsed.
func (p *Post) PublishedTime() time.Time {
	return parseDate(p.Metadata.Date)
}

// ReadingTime returns the estimated reading time of the post content.
func (p *Post) ReadingTime() string {
	return EstimateReadingTime(p.Content)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// EstimateReadingTime estimates the reading time of the content.
func EstimateReadingTime(content string) string {
	// Define reading speed in words per minute
	const wordsPerMinute = 200

	minutes := len(strings.Fields(content)) / wordsPerMinute

	switch {
	case minutes < 1:
		return "< 1 min"
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	default:
		return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
	}
}
