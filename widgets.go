package hashpress

import (
	"slices"
	"strings"
)

// DefaultRecentCount is the number of posts in the recent posts widget.
const DefaultRecentCount = 5

const untitledPost = "Untitled Post"

// Link is a labelled fragment.
type Link struct {
	Label string
	Href  string
}

// Sidebar holds the static sidebar widgets built once per load.
type Sidebar struct {
	Recent     []Link
	Categories []Link
	Authors    []Link
}

// BuildSidebar builds the sidebar widgets from posts sorted newest first.
// A recentCount below 1 uses DefaultRecentCount.
func BuildSidebar(posts []Post, recentCount int) Sidebar {
	if recentCount < 1 {
		recentCount = DefaultRecentCount
	}

	recent := make([]Link, 0, min(recentCount, len(posts)))
	for _, post := range posts[:min(recentCount, len(posts))] {
		title := post.Metadata.Title
		if strings.TrimSpace(title) == "" {
			title = untitledPost
		}
		recent = append(recent, Link{Label: title, Href: PostFragment(post.Slug())})
	}

	categories := make([]string, 0)
	authors := make([]string, 0)
	for _, post := range posts {
		if c := post.Metadata.Category; c != "" && !slices.Contains(categories, c) {
			categories = append(categories, c)
		}
		if a := strings.TrimSpace(post.Metadata.Author); a != "" && !slices.Contains(authors, a) {
			authors = append(authors, a)
		}
	}

	slices.Sort(categories)
	slices.SortFunc(authors, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	sidebar := Sidebar{
		Recent:     recent,
		Categories: make([]Link, 0, len(categories)),
		Authors:    make([]Link, 0, len(authors)),
	}
	for _, c := range categories {
		sidebar.Categories = append(sidebar.Categories, Link{Label: c, Href: CategoryFragment(c)})
	}
	for _, a := range authors {
		sidebar.Authors = append(sidebar.Authors, Link{Label: a, Href: AuthorFragment(a)})
	}

	return sidebar
}

// TagItem is one tag of the tag selection widget.
type TagItem struct {
	Label        string
	Slug         string
	Selected     bool
	LimitReached bool   // LimitReached flags the tag after a rejected click
	Href         string // Href is where clicking the tag navigates; empty when the selection is full and the tag is unselected
}

// TagWidget is the tag selection widget. It always mirrors the selection of the current route.
type TagWidget struct {
	Items        []TagItem
	Selected     []string
	ShowClearAll bool
	ClearAllHref string
	Limit        *LimitSignal
}

// BuildTagWidget builds the tag selection widget for the current route. Tags are collected from
// every post, one item per distinct slug, labelled by the first display name seen and sorted by label.
// limit is the signal of a rejected click, or nil.
func BuildTagWidget(posts []Post, route Route, limit *LimitSignal) TagWidget {
	selected := SelectedTags(route)
	available := TagVocabulary(posts)

	items := make([]TagItem, 0, len(available))
	for _, tag := range available {
		item := TagItem{
			Label:        tag.Label,
			Slug:         tag.Slug,
			Selected:     slices.Contains(selected, tag.Slug),
			LimitReached: limit.Targeted(tag.Slug),
		}
		if res := ToggleTag(nil, selected, tag.Slug); res.Accepted {
			item.Href = res.Fragment
		}
		items = append(items, item)
	}

	return TagWidget{
		Items:        items,
		Selected:     selected,
		ShowClearAll: ShowClearAll(selected),
		ClearAllHref: ClearAllFragment(),
		Limit:        limit,
	}
}

// Tag is a distinct tag of the collection.
type Tag struct {
	Label string
	Slug  string
}

// TagVocabulary returns the distinct tags of posts sorted by label.
func TagVocabulary(posts []Post) []Tag {
	tags := make([]Tag, 0)
	seen := make(map[string]struct{})
	for _, post := range posts {
		for _, label := range post.Metadata.Tags {
			slug := Slugify(label)
			if slug == "" {
				continue
			}
			if _, ok := seen[slug]; ok {
				continue
			}
			seen[slug] = struct{}{}
			tags = append(tags, Tag{Label: label, Slug: slug})
		}
	}

	slices.SortStableFunc(tags, func(a, b Tag) int {
		return strings.Compare(a.Label, b.Label)
	})
	return tags
}

// TagSlugs returns the slugs of tags in order.
func TagSlugs(tags []Tag) []string {
	slugs := make([]string, 0, len(tags))
	for _, tag := range tags {
		slugs = append(slugs, tag.Slug)
	}
	return slugs
}
