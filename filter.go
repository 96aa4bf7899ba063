package hashpress

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ResultKind tells a renderer how to present a Result.
type ResultKind int

const (
	ResultList ResultKind = iota
	ResultSingle
	ResultStatic
	ResultNotFound
)

func (k ResultKind) String() string {
	switch k {
	case ResultList:
		return "list"
	case ResultSingle:
		return "single"
	case ResultStatic:
		return "static"
	case ResultNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Result is the outcome of resolving a route against a collection of posts.
type Result struct {
	Kind  ResultKind
	Title string
	Posts []Post         // Posts is the filtered listing, in collection order
	Post  Post           // Post is set for ResultSingle
	Page  StaticPageName // Page is set for ResultStatic
}

const allPostsTitle = "All Posts"

// displayTitle capitalizes words of a fragment value. Casers keep state, so each call gets its own.
func displayTitle(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// Resolve applies a route to posts. Listings keep the order of posts, so a sorted collection
// yields a sorted listing. An empty listing is still a ResultList; only a missing single post is ResultNotFound.
func Resolve(posts []Post, route Route) Result {
	switch r := route.(type) {
	case Home:
		return listResult(allPostsTitle, posts)

	case SinglePost:
		for _, post := range posts {
			if post.Slug() == r.Slug {
				return Result{Kind: ResultSingle, Title: post.Metadata.Title, Post: post}
			}
		}
		return Result{Kind: ResultNotFound}

	case ByType:
		want := r.MatchType()
		return listResult("Showing: "+displayTitle(r.Type), filterPosts(posts, func(post Post) bool {
			return post.Metadata.Type != "" && strings.ToLower(post.Metadata.Type) == want
		}))

	case ByCategory:
		matched := filterPosts(posts, func(post Post) bool {
			return post.Metadata.Category != "" && Slugify(post.Metadata.Category) == r.CategorySlug
		})
		name := r.CategorySlug
		if len(matched) > 0 {
			name = matched[0].Metadata.Category
		}
		return listResult("Category: "+name, matched)

	case ByTags:
		if len(r.TagSlugs) == 0 {
			return listResult(allPostsTitle, posts)
		}
		matched := filterPosts(posts, func(post Post) bool {
			for _, slug := range r.TagSlugs {
				if !post.Metadata.Tags.HasSlug(slug) {
					return false
				}
			}
			return true
		})
		named := posts
		if len(matched) > 0 {
			named = matched
		}
		return listResult(tagsTitle(named, r.TagSlugs), matched)

	case ByAuthor:
		matched := filterPosts(posts, func(post Post) bool {
			return post.Metadata.Author != "" && Slugify(post.Metadata.Author) == r.AuthorSlug
		})
		name := r.AuthorSlug
		if len(matched) > 0 {
			name = strings.TrimSpace(matched[0].Metadata.Author)
		}
		return listResult("Author: "+name, matched)

	case StaticPage:
		return Result{Kind: ResultStatic, Title: displayTitle(string(r.Name)), Page: r.Name}

	default:
		return Result{Kind: ResultNotFound}
	}
}

// SearchTitle is the listing title of a search for term.
func SearchTitle(term string) string {
	return `Search Results for: "` + term + `"`
}

func listResult(title string, posts []Post) Result {
	return Result{Kind: ResultList, Title: title, Posts: posts}
}

func filterPosts(posts []Post, keep func(Post) bool) []Post {
	matched := make([]Post, 0, len(posts))
	for _, post := range posts {
		if keep(post) {
			matched = append(matched, post)
		}
	}
	return matched
}

// tagsTitle names the selected tags by the first display name found in posts for each slug.
func tagsTitle(posts []Post, slugs []string) string {
	names := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		names = append(names, "#"+tagDisplayName(posts, slug))
	}

	if len(names) == 1 {
		return "Tag: " + names[0]
	}
	return "Tags: " + strings.Join(names, " + ")
}

func tagDisplayName(posts []Post, slug string) string {
	for _, post := range posts {
		for _, tag := range post.Metadata.Tags {
			if Slugify(tag) == slug {
				return tag
			}
		}
	}
	return slug
}
