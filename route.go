package hashpress

import (
	"slices"
	"strconv"
	"strings"
)

const (
	homeFragment   = "#"
	pageSeparator  = "/page/"
	postsPrefix    = "#/posts/"
	typePrefix     = "#/type/"
	categoryPrefix = "#/category/"
	tagsPrefix     = "#/tags/"
	authorPrefix   = "#/author/"
	tagSeparator   = "+"
)

// StaticPageName names one of the built-in static pages.
type StaticPageName string

const (
	PageAbout      StaticPageName = "about"
	PageContact    StaticPageName = "contact"
	PageDisclaimer StaticPageName = "disclaimer"
)

// StaticPageNames lists the static pages in navigation order.
func StaticPageNames() []StaticPageName {
	return []StaticPageName{PageAbout, PageContact, PageDisclaimer}
}

// Route is the parsed form of a URL fragment. The set of routes is closed:
// Home, SinglePost, ByType, ByCategory, ByTags, ByAuthor, StaticPage and NotFound.
type Route interface {
	// Fragment returns the canonical fragment of the route.
	Fragment() string
	isRoute()
}

// Listing carries the pagination state shared by the listing routes.
type Listing struct {
	PageNumber int    // PageNumber is the requested 1-based page
	BaseURL    string // BaseURL is the fragment pagination links are built from
}

// Page returns the requested page number, at least 1.
func (l Listing) Page() int {
	if l.PageNumber < 1 {
		return 1
	}
	return l.PageNumber
}

func (l Listing) fragment() string {
	if l.PageNumber > 1 {
		return l.BaseURL + pageSeparator + strconv.Itoa(l.PageNumber)
	}
	return l.BaseURL
}

// ListingOf returns the pagination state of a listing route.
func ListingOf(route Route) (Listing, bool) {
	switch r := route.(type) {
	case Home:
		return r.Listing, true
	case ByType:
		return r.Listing, true
	case ByCategory:
		return r.Listing, true
	case ByTags:
		return r.Listing, true
	case ByAuthor:
		return r.Listing, true
	default:
		return Listing{}, false
	}
}

// Home lists every post.
type Home struct {
	Listing
}

// SinglePost shows one post by slug.
type SinglePost struct {
	Slug string
}

// ByType lists posts of one type. Type keeps the fragment's spelling (e.g. "tutorials").
type ByType struct {
	Type string
	Listing
}

// MatchType returns the lowercased type compared against post metadata, with a trailing
// lowercase s removed.
func (r ByType) MatchType() string {
	return strings.ToLower(strings.TrimSuffix(r.Type, "s"))
}

// ByCategory lists posts whose category slugifies to CategorySlug.
type ByCategory struct {
	CategorySlug string
	Listing
}

// ByTags lists posts carrying every tag in TagSlugs. The slugs are unique and kept in selection order.
type ByTags struct {
	TagSlugs []string
	Listing
}

// ByAuthor lists posts whose author slugifies to AuthorSlug.
type ByAuthor struct {
	AuthorSlug string
	Listing
}

// StaticPage shows one of the built-in pages.
type StaticPage struct {
	Name StaticPageName
}

// NotFound is the route of content that does not exist.
type NotFound struct{}

func (Home) isRoute()       {}
func (SinglePost) isRoute() {}
func (ByType) isRoute()     {}
func (ByCategory) isRoute() {}
func (ByTags) isRoute()     {}
func (ByAuthor) isRoute()   {}
func (StaticPage) isRoute() {}
func (NotFound) isRoute()   {}

func (r Home) Fragment() string       { return r.fragment() }
func (r SinglePost) Fragment() string { return postsPrefix + r.Slug }
func (r ByType) Fragment() string     { return r.fragment() }
func (r ByCategory) Fragment() string { return r.fragment() }
func (r ByTags) Fragment() string     { return r.fragment() }
func (r ByAuthor) Fragment() string   { return r.fragment() }
func (r StaticPage) Fragment() string { return "#/" + string(r.Name) }
func (r NotFound) Fragment() string   { return homeFragment }

// NewHome returns the home route for the given page.
func NewHome(page int) Home {
	return Home{Listing{PageNumber: page, BaseURL: homeFragment}}
}

// NewByType returns the type route for the given page.
func NewByType(postType string, page int) ByType {
	return ByType{Type: postType, Listing: Listing{PageNumber: page, BaseURL: typePrefix + postType}}
}

// NewByCategory returns the category route for the given page.
func NewByCategory(categorySlug string, page int) ByCategory {
	return ByCategory{CategorySlug: categorySlug, Listing: Listing{PageNumber: page, BaseURL: categoryPrefix + categorySlug}}
}

// NewByTags returns the tag route for the given page. Empty and repeated slugs are dropped.
func NewByTags(tagSlugs []string, page int) ByTags {
	slugs := uniqueNonEmpty(tagSlugs)
	return ByTags{TagSlugs: slugs, Listing: Listing{PageNumber: page, BaseURL: tagsPrefix + strings.Join(slugs, tagSeparator)}}
}

// NewByAuthor returns the author route for the given page.
func NewByAuthor(authorSlug string, page int) ByAuthor {
	return ByAuthor{AuthorSlug: authorSlug, Listing: Listing{PageNumber: page, BaseURL: authorPrefix + authorSlug}}
}

// TagsFragment builds the fragment selecting the given tags. An empty selection is the home fragment.
func TagsFragment(tagSlugs []string) string {
	slugs := uniqueNonEmpty(tagSlugs)
	if len(slugs) == 0 {
		return homeFragment
	}
	return tagsPrefix + strings.Join(slugs, tagSeparator)
}

// PostFragment builds the fragment of a single post.
func PostFragment(slug string) string {
	return postsPrefix + slug
}

// CategoryFragment builds the fragment listing a category by its display name.
func CategoryFragment(category string) string {
	return categoryPrefix + Slugify(category)
}

// AuthorFragment builds the fragment listing an author by its display name.
func AuthorFragment(author string) string {
	return authorPrefix + Slugify(author)
}

// TypeFragment builds the fragment listing a post type.
func TypeFragment(postType string) string {
	return typePrefix + postType
}

// ParseRoute parses a URL fragment (including the leading #) into a Route.
//
// Patterns are tried in this order, first match wins:
//  1. a listing pattern followed by /page/<n>; an invalid or non-positive n becomes 1
//  2. #/posts/<slug>
//  3. #/type/<type>
//  4. #/category/<slug>
//  5. #/tags/<slug>[+<slug>...]
//  6. #/author/<slug>
//  7. #/about, #/contact, #/disclaimer
//  8. anything else, including "", "#" and "#/", is Home
func ParseRoute(fragment string) Route {
	fragment = strings.TrimSpace(fragment)

	if base, page, ok := splitPage(fragment); ok {
		if route, matched := parseBase(base, page); matched {
			if _, isListing := ListingOf(route); isListing {
				return route
			}
		}
	}

	route, _ := parseBase(fragment, 1)
	return route
}

// splitPage splits a trailing /page/<n> from a fragment.
func splitPage(fragment string) (string, int, bool) {
	idx := strings.LastIndex(fragment, pageSeparator)
	if idx == -1 {
		return "", 0, false
	}

	raw := fragment[idx+len(pageSeparator):]
	if strings.Contains(raw, "/") {
		return "", 0, false
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		page = 1
	}

	return fragment[:idx], page, true
}

// parseBase parses a fragment without a pagination suffix. The boolean is false when nothing matched
// and the route fell back to Home.
func parseBase(fragment string, page int) (Route, bool) {
	if isHomeFragment(fragment) {
		return NewHome(page), true
	}

	if slug, ok := cutPrefix(fragment, postsPrefix); ok {
		return SinglePost{Slug: slug}, true
	}

	if postType, ok := cutPrefix(fragment, typePrefix); ok {
		return NewByType(postType, page), true
	}

	if categorySlug, ok := cutPrefix(fragment, categoryPrefix); ok {
		return NewByCategory(categorySlug, page), true
	}

	if tags, ok := cutPrefix(fragment, tagsPrefix); ok {
		return NewByTags(strings.Split(tags, tagSeparator), page), true
	}

	if authorSlug, ok := cutPrefix(fragment, authorPrefix); ok {
		return NewByAuthor(authorSlug, page), true
	}

	for _, name := range StaticPageNames() {
		if fragment == "#/"+string(name) {
			return StaticPage{Name: name}, true
		}
	}

	return NewHome(page), false
}

// cutPrefix returns the non-empty remainder of s after prefix.
func cutPrefix(s, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

func isHomeFragment(fragment string) bool {
	return fragment == "" || fragment == homeFragment || fragment == "#/"
}

func uniqueNonEmpty(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || slices.Contains(result, item) {
			continue
		}
		result = append(result, item)
	}
	return result
}
