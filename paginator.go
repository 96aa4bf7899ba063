package hashpress

import "strconv"

// DefaultPageSize is the number of posts per listing page when none is configured.
const DefaultPageSize = 10

// Paginator holds one page of a listing and the links to its neighbours.
type Paginator struct {
	Items       []Post // Items are the posts on the current page
	CurrentPage int
	TotalPages  int // TotalPages is at least 1, even for an empty listing
	PageSize    int
	TotalPosts  int
	HasPrev     bool
	HasNext     bool
	PrevLink    string // PrevLink is empty when HasPrev is false
	NextLink    string // NextLink is empty when HasNext is false
}

// Visible reports whether pagination controls should be shown.
func (p Paginator) Visible() bool {
	return p.TotalPages > 1
}

// Paginate returns the requested page of posts. Links are built as baseURL + "/page/<n>".
// The page number is clamped into [1, TotalPages] and a pageSize below 1 uses DefaultPageSize.
func Paginate(posts []Post, pageNumber, pageSize int, baseURL string) Paginator {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(posts)
	totalPages := max((total+pageSize-1)/pageSize, 1)
	pageNumber = min(max(pageNumber, 1), totalPages)

	start := min((pageNumber-1)*pageSize, total)
	end := min(start+pageSize, total)

	p := Paginator{
		Items:       posts[start:end:end],
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalPosts:  total,
		HasPrev:     pageNumber > 1,
		HasNext:     pageNumber < totalPages,
	}

	if p.HasPrev {
		p.PrevLink = pageLink(baseURL, pageNumber-1)
	}

	if p.HasNext {
		p.NextLink = pageLink(baseURL, pageNumber+1)
	}

	return p
}

func pageLink(baseURL string, page int) string {
	return baseURL + pageSeparator + strconv.Itoa(page)
}
