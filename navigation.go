package hashpress

import (
	"slices"
	"strings"
)

// MaxSelectedTags is the most tags a tag route can select at once.
const MaxSelectedTags = 3

// NavLink is one entry of the main navigation.
type NavLink struct {
	Label  string `toml:"label" json:"label"`
	Href   string `toml:"href" json:"href"`
	Active bool   `toml:"-" json:"active"`
}

// MarkActiveNav returns a copy of links with exactly the link matching fragment marked active.
// "", "#" and "#/" all match a home link. Only the first matching link is marked; none is marked
// when nothing matches.
func MarkActiveNav(links []NavLink, fragment string) []NavLink {
	current := normalizeNavFragment(fragment)

	marked := make([]NavLink, len(links))
	found := false
	for i, link := range links {
		link.Active = !found && normalizeNavFragment(link.Href) == current
		if link.Active {
			found = true
		}
		marked[i] = link
	}
	return marked
}

func normalizeNavFragment(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if isHomeFragment(fragment) {
		return homeFragment
	}
	return fragment
}

// LimitSignal tells the tag widget that a click was rejected because the selection is full.
// It only describes the click that produced it; the next render of the widget starts without it.
type LimitSignal struct {
	Clicked string   // Clicked is the rejected tag slug
	Targets []string // Targets are the tag slugs to flag: every unselected tag plus the clicked one
}

// Targeted reports whether slug should carry the limit indicator.
func (s *LimitSignal) Targeted(slug string) bool {
	return s != nil && slices.Contains(s.Targets, slug)
}

// ToggleResult is the outcome of clicking a tag in the tag selection widget.
type ToggleResult struct {
	Accepted  bool
	Selection []string     // Selection is the new selection; unchanged when the click was rejected
	Fragment  string       // Fragment is the fragment to navigate to; empty when the click was rejected
	Limit     *LimitSignal // Limit is set when the click was rejected
}

// SelectedTags returns the tag slugs selected by a route.
func SelectedTags(route Route) []string {
	if r, ok := route.(ByTags); ok {
		return slices.Clone(r.TagSlugs)
	}
	return nil
}

// ToggleTag applies a click on clicked to the current selection. A selected tag is removed;
// an unselected tag is appended unless the selection already holds MaxSelectedTags tags, in which
// case the click is rejected with a LimitSignal. The resulting fragment always starts at page 1,
// and an empty selection navigates home.
func ToggleTag(available, selected []string, clicked string) ToggleResult {
	clicked = Slugify(clicked)
	selected = uniqueNonEmpty(selected)

	if clicked == "" {
		return ToggleResult{Selection: selected}
	}

	if idx := slices.Index(selected, clicked); idx != -1 {
		next := slices.Delete(slices.Clone(selected), idx, idx+1)
		return ToggleResult{Accepted: true, Selection: next, Fragment: TagsFragment(next)}
	}

	if len(selected) >= MaxSelectedTags {
		targets := make([]string, 0, len(available)+1)
		for _, slug := range available {
			if !slices.Contains(selected, slug) && !slices.Contains(targets, slug) {
				targets = append(targets, slug)
			}
		}
		if !slices.Contains(targets, clicked) {
			targets = append(targets, clicked)
		}

		return ToggleResult{
			Selection: selected,
			Limit:     &LimitSignal{Clicked: clicked, Targets: targets},
		}
	}

	next := append(slices.Clone(selected), clicked)
	return ToggleResult{Accepted: true, Selection: next, Fragment: TagsFragment(next)}
}

// ShowClearAll reports whether the clear-all control is shown for a selection.
func ShowClearAll(selected []string) bool {
	return len(selected) > 1
}

// ClearAllFragment is where the clear-all control navigates.
func ClearAllFragment() string {
	return homeFragment
}
