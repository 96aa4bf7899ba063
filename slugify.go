package hashpress

import (
	"path"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// Slugify transforms display text (a tag, category, author or title) into the canonical URL token.
// - It lowercases the text.
// - It replaces every run of whitespace with a single hyphen.
// - It strips any character outside [a-z0-9-].
// - It collapses repeated hyphens and trims hyphens from both ends.
//
// Slugify is idempotent, and an empty input yields an empty slug.
func Slugify(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))

	inSpace := false
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		inSpace = false

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}

	// Stripping can leave hyphens next to each other, e.g. "c++ tips" -> "c--tips"
	return strings.Trim(collapseHyphens(b.String()), "-")
}

func collapseHyphens(s string) string {
	if !strings.Contains(s, "--") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// SlugFromSource derives a post slug from its source identifier (usually a file path).
// The directory and the extension are dropped and the remaining file name is slugified
// with the slug package, so "blogs/My First Post.md" becomes "my-first-post".
func SlugFromSource(sourceID string) string {
	name := path.Base(strings.ReplaceAll(sourceID, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	return slug.Make(name)
}
