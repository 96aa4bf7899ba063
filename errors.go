package hashpress

import "errors"

var (
	ErrNoFrontMatter      = errors.New("no front matter block")
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrMissingTitle       = errors.New("missing post title")
	ErrMissingDate        = errors.New("missing post date")
	ErrDuplicateSlug      = errors.New("duplicate post slug")
	ErrPostNotFound       = errors.New("post not found")
	ErrContentLoad        = errors.New("failed to load content")
	ErrNavigationSetup    = errors.New("failed to set up navigation")
)
