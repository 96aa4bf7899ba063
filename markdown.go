package hashpress

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// MarkdownRenderer converts a markdown body into HTML.
type MarkdownRenderer func(source []byte) (string, error)

// DefaultMarkdownRenderer returns a MarkdownRenderer that uses the default goldmark parser with the following extensions:
// - GFM
// - Typographer
// - Footnote
// It also enables the following options:
// - AutoHeadingID
// - Attribute
// - Unsafe raw HTML, so the more marker and inline HTML survive rendering
func DefaultMarkdownRenderer() MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return func(source []byte) (string, error) {
		return RenderMarkdown(md, source)
	}
}

// RenderMarkdown converts markdown to HTML with the given goldmark instance.
func RenderMarkdown(md goldmark.Markdown, source []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// FrontMatter is an undecoded front matter block.
type FrontMatter struct {
	Format frontmatter.Format // Format is the detected front matter format (YAML for ---, TOML for +++)
	Raw    []byte             // Raw is the text between the delimiter lines
}

// Decode decodes the front matter into v.
func (fm *FrontMatter) Decode(v any) error {
	if err := fm.Format.Unmarshal(fm.Raw, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidFrontMatter, fm.Format.Name, err)
	}
	return nil
}

// ExtractFrontMatter splits a raw document into its front matter block and the remaining body.
// The block must start on the first line with a line of three delimiter characters (--- for YAML,
// +++ for TOML) and end with the same line. ErrNoFrontMatter is returned when no block is present.
func ExtractFrontMatter(raw []byte) (*FrontMatter, []byte, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	firstLine, rest, found := strings.Cut(text, "\n")
	if !found {
		return nil, nil, ErrNoFrontMatter
	}

	format, ok := detectFormat(firstLine)
	if !ok {
		return nil, nil, ErrNoFrontMatter
	}

	delim := strings.Repeat(string(format.Delim), 3)
	var block []string
	for rest != "" {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \t") == delim {
			return &FrontMatter{
				Format: format,
				Raw:    []byte(strings.Join(block, "\n")),
			}, []byte(rest), nil
		}
		block = append(block, line)
	}

	return nil, nil, fmt.Errorf("%w: unterminated %s block", ErrNoFrontMatter, format.Name)
}

func detectFormat(line string) (frontmatter.Format, bool) {
	line = strings.TrimRight(line, " \t")
	for _, format := range frontmatter.DefaultFormats {
		if line == strings.Repeat(string(format.Delim), 3) {
			return format, true
		}
	}
	return frontmatter.Format{}, false
}

// ParseDocument extracts and validates the front matter of a raw document and renders its body.
func ParseDocument(render MarkdownRenderer, raw []byte) (PostMetadata, string, error) {
	fm, body, err := ExtractFrontMatter(raw)
	if err != nil {
		return PostMetadata{}, "", err
	}

	var meta PostMetadata
	if err := fm.Decode(&meta); err != nil {
		return PostMetadata{}, "", err
	}

	if err := meta.Validate(); err != nil {
		return PostMetadata{}, "", err
	}

	content, err := render(bytes.TrimSpace(body))
	if err != nil {
		return PostMetadata{}, "", err
	}

	return meta, content, nil
}
