package hashpress

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

const unknownAuthor = "Unknown Author"

// HTMLRegions are the writers an HTMLRenderer draws into. A nil region is not drawn.
type HTMLRegions struct {
	Content io.Writer
	Nav     io.Writer
	Sidebar io.Writer
	Tags    io.Writer
}

// HTMLRenderer renders each page region as an HTML fragment.
type HTMLRenderer struct {
	regions HTMLRegions
}

// NewHTMLRenderer creates a renderer drawing into regions.
func NewHTMLRenderer(regions HTMLRegions) *HTMLRenderer {
	return &HTMLRenderer{regions: regions}
}

// HasContentArea reports whether a content region was given.
func (r *HTMLRenderer) HasContentArea() bool {
	return r.regions.Content != nil
}

func (r *HTMLRenderer) RenderNav(links []NavLink) error {
	return r.execute(r.regions.Nav, "nav", links)
}

func (r *HTMLRenderer) RenderSidebar(sidebar Sidebar) error {
	return r.execute(r.regions.Sidebar, "sidebar", sidebar)
}

func (r *HTMLRenderer) RenderView(view View) error {
	name := "list"
	switch view.Kind {
	case ResultSingle:
		name = "single"
	case ResultStatic:
		name = "static"
	case ResultNotFound:
		name = "notfound"
	}
	return r.execute(r.regions.Content, name, view)
}

func (r *HTMLRenderer) RenderTagWidget(widget TagWidget) error {
	return r.execute(r.regions.Tags, "tags", widget)
}

func (r *HTMLRenderer) RenderError(message string) error {
	return r.execute(r.regions.Content, "error", message)
}

func (r *HTMLRenderer) execute(w io.Writer, name string, data any) error {
	if w == nil {
		return nil
	}

	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

var pageTemplates = template.Must(template.New("page").Funcs(template.FuncMap{
	"postHref":   PostFragment,
	"authorHref": AuthorFragment,
	"tagHref":    func(tag string) string { return TagsFragment([]string{Slugify(tag)}) },
	"authorName": authorName,
	"titleOf":    titleOf,
	"dateOf":     dateOf,
	"teaser":     teaserHTML,
	"trusted":    func(s string) template.HTML { return template.HTML(s) },
}).Parse(pageTemplateText))

func authorName(author string) string {
	if a := strings.TrimSpace(author); a != "" {
		return a
	}
	return unknownAuthor
}

func titleOf(post Post) string {
	if strings.TrimSpace(post.Metadata.Title) == "" {
		return untitledPost
	}
	return post.Metadata.Title
}

func dateOf(post Post) string {
	if post.Metadata.Date == "" {
		return "Unknown Date"
	}
	return post.Metadata.Date
}

// teaserHTML returns the listing body of a post and whether a read-more link is needed.
func teaserHTML(post Post) map[string]any {
	teaser, more := post.Teaser()
	return map[string]any{"HTML": template.HTML(teaser), "More": more}
}

const pageTemplateText = `
{{- define "meta" -}}
<div class="post-meta">
  <span><span class="meta-prompt">&gt;</span> Posted: {{ dateOf . }}</span> |
  <span><span class="meta-prompt">&gt;</span> Author: <a href="{{ authorHref (authorName .Metadata.Author) }}">{{ authorName .Metadata.Author }}</a></span> |
  <span><span class="meta-prompt">&gt;</span> Tags: {{ if .Metadata.Tags }}{{ range $i, $tag := .Metadata.Tags }}{{ if $i }} {{ end }}<a href="{{ tagHref $tag }}">[#{{ $tag }}]</a>{{ end }}{{ else }}N/A{{ end }}</span>
</div>
{{- end -}}

{{- define "pagination" -}}
{{- if .Visible -}}
<div class="pagination">
  {{- if .HasPrev }}<a href="{{ .PrevLink }}">Previous</a>{{ else }}<span class="disabled">Previous</span>{{ end -}}
  <span class="page-indicator">Page {{ .CurrentPage }} of {{ .TotalPages }}</span>
  {{- if .HasNext }}<a href="{{ .NextLink }}">Next</a>{{ else }}<span class="disabled">Next</span>{{ end -}}
</div>
{{- end -}}
{{- end -}}

{{- define "list" -}}
<h2>{{ .Title }}</h2>
{{ if not .Posts -}}
<p>No posts found matching the criteria.</p>
{{ else -}}
{{ range .Posts -}}
<article class="post">
  <header class="post-header">
    <h2><a href="{{ postHref .Metadata.Slug }}">{{ titleOf . }}</a></h2>
    {{ template "meta" . }}
  </header>
  <div class="post-content">
    {{ $t := teaser . }}{{ $t.HTML }}
    {{ if $t.More }}<a href="{{ postHref .Metadata.Slug }}" class="read-more">[ Continue Reading &rarr; ]</a>{{ end }}
  </div>
</article>
{{ end -}}
{{ with .Pagination }}{{ template "pagination" . }}{{ end }}
{{ end -}}
{{- end -}}

{{- define "single" -}}
{{ with .Post -}}
<article class="post">
  <header class="post-header">
    <h2>{{ titleOf . }}</h2>
    {{ template "meta" . }}
  </header>
  <div class="post-content">
    {{ trusted .Content }}
    <p><a href="#">&larr; Back to posts</a></p>
  </div>
</article>
{{ end -}}
{{- end -}}

{{- define "static" -}}
<article class="post">
  <header class="post-header">
    <h2>{{ .Title }}</h2>
  </header>
  <div class="post-content">
    {{ trusted .Static.HTML }}
  </div>
</article>
{{ end -}}

{{- define "notfound" -}}
<article class="post">
  <h2>Post Not Found</h2>
  <p>Sorry, the post you were looking for does not exist.</p>
  <p><a href="#">&larr; Back to posts</a></p>
</article>
{{ end -}}

{{- define "error" -}}
<p>{{ . }}</p>
{{ end -}}

{{- define "nav" -}}
<ul class="nav">
{{ range . -}}
  <li><a href="{{ .Href }}"{{ if .Active }} class="active"{{ end }}>{{ .Label }}</a></li>
{{ end -}}
</ul>
{{ end -}}

{{- define "links" -}}
{{ if . -}}
{{ range . }}<li><a href="{{ .Href }}">{{ .Label }}</a></li>
{{ end -}}
{{ else -}}
<li>No posts found.</li>
{{ end -}}
{{- end -}}

{{- define "bracketed" -}}
{{ range . }}<li><a href="{{ .Href }}">[ {{ .Label }} ]</a></li>
{{ end -}}
{{- end -}}

{{- define "sidebar" -}}
<section class="widget recent-posts">
<ul>
{{ template "links" .Recent }}</ul>
</section>
<section class="widget categories">
<ul>
{{ if .Categories }}{{ template "bracketed" .Categories }}{{ else }}<li>No categories found.</li>
{{ end }}</ul>
</section>
<section class="widget authors">
<ul>
{{ if .Authors }}{{ template "bracketed" .Authors }}{{ else }}<li>No authors found.</li>
{{ end }}</ul>
</section>
{{ end -}}

{{- define "tags" -}}
<div class="tag-cloud">
{{ if not .Items -}}
<span>No tags found.</span>
{{ else -}}
{{ range .Items -}}
{{ if .Href }}<a href="{{ .Href }}" class="tag{{ if .Selected }} selected{{ end }}{{ if .LimitReached }} limit-reached{{ end }}">#{{ .Label }}</a>
{{ else }}<span class="tag{{ if .LimitReached }} limit-reached{{ end }}">#{{ .Label }}</span>
{{ end -}}
{{ end -}}
{{ if .ShowClearAll }}<a href="{{ .ClearAllHref }}" class="clear-all">[ Clear all ]</a>
{{ end -}}
{{ end -}}
</div>
{{ end -}}
`
