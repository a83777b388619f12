package site

import (
	"context"
	"html/template"
	"time"

	"impractical.co/folio"
	"impractical.co/folio/internal/content"
	"impractical.co/folio/internal/markup"
	"impractical.co/folio/internal/status"
)

// NavLink is one entry in the layout's navigation bar.
type NavLink struct {
	Label  string
	Path   string
	Active bool
}

// Layout is the chrome every page shares: the html skeleton, navigation,
// and footer. Pages execute its template and fill the content block it
// leaves open.
type Layout struct {
	Nav []NavLink
}

func (l Layout) Templates(_ context.Context) []string {
	return []string{l.BaseTemplate()}
}

// BaseTemplate names the layout template pages execute.
func (Layout) BaseTemplate() string {
	return "layout.html.tmpl"
}

func (Layout) EmbedCSS(_ context.Context) []folio.CSSInline {
	return []folio.CSSInline{
		{TemplatePath: "site.css.tmpl"},
	}
}

// DocPage is a documentation page: a title over a body converted from
// the content package's markup source.
type DocPage struct {
	Layout Layout
	Slug   string
	Title  string
	Body   template.HTML
}

// NewDocPage converts page's markup source and wraps it in the site
// layout. Conversion happens once per page construction; the result
// renders identically on every request.
func NewDocPage(docs *Docs, page content.Page) (DocPage, error) {
	body, err := markup.Convert(page.Source)
	if err != nil {
		return DocPage{}, err
	}
	return DocPage{
		Layout: docs.Layout(page.Slug),
		Slug:   page.Slug,
		Title:  page.Title,
		Body:   body,
	}, nil
}

func (DocPage) Templates(_ context.Context) []string {
	return []string{"docpage.html.tmpl"}
}

func (p DocPage) UseComponents(_ context.Context) []folio.Component {
	return []folio.Component{p.Layout}
}

func (DocPage) Key(_ context.Context) string {
	return "docpage.html.tmpl"
}

func (p DocPage) ExecutedTemplate(_ context.Context) string {
	return p.Layout.BaseTemplate()
}

// StatusPage lists the latest scraper run per jurisdiction.
type StatusPage struct {
	Layout Layout
	Title  string
	Runs   []status.Run
}

// NewStatusPage wraps the passed runs in the site layout.
func NewStatusPage(docs *Docs, runs []status.Run) StatusPage {
	return StatusPage{
		Layout: docs.Layout("status"),
		Title:  "Scraper Status",
		Runs:   runs,
	}
}

func (StatusPage) Templates(_ context.Context) []string {
	return []string{"statuspage.html.tmpl"}
}

func (p StatusPage) UseComponents(_ context.Context) []folio.Component {
	return []folio.Component{p.Layout}
}

func (StatusPage) Key(_ context.Context) string {
	return "statuspage.html.tmpl"
}

func (p StatusPage) ExecutedTemplate(_ context.Context) string {
	return p.Layout.BaseTemplate()
}

func (StatusPage) FuncMap(_ context.Context) template.FuncMap {
	return template.FuncMap{
		"runtime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 UTC")
		},
	}
}

// ErrorPage is the fallback rendered when another page fails. It's
// deliberately self-contained: it uses no layout, no resources, and no
// data, so it can't fail the way the page it replaces did.
type ErrorPage struct{}

func (ErrorPage) Templates(_ context.Context) []string {
	return []string{"error.html.tmpl"}
}

func (ErrorPage) Key(_ context.Context) string {
	return "error.html.tmpl"
}

func (ErrorPage) ExecutedTemplate(_ context.Context) string {
	return "error.html.tmpl"
}
