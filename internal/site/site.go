// Package site is the documentation site itself: the Site singleton the
// folio engine renders against, and the layout and page components that
// fill it in.
package site

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/yosssi/gohtml"

	"impractical.co/folio"
	"impractical.co/folio/internal/content"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Config is the site-wide presentation configuration.
type Config struct {
	// Name is the site name, rendered in the document <title> and the
	// layout header.
	Name string

	// BaseURL is the absolute URL the site is served under, used when
	// pages need to reference themselves absolutely.
	BaseURL string

	// PrettyHTML reindents rendered documents with gohtml before they
	// are written. Output stays deterministic either way.
	PrettyHTML bool
}

// Docs is the documentation site. Embedding *folio.CachedSite makes it a
// folio.Site with template and resource caching.
type Docs struct {
	*folio.CachedSite

	Name    string
	BaseURL string

	prettyHTML bool
}

// New builds the site and converts every registered content page,
// surfacing markup problems at startup rather than on first request.
func New(cfg Config) (*Docs, error) {
	templates, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("error opening template dir: %w", err)
	}
	docs := &Docs{
		CachedSite: folio.NewCachedSite(templates),
		Name:       cfg.Name,
		BaseURL:    cfg.BaseURL,
		prettyHTML: cfg.PrettyHTML,
	}
	for _, page := range content.Pages() {
		if _, err := NewDocPage(docs, page); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// ServerErrorPage makes Docs a folio.ServerErrorPager; the engine renders
// this page when another page fails.
func (d *Docs) ServerErrorPage(_ context.Context) folio.Page {
	return ErrorPage{}
}

// WritePage renders page to out, applying the site's output formatting.
func (d *Docs) WritePage(ctx context.Context, out io.Writer, page folio.Page) {
	if !d.prettyHTML {
		folio.Render(ctx, out, folio.Site(d), page)
		return
	}
	var buf bytes.Buffer
	folio.Render(ctx, &buf, folio.Site(d), page)
	// a failed write means the client went away; there's nobody left to
	// send anything to
	_, _ = out.Write(gohtml.FormatBytes(buf.Bytes()))
}

// RenderPage renders page and returns the document, applying the site's
// output formatting. Unlike WritePage, a render failure comes back as an
// error instead of being swapped for the error page, so callers can set
// a response status before writing anything.
func (d *Docs) RenderPage(ctx context.Context, page folio.Page) ([]byte, error) {
	rendered, err := folio.RenderBytes(ctx, folio.Site(d), page)
	if err != nil {
		return nil, err
	}
	if d.prettyHTML {
		rendered = gohtml.FormatBytes(rendered)
	}
	return rendered, nil
}

// Layout builds the shared page chrome with the named nav entry active.
func (d *Docs) Layout(active string) Layout {
	var nav []NavLink
	for _, page := range content.Pages() {
		path := "/" + page.Slug + "/"
		if page.Slug == "index" {
			path = "/"
		}
		nav = append(nav, NavLink{
			Label:  page.NavLabel,
			Path:   path,
			Active: page.Slug == active,
		})
	}
	nav = append(nav, NavLink{
		Label:  "Status",
		Path:   "/status/",
		Active: active == "status",
	})
	return Layout{Nav: nav}
}
