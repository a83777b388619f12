package folio_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"impractical.co/folio"
)

type CacheProbeSite struct {
	*folio.CachedSite

	Title string
}

type CacheProbePage struct {
}

func (CacheProbePage) Templates(_ context.Context) []string {
	return []string{"probe.html.tmpl"}
}

func (CacheProbePage) Key(_ context.Context) string {
	return "probe.html.tmpl"
}

func (CacheProbePage) ExecutedTemplate(_ context.Context) string {
	return "probe.html.tmpl"
}

func (CacheProbePage) EmbedCSS(_ context.Context) []folio.CSSInline {
	return []folio.CSSInline{
		{TemplatePath: "probe.css.tmpl"},
	}
}

type EmptyStylePage struct {
}

func (EmptyStylePage) Templates(_ context.Context) []string {
	return []string{"plain.html.tmpl"}
}

func (EmptyStylePage) Key(_ context.Context) string {
	return "plain.html.tmpl"
}

func (EmptyStylePage) ExecutedTemplate(_ context.Context) string {
	return "plain.html.tmpl"
}

func (EmptyStylePage) EmbedCSS(_ context.Context) []folio.CSSInline {
	return []folio.CSSInline{
		{TemplatePath: "empty.css.tmpl"},
	}
}

func TestCachedSiteServesEmptyResource(t *testing.T) {
	t.Parallel()

	// only the page template exists on disk; the stylesheet source is
	// present solely as a cached empty string, so any read attempt fails
	templates := fstest.MapFS{
		"plain.html.tmpl": &fstest.MapFile{
			Data: []byte(`{{- .CSS -}}<p>styled by nothing</p>`),
		},
	}

	ctx := folio.LoggingContext(context.Background(), slog.Default())
	site := CacheProbeSite{
		CachedSite: folio.NewCachedSite(templates),
		Title:      "Cache Probe",
	}
	site.SetCachedResource(ctx, "empty.css.tmpl", "")

	var out bytes.Buffer
	folio.Render(ctx, &out, site, EmptyStylePage{})
	if strings.Contains(out.String(), "Server error") {
		t.Fatalf("expected the cached empty source to be honored, got %q", out.String())
	}
	for _, want := range []string{"<style>", "styled by nothing"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got %q", want, out.String())
		}
	}
}

func TestCachedSiteSurvivesTemplateChanges(t *testing.T) {
	t.Parallel()

	templates := fstest.MapFS{
		"probe.html.tmpl": &fstest.MapFile{
			Data: []byte(`<title>{{ .Site.Title }}</title>
{{- .CSS -}}
<p>version one</p>`),
		},
		"probe.css.tmpl": &fstest.MapFile{
			Data: []byte(`p { color: red; }`),
		},
	}

	ctx := folio.LoggingContext(context.Background(), slog.Default())
	site := CacheProbeSite{
		CachedSite: folio.NewCachedSite(templates),
		Title:      "Cache Probe",
	}

	var first bytes.Buffer
	folio.Render(ctx, &first, site, CacheProbePage{})
	if !strings.Contains(first.String(), "version one") {
		t.Fatalf("unexpected first render: %q", first.String())
	}

	// once a page has rendered, changes to the underlying files are
	// invisible: both the parsed template set and the resource source
	// are served from the cache
	templates["probe.html.tmpl"].Data = []byte(`<p>version two</p>`)
	templates["probe.css.tmpl"].Data = []byte(`p { color: blue; }`)

	var second bytes.Buffer
	folio.Render(ctx, &second, site, CacheProbePage{})
	if first.String() != second.String() {
		t.Errorf("expected cached render %q, got %q", first.String(), second.String())
	}

	var third bytes.Buffer
	folio.Render(ctx, &third, site, CacheProbePage{})
	if second.String() != third.String() {
		t.Errorf("expected repeated renders to write identical bytes, got %q then %q", second.String(), third.String())
	}
}
