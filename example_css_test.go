package folio_test

import (
	"context"
	"log/slog"
	"os"
	"testing/fstest"

	"impractical.co/folio"
)

type OrderedCSSSite struct {
	*folio.CachedSite

	Title string
}

type OrderedCSSPage struct {
	Layout OrderedCSSLayout
}

func (OrderedCSSPage) Templates(_ context.Context) []string {
	return []string{"home.html.tmpl"}
}

func (p OrderedCSSPage) UseComponents(_ context.Context) []folio.Component {
	return []folio.Component{
		p.Layout,
	}
}

func (OrderedCSSPage) Key(_ context.Context) string {
	return "home.html.tmpl"
}

func (p OrderedCSSPage) ExecutedTemplate(_ context.Context) string {
	return p.Layout.BaseTemplate()
}

func (OrderedCSSPage) LinkCSS(_ context.Context) []folio.CSSLink {
	// every page stylesheet wants to load before the layout's, and
	// c.css additionally needs to beat a.css; setting calculators opts
	// these links out of declaration-order chaining, so b and c float
	// to the front alphabetically
	beforeLayoutLinks := func(_ context.Context, other folio.CSSLink) folio.ResourceRelationship {
		if other.Href == "https://example.com/global/a.css" {
			return folio.ResourceRelationshipBefore
		}
		return folio.ResourceRelationshipNeutral
	}
	beforeInlines := func(_ context.Context, _ folio.CSSInline) folio.ResourceRelationship {
		return folio.ResourceRelationshipBefore
	}
	return []folio.CSSLink{
		{
			Href:                        "https://example.com/a.css",
			CSSLinkRelationCalculator:   beforeLayoutLinks,
			CSSInlineRelationCalculator: beforeInlines,
		},
		{
			Href:                        "https://example.com/b.css",
			CSSLinkRelationCalculator:   beforeLayoutLinks,
			CSSInlineRelationCalculator: beforeInlines,
		},
		{
			Href: "https://example.com/c.css",
			CSSLinkRelationCalculator: func(ctx context.Context, other folio.CSSLink) folio.ResourceRelationship {
				if other.Href == "https://example.com/a.css" {
					return folio.ResourceRelationshipBefore
				}
				return beforeLayoutLinks(ctx, other)
			},
			CSSInlineRelationCalculator: beforeInlines,
		},
	}
}

type OrderedCSSLayout struct {
}

func (l OrderedCSSLayout) Templates(_ context.Context) []string {
	return []string{l.BaseTemplate()}
}

func (OrderedCSSLayout) BaseTemplate() string {
	return "base.html.tmpl"
}

func (OrderedCSSLayout) LinkCSS(_ context.Context) []folio.CSSLink {
	return []folio.CSSLink{
		{Href: "https://example.com/global/a.css"},
	}
}

func (OrderedCSSLayout) EmbedCSS(_ context.Context) []folio.CSSInline {
	return []folio.CSSInline{
		{TemplatePath: "global.css.tmpl"},
	}
}

func ExampleRender_stylesheetOrdering() {
	templates := fstest.MapFS{
		"home.html.tmpl": &fstest.MapFile{
			Data: []byte(`{{ define "body" }}Welcome to the ordering demo.{{ end }}`),
		},
		"base.html.tmpl": &fstest.MapFile{
			Data: []byte(`
<!doctype html>
<html lang="en">
	<head>
		<title>{{ .Site.Title }}</title>
		{{- .CSS -}}
		{{- .HeaderJS -}}
	</head>
	<body>
		{{ block "body" . }}{{ end }}
		{{- .FooterJS -}}
	</body>
</html>`),
		},
		"global.css.tmpl": &fstest.MapFile{
			Data: []byte(`body { margin: 0; }`),
		},
	}

	ctx := folio.LoggingContext(context.Background(), slog.Default())

	site := OrderedCSSSite{
		CachedSite: folio.NewCachedSite(templates),
		Title:      "My Example Site",
	}
	page := OrderedCSSPage{Layout: OrderedCSSLayout{}}
	folio.Render(ctx, os.Stdout, site, page)

	//Output:
	// <!doctype html>
	// <html lang="en">
	// 	<head>
	// 		<title>My Example Site</title><link rel="stylesheet" href="https://example.com/b.css">
	// <link rel="stylesheet" href="https://example.com/c.css">
	// <link rel="stylesheet" href="https://example.com/a.css">
	// <link rel="stylesheet" href="https://example.com/global/a.css">
	// <style>
	// body { margin: 0; }
	// </style>
	// </head>
	// 	<body>
	// 		Welcome to the ordering demo.</body>
	// </html>
}
