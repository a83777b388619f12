package folio_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing/fstest"

	"impractical.co/folio"
)

type FallibleSite struct {
	*folio.CachedSite

	Title string
}

// ServerErrorPage gets rendered in place of any page that fails to
// render.
func (FallibleSite) ServerErrorPage(_ context.Context) folio.Page {
	return OopsPage{}
}

type BrokenHomePage struct {
}

func (BrokenHomePage) Templates(_ context.Context) []string {
	return []string{"broken.html.tmpl"}
}

func (BrokenHomePage) Key(_ context.Context) string {
	return "broken.html.tmpl"
}

func (BrokenHomePage) ExecutedTemplate(_ context.Context) string {
	return "broken.html.tmpl"
}

type OopsPage struct {
}

func (OopsPage) Templates(_ context.Context) []string {
	return []string{"oops.html.tmpl"}
}

func (OopsPage) Key(_ context.Context) string {
	return "oops.html.tmpl"
}

func (OopsPage) ExecutedTemplate(_ context.Context) string {
	return "oops.html.tmpl"
}

func ExampleRender_serverError() {
	templates := fstest.MapFS{
		// .ImaginaryData isn't a field RenderData has, so executing
		// this template always fails
		"broken.html.tmpl": &fstest.MapFile{
			Data: []byte(`<!doctype html>
<p>You should never see this: {{ .ImaginaryData }}</p>`),
		},
		"oops.html.tmpl": &fstest.MapFile{
			Data: []byte(`<!doctype html>
<html><body><p>Something went wrong. Try again?</p></body></html>`),
		},
	}

	// the render failure gets logged; a quiet logger keeps the example
	// output to just what's written to the response
	ctx := folio.LoggingContext(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	site := FallibleSite{
		CachedSite: folio.NewCachedSite(templates),
		Title:      "My Example Site",
	}
	folio.Render(ctx, os.Stdout, site, BrokenHomePage{})

	// nothing from the broken page made it out; the document is built in
	// memory and only written once rendering succeeded

	//Output:
	// <!doctype html>
	// <html><body><p>Something went wrong. Try again?</p></body></html>
}
