package server

import (
	"embed"
	"mime"
	"net/http"
	"path"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"

	"impractical.co/folio/internal/content"
)

//go:embed static
var staticFS embed.FS

// handleStatic serves embedded static assets. Content types come from
// the file extension when it's a known one, falling back to sniffing the
// contents.
func (s *Server) handleStatic() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asset := r.PathValue("asset")
		data, err := staticFS.ReadFile(path.Join("static", asset))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		contentType := mime.TypeByExtension(path.Ext(asset))
		if contentType == "" {
			contentType = mimetype.Detect(data).String()
		}
		w.Header().Set("Content-Type", contentType)
		if _, err := w.Write(data); err != nil {
			s.logger.ErrorContext(r.Context(), "error writing static asset", "asset", asset, "error", err)
		}
	})
}

// handleSitemap serves the sitemap built at startup.
func (s *Server) handleSitemap() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		_, _ = w.Write(s.sitemap)
	})
}

// buildSitemap renders the sitemap XML for every page path the server
// registers. The page set is fixed at build time, so this runs once at
// startup.
func buildSitemap(baseURL string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", "http://www.sitemaps.org/schemas/sitemap/0.9")

	paths := []string{"/"}
	for _, page := range content.Pages() {
		if page.Slug == "index" {
			continue
		}
		paths = append(paths, "/"+page.Slug+"/")
	}
	paths = append(paths, "/status/")

	for _, p := range paths {
		url := urlset.CreateElement("url")
		url.CreateElement("loc").SetText(baseURL + p)
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}
