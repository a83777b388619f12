// Package content holds the documentation pages the site serves. Page
// bodies are authored in the markup package's dialect and embedded at
// build time; they flow one-way from here to rendered output.
package content

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed pages/*.rst
var sources embed.FS

// Page is one documentation page: its URL slug, the title the layout
// renders as the page heading, the label and position it takes in the
// site navigation, and its raw markup source.
type Page struct {
	Slug     string
	Title    string
	NavLabel string
	NavOrder int
	Source   string
}

var registry = []Page{
	{
		Slug:     "index",
		Title:    "The Open State Project",
		NavLabel: "Home",
		NavOrder: 0,
	},
	{
		Slug:     "contributing",
		Title:    "Contributing to the Open State Project",
		NavLabel: "Contributing",
		NavOrder: 1,
	},
}

func init() {
	for pos := range registry {
		source, err := sources.ReadFile(fmt.Sprintf("pages/%s.rst", registry[pos].Slug))
		if err != nil {
			// embedded sources are fixed at build time; a missing
			// one is a packaging mistake, not a runtime condition
			panic(fmt.Sprintf("missing page source for %q: %v", registry[pos].Slug, err))
		}
		registry[pos].Source = string(source)
	}
	sort.SliceStable(registry, func(a, b int) bool {
		return registry[a].NavOrder < registry[b].NavOrder
	})
}

// Pages returns every registered page in navigation order.
func Pages() []Page {
	pages := make([]Page, len(registry))
	copy(pages, registry)
	return pages
}

// BySlug returns the page registered under slug.
func BySlug(slug string) (Page, bool) {
	for _, page := range registry {
		if page.Slug == slug {
			return page, true
		}
	}
	return Page{}, false
}
