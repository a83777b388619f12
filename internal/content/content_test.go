package content

import (
	"testing"

	"impractical.co/folio/internal/markup"
)

func TestPages(t *testing.T) {
	t.Parallel()

	t.Run("should list pages in navigation order", func(t *testing.T) {
		t.Parallel()

		pages := Pages()
		if len(pages) < 2 {
			t.Fatalf("expected at least 2 pages, got %d", len(pages))
		}
		for pos := 1; pos < len(pages); pos++ {
			if pages[pos-1].NavOrder > pages[pos].NavOrder {
				t.Errorf("expected %q (order %d) before %q (order %d)",
					pages[pos].Slug, pages[pos].NavOrder, pages[pos-1].Slug, pages[pos-1].NavOrder)
			}
		}
		if pages[0].Slug != "index" {
			t.Errorf("expected index to lead the navigation, got %q", pages[0].Slug)
		}
	})

	t.Run("should return copies", func(t *testing.T) {
		t.Parallel()

		pages := Pages()
		original := pages[0].Title
		pages[0].Title = "mutated"
		if fresh := Pages(); fresh[0].Title != original {
			t.Errorf("expected registry to be unaffected by mutation, got %q", fresh[0].Title)
		}
	})

	t.Run("should embed a source for every page", func(t *testing.T) {
		t.Parallel()

		for _, page := range Pages() {
			if page.Source == "" {
				t.Errorf("expected page %q to have a source", page.Slug)
			}
		}
	})

	t.Run("should convert every source cleanly", func(t *testing.T) {
		t.Parallel()

		for _, page := range Pages() {
			if _, err := markup.Convert(page.Source); err != nil {
				t.Errorf("unexpected error converting %q: %v", page.Slug, err)
			}
		}
	})
}

func TestBySlug(t *testing.T) {
	t.Parallel()

	t.Run("should find registered pages", func(t *testing.T) {
		t.Parallel()

		page, ok := BySlug("contributing")
		if !ok {
			t.Fatal("expected contributing to be registered")
		}
		if page.Title != "Contributing to the Open State Project" {
			t.Errorf("unexpected title %q", page.Title)
		}
	})

	t.Run("should report unknown slugs", func(t *testing.T) {
		t.Parallel()

		if _, ok := BySlug("nope"); ok {
			t.Error("expected lookup of an unregistered slug to fail")
		}
	})
}
