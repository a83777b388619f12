package folio

import (
	"context"
	"errors"
	"testing"
)

func hrefs(resources []cssResource) []string {
	results := make([]string, 0, len(resources))
	for _, res := range resources {
		if link, ok := res.(CSSLink); ok {
			results = append(results, link.Href)
		}
	}
	return results
}

func TestGraphKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	groups := [][]cssResource{
		{
			CSSLink{Href: "https://example.com/z.css"},
			CSSLink{Href: "https://example.com/a.css"},
		},
	}
	sorted, err := buildGraph(ctx, groups).sorted(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := hrefs(sorted)
	want := []string{"https://example.com/z.css", "https://example.com/a.css"}
	if len(got) != len(want) {
		t.Fatalf("expected %d resources, got %d: %v", len(want), len(got), got)
	}
	for pos, href := range want {
		if got[pos] != href {
			t.Errorf("expected resource %d to be %q, got %q", pos, href, got[pos])
		}
	}
}

func TestGraphDeduplicatesResources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	groups := [][]cssResource{
		{
			CSSLink{Href: "https://example.com/shared.css"},
			CSSLink{Href: "https://example.com/a.css"},
		},
		{
			CSSLink{Href: "https://example.com/shared.css"},
		},
	}
	sorted, err := buildGraph(ctx, groups).sorted(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sorted) != 2 {
		t.Errorf("expected 2 resources after deduplication, got %d: %v", len(sorted), hrefs(sorted))
	}
}

func TestGraphBreaksTiesBySortKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	// separate groups carry no ordering relative to each other, so the
	// sort key decides
	groups := [][]cssResource{
		{CSSLink{Href: "https://example.com/b.css"}},
		{CSSLink{Href: "https://example.com/c.css"}},
		{CSSLink{Href: "https://example.com/a.css"}},
	}
	sorted, err := buildGraph(ctx, groups).sorted(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := hrefs(sorted)
	want := []string{"https://example.com/a.css", "https://example.com/b.css", "https://example.com/c.css"}
	for pos, href := range want {
		if got[pos] != href {
			t.Errorf("expected resource %d to be %q, got %q", pos, href, got[pos])
		}
	}
}

func TestGraphDetectsCycles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	beforeEverything := func(_ context.Context, _ CSSLink) ResourceRelationship {
		return ResourceRelationshipBefore
	}
	groups := [][]cssResource{
		{
			CSSLink{Href: "https://example.com/a.css", CSSLinkRelationCalculator: beforeEverything},
			CSSLink{Href: "https://example.com/b.css", CSSLinkRelationCalculator: beforeEverything},
		},
	}
	_, err := buildGraph(ctx, groups).sorted(ctx)
	if !errors.Is(err, ErrResourceCycle) {
		t.Errorf("expected %v, got %v", ErrResourceCycle, err)
	}
}
