package folio

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

// cssResource is either a CSSLink or a CSSInline.
type cssResource interface {
	resource[cssResource]
}

var (
	_ cssResource = CSSLink{}
	_ cssResource = CSSInline{}
)

// CSSLink is a stylesheet included from the page through a <link> element.
type CSSLink struct {
	// Href is the URL the stylesheet is served from.
	Href string

	// DisableImplicitOrdering excludes this resource from
	// declaration-order chaining; it will be ordered only by whatever
	// explicit relationships other resources declare against it.
	DisableImplicitOrdering bool

	// CSSLinkRelationCalculator, when set, declares this resource's
	// ordering constraints against linked stylesheets. Setting it also
	// disables implicit ordering for this resource.
	CSSLinkRelationCalculator func(context.Context, CSSLink) ResourceRelationship

	// CSSInlineRelationCalculator, when set, declares this resource's
	// ordering constraints against inline style blocks. Setting it also
	// disables implicit ordering for this resource.
	CSSInlineRelationCalculator func(context.Context, CSSInline) ResourceRelationship
}

func (l CSSLink) equal(other cssResource) bool {
	otherLink, ok := other.(CSSLink)
	return ok && otherLink.Href == l.Href
}

func (l CSSLink) relationTo(ctx context.Context, other cssResource) ResourceRelationship {
	switch comp := other.(type) {
	case CSSLink:
		if l.CSSLinkRelationCalculator != nil {
			return l.CSSLinkRelationCalculator(ctx, comp)
		}
	case CSSInline:
		if l.CSSInlineRelationCalculator != nil {
			return l.CSSInlineRelationCalculator(ctx, comp)
		}
	}
	return ResourceRelationshipNeutral
}

func (l CSSLink) implicitlyOrdered() bool {
	return !l.DisableImplicitOrdering &&
		l.CSSLinkRelationCalculator == nil &&
		l.CSSInlineRelationCalculator == nil
}

// links sort ahead of inline blocks when nothing else separates them
func (l CSSLink) sortKey() string { return "link:" + l.Href }

func (l CSSLink) describe() string { return fmt.Sprintf("CSSLink(%s)", l.Href) }

// CSSInline is a style block embedded directly in the page. Its contents
// come from a template in the Site's TemplateDir, executed with the same
// data as the page, so inline styles can vary per render.
type CSSInline struct {
	// TemplatePath is the path within the Site's TemplateDir of the
	// template holding the CSS, without <style> tags.
	TemplatePath string

	// DisableImplicitOrdering excludes this resource from
	// declaration-order chaining; it will be ordered only by whatever
	// explicit relationships other resources declare against it.
	DisableImplicitOrdering bool

	// CSSLinkRelationCalculator, when set, declares this resource's
	// ordering constraints against linked stylesheets. Setting it also
	// disables implicit ordering for this resource.
	CSSLinkRelationCalculator func(context.Context, CSSLink) ResourceRelationship

	// CSSInlineRelationCalculator, when set, declares this resource's
	// ordering constraints against inline style blocks. Setting it also
	// disables implicit ordering for this resource.
	CSSInlineRelationCalculator func(context.Context, CSSInline) ResourceRelationship
}

func (c CSSInline) equal(other cssResource) bool {
	otherInline, ok := other.(CSSInline)
	return ok && otherInline.TemplatePath == c.TemplatePath
}

func (c CSSInline) relationTo(ctx context.Context, other cssResource) ResourceRelationship {
	switch comp := other.(type) {
	case CSSLink:
		if c.CSSLinkRelationCalculator != nil {
			return c.CSSLinkRelationCalculator(ctx, comp)
		}
	case CSSInline:
		if c.CSSInlineRelationCalculator != nil {
			return c.CSSInlineRelationCalculator(ctx, comp)
		}
	}
	return ResourceRelationshipNeutral
}

func (c CSSInline) implicitlyOrdered() bool {
	return !c.DisableImplicitOrdering &&
		c.CSSLinkRelationCalculator == nil &&
		c.CSSInlineRelationCalculator == nil
}

func (c CSSInline) sortKey() string { return "style:" + c.TemplatePath }

func (c CSSInline) describe() string { return fmt.Sprintf("CSSInline(%s)", c.TemplatePath) }

// CSSEmbedder is an interface Components can fulfill to embed style blocks
// directly into the rendered page. The blocks end up in the template's
// .CSS data.
type CSSEmbedder interface {
	// EmbedCSS returns the inline styles the Component wants embedded
	// in the output HTML, in the order they should appear.
	EmbedCSS(ctx context.Context) []CSSInline
}

// CSSLinker is an interface Components can fulfill to include stylesheets
// through <link> elements. The links end up in the template's .CSS data.
type CSSLinker interface {
	// LinkCSS returns the stylesheets the Component wants linked from
	// the output HTML, in the order they should appear.
	LinkCSS(ctx context.Context) []CSSLink
}

// collectCSS gathers the CSS resources of all the passed components into
// an ordering graph. Each component's links form one declaration-order
// chain and its inline blocks another.
func collectCSS(ctx context.Context, components []Component) graph[cssResource] {
	var groups [][]cssResource
	for _, component := range components {
		if linker, ok := component.(CSSLinker); ok {
			links := linker.LinkCSS(ctx)
			group := make([]cssResource, 0, len(links))
			for _, link := range links {
				group = append(group, link)
			}
			groups = append(groups, group)
		}
		if embedder, ok := component.(CSSEmbedder); ok {
			blocks := embedder.EmbedCSS(ctx)
			group := make([]cssResource, 0, len(blocks))
			for _, block := range blocks {
				group = append(group, block)
			}
			groups = append(groups, group)
		}
	}
	return buildGraph(ctx, groups)
}

// renderCSSResources turns ordered CSS resources into the HTML fragment
// exposed to templates as .CSS.
func renderCSSResources(ctx context.Context, site Site, funcs template.FuncMap, data any, resources []cssResource) (template.HTML, error) {
	var out strings.Builder
	for _, res := range resources {
		switch res := res.(type) {
		case CSSLink:
			fmt.Fprintf(&out, "<link rel=\"stylesheet\" href=%q>\n", res.Href)
		case CSSInline:
			body, err := renderResourceTemplate(ctx, site, funcs, data, res.TemplatePath)
			if err != nil {
				return "", err
			}
			out.WriteString("<style>\n")
			out.WriteString(body)
			out.WriteString("\n</style>\n")
		}
	}
	return template.HTML(out.String()), nil // #nosec G203
}
