package folio

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

// jsResource is either a JSLink or a JSInline.
type jsResource interface {
	resource[jsResource]
}

var (
	_ jsResource = JSLink{}
	_ jsResource = JSInline{}
)

// JSLink is a script included from the page through a <script> element
// with a src attribute.
type JSLink struct {
	// Src is the URL the script is served from.
	Src string

	// PlaceInFooter renders the script at the end of the document body
	// instead of in the head.
	PlaceInFooter bool

	// DisableImplicitOrdering excludes this resource from
	// declaration-order chaining; it will be ordered only by whatever
	// explicit relationships other resources declare against it.
	DisableImplicitOrdering bool

	// JSLinkRelationCalculator, when set, declares this resource's
	// ordering constraints against linked scripts. Setting it also
	// disables implicit ordering for this resource.
	JSLinkRelationCalculator func(context.Context, JSLink) ResourceRelationship

	// JSInlineRelationCalculator, when set, declares this resource's
	// ordering constraints against inline script blocks. Setting it
	// also disables implicit ordering for this resource.
	JSInlineRelationCalculator func(context.Context, JSInline) ResourceRelationship
}

func (l JSLink) equal(other jsResource) bool {
	otherLink, ok := other.(JSLink)
	return ok && otherLink.Src == l.Src && otherLink.PlaceInFooter == l.PlaceInFooter
}

func (l JSLink) relationTo(ctx context.Context, other jsResource) ResourceRelationship {
	switch comp := other.(type) {
	case JSLink:
		if l.JSLinkRelationCalculator != nil {
			return l.JSLinkRelationCalculator(ctx, comp)
		}
	case JSInline:
		if l.JSInlineRelationCalculator != nil {
			return l.JSInlineRelationCalculator(ctx, comp)
		}
	}
	return ResourceRelationshipNeutral
}

func (l JSLink) implicitlyOrdered() bool {
	return !l.DisableImplicitOrdering &&
		l.JSLinkRelationCalculator == nil &&
		l.JSInlineRelationCalculator == nil
}

// links sort ahead of inline blocks when nothing else separates them
func (l JSLink) sortKey() string { return "link:" + l.Src }

func (l JSLink) describe() string { return fmt.Sprintf("JSLink(%s)", l.Src) }

// JSInline is a script block embedded directly in the page. Its contents
// come from a template in the Site's TemplateDir, executed with the same
// data as the page, so inline scripts can vary per render.
type JSInline struct {
	// TemplatePath is the path within the Site's TemplateDir of the
	// template holding the JavaScript, without <script> tags.
	TemplatePath string

	// PlaceInFooter renders the script at the end of the document body
	// instead of in the head.
	PlaceInFooter bool

	// DisableImplicitOrdering excludes this resource from
	// declaration-order chaining; it will be ordered only by whatever
	// explicit relationships other resources declare against it.
	DisableImplicitOrdering bool

	// JSLinkRelationCalculator, when set, declares this resource's
	// ordering constraints against linked scripts. Setting it also
	// disables implicit ordering for this resource.
	JSLinkRelationCalculator func(context.Context, JSLink) ResourceRelationship

	// JSInlineRelationCalculator, when set, declares this resource's
	// ordering constraints against inline script blocks. Setting it
	// also disables implicit ordering for this resource.
	JSInlineRelationCalculator func(context.Context, JSInline) ResourceRelationship
}

func (j JSInline) equal(other jsResource) bool {
	otherInline, ok := other.(JSInline)
	return ok && otherInline.TemplatePath == j.TemplatePath && otherInline.PlaceInFooter == j.PlaceInFooter
}

func (j JSInline) relationTo(ctx context.Context, other jsResource) ResourceRelationship {
	switch comp := other.(type) {
	case JSLink:
		if j.JSLinkRelationCalculator != nil {
			return j.JSLinkRelationCalculator(ctx, comp)
		}
	case JSInline:
		if j.JSInlineRelationCalculator != nil {
			return j.JSInlineRelationCalculator(ctx, comp)
		}
	}
	return ResourceRelationshipNeutral
}

func (j JSInline) implicitlyOrdered() bool {
	return !j.DisableImplicitOrdering &&
		j.JSLinkRelationCalculator == nil &&
		j.JSInlineRelationCalculator == nil
}

func (j JSInline) sortKey() string { return "script:" + j.TemplatePath }

func (j JSInline) describe() string { return fmt.Sprintf("JSInline(%s)", j.TemplatePath) }

// JSEmbedder is an interface Components can fulfill to embed script blocks
// directly into the rendered page. Head scripts end up in the template's
// .HeaderJS data, footer scripts in .FooterJS.
type JSEmbedder interface {
	// EmbedJS returns the inline scripts the Component wants embedded
	// in the output HTML, in the order they should appear.
	EmbedJS(ctx context.Context) []JSInline
}

// JSLinker is an interface Components can fulfill to include scripts
// through <script src> elements. Head scripts end up in the template's
// .HeaderJS data, footer scripts in .FooterJS.
type JSLinker interface {
	// LinkJS returns the scripts the Component wants linked from the
	// output HTML, in the order they should appear.
	LinkJS(ctx context.Context) []JSLink
}

// collectJS gathers the JavaScript resources of all the passed components
// into two ordering graphs, one for the document head and one for the
// footer. Within a component, links chain separately from inline blocks,
// and head placement chains separately from footer placement.
func collectJS(ctx context.Context, components []Component) (head, foot graph[jsResource]) {
	var headGroups, footGroups [][]jsResource
	split := func(links []jsResource) {
		var headGroup, footGroup []jsResource
		for _, link := range links {
			placeInFooter := false
			switch res := link.(type) {
			case JSLink:
				placeInFooter = res.PlaceInFooter
			case JSInline:
				placeInFooter = res.PlaceInFooter
			}
			if placeInFooter {
				footGroup = append(footGroup, link)
			} else {
				headGroup = append(headGroup, link)
			}
		}
		if len(headGroup) > 0 {
			headGroups = append(headGroups, headGroup)
		}
		if len(footGroup) > 0 {
			footGroups = append(footGroups, footGroup)
		}
	}
	for _, component := range components {
		if linker, ok := component.(JSLinker); ok {
			links := linker.LinkJS(ctx)
			group := make([]jsResource, 0, len(links))
			for _, link := range links {
				group = append(group, link)
			}
			split(group)
		}
		if embedder, ok := component.(JSEmbedder); ok {
			blocks := embedder.EmbedJS(ctx)
			group := make([]jsResource, 0, len(blocks))
			for _, block := range blocks {
				group = append(group, block)
			}
			split(group)
		}
	}
	return buildGraph(ctx, headGroups), buildGraph(ctx, footGroups)
}

// renderJSResources turns ordered JavaScript resources into the HTML
// fragment exposed to templates as .HeaderJS or .FooterJS.
func renderJSResources(ctx context.Context, site Site, funcs template.FuncMap, data any, resources []jsResource) (template.HTML, error) {
	var out strings.Builder
	for _, res := range resources {
		switch res := res.(type) {
		case JSLink:
			fmt.Fprintf(&out, "<script src=%q></script>\n", res.Src)
		case JSInline:
			body, err := renderResourceTemplate(ctx, site, funcs, data, res.TemplatePath)
			if err != nil {
				return "", err
			}
			out.WriteString("<script>\n")
			out.WriteString(body)
			out.WriteString("\n</script>\n")
		}
	}
	return template.HTML(out.String()), nil // #nosec G203
}
