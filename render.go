package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("impractical.co/folio")

var (
	// ErrNoTemplatePath is returned when a page needs at least one
	// template path and none are supplied.
	ErrNoTemplatePath = errors.New("need at least one template path")

	// ErrTemplatePatternMatchesNoFiles is returned when a template path
	// is a pattern, but the pattern matches no files.
	ErrTemplatePatternMatchesNoFiles = errors.New("pattern matches no files")
)

// Component is a piece of an HTML document that can be included in a
// rendered page.
type Component interface {
	// Templates returns the paths, within the Site's TemplateDir, of
	// the html/template files that must be parsed before the Component
	// can render. Paths may be fs.Glob patterns.
	Templates(ctx context.Context) []string
}

// ComponentUser is an optional interface for Components that rely on other
// Components. The returned Components contribute their templates, funcmaps,
// and CSS/JS resources to any page including the Component. A Component
// that uses others without returning them here must fold their
// contributions into its own interface implementations.
type ComponentUser interface {
	// UseComponents returns the Components this Component relies on.
	UseComponents(ctx context.Context) []Component
}

// FuncMapExtender is an optional interface for Sites and Components,
// adding functions to the map available to templates while rendering.
type FuncMapExtender interface {
	// FuncMap returns the functions the implementer is contributing.
	FuncMap(ctx context.Context) template.FuncMap
}

// Page is a Component that can be passed to Render. It represents one
// logical page of the application and carries all the data its Components
// need to render.
type Page interface {
	Component

	// Key is a stable identifier for the page's template set, used to
	// cache parsing. It should be consistent across renders and unique
	// per distinct set of templates.
	Key(ctx context.Context) string

	// ExecutedTemplate names the template that is actually executed
	// when rendering. This is usually not the page's own template; it's
	// the base layout template whose blocks the page's templates fill.
	ExecutedTemplate(ctx context.Context) string
}

// RenderData is the data templates are executed with.
type RenderData[SiteType Site, PageType Page] struct {
	// Site is the Site instance rendering is happening against,
	// available to templates as .Site.
	Site SiteType

	// Page is the Page being rendered, available to templates as .Page.
	Page PageType

	// CSS holds the page's ordered stylesheet links and inline style
	// blocks.
	CSS template.HTML

	// HeaderJS holds the page's ordered scripts destined for the
	// document head.
	HeaderJS template.HTML

	// FooterJS holds the page's ordered scripts destined for the end of
	// the document body.
	FooterJS template.HTML
}

// Render renders page to out. The document is built in memory and written
// only once rendering fully succeeded, so out never receives a partial
// page and rendering the same page twice writes identical bytes.
//
// If rendering fails, the failure is logged and the Site's
// ServerErrorPage is rendered instead, when the Site implements
// ServerErrorPager; otherwise a plain text server error message is
// written.
func Render[SiteType Site, PageType Page](ctx context.Context, out io.Writer, site SiteType, page PageType) {
	ctx, span := tracer.Start(ctx, "folio.Render", trace.WithAttributes(
		attribute.String("folio.page_key", page.Key(ctx)),
	))
	defer span.End()

	defer func() {
		// if the writer can be closed, close it
		if closer, ok := out.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logger(ctx).ErrorContext(ctx, "error closing output writer", "error", err)
			}
		}
	}()

	err := renderPage(ctx, out, site, page)
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "render failed")
	logger(ctx).ErrorContext(ctx, "error rendering page",
		"error", err, "page_key", page.Key(ctx))

	if pager, ok := Site(site).(ServerErrorPager); ok {
		if err := renderPage(ctx, out, site, pager.ServerErrorPage(ctx)); err != nil {
			// nothing left to fall back to
			logger(ctx).ErrorContext(ctx, "error rendering server error page", "error", err)
		}
		return
	}

	if _, err := out.Write([]byte("Server error.")); err != nil {
		logger(ctx).ErrorContext(ctx, "error writing server error message", "error", err)
	}
}

// RenderBytes renders page and returns the document instead of writing
// it. Unlike Render it performs no fallback; the error comes back to the
// caller, which can still choose a response status before any bytes are
// committed.
func RenderBytes[SiteType Site, PageType Page](ctx context.Context, site SiteType, page PageType) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "folio.RenderBytes", trace.WithAttributes(
		attribute.String("folio.page_key", page.Key(ctx)),
	))
	defer span.End()

	var buf bytes.Buffer
	if err := renderPage(ctx, &buf, site, page); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPage does the actual rendering, writing to out only on success.
func renderPage[SiteType Site, PageType Page](ctx context.Context, out io.Writer, site SiteType, page PageType) error {
	components := gatherComponents(ctx, page)
	funcs := gatherFuncMaps(ctx, site, components)

	tmpl, err := pageTemplate(ctx, site, page, components, funcs)
	if err != nil {
		return err
	}

	data := RenderData[SiteType, PageType]{
		Site: site,
		Page: page,
	}

	cssResources, err := collectCSS(ctx, components).sorted(ctx)
	if err != nil {
		return fmt.Errorf("error ordering CSS resources for %T: %w", page, err)
	}
	headJS, footJS := collectJS(ctx, components)
	headResources, err := headJS.sorted(ctx)
	if err != nil {
		return fmt.Errorf("error ordering header JavaScript resources for %T: %w", page, err)
	}
	footResources, err := footJS.sorted(ctx)
	if err != nil {
		return fmt.Errorf("error ordering footer JavaScript resources for %T: %w", page, err)
	}

	// inline resource templates see .Site and .Page, but not the
	// resource fragments being built from them
	data.CSS, err = renderCSSResources(ctx, site, funcs, data, cssResources)
	if err != nil {
		return err
	}
	data.HeaderJS, err = renderJSResources(ctx, site, funcs, data, headResources)
	if err != nil {
		return err
	}
	data.FooterJS, err = renderJSResources(ctx, site, funcs, data, footResources)
	if err != nil {
		return err
	}

	executed := page.ExecutedTemplate(ctx)
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, executed, data); err != nil {
		return fmt.Errorf("error executing template %q for %T: %w", executed, page, err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("error writing rendered page %T: %w", page, err)
	}
	return nil
}

// pageTemplate returns the parsed template set for page, reusing the
// Site's cache when it has one.
func pageTemplate(ctx context.Context, site Site, page Page, components []Component, funcs template.FuncMap) (*template.Template, error) {
	key := page.Key(ctx)
	cache, cached := site.(TemplateCacher)
	if cached {
		if tmpl := cache.GetCachedTemplate(ctx, key); tmpl != nil {
			return tmpl, nil
		}
	}
	paths := componentTemplatePaths(ctx, components)
	if len(paths) < 1 {
		return nil, fmt.Errorf("error rendering %T: %w", page, ErrNoTemplatePath)
	}
	parsed, err := parseTemplates(site.TemplateDir(ctx), funcs, paths...)
	if err != nil {
		return nil, fmt.Errorf("error parsing templates %v for page %T: %w", paths, page, err)
	}
	if cached {
		cache.SetCachedTemplate(ctx, key, parsed)
	}
	return parsed, nil
}

// gatherComponents returns component and, recursively, every Component it
// declares through ComponentUser, in depth-first declaration order.
func gatherComponents(ctx context.Context, component Component) []Component {
	results := []Component{component}
	if user, ok := component.(ComponentUser); ok {
		for _, child := range user.UseComponents(ctx) {
			results = append(results, gatherComponents(ctx, child)...)
		}
	}
	return results
}

// componentTemplatePaths returns the deduplicated template paths of the
// passed components, preserving first-seen order.
func componentTemplatePaths(ctx context.Context, components []Component) []string {
	var results []string
	seen := map[string]struct{}{}
	for _, component := range components {
		for _, path := range component.Templates(ctx) {
			if _, ok := seen[path]; ok {
				continue
			}
			results = append(results, path)
			seen[path] = struct{}{}
		}
	}
	return results
}

// gatherFuncMaps flattens the Site's funcmap and every component's into
// one, with later components overriding earlier ones on key collisions.
func gatherFuncMaps(ctx context.Context, site Site, components []Component) template.FuncMap {
	results := template.FuncMap{}
	if extender, ok := site.(FuncMapExtender); ok {
		for key, fn := range extender.FuncMap(ctx) {
			results[key] = fn
		}
	}
	for _, component := range components {
		extender, ok := component.(FuncMapExtender)
		if !ok {
			continue
		}
		for key, fn := range extender.FuncMap(ctx) {
			results[key] = fn
		}
	}
	return results
}

// parseTemplates parses every file each pattern matches into one template
// set, naming each file's template after its path within fsys.
func parseTemplates(fsys fs.FS, funcs template.FuncMap, patterns ...string) (*template.Template, error) {
	var files []string
	for _, pattern := range patterns {
		list, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("error listing files for %q: %w", pattern, err)
		}
		if len(list) < 1 {
			return nil, fmt.Errorf("error parsing %q: %w", pattern, ErrTemplatePatternMatchesNoFiles)
		}
		files = append(files, list...)
	}
	if len(files) < 1 {
		return nil, ErrNoTemplatePath
	}
	tmpl := template.New("").Funcs(funcs)
	for _, file := range files {
		contents, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("error reading %q: %w", file, err)
		}
		if _, err := tmpl.New(file).Parse(string(contents)); err != nil {
			return nil, fmt.Errorf("error parsing %q: %w", file, err)
		}
	}
	return tmpl, nil
}

// renderResourceTemplate renders one inline resource template to a string,
// reusing the Site's cached source text when it has one.
func renderResourceTemplate(ctx context.Context, site Site, funcs template.FuncMap, data any, path string) (string, error) {
	var source string
	cached := false
	cacher, caches := site.(ResourceCacher)
	if caches {
		if hit := cacher.GetCachedResource(ctx, path); hit != nil {
			source = *hit
			cached = true
		}
	}
	if !cached {
		contents, err := fs.ReadFile(site.TemplateDir(ctx), path)
		if err != nil {
			return "", fmt.Errorf("error reading resource template %q: %w", path, err)
		}
		source = string(contents)
		if caches {
			cacher.SetCachedResource(ctx, path, source)
		}
	}
	tmpl, err := template.New(path).Funcs(funcs).Parse(source)
	if err != nil {
		return "", fmt.Errorf("error parsing resource template %q: %w", path, err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("error executing resource template %q: %w", path, err)
	}
	return out.String(), nil
}
