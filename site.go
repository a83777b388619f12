package folio

import (
	"context"
	"html/template"
	"io/fs"
	"sync"
)

// Site is the singleton that pages are rendered against. Consumers should
// use it to hold clients and whatever cross-request state their templates
// need, and it must be able to surface the templates those pages rely on
// as an fs.FS.
type Site interface {
	// TemplateDir returns an fs.FS containing every template needed to
	// render the Site's Pages. Paths inside the fs.FS must match what
	// Components return from Templates.
	TemplateDir(ctx context.Context) fs.FS
}

// TemplateCacher is an optional interface for Sites. Sites implementing it
// can reuse parsed templates between renders, keyed by each Page's Key.
// The template set parsed for a given key must be stable; the data
// executed against it may differ per render, so the output HTML is not
// assumed cacheable.
type TemplateCacher interface {
	// GetCachedTemplate returns the parsed template stored under key,
	// or nil if nothing has been cached for it yet.
	GetCachedTemplate(ctx context.Context, key string) *template.Template

	// SetCachedTemplate stores tmpl under key for later retrieval with
	// GetCachedTemplate. Caching is best-effort; errors should be
	// logged, not surfaced.
	SetCachedTemplate(ctx context.Context, key string, tmpl *template.Template)
}

// ResourceCacher is an optional interface for Sites. Sites implementing it
// can reuse the template source text that inline CSS and JavaScript
// resources are rendered from, saving the filesystem read on every
// render. Only the source is cached; the rendered output may depend on
// per-request data.
type ResourceCacher interface {
	// GetCachedResource returns the resource source stored under key,
	// or nil if nothing has been cached for it yet.
	GetCachedResource(ctx context.Context, key string) *string

	// SetCachedResource stores source under key for later retrieval
	// with GetCachedResource. Caching is best-effort; errors should be
	// logged, not surfaced.
	SetCachedResource(ctx context.Context, key, source string)
}

// ServerErrorPager is an optional interface for Sites. When Render fails
// and the Site implements ServerErrorPager, the Page it returns is
// rendered in place of the one that failed.
type ServerErrorPager interface {
	ServerErrorPage(ctx context.Context) Page
}

var (
	_ Site           = &CachedSite{}
	_ TemplateCacher = &CachedSite{}
	_ ResourceCacher = &CachedSite{}
)

// CachedSite is a Site implementation meant to be embedded in other Site
// types. It serves the fs.FS handed to NewCachedSite and caches parsed
// templates and resource sources in memory. The zero value is not usable;
// construct it with NewCachedSite.
type CachedSite struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	resources map[string]string

	templateDir fs.FS
}

// NewCachedSite returns a ready-to-use CachedSite serving templates from
// the passed fs.FS.
func NewCachedSite(templates fs.FS) *CachedSite {
	return &CachedSite{
		templates:   map[string]*template.Template{},
		resources:   map[string]string{},
		templateDir: templates,
	}
}

// GetCachedTemplate returns the template cached under key, or nil if none
// is cached. Safe for concurrent use.
func (s *CachedSite) GetCachedTemplate(_ context.Context, key string) *template.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[key]
}

// SetCachedTemplate caches tmpl under key. Safe for concurrent use.
func (s *CachedSite) SetCachedTemplate(_ context.Context, key string, tmpl *template.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[key] = tmpl
}

// GetCachedResource returns the resource source cached under key, or nil
// if none is cached. Safe for concurrent use.
func (s *CachedSite) GetCachedResource(_ context.Context, key string) *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.resources[key]
	if !ok {
		return nil
	}
	return &source
}

// SetCachedResource caches source under key. Safe for concurrent use.
func (s *CachedSite) SetCachedResource(_ context.Context, key, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[key] = source
}

// TemplateDir returns the fs.FS the CachedSite was constructed with.
func (s *CachedSite) TemplateDir(_ context.Context) fs.FS {
	return s.templateDir
}
