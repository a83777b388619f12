// Package folio renders HTML pages through template inheritance, built on
// the html/template package.
//
// folio is organized around Components and Pages. A Component is a piece of
// an HTML document: a navbar, a footer, the shared layout every page fills
// in. A Page is a Component that gets rendered directly instead of being
// included in another Component. Pages usually don't execute their own
// template; they execute a base layout template and supply the blocks that
// layout leaves open. That's the inheritance: the child defines named
// blocks, the parent provides the surrounding chrome.
//
// Every server holds a Site, a singleton that surfaces the fs.FS holding
// the templates Components reference and carries whatever cross-request
// state rendering needs. At render time the Site is available to templates
// as .Site and the Page as .Page.
//
// Components can also declare CSS and JavaScript resources, inline or
// linked. folio collects the resources of a Page's whole component graph,
// orders them (preserving declaration order, honoring any explicit
// before/after relationships), deduplicates them, and hands them to the
// executed template as .CSS, .HeaderJS, and .FooterJS.
//
// Rendering is request-scoped and side effect free: Render buffers the
// whole document and only writes it out once execution succeeded, so a
// failed render never leaves a half-written response, and rendering the
// same Page twice produces identical bytes.
package folio
