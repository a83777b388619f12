// Package markup converts the lightweight plain-text dialect the site's
// documentation pages are authored in to HTML.
//
// The dialect is a small subset of reStructuredText: section headings are
// written as a title line with a punctuation underline, lists use * or -
// markers, definition lists are a term line over an indented body, inline
// hyperlinks look like `label <url>`_, inline literals use double
// backticks, and a paragraph ending in :: introduces an indented literal
// block that is reproduced verbatim in a <pre> element.
//
// Conversion is forgiving: inline syntax that doesn't parse is emitted as
// escaped text rather than failing the page. The only error Convert
// returns is for a section underline with no title line above it, which
// has no sensible rendering.
package markup
