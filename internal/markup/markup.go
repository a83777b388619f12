package markup

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// ErrOrphanUnderline is returned when a section underline appears with no
// title line above it. Everything else in the dialect degrades to plain
// text, but an underline on its own has nothing it could render as.
var ErrOrphanUnderline = errors.New("section underline with no title line above it")

// underlineChars are the punctuation characters recognized as section
// underlines. Each distinct character maps to a heading level in the
// order it first appears in a document, starting at h2; h1 is reserved
// for the page title the layout supplies.
const underlineChars = `=-~^"'+#`

// Convert renders source, written in the package's lightweight markup
// dialect, to HTML. The output is deterministic: converting the same
// source twice yields identical bytes.
func Convert(source string) (template.HTML, error) {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	conv := converter{levels: map[byte]int{}}
	return conv.convert(lines)
}

type converter struct {
	// levels maps each underline character to the heading level it was
	// assigned on first sight.
	levels map[byte]int
}

func (c *converter) level(char byte) int {
	if lvl, ok := c.levels[char]; ok {
		return lvl
	}
	lvl := len(c.levels) + 2
	if lvl > 6 {
		lvl = 6
	}
	c.levels[char] = lvl
	return lvl
}

func (c *converter) convert(lines []string) (template.HTML, error) {
	var out strings.Builder
	i := 0
	for i < len(lines) {
		line := lines[i]
		if blank(line) {
			i++
			continue
		}

		if !indented(line) {
			title := strings.TrimRight(line, " \t")
			if isUnderline(title, 2) {
				return "", fmt.Errorf("line %d: %w", i+1, ErrOrphanUnderline)
			}
			if i+1 < len(lines) && isUnderline(strings.TrimRight(lines[i+1], " \t"), len(title)) {
				underline := strings.TrimRight(lines[i+1], " \t")
				lvl := c.level(underline[0])
				fmt.Fprintf(&out, "<h%d>%s</h%d>\n", lvl, renderInline(title), lvl)
				i += 2
				continue
			}
		}

		if _, ok := bulletItem(line); ok {
			i = c.writeBulletList(&out, lines, i)
			continue
		}

		if indented(line) {
			var quoted []string
			for i < len(lines) && continuesIndentedBlock(lines, i) {
				if !blank(lines[i]) {
					quoted = append(quoted, strings.TrimSpace(lines[i]))
				}
				i++
			}
			fmt.Fprintf(&out, "<blockquote>%s</blockquote>\n", renderInline(strings.Join(quoted, " ")))
			continue
		}

		if startsDefinition(lines, i) {
			i = c.writeDefinitionList(&out, lines, i)
			continue
		}

		if trimmed := strings.TrimRight(line, " \t"); strings.HasSuffix(trimmed, "::") {
			i = c.writeLiteralBlock(&out, lines, i)
			continue
		}

		i = c.writeParagraph(&out, lines, i)
	}
	return template.HTML(out.String()), nil // #nosec G203
}

// writeBulletList consumes a run of bullet items, including wrapped
// continuation lines and blank lines between items, and emits a <ul>.
func (c *converter) writeBulletList(out *strings.Builder, lines []string, i int) int {
	var items []string
	var current string
	started := false
	for i < len(lines) {
		line := lines[i]
		if item, ok := bulletItem(line); ok {
			if started {
				items = append(items, current)
			}
			current = item
			started = true
			i++
			continue
		}
		if started && indented(line) {
			current += " " + strings.TrimSpace(line)
			i++
			continue
		}
		if blank(line) && i+1 < len(lines) {
			if _, ok := bulletItem(lines[i+1]); ok {
				i++
				continue
			}
		}
		break
	}
	if started {
		items = append(items, current)
	}
	out.WriteString("<ul>\n")
	for _, item := range items {
		fmt.Fprintf(out, "<li>%s</li>\n", renderInline(item))
	}
	out.WriteString("</ul>\n")
	return i
}

// writeDefinitionList consumes consecutive term lines with indented
// definition bodies and emits one <dl>.
func (c *converter) writeDefinitionList(out *strings.Builder, lines []string, i int) int {
	out.WriteString("<dl>\n")
	for startsDefinition(lines, i) {
		term := strings.TrimRight(lines[i], " \t")
		i++
		var body []string
		for i < len(lines) && continuesIndentedBlock(lines, i) {
			if !blank(lines[i]) {
				body = append(body, strings.TrimSpace(lines[i]))
			}
			i++
		}
		fmt.Fprintf(out, "<dt>%s</dt>\n<dd>%s</dd>\n", renderInline(term), renderInline(strings.Join(body, " ")))
		// blank lines between entries stay inside the same list
		j := i
		for j < len(lines) && blank(lines[j]) {
			j++
		}
		if startsDefinition(lines, j) {
			i = j
		}
	}
	out.WriteString("</dl>\n")
	return i
}

// writeLiteralBlock consumes a paragraph ending in :: and the indented
// block after it, emitting the paragraph (when any text is left) and the
// block contents verbatim in a <pre>.
func (c *converter) writeLiteralBlock(out *strings.Builder, lines []string, i int) int {
	trimmed := strings.TrimRight(lines[i], " \t")
	raw := strings.TrimSuffix(trimmed, "::")
	intro := strings.TrimRight(raw, " \t")
	if intro != "" {
		if raw == intro {
			// "text::" keeps one colon, "text ::" keeps none
			intro += ":"
		}
		fmt.Fprintf(out, "<p>%s</p>\n", renderInline(intro))
	}
	i++
	for i < len(lines) && blank(lines[i]) {
		i++
	}
	var block []string
	for i < len(lines) && (indented(lines[i]) || blank(lines[i])) {
		if blank(lines[i]) {
			block = append(block, "")
		} else {
			block = append(block, strings.TrimRight(lines[i], " \t"))
		}
		i++
	}
	for len(block) > 0 && block[len(block)-1] == "" {
		block = block[:len(block)-1]
	}
	indent := -1
	for _, line := range block {
		if line == "" {
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || width < indent {
			indent = width
		}
	}
	stripped := make([]string, 0, len(block))
	for _, line := range block {
		if line == "" {
			stripped = append(stripped, "")
			continue
		}
		stripped = append(stripped, line[indent:])
	}
	fmt.Fprintf(out, "<pre>%s</pre>\n", html.EscapeString(strings.Join(stripped, "\n")))
	return i
}

// writeParagraph consumes contiguous plain lines and emits a <p>.
func (c *converter) writeParagraph(out *strings.Builder, lines []string, i int) int {
	var para []string
	for i < len(lines) {
		line := lines[i]
		if blank(line) || indented(line) {
			break
		}
		if _, ok := bulletItem(line); ok {
			break
		}
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, "::") {
			break
		}
		// stop before a heading title so the next pass picks it up
		if len(para) > 0 && i+1 < len(lines) && isUnderline(strings.TrimRight(lines[i+1], " \t"), len(trimmed)) {
			break
		}
		para = append(para, strings.TrimSpace(line))
		i++
	}
	if len(para) < 1 {
		return i + 1
	}
	fmt.Fprintf(out, "<p>%s</p>\n", renderInline(strings.Join(para, " ")))
	return i
}

func blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indented(line string) bool {
	return !blank(line) && (line[0] == ' ' || line[0] == '\t')
}

// continuesIndentedBlock reports whether lines[i] is still part of an
// indented body: either an indented line, or a blank line with more
// indented content after it.
func continuesIndentedBlock(lines []string, i int) bool {
	if i >= len(lines) {
		return false
	}
	if indented(lines[i]) {
		return true
	}
	return blank(lines[i]) && i+1 < len(lines) && indented(lines[i+1])
}

// startsDefinition reports whether lines[i] is a definition term: an
// unindented line, not a literal-block introducer, directly over an
// indented body.
func startsDefinition(lines []string, i int) bool {
	if i >= len(lines) || blank(lines[i]) || indented(lines[i]) {
		return false
	}
	if _, ok := bulletItem(lines[i]); ok {
		return false
	}
	if strings.HasSuffix(strings.TrimRight(lines[i], " \t"), "::") {
		return false
	}
	return i+1 < len(lines) && indented(lines[i+1])
}

func bulletItem(line string) (string, bool) {
	if strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "- ") {
		return strings.TrimSpace(line[2:]), true
	}
	return "", false
}

func isUnderline(line string, minLen int) bool {
	if len(line) < 2 || len(line) < minLen {
		return false
	}
	char := line[0]
	if !strings.ContainsRune(underlineChars, rune(char)) {
		return false
	}
	for pos := 1; pos < len(line); pos++ {
		if line[pos] != char {
			return false
		}
	}
	return true
}

var (
	inlineLiteralPattern = regexp.MustCompile("``([^`]+)``")
	inlineLinkPattern    = regexp.MustCompile("`([^`<>]*?)\\s*<([^`<>\\s]+)>`__?")
	inlineRefPattern     = regexp.MustCompile("`([^`<>]+)`__?")
)

// renderInline converts the inline syntax of one run of text, escaping
// everything else. Inline syntax that doesn't parse is left as escaped
// text.
func renderInline(text string) string {
	var out strings.Builder
	for text != "" {
		literal := inlineLiteralPattern.FindStringSubmatchIndex(text)
		link := inlineLinkPattern.FindStringSubmatchIndex(text)
		ref := inlineRefPattern.FindStringSubmatchIndex(text)

		// earliest match wins; literals win ties since the other
		// patterns also start on a backtick
		chosen, kind := literal, "literal"
		if link != nil && (chosen == nil || link[0] < chosen[0]) {
			chosen, kind = link, "link"
		}
		if ref != nil && (chosen == nil || ref[0] < chosen[0]) {
			chosen, kind = ref, "ref"
		}
		if chosen == nil {
			out.WriteString(html.EscapeString(text))
			break
		}

		out.WriteString(html.EscapeString(text[:chosen[0]]))
		switch kind {
		case "literal":
			fmt.Fprintf(&out, "<code>%s</code>", html.EscapeString(text[chosen[2]:chosen[3]]))
		case "link":
			label := strings.TrimSpace(text[chosen[2]:chosen[3]])
			url := text[chosen[4]:chosen[5]]
			if label == "" {
				label = url
			}
			fmt.Fprintf(&out, "<a href=\"%s\">%s</a>", html.EscapeString(url), html.EscapeString(label))
		case "ref":
			// a reference without an inline target has nothing to
			// link to; keep the label text
			out.WriteString(html.EscapeString(text[chosen[2]:chosen[3]]))
		}
		text = text[chosen[1]:]
	}
	return out.String()
}
