// Package wikitext reduces MediaWiki markup to plain text.
//
// Templates and tables are thrown away wholesale, links are reduced to
// their display text, formatting markers are dropped. The result is
// best-effort prose for corpus building, not a rendering of the markup.
package wikitext

import (
	"bytes"
	"regexp"
	"strings"
)

// Characters that interrupt a plain run of text: template and table
// openers, link brackets, apostrophe markup, list/indent markers and
// stray table-row syntax.
var interesting = regexp.MustCompile(`[*#:;|!{\[']`)

var (
	apostrophes  = regexp.MustCompile(`^'''?`)
	redirectDecl = regexp.MustCompile(`(?i)^#[ \t]*redirect[^\n]*`)
	listMarkers  = regexp.MustCompile(`^[*#:;]+[ \t]*`)
	tableRow     = regexp.MustCompile(`^[|!][^\n]*`)
)

// skipNested returns the position just past the delimiter that closes
// the open delimiter at text[pos], counting nested pairs. An
// unterminated construct skips to end of text rather than failing.
func skipNested(text string, pos int, open, close byte) int {
	depth := 1
	for i := pos + 1; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}

// internalLink returns the display text of a full [[...]] span.
// Namespace, interwiki and category links (anything with a colon) render
// as nothing at all.
func internalLink(span string) string {
	inner := span[2 : len(span)-2]
	if strings.Contains(inner, ":") {
		return ""
	}
	inner = Strip(inner)
	if pipe := strings.LastIndexByte(inner, '|'); pipe != -1 {
		return inner[pipe+1:]
	}
	return inner
}

// externalLink returns the label of a full [...] span. A bare URL with
// no label renders as nothing.
func externalLink(span string) string {
	space := strings.IndexByte(span, ' ')
	if space == -1 {
		return ""
	}
	return Strip(span[space+1 : len(span)-1])
}

// formatToken returns the length of the formatting token at text[pos],
// or zero if there is none. Line-oriented tokens (redirect declarations,
// list markers, table-row fragments) match at line starts only.
func formatToken(text string, pos int) int {
	rest := text[pos:]
	if m := apostrophes.FindString(rest); m != "" {
		return len(m)
	}
	if pos == 0 || text[pos-1] == '\n' {
		for _, re := range []*regexp.Regexp{redirectDecl, listMarkers, tableRow} {
			if m := re.FindString(rest); m != "" {
				return len(m)
			}
		}
	}
	return 0
}

// Strip removes wikitext markup from text in a single pass.
//
// Templates ({{...}}) and tables ({|...|}) disappear along with their
// content; links are replaced by the text a reader would see; bold and
// italic markers, list bullets, redirect lines and loose table rows are
// dropped. Anything else is copied through verbatim.
func Strip(text string) string {
	output := bytes.NewBuffer(make([]byte, 0, len(text)))

	pos := 0
	for pos < len(text) {
		next := interesting.FindStringIndex(text[pos:])
		if next == nil {
			output.WriteString(text[pos:])
			break
		}
		output.WriteString(text[pos : pos+next[0]])
		pos += next[0]

		rest := text[pos:]
		switch {
		case strings.HasPrefix(rest, "{{") || strings.HasPrefix(rest, "{|"):
			pos = skipNested(text, pos, '{', '}')
		case rest[0] == '[':
			end := skipNested(text, pos, '[', ']')
			span := text[pos:end]
			if strings.HasPrefix(span, "[[") {
				output.WriteString(internalLink(span))
			} else {
				output.WriteString(externalLink(span))
			}
			pos = end
		default:
			if n := formatToken(text, pos); n > 0 {
				pos += n
			} else {
				// Not markup after all; emit the character so the
				// scan always makes progress.
				output.WriteByte(text[pos])
				pos++
			}
		}
	}
	return output.String()
}

var blankLines = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

// CollapseBlankLines reduces every run of two or more blank (or
// whitespace-only) lines to a single blank line. Idempotent.
func CollapseBlankLines(text string) string {
	return blankLines.ReplaceAllString(text, "\n\n")
}
