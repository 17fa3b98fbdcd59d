package wikitext

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"
)

// Tags whose whole element is non-prose and gets discarded: citations,
// reference lists, galleries, formulas and other embeds.
var skipSpans = map[string]bool{
	"ref":             true,
	"references":      true,
	"gallery":         true,
	"math":            true,
	"chem":            true,
	"score":           true,
	"timeline":        true,
	"hiero":           true,
	"imagemap":        true,
	"source":          true,
	"syntaxhighlight": true,
	"nowiki":          true,
}

// Empty references with attributes, e.g. <ref name=x/>, trip up the XML
// decoder when the attribute value is unquoted. Reduce them all to one
// canonical empty element.
var emptyRef = regexp.MustCompile(`<ref[^>/]*/\s*>`)

// FilterHTML drops all tag markup from text, along with the entire
// content of skip-span elements. Only character data outside skip spans
// survives.
//
// The embedded HTML is frequently not well formed; a decode failure is
// not an error, the text accumulated so far is returned as is. End of
// input while inside a skip span counts as an implicit close.
func FilterHTML(text string) string {
	text = emptyRef.ReplaceAllString(text, "<ref/>")

	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose

	output := bytes.NewBuffer(make([]byte, 0, len(text)))
	var skip string // name of the skip span we are inside, if any

	for {
		t, err := d.Token()
		if err != nil {
			break
		}
		switch tok := t.(type) {
		case xml.StartElement:
			name := strings.ToLower(tok.Name.Local)
			if skip == "" && skipSpans[name] {
				skip = name
			}
		case xml.EndElement:
			if skip != "" && strings.ToLower(tok.Name.Local) == skip {
				skip = ""
			}
		case xml.CharData:
			if skip == "" {
				output.Write(tok)
			}
		}
	}
	return output.String()
}
