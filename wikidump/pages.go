// Package wikidump reads MediaWiki XML database exports.
package wikidump

import (
	"encoding/xml"
	"io"
	"strings"
)

// A page from a MediaWiki export. NS holds the numeric namespace id as
// it appears in the dump ("0" is the main content namespace). Redirect
// is non-empty iff the page is a redirect stub, and then names its
// target.
type Page struct {
	Title, Text, NS, Redirect string
}

// Parse out a single page. Assumes a <page> start tag has just been
// consumed; consumes through the matching end tag.
func parsePage(d *xml.Decoder) (*Page, error) {
	var p Page

	for {
		t, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch tok := t.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "title":
				p.Title, err = getText(d)
			case "ns":
				p.NS, err = getText(d)
			case "text":
				p.Text, err = getText(d)
			case "redirect":
				// Both <redirect title="..."/> and
				// <redirect>target</redirect> occur in the wild.
				for _, attr := range tok.Attr {
					if attr.Name.Local == "title" {
						p.Redirect = attr.Value
					}
				}
				if p.Redirect == "" {
					p.Redirect, err = getText(d)
				}
			}
			if err != nil {
				return nil, err
			}

		case xml.EndElement:
			if tok.Name.Local == "page" {
				return &p, nil
			}
		}
	}
}

// Parse text out of an element. Assumes the start tag has already been
// consumed; consumes the whole element. Empty elements yield "".
func getText(d *xml.Decoder) (string, error) {
	var text strings.Builder
	for {
		t, err := d.Token()
		if err != nil {
			return "", err
		}
		switch tok := t.(type) {
		case xml.CharData:
			text.Write(tok)
		case xml.EndElement:
			return text.String(), nil
		}
	}
}

// ReadPages sends every page in the export read from r down the pages
// channel, in dump order and regardless of namespace. The channel is
// closed when the dump is exhausted or on the first decode error, which
// is returned; a broken dump ends the stream, it never panics.
func ReadPages(r io.Reader, pages chan<- *Page) error {
	defer close(pages)

	d := xml.NewDecoder(r)
	for {
		t, err := d.Token()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if tok, ok := t.(xml.StartElement); ok && tok.Name.Local == "page" {
			p, err := parsePage(d)
			if err != nil {
				return err
			}
			pages <- p
		}
	}
}
