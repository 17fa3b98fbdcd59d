package wikitext

import "html"

// Extract runs the whole filtering pipeline over the raw markup of one
// article: HTML span removal, wikitext stripping, blank-line collapsing
// and entity unescaping.
//
// Severely malformed markup can make the link slicing fall over mid-
// article. That is reported as an error rather than a panic; there is
// nothing useful to salvage at that point, so callers should drop the
// body and move on to the next article.
func Extract(text string) (plain string, err error) {
	defer func() {
		if r := recover(); r != nil {
			plain = ""
			err = r.(error)
		}
	}()

	plain = FilterHTML(text)
	plain = Strip(plain)
	plain = CollapseBlankLines(plain)
	plain = html.UnescapeString(plain)
	return plain, nil
}
