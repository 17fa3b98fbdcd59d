package wikitext

import "testing"

func assertStringEq(t *testing.T, a, b string) {
	t.Helper()
	if a != b {
		t.Errorf("%q != %q", a, b)
	}
}

func TestSkipNested(t *testing.T) {
	in := "{{outer {{inner}} still-outer}} tail"
	if got := skipNested(in, 0, '{', '}'); got != 31 {
		t.Errorf("expected position 31 (after the outer template), got %d", got)
	}

	// Unterminated constructs skip to end of text.
	if got := skipNested("{{never closed", 0, '{', '}'); got != 14 {
		t.Errorf("expected end of text (14), got %d", got)
	}
	if got := skipNested("[", 0, '[', ']'); got != 1 {
		t.Errorf("expected end of text (1), got %d", got)
	}
}

func TestStrip(t *testing.T) {
	cases := []struct{ in, out string }{
		// Text without markup comes through untouched.
		{"Hello, world.", "Hello, world."},
		{"1 + 1 = 2, they say.", "1 + 1 = 2, they say."},

		{"'''bold''' and ''italic''", "bold and italic"},
		{"{{infobox|foo=bar}} Hello", " Hello"},
		{"{{math|bla{{?}}}}!{{bla", "!"},

		{"[[Paris|the City of Light]]", "the City of Light"},
		{"[[Paris]]", "Paris"},
		{"[[Category:Cities]]", ""},
		{"[[File:foo.png|thumb|A caption]]", ""},
		{"see [[special relativity]] for details",
			"see special relativity for details"},

		{"[http://example.com An example]", "An example"},
		{"[http://example.com]", ""},

		{"* item one\n* item two", "item one\nitem two"},
		{"; term\n: definition", "term\ndefinition"},
		{"#REDIRECT [[Other page]]", ""},
		{"#redirect[[other]]\n", "\n"},

		// Table rows left over from a table whose {| was hidden in an
		// unexpanded template.
		// Removed row lines leave their newlines behind; blank-line
		// collapsing deals with those later in the pipeline.
		{"|- style=\"bla\"\ntext\n! header\n", "\ntext\n\n"},

		// Tables disappear along with their content.
		{"before{|\n|-\n| cell\n|}after", "beforeafter"},

		// Stray characters that turn out not to be markup are kept.
		{"a { b", "a { b"},
		{"don't", "don't"},
		{"5|3 divides", "5|3 divides"},

		// Unterminated templates are skipped to end of text.
		{"text {{unclosed and more", "text "},
	}

	for _, c := range cases {
		assertStringEq(t, Strip(c.in), c.out)
	}
}

func TestStrip_nestedLinks(t *testing.T) {
	// The display label itself may contain markup.
	assertStringEq(t, Strip("[[foo|''bar'']]"), "bar")
	assertStringEq(t, Strip("[[foo|{{tmpl}}baz]]"), "baz")
}

func TestCollapseBlankLines(t *testing.T) {
	cases := []struct{ in, out string }{
		{"a\n\n\n\nb", "a\n\nb"},
		{"a\n\n\n\n\n\nb", "a\n\nb"},
		{"a\n \n\t\n \nb", "a\n\nb"},
		// A single blank line is left alone.
		{"a\n\nb", "a\n\nb"},
		{"a\nb", "a\nb"},
	}
	for _, c := range cases {
		got := CollapseBlankLines(c.in)
		assertStringEq(t, got, c.out)
		// Idempotence: collapsing twice equals collapsing once.
		assertStringEq(t, CollapseBlankLines(got), c.out)
	}
}
