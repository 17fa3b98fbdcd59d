package internal

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/ivanvladimir/wiki2text/storage"
)

const sampleDump = `<mediawiki>
  <page>
    <title>Architect</title>
    <ns>0</ns>
    <revision>
      <text>An '''architect''' plans [[building]]s.{{cn}}</text>
    </revision>
  </page>
  <page>
    <title>Architekt</title>
    <ns>0</ns>
    <redirect title="Architect" />
    <revision>
      <text>#REDIRECT [[Architect]]</text>
    </revision>
  </page>
  <page>
    <title>Talk:Architect</title>
    <ns>1</ns>
    <revision>
      <text>Not for output.</text>
    </revision>
  </page>
  <page>
    <title>Broken</title>
    <ns>0</ns>
    <revision>
      <text>truncated link [[</text>
    </revision>
  </page>
  <page>
    <title>Builder</title>
    <ns>0</ns>
    <revision>
      <text>A '''builder''' builds.</text>
    </revision>
  </page>
</mediawiki>`

var discard = log.New(io.Discard, "", 0)

func TestRun(t *testing.T) {
	for _, nworkers := range []int{1, 4} {
		var out bytes.Buffer
		err := run(strings.NewReader(sampleDump), &out, nil, nworkers, discard)
		if err != nil {
			t.Fatal(err)
		}

		want := "= Architect =\n" +
			"An architect plans buildings.\n" +
			"= Broken =\n" +
			"= Builder =\n" +
			"A builder builds.\n"
		if got := out.String(); got != want {
			t.Errorf("workers=%d: expected %q, got %q", nworkers, want, got)
		}
	}
}

func TestRun_db(t *testing.T) {
	db, err := storage.MakeDB(":memory:", true, &storage.Settings{Dumpname: "t"})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(strings.NewReader(sampleDump), &out, db, 2, discard); err != nil {
		t.Fatal(err)
	}
	if err := storage.Finalize(db); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := db.QueryRow(`select count(*) from articles`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 stored articles, got %d", n)
	}

	// The header/body asymmetry carries over to the database: a body
	// that could not be filtered is stored empty, not omitted.
	var text string
	err = db.QueryRow(`select text from articles where title = "Broken"`).Scan(&text)
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("expected empty text for unfilterable body, got %q", text)
	}
}
