// wiki2text: converter from MediaWiki database dumps to plain text.
package internal

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ivanvladimir/wiki2text/storage"
	"github.com/ivanvladimir/wiki2text/wikidump"
	"github.com/ivanvladimir/wiki2text/wikitext"
)

// Main converts the dump at dumppath (downloaded first when download
// names a wiki) to plain text at outpath, or standard output when
// outpath is empty. When dbpath is non-empty the articles also go into
// a SQLite database there.
func Main(dumppath, download, outpath, dbpath string, nworkers int,
	logger *log.Logger) (err error) {

	defer func() {
		if r := recover(); r != nil {
			err = r.(error)
		}
	}()
	realMain(dumppath, download, outpath, dbpath, nworkers, logger)
	return
}

func realMain(dumppath, download, outpath, dbpath string, nworkers int,
	logger *log.Logger) {

	var err error
	check := func() {
		if err != nil {
			panic(err)
		}
	}

	if download != "" {
		dumppath, err = wikidump.Download(download, ".", true)
		check()
	} else if dumppath == "" {
		panic(errors.New("no --download and no dump path specified (try --help)"))
	}

	f, err := wikidump.Open(dumppath)
	check()
	defer f.Close()

	out := io.Writer(os.Stdout)
	if outpath != "" {
		var of *os.File
		of, err = os.Create(outpath)
		check()
		defer of.Close()
		out = of
	}

	var db *sql.DB
	if dbpath != "" {
		logger.Printf("creating database at %s", dbpath)
		db, err = storage.MakeDB(dbpath, true,
			&storage.Settings{Dumpname: dumppath})
		check()
	}

	if nworkers < 1 {
		nworkers = runtime.GOMAXPROCS(0)
	}
	logger.Printf("processing dump with %d workers", nworkers)
	err = run(f, out, db, nworkers, logger)
	check()

	if db != nil {
		logger.Println("finalizing database")
		err = storage.Finalize(db)
		check()
		err = db.Close()
		check()
	}
}

type job struct {
	index int
	page  *wikidump.Page
}

type block struct {
	index       int
	title, body string
}

// run drives the pipeline: one dump reader, nworkers filter workers and
// an order-preserving collector writing to out (and db when non-nil).
// Pages outside the main namespace and redirect stubs produce no output
// at all.
func run(in io.Reader, out io.Writer, db *sql.DB, nworkers int,
	logger *log.Logger) error {

	pages := make(chan *wikidump.Page, 10*nworkers)
	jobs := make(chan job, 10*nworkers)
	blocks := make(chan block, 10*nworkers)

	readErr := make(chan error, 1)
	go func() {
		readErr <- wikidump.ReadPages(in, pages)
	}()

	// Select and number the articles to emit. Numbering before the
	// fan-out is what lets the collector restore dump order.
	go func() {
		var n int
		for p := range pages {
			if p.NS != "0" || p.Redirect != "" {
				continue
			}
			jobs <- job{n, p}
			n++
		}
		close(jobs)
	}()

	var narticles uint32
	var wg sync.WaitGroup
	wg.Add(nworkers)
	for i := 0; i < nworkers; i++ {
		go func() {
			for j := range jobs {
				blocks <- block{j.index, j.page.Title,
					extractBody(j.page, logger)}
				atomic.AddUint32(&narticles, 1)
			}
			wg.Done()
		}()
	}
	go func() {
		wg.Wait()
		close(blocks)
	}()

	go pageProgress(&narticles, logger, &wg)

	var articles chan storage.Article
	var storeErr chan error
	if db != nil {
		articles = make(chan storage.Article, 10*nworkers)
		storeErr = make(chan error, 1)
		go func() {
			storeErr <- storage.StoreArticles(db, articles)
		}()
	}

	w := bufio.NewWriter(out)
	pending := make(map[int]block)
	next := 0
	var err error
	for b := range blocks {
		pending[b.index] = b
		for {
			nb, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if err == nil {
				_, err = fmt.Fprintf(w, "= %s =\n%s", nb.title, nb.body)
			}
			if articles != nil {
				articles <- storage.Article{Title: nb.title, Text: nb.body}
			}
		}
	}
	if articles != nil {
		close(articles)
	}
	if err == nil {
		err = w.Flush()
	}

	// Check the producers' errors now, after all goroutines are done.
	if e := <-readErr; err == nil {
		err = e
	}
	if storeErr != nil {
		if e := <-storeErr; err == nil {
			err = e
		}
	}
	return err
}

// extractBody filters one article's markup. The caller has committed to
// the header line before the body is filtered; when filtering fails the
// body is dropped and the header stands alone.
func extractBody(p *wikidump.Page, logger *log.Logger) string {
	body, err := wikitext.Extract(p.Text)
	if err != nil {
		logger.Printf("dropping body of %q: %v", p.Title, err)
		return ""
	}
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return body
}

// Regularly report the number of articles processed so far.
func pageProgress(narticles *uint32, logger *log.Logger, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		done <- struct{}{}
	}()

	timeout := time.Tick(15 * time.Second)
	for {
		select {
		case <-done:
			logger.Printf("processed all %d articles",
				atomic.LoadUint32(narticles))
			return
		case <-timeout:
			logger.Printf("processed %d articles",
				atomic.LoadUint32(narticles))
		}
	}
}
