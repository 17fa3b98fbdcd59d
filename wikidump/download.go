package wikidump

import (
	"bufio"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb"
)

func nullLogger(string, ...interface{}) {
}

// Writer with progressbar.
type pbWriter struct {
	w   io.WriteCloser
	bar *pb.ProgressBar
}

func newPbWriter(w io.WriteCloser, total int64) *pbWriter {
	pbw := &pbWriter{w, pb.New64(total).SetUnits(pb.U_BYTES)}
	pbw.bar.Start()
	return pbw
}

func (w *pbWriter) Close() error {
	w.bar.Finish()
	return w.w.Close()
}

func (w *pbWriter) Write(p []byte) (n int, err error) {
	n, err = w.w.Write(p)
	w.bar.Add(n)
	return
}

// Download the latest database dump for wikiname (e.g., "enwiki",
// "nds_nlwiki") from WikiMedia into directory.
//
// Returns the local file path of the dump, derived from the URL.
//
// Shows a progress bar on the terminal if logProgress is true.
func Download(wikiname, directory string, logProgress bool) (string, error) {
	return download(wikiname, directory, logProgress, http.DefaultClient)
}

func download(wikiname, directory string, logProgress bool,
	client *http.Client) (filepath string, err error) {

	logprint := nullLogger
	if logProgress {
		logprint = log.Printf
	}

	urlstr := fmt.Sprintf(
		"https://dumps.wikimedia.org/%s/latest/%s-latest-pages-articles.xml.bz2",
		wikiname, wikiname)
	resp, err := client.Get(urlstr)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("HTTP error %d for %s", resp.StatusCode, urlstr)
		return
	}

	u, err := url.Parse(urlstr)
	if err != nil {
		return
	}
	filepath = path.Join(directory, path.Base(u.Path))

	var out io.WriteCloser
	out, err = os.OpenFile(filepath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return
	}
	defer out.Close()

	logprint("downloading from %s to %s", urlstr, filepath)
	if logProgress && resp.ContentLength >= 0 {
		out = newPbWriter(out, resp.ContentLength)
	}
	_, err = io.Copy(out, resp.Body)
	logprint("download of %s done", urlstr)
	return
}

// The big wikis are only published in numbered parts; their names all
// look like enwiki-20150304-pages-articles1.xml-p000000010p000010000.bz2.
var partHref = regexp.MustCompile(`pages-articles\d+\.xml.*\.bz2$`)

// Parts lists the URLs of the numbered parts of the latest multi-part
// dump for wikiname, in index order.
func Parts(wikiname string) ([]string, error) {
	return parts(wikiname, http.DefaultClient)
}

func parts(wikiname string, client *http.Client) (urls []string, err error) {
	urlstr := fmt.Sprintf("https://dumps.wikimedia.org/%s/latest/", wikiname)
	resp, err := client.Get(urlstr)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("HTTP error %d for %s", resp.StatusCode, urlstr)
		return
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return
	}
	paths, err := parseDumpIndex(doc)
	if err != nil {
		return
	}

	urls = make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, "https://dumps.wikimedia.org"+p)
	}
	return
}

// parseDumpIndex extracts the paths of the numbered pages-articles
// files from a dump index page.
func parseDumpIndex(doc *goquery.Document) (paths []string, err error) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if partHref.MatchString(href) {
			paths = append(paths, href)
		}
	})
	if len(paths) == 0 {
		err = errors.New("no dump files found in index")
	}
	return
}

// Open a dump file for reading, decompressing .bz2 transparently.
func Open(path string) (r io.ReadCloser, err error) {
	rf, err := os.Open(path)
	if err != nil {
		return
	}
	r = struct {
		*bufio.Reader
		io.Closer
	}{bufio.NewReader(rf), rf}
	if filepath.Ext(path) == ".bz2" {
		r = struct {
			io.Reader
			io.Closer
		}{bzip2.NewReader(r), rf}
	}
	return
}
