// wiki2text: convert a MediaWiki database dump to plain text.
//
// Takes a Wikipedia database dump (or downloads one automatically) and
// writes one plain-text block per article: a "= Title =" header line
// followed by the article's prose with all markup removed.
//
// Run with --help for command-line usage.
package main

import (
	"log"
	"os"
	"runtime"

	"github.com/ivanvladimir/wiki2text/cmd/wiki2text/internal"
	"gopkg.in/alecthomas/kingpin.v2"
)

func init() {
	if os.Getenv("GOMAXPROCS") == "" {
		// Four is about the number of cores that we can put to useful work
		// when the disk is fast.
		runtime.GOMAXPROCS(min(runtime.NumCPU(), 4))
	}
}

var (
	dumppath = kingpin.Arg("dump", "path to MediaWiki dump").String()
	download = kingpin.Flag("download",
		"download dump for the named wiki (e.g., enwiki)").String()
	outpath = kingpin.Flag("out",
		"output file (default: standard output)").String()
	dbpath = kingpin.Flag("db",
		"also store articles in a SQLite database at this path").String()
	nworkers = kingpin.Flag("workers",
		"number of filter workers (0 means all cores)").Default("0").Int()
)

func main() {
	kingpin.Parse()

	log.SetPrefix("wiki2text ")
	logger := log.New(os.Stderr, "wiki2text ", log.LstdFlags)

	err := internal.Main(*dumppath, *download, *outpath, *dbpath, *nworkers,
		logger)
	if err != nil {
		log.Fatal(err)
	}
}
