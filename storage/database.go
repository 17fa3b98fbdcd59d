// Database output for extracted articles.
package storage

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

const create = (`
    pragma journal_mode = off;
    pragma synchronous = off;

    drop table if exists articles;
    drop table if exists parameters;

    create table parameters (
        key   text primary key not NULL,
        value text default NULL
    );

    create table articles (
        title text not NULL,
        text  text not NULL
    );
`)

// Settings are stored in the parameters table so a corpus database
// records which dump it came from.
type Settings struct {
	Dumpname string
}

func MakeDB(path string, overwrite bool, s *Settings) (db *sql.DB, err error) {
	if overwrite {
		os.Remove(path)
	}
	db, err = sql.Open("sqlite3", path)
	if err != nil {
		return
	}
	db.Ping()

	_, err = db.Exec(create)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`insert or replace into parameters values ("dumpname", ?)`,
		s.Dumpname)
	if err != nil {
		return nil, err
	}
	return
}

// An Article ready for storage: one title plus its plain-text body. The
// body may be empty when filtering gave up on it.
type Article struct {
	Title, Text string
}

// StoreArticles collects articles from the channel and stores them in
// the database. The first database error stops storing, but the channel
// is drained to the end so the producer never blocks.
func StoreArticles(db *sql.DB, articles <-chan Article) (err error) {
	ins, err := db.Prepare(`insert into articles values (?, ?)`)
	if err != nil {
		return
	}

	for a := range articles {
		if err == nil {
			_, err = ins.Exec(a.Title, a.Text)
		}
	}
	return
}

// Finalize a database after all articles have been stored.
func Finalize(db *sql.DB) (err error) {
	_, err = db.Exec(`create index articles_title on articles(title)`)
	return
}

// LoadSettings reads back the settings stored by MakeDB.
func LoadSettings(db *sql.DB) (*Settings, error) {
	var s Settings
	err := db.QueryRow(
		`select value from parameters where key = "dumpname"`).Scan(&s.Dumpname)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
