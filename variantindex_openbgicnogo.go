//go:build !cgo

package prsqc

// If cgo is not enabled, we will use the modernc.org/sqlite non-cgo sqlite
// driver. It is slower than the sqlite3 cgo driver.

import (
	"fmt"

	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

const whichSQLiteDriver = "sqlite"

// OpenBGI opens the BGEN index at path.
func OpenBGI(path string) (*BGIIndex, error) {
	bgi := &BGIIndex{
		Metadata: &BGIMetadata{},
	}

	db, err := sqlx.Connect(whichSQLiteDriver, bgiURI(genomisc.ExpandHome(path)))
	if err != nil {
		return nil, pfx.Err(err)
	}
	bgi.DB = db

	// See https://www.rockyourcode.com/til-sqlite-foreign-key-support-with-go/
	_, err = db.DB.Exec(`
	PRAGMA journal_mode = OFF;
	PRAGMA synchronous = OFF;
	`)
	if err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("unable to set pragmas: %w", err))
	}

	// Not all index files have metadata; ignore any error
	_ = bgi.DB.Get(bgi.Metadata, "SELECT * FROM Metadata LIMIT 1")

	return bgi, nil
}
