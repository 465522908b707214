//go:build cgo

package prsqc

// If cgo is enabled, we will use the mattn cgo sqlite3 driver. It is faster
// than the modernc sqlite driver.

import (
	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const whichSQLiteDriver = "sqlite3"

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

	// Not all index files have metadata; ignore any error
	_ = bgi.DB.Get(bgi.Metadata, "SELECT * FROM Metadata LIMIT 1")

	return bgi, nil
}
