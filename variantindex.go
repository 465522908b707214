package prsqc

import (
	"strings"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// BGIIndex is an open BGEN index (.bgi) of a target genotype file.
type BGIIndex struct {
	DB       *sqlx.DB
	Metadata *BGIMetadata
}

func (b *BGIIndex) Close() error {
	return b.DB.Close()
}

// VariantIndex conforms to the data found in the rows of the SQLite table
// "Variant" from BGEN Index (.bgi) files, and can be easily parsed with sqlx.
type VariantIndex struct {
	Chromosome        string
	Position          uint32
	RSID              string `db:"rsid"`
	NAlleles          uint16 `db:"number_of_alleles"`
	Allele1           string
	Allele2           string
	FileStartPosition uint `db:"file_start_position"`
	SizeInBytes       uint `db:"size_in_bytes"`
}

// BGIMetadata conforms to the data found in the rows of the SQLite table
// "Metadata" from more recent versions of BGEN.
type BGIMetadata struct {
	Filename           string
	FileSize           uint   `db:"file_size"`
	LastWriteTime      Time   `db:"last_write_time"`
	FirstThousandBytes []byte `db:"first_1000_bytes"`
	IndexCreationTime  Time   `db:"index_creation_time"`
}

// bgiURI turns a path into the 'file:' URI form; see
// https://www.sqlite.org/c3ref/open.html
func bgiURI(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path
}

// Variants returns every indexed variant in file order.
func (b *BGIIndex) Variants() ([]VariantIndex, error) {
	var out []VariantIndex
	err := b.DB.Select(&out, `SELECT chromosome, position, rsid, number_of_alleles, allele1, allele2, file_start_position, size_in_bytes
FROM Variant ORDER BY file_start_position ASC`)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}
