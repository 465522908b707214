package prsqc

// WhichSQLiteDriver names the database/sql driver used for .bgi files: the
// cgo driver when cgo is available, the pure Go one otherwise.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}

// flipStrand reverse complements a single-base allele. Longer alleles and
// unknown bases are returned unchanged.
func flipStrand(allele string) string {
	if len(allele) != 1 {
		return allele
	}
	if c := complement(upperBase(allele[0])); c != 0 {
		return string(c)
	}
	return allele
}
