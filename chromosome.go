package prsqc

import (
	"strconv"
	"strings"
)

// ChromCode is the canonical integer form of a chromosome token. Autosomes
// are their numeral; the sex and mitochondrial chromosomes use the reserved
// codes below, chosen to sit above any plausible autosome count.
type ChromCode int

const (
	// ChromAbsent means the chromosome column was not configured at all.
	ChromAbsent ChromCode = -2

	// ChromUnrecognized means the token could not be interpreted.
	ChromUnrecognized ChromCode = -1

	// MaxAutosome bounds the numerals accepted as autosomes.
	MaxAutosome = 250

	ChromX  ChromCode = 251
	ChromY  ChromCode = 252
	ChromXY ChromCode = 253
	ChromMT ChromCode = 254
)

// IsSexOrMT reports whether the code is one of the reserved non-autosomal
// codes.
func (c ChromCode) IsSexOrMT() bool {
	switch c {
	case ChromX, ChromY, ChromXY, ChromMT:
		return true
	}
	return false
}

// String returns the standard string translation of the code.
func (c ChromCode) String() string {
	chromosome := "NA"
	switch {
	case c == ChromX:
		chromosome = "X"
	case c == ChromY:
		chromosome = "Y"
	case c == ChromXY:
		chromosome = "XY"
	case c == ChromMT:
		chromosome = "MT"
	case c > 0 && c <= MaxAutosome:
		chromosome = strconv.Itoa(int(c))
	}

	return chromosome
}

// ChrPrefix is true if the token starts with "chr", ignoring case.
func ChrPrefix(token string) bool {
	return len(token) >= 3 && strings.EqualFold(token[:3], "chr")
}

// GetChromCode canonicalizes a chromosome token. "1", "chr1" and "CHR1" are
// the same chromosome, as are "X", "chrX" and "0X". Numerals are returned
// as-is (up to MaxAutosome); whether they exceed the configured autosome
// count is decided by the caller.
func GetChromCode(token string) ChromCode {
	if ChrPrefix(token) {
		token = token[3:]
	}
	if token == "" {
		return ChromUnrecognized
	}

	if n, err := strconv.Atoi(token); err == nil {
		// Atoi accepts a leading sign, which a chromosome never has
		if token[0] == '+' || token[0] == '-' || n < 1 || n > MaxAutosome {
			return ChromUnrecognized
		}
		return ChromCode(n)
	}

	switch strings.ToUpper(token) {
	case "X", "0X":
		return ChromX
	case "Y", "0Y":
		return ChromY
	case "XY", "0XY":
		return ChromXY
	case "M", "MT", "0M", "0MT":
		return ChromMT
	}

	return ChromUnrecognized
}
