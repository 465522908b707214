package prsqc

import (
	"fmt"
	"math"
	"strconv"

	"github.com/carbocation/pfx"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LocAbsent is returned by ParseLoc when the position column is absent.
const LocAbsent int64 = -1

// ChrStatus is the outcome of ParseChr.
type ChrStatus int

const (
	ChrValid ChrStatus = iota
	// ChrUnrecognized means the token is not a chromosome.
	ChrUnrecognized
	// ChrExcluded means a sex or mitochondrial chromosome, or a numeral above
	// the autosome count.
	ChrExcluded
)

// PStatus is the outcome of ParsePValue.
type PStatus int

const (
	PValid PStatus = iota
	PNotConvertible
	// PAboveThreshold is a soft reject: the value exceeds the inclusion bound.
	PAboveThreshold
	// POutOfRange means a value outside [0,1], which indicates a corrupt file.
	POutOfRange
)

// StatStatus is the outcome of ParseStat.
type StatStatus int

const (
	StatValid StatStatus = iota
	// StatNotConvertible also covers an odds ratio of exactly zero.
	StatNotConvertible
	StatNegativeOR
)

// RSStatus is the outcome of ParseRSID.
type RSStatus int

const (
	RSValid RSStatus = iota
	RSDuplicate
	RSNotSelected
)

// newAlleleCaser returns the Caser that normalizes alleles. A Caser holds
// state, so each scan makes its own and never shares it between goroutines.
func newAlleleCaser() cases.Caser {
	return cases.Upper(language.Und)
}

func token(tokens []string, bf *BaseFile, field BaseField) (string, bool) {
	idx, exists := bf.Column(field)
	if !exists || idx >= len(tokens) {
		return "", false
	}
	return tokens[idx], true
}

// parseFloat is strict: "NA", "nan" and infinities are not numbers here.
func parseFloat(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseChr reads the chromosome column. An absent column yields ChromAbsent
// and ChrValid.
func (s *Session) ParseChr(tokens []string, bf *BaseFile, field BaseField) (ChromCode, ChrStatus) {
	raw, exists := token(tokens, bf, field)
	if !exists {
		return ChromAbsent, ChrValid
	}

	chr := GetChromCode(raw)
	switch {
	case chr == ChromUnrecognized:
		return chr, ChrUnrecognized
	case chr.IsSexOrMT(), int(chr) > s.AutosomeCount:
		return chr, ChrExcluded
	}

	return chr, ChrValid
}

// ParseAllele returns the upper-cased allele, or "" if the column is absent.
func ParseAllele(tokens []string, bf *BaseFile, field BaseField) string {
	return parseAllele(tokens, bf, field, newAlleleCaser())
}

func parseAllele(tokens []string, bf *BaseFile, field BaseField, caser cases.Caser) string {
	raw, exists := token(tokens, bf, field)
	if !exists {
		return ""
	}
	return caser.String(raw)
}

// ParseLoc reads a non-negative coordinate. An absent column yields
// LocAbsent and true; a negative or non-numeric value yields false.
func ParseLoc(tokens []string, bf *BaseFile, field BaseField) (int64, bool) {
	raw, exists := token(tokens, bf, field)
	if !exists {
		return LocAbsent, true
	}

	loc, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, false
	}
	return int64(loc), true
}

// BaseFilterByValue is true when the row should be dropped: the value is
// below threshold or is not a number. Absent columns never filter.
func BaseFilterByValue(tokens []string, bf *BaseFile, threshold float64, field BaseField) bool {
	raw, exists := token(tokens, bf, field)
	if !exists {
		return false
	}

	v, ok := parseFloat(raw)
	if !ok {
		return true
	}
	return v < threshold
}

// ParsePValue converts raw and checks it against [0,1] and the inclusion
// bound upper.
func ParsePValue(raw string, upper float64) (float64, PStatus) {
	p, ok := parseFloat(raw)
	if !ok {
		return 0, PNotConvertible
	}
	if p < 0 || p > 1 {
		return p, POutOfRange
	}
	if p > upper {
		return p, PAboveThreshold
	}
	return p, PValid
}

// ParseStat converts raw. Odds ratios are returned on the log scale and
// must be positive; plain effect sizes may take any sign.
func ParseStat(raw string, isOR bool) (float64, StatStatus) {
	stat, ok := parseFloat(raw)
	if !ok {
		return 0, StatNotConvertible
	}
	if !isOR {
		return stat, StatValid
	}

	switch {
	case stat == 0:
		return 0, StatNotConvertible
	case stat < 0:
		return stat, StatNegativeOR
	}
	return math.Log(stat), StatValid
}

// ParseRSID returns the rs-id of the row. It is an error for the schema to
// have no rs-id column. seen holds the ids already encountered in this run.
func (s *Session) ParseRSID(tokens []string, seen map[string]struct{}, bf *BaseFile) (string, RSStatus, error) {
	idx, exists := bf.Column(FieldRS)
	if !exists {
		return "", RSValid, pfx.Err(fmt.Errorf("%s: no SNP id column was provided", bf.FileName))
	}
	if idx >= len(tokens) {
		return "", RSValid, pfx.Err(fmt.Errorf("%s: SNP id column %d is beyond the %d columns of the row", bf.FileName, idx+1, len(tokens)))
	}

	rs := tokens[idx]
	if _, dup := seen[rs]; dup {
		return rs, RSDuplicate, nil
	}

	if !s.snpSelected(rs) {
		return rs, RSNotSelected, nil
	}

	return rs, RSValid, nil
}

// snpSelected applies the extract or exclude list. Without a list every
// variant passes.
func (s *Session) snpSelected(rs string) bool {
	if s.SNPSelection == nil {
		return true
	}
	_, listed := s.SNPSelection[rs]
	if s.ExcludeSNP {
		return !listed
	}
	return listed
}

// Ambiguous reports whether two single-base alleles cannot be told apart
// after reverse complementing: A/T, G/C, or a base paired with itself.
func Ambiguous(a1, a2 string) bool {
	if len(a1) != 1 || len(a2) != 1 {
		return false
	}

	x, y := upperBase(a1[0]), upperBase(a2[0])
	if x == y {
		return isBase(x)
	}
	return complement(x) == y
}

func upperBase(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func isBase(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

func complement(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	}
	return 0
}
