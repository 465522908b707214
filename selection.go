package prsqc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// rsHeaderNames are the header spellings recognized as an rs-id column,
// compared after lower-casing.
var rsHeaderNames = map[string]struct{}{
	"snp":        {},
	"rs":         {},
	"rsid":       {},
	"rs_id":      {},
	"rs.id":      {},
	"snpid":      {},
	"snp_id":     {},
	"snp.id":     {},
	"variantid":  {},
	"variant_id": {},
	"variant.id": {},
	"marker":     {},
	"markername": {},
}

// GetRSColumn guesses which column of a SNP list holds the rs-id from its
// first line: a single column, a recognized header name, or a PLINK .bim
// layout (chr, id, cM, bp, ...). Anything else defaults to the first column.
func GetRSColumn(line string) int {
	idx, _ := rsColumn(line)
	return idx
}

// rsColumn also reports whether the line is a header that must be skipped.
func rsColumn(line string) (int, bool) {
	tokens := strings.Fields(line)
	if len(tokens) <= 1 {
		return 0, false
	}

	for i, tok := range tokens {
		if _, exists := rsHeaderNames[strings.ToLower(tok)]; exists {
			return i, true
		}
	}

	if len(tokens) >= 5 && looksLikeBIM(tokens) {
		return 1, false
	}

	return 0, false
}

func looksLikeBIM(tokens []string) bool {
	if GetChromCode(tokens[0]) == ChromUnrecognized {
		return false
	}
	if _, err := strconv.ParseFloat(tokens[2], 64); err != nil {
		return false
	}
	if _, err := strconv.ParseUint(tokens[3], 10, 64); err != nil {
		return false
	}
	return true
}

// LoadSNPList reads a set of rs-ids from path. The id column is detected
// from the first line with GetRSColumn.
func (s *Session) LoadSNPList(path string) (map[string]struct{}, error) {
	result := make(map[string]struct{})
	column := -1

	err := s.scanLines(path, func(lineNo int, line string) error {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			return nil
		}

		if column < 0 {
			idx, isHeader := rsColumn(line)
			column = idx
			s.logger().WithField("file", path).WithField("column", column+1).Debug("Detected SNP id column")
			if isHeader {
				return nil
			}
		}

		if column >= len(tokens) {
			return fmt.Errorf("%s line %d: expected at least %d columns", path, lineNo, column+1)
		}
		result[tokens[column]] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, pfx.Err(err)
	}

	return result, nil
}

// LoadRef reads a set of sample keys from path. With ignoreFID the first
// column is the key; otherwise the first two columns are joined with the
// session delimiter and each line must have at least two columns.
func (s *Session) LoadRef(path string, ignoreFID bool) (map[string]struct{}, error) {
	result := make(map[string]struct{})

	err := s.scanLines(path, func(lineNo int, line string) error {
		tokens := strings.Fields(line)
		switch {
		case len(tokens) == 0:
			return nil
		case ignoreFID:
			result[tokens[0]] = struct{}{}
		case len(tokens) < 2:
			return fmt.Errorf("%s line %d: sample lists need FID and IID columns unless FID is ignored", path, lineNo)
		default:
			result[tokens[0]+s.Delimiter+tokens[1]] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, pfx.Err(err)
	}

	return result, nil
}

// SNPExtraction loads the extract list (keep only listed ids) or the
// exclude list (drop listed ids). At most one may be given.
func (s *Session) SNPExtraction(extractFile, excludeFile string) error {
	if extractFile != "" && excludeFile != "" {
		return pfx.Err(fmt.Errorf("cannot extract and exclude SNPs at the same time"))
	}

	var err error
	switch {
	case extractFile != "":
		s.ExcludeSNP = false
		s.SNPSelection, err = s.LoadSNPList(extractFile)
	case excludeFile != "":
		s.ExcludeSNP = true
		s.SNPSelection, err = s.LoadSNPList(excludeFile)
	default:
		return nil
	}
	if err != nil {
		return pfx.Err(err)
	}

	s.logger().WithField("snps", len(s.SNPSelection)).WithField("exclude", s.ExcludeSNP).Info("Loaded SNP selection list")
	return nil
}

// LoadSampleSelection loads the keep or remove list named by Initialize.
func (s *Session) LoadSampleSelection() error {
	var path string
	switch {
	case s.KeepFile != "":
		s.RemoveSample = false
		path = s.KeepFile
	case s.RemoveFile != "":
		s.RemoveSample = true
		path = s.RemoveFile
	default:
		return nil
	}

	selection, err := s.LoadRef(path, s.IgnoreFID)
	if err != nil {
		return pfx.Err(err)
	}
	s.SampleSelection = selection

	s.logger().WithField("samples", len(selection)).WithField("remove", s.RemoveSample).Info("Loaded sample selection list")
	return nil
}
