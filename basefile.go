package prsqc

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
)

// BaseField identifies a column of the summary statistics file.
type BaseField int

const (
	FieldChr BaseField = iota
	FieldBP
	FieldRS
	FieldEffect
	FieldNonEffect
	FieldP
	FieldStat
	FieldMAF
	FieldMAFCase
	FieldInfo
)

func (f BaseField) String() string {
	switch f {
	case FieldChr:
		return "CHR"
	case FieldBP:
		return "BP"
	case FieldRS:
		return "SNP"
	case FieldEffect:
		return "A1"
	case FieldNonEffect:
		return "A2"
	case FieldP:
		return "P"
	case FieldStat:
		return "STAT"
	case FieldMAF:
		return "MAF"
	case FieldMAFCase:
		return "MAF_CASE"
	case FieldInfo:
		return "INFO"
	default:
		return "Illegal selection"
	}
}

// BaseFile describes where each field lives in the summary statistics file.
// It is read-only after construction.
type BaseFile struct {
	FileName string
	// IsOR is true when the statistic column holds odds ratios.
	IsOR bool

	columns  map[BaseField]int
	maxIndex int
}

// NewBaseFile returns a schema for fileName with the given zero-based
// column positions. Fields missing from columns are absent.
func NewBaseFile(fileName string, isOR bool, columns map[BaseField]int) *BaseFile {
	bf := &BaseFile{
		FileName: fileName,
		IsOR:     isOR,
		columns:  make(map[BaseField]int, len(columns)),
		maxIndex: -1,
	}
	for field, idx := range columns {
		bf.columns[field] = idx
		if idx > bf.maxIndex {
			bf.maxIndex = idx
		}
	}
	return bf
}

// Has reports whether the field was configured.
func (bf *BaseFile) Has(field BaseField) bool {
	if bf == nil {
		return false
	}
	_, exists := bf.columns[field]
	return exists
}

// Column returns the zero-based position of field.
func (bf *BaseFile) Column(field BaseField) (int, bool) {
	if bf == nil {
		return 0, false
	}
	idx, exists := bf.columns[field]
	return idx, exists
}

// MaxIndex is the largest configured column position, or -1.
func (bf *BaseFile) MaxIndex() int {
	if bf == nil {
		return -1
	}
	return bf.maxIndex
}

// ColumnNames are the header names searched for by BaseFileFromHeader. An
// empty name leaves the field absent.
type ColumnNames struct {
	Chr       string `yaml:"chr" toml:"chr"`
	BP        string `yaml:"bp" toml:"bp"`
	SNP       string `yaml:"snp" toml:"snp"`
	Effect    string `yaml:"a1" toml:"a1"`
	NonEffect string `yaml:"a2" toml:"a2"`
	P         string `yaml:"p" toml:"p"`
	Stat      string `yaml:"stat" toml:"stat"`
	MAF       string `yaml:"maf" toml:"maf"`
	MAFCase   string `yaml:"maf_case" toml:"maf_case"`
	Info      string `yaml:"info" toml:"info"`
}

func (c ColumnNames) byField() map[BaseField]string {
	return map[BaseField]string{
		FieldChr:       c.Chr,
		FieldBP:        c.BP,
		FieldRS:        c.SNP,
		FieldEffect:    c.Effect,
		FieldNonEffect: c.NonEffect,
		FieldP:         c.P,
		FieldStat:      c.Stat,
		FieldMAF:       c.MAF,
		FieldMAFCase:   c.MAFCase,
		FieldInfo:      c.Info,
	}
}

// BaseFileFromHeader locates the named columns in the header line. Names
// are matched exactly and the first matching column wins. The SNP column is
// mandatory.
func BaseFileFromHeader(fileName, header string, names ColumnNames, isOR bool) (*BaseFile, error) {
	tokens := strings.Fields(header)
	position := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if _, seen := position[tok]; !seen {
			position[tok] = i
		}
	}

	columns := make(map[BaseField]int)
	for field, name := range names.byField() {
		if name == "" {
			continue
		}
		if idx, exists := position[name]; exists {
			columns[field] = idx
		}
	}

	if _, exists := columns[FieldRS]; !exists {
		return nil, pfx.Err(fmt.Errorf("%s: SNP column %q not found in header", fileName, names.SNP))
	}

	return NewBaseFile(fileName, isOR, columns), nil
}
