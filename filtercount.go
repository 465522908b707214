package prsqc

// FilterCount names one rejection class of the base file reader.
type FilterCount int

const (
	// CountLines counts every data line read, retained or not.
	CountLines FilterCount = iota
	CountSelect
	CountInvalidChr
	CountHaploid
	CountRegion
	// CountMAF is shared by the overall and the case-only MAF filters.
	CountMAF
	CountInfo
	// CountNotConvert is shared by unreadable p-values and statistics.
	CountNotConvert
	CountPExcluded
	CountNegativeStat
	CountAmbiguous

	filterCountMax
)

func (f FilterCount) String() string {
	switch f {
	case CountLines:
		return "lines"
	case CountSelect:
		return "not selected"
	case CountInvalidChr:
		return "invalid chromosome"
	case CountHaploid:
		return "haploid chromosome"
	case CountRegion:
		return "excluded region"
	case CountMAF:
		return "MAF filtered"
	case CountInfo:
		return "INFO filtered"
	case CountNotConvert:
		return "not convertible"
	case CountPExcluded:
		return "p-value excluded"
	case CountNegativeStat:
		return "negative statistic"
	case CountAmbiguous:
		return "ambiguous"
	default:
		return "Illegal selection"
	}
}

// FilterCounts holds one counter per FilterCount, indexed by its ordinal.
type FilterCounts [filterCountMax]int

// Rejected is the total over every rejection class.
func (c FilterCounts) Rejected() int {
	total := 0
	for i := CountLines + 1; i < filterCountMax; i++ {
		total += c[i]
	}
	return total
}

// Classes lists the rejection classes in reporting order.
func (c FilterCounts) Classes() []FilterCount {
	out := make([]FilterCount, 0, filterCountMax-1)
	for i := CountLines + 1; i < filterCountMax; i++ {
		out = append(out, i)
	}
	return out
}
