package prsqc

import "sort"

// RetainedVariant is a base file variant that cleared every filter.
type RetainedVariant struct {
	RSID            string
	Chromosome      ChromCode
	Position        int64
	EffectAllele    string
	NonEffectAllele string
	// Stat is on the log scale when the base file holds odds ratios.
	Stat   float64
	PValue float64

	Category   int
	PThreshold float64
}

// SortedVariants returns the retained variants ordered by chromosome,
// position and rs-id.
func (s *Session) SortedVariants() []RetainedVariant {
	out := make([]RetainedVariant, 0, len(s.Variants))
	for _, v := range s.Variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Chromosome != out[j].Chromosome {
			return out[i].Chromosome < out[j].Chromosome
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].RSID < out[j].RSID
	})
	return out
}
