package prsqc

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/carbocation/pfx"
)

// SampleID is one admitted sample.
type SampleID struct {
	FID   string
	IID   string
	Pheno string

	Founder bool
	// InRegression is true for founders, and for everyone when non-founders
	// are kept.
	InRegression bool
	// CalculatePRS and SampleForLD mirror the session bitsets.
	CalculatePRS bool
	SampleForLD  bool
}

// SampleCounts tallies the admitted samples.
type SampleCounts struct {
	Male       int
	Female     int
	AmbigSex   int
	Founder    int
	NonFounder int
	Samples    int
}

// FamLayout gives the token positions of the pedigree fields. A negative
// position means the field is not available.
type FamLayout struct {
	FID, IID, Sex, Father, Mother int
}

// FamColumns is the layout of a PLINK .fam line.
var FamColumns = FamLayout{FID: 0, IID: 1, Father: 2, Mother: 3, Sex: 4}

// SampleSet accumulates the output of GenSample.
type SampleSet struct {
	Samples []SampleID
	// Processed holds the key of every admitted sample.
	Processed map[string]struct{}
	// Duplicates lists keys met again after their first admission.
	Duplicates []string
}

// NewSampleSet returns an empty SampleSet.
func NewSampleSet() *SampleSet {
	return &SampleSet{Processed: make(map[string]struct{})}
}

// Next is the slot the next admitted sample takes in the bitsets.
func (ss *SampleSet) Next() int {
	return len(ss.Samples)
}

// InitSampleVectors allocates the PRS and LD bitsets. UnfilteredSampleCount
// must already be known, normally from the genotype file header.
func (s *Session) InitSampleVectors() error {
	if s.UnfilteredSampleCount <= 0 {
		return pfx.Err(fmt.Errorf("the number of samples is unknown; read the genotype header first"))
	}

	s.CalculatePRS = bitset.New(uint(s.UnfilteredSampleCount))
	s.SampleForLD = bitset.New(uint(s.UnfilteredSampleCount))
	s.SampleCounts = SampleCounts{}
	return nil
}

// GenSample admits the sample described by tokens into set, unless its key
// was already admitted (recorded as a duplicate) or the keep/remove list
// excludes it. A sample is a founder unless one of its parents, by
// FID+delimiter+parent id, is in founders. Parent id "0" means unknown.
func (s *Session) GenSample(layout FamLayout, founders map[string]struct{}, pheno string, tokens []string, set *SampleSet) error {
	if s.UnfilteredSampleCount <= 0 || s.CalculatePRS == nil || s.SampleForLD == nil ||
		s.CalculatePRS.Len() != uint(s.UnfilteredSampleCount) {
		return pfx.Err(fmt.Errorf("sample vectors were not initialized"))
	}
	for _, idx := range []int{layout.FID, layout.IID, layout.Sex, layout.Father, layout.Mother} {
		if idx >= len(tokens) {
			return pfx.Err(fmt.Errorf("sample line %v has %d columns, expected at least %d", tokens, len(tokens), idx+1))
		}
	}
	if layout.IID < 0 {
		return pfx.Err(fmt.Errorf("no IID column was given"))
	}

	fid := field(tokens, layout.FID)
	iid := tokens[layout.IID]
	key := s.sampleKey(fid, iid)

	if _, exists := set.Processed[key]; exists {
		set.Duplicates = append(set.Duplicates, key)
		return nil
	}

	founder := true
	for _, parent := range []string{field(tokens, layout.Father), field(tokens, layout.Mother)} {
		if parent == "" || parent == "0" {
			continue
		}
		if _, exists := founders[s.sampleKey(fid, parent)]; exists {
			founder = false
		}
	}

	// A remove list drops listed samples; a keep list drops the others
	if s.SampleSelection != nil {
		if _, listed := s.SampleSelection[key]; listed == s.RemoveSample {
			return nil
		}
	}

	idx := set.Next()
	if idx >= s.UnfilteredSampleCount {
		return pfx.Err(fmt.Errorf("more samples than the %d declared by the genotype file", s.UnfilteredSampleCount))
	}

	sample := SampleID{
		IID:          iid,
		Pheno:        pheno,
		Founder:      founder,
		InRegression: founder || s.KeepNonfounder,
		CalculatePRS: true,
		SampleForLD:  founder,
	}
	if !s.IgnoreFID {
		sample.FID = fid
	}

	s.CalculatePRS.Set(uint(idx))
	if founder {
		s.SampleForLD.Set(uint(idx))
		s.SampleCounts.Founder++
	} else {
		s.SampleCounts.NonFounder++
	}

	switch field(tokens, layout.Sex) {
	case "1":
		s.SampleCounts.Male++
	case "2":
		s.SampleCounts.Female++
	default:
		s.SampleCounts.AmbigSex++
	}
	s.SampleCounts.Samples++

	set.Samples = append(set.Samples, sample)
	set.Processed[key] = struct{}{}
	return nil
}

func field(tokens []string, idx int) string {
	if idx < 0 || idx >= len(tokens) {
		return ""
	}
	return tokens[idx]
}
