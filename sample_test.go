package prsqc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInitSampleVectors(t *testing.T) {
	s := quietSession()
	if err := s.InitSampleVectors(); err == nil {
		t.Errorf("initializing without a sample count should fail")
	}

	s.UnfilteredSampleCount = 1025
	s.SampleCounts = SampleCounts{Male: 3, Samples: 3}
	if err := s.InitSampleVectors(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(SampleCounts{}, s.SampleCounts); diff != "" {
		t.Errorf("counters should be reset (-want +got):\n%s", diff)
	}
	if s.CalculatePRS.Len() != 1025 || s.SampleForLD.Len() != 1025 {
		t.Errorf("Got %d and %d bits, expected %d", s.CalculatePRS.Len(), s.SampleForLD.Len(), 1025)
	}
	if s.CalculatePRS.Count() != 0 || s.SampleForLD.Count() != 0 {
		t.Errorf("new vectors should be empty")
	}
}

func TestGenSample(t *testing.T) {
	s := quietSession()
	s.Delimiter = " "
	s.SampleSelection = idSet("REMOVE1 REMOVE1", "REMOVE2 REMOVE2")
	s.RemoveSample = true
	s.UnfilteredSampleCount = 65
	if err := s.InitSampleVectors(); err != nil {
		t.Fatal(err)
	}

	founders := idSet("FAM1 DAD1", "FAM1 MUM1", "FAM2 MUM2", "FAM3 DAD1")
	set := NewSampleSet()

	type step struct {
		tokens       []string
		keep         bool
		founder      bool
		inRegression bool
	}

	run := func(c step) {
		t.Helper()
		before := len(set.Samples)
		if err := s.GenSample(FamColumns, founders, c.tokens[5], c.tokens, set); err != nil {
			t.Fatal(err)
		}
		if !c.keep {
			if len(set.Samples) != before {
				t.Errorf("%v: should not be admitted", c.tokens)
			}
			return
		}
		if len(set.Samples) != before+1 {
			t.Fatalf("%v: should be admitted", c.tokens)
		}
		got := set.Samples[before]
		if got.Founder != c.founder || got.InRegression != c.inRegression || !got.CalculatePRS || got.SampleForLD != c.founder {
			t.Errorf("%v: Got %+v, expected founder=%v regression=%v", c.tokens, got, c.founder, c.inRegression)
		}
		if !s.CalculatePRS.Test(uint(before)) || s.SampleForLD.Test(uint(before)) != c.founder {
			t.Errorf("%v: bit %d does not match the sample", c.tokens, before)
		}
	}

	// Founder
	run(step{[]string{"ID1", "ID1", "0", "0", "1", "1"}, true, true, true})
	// Non-founder, left out of the regression
	run(step{[]string{"FAM1", "BOY1", "DAD1", "MUM1", "1", "0"}, true, false, false})

	s.KeepNonfounder = true
	run(step{[]string{"FAM2", "GIRL1", "DAD2", "MUM2", "2", "0"}, true, false, true})
	// Parents that are not in the file make a founder
	run(step{[]string{"FAM4", "GIRL2", "DAD4", "MUM4", "2", "1"}, true, true, true})
	run(step{[]string{"FAM3", "BOY2", "0", "MUM2", "1", "1"}, true, true, true})
	// One known parent is enough to be a non-founder
	run(step{[]string{"FAM1", "BOY3", "0", "MUM1", "1", "1"}, true, false, true})
	// Removal needs both FID and IID to match
	run(step{[]string{"REMOVE1", "REMOVE1", "0", "MUM1", "1", "1"}, false, false, false})
	run(step{[]string{"REMOVE1", "BOY4", "0", "MUM1", "1", "1"}, true, true, true})

	s.RemoveSample = false
	run(step{[]string{"REMOVE2", "REMOVE2", "0", "MUM1", "1", "1"}, true, true, true})

	s.RemoveSample = true
	s.IgnoreFID = true
	run(step{[]string{"ABC", "ID2", "0", "0", "1", "1"}, true, true, true})
	if got := set.Samples[len(set.Samples)-1]; got.FID != "" || got.IID != "ID2" {
		t.Errorf("Got FID %q IID %q, expected no FID and IID ID2", got.FID, got.IID)
	}

	s.IgnoreFID = false
	run(step{[]string{"ID1", "ID1", "0", "0", "1", "1"}, false, false, false})

	if diff := cmp.Diff([]string{"ID1 ID1"}, set.Duplicates); diff != "" {
		t.Errorf("duplicates mismatch (-want +got):\n%s", diff)
	}

	expected := SampleCounts{Male: 7, Female: 2, Founder: 6, NonFounder: 3, Samples: 9}
	if diff := cmp.Diff(expected, s.SampleCounts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if s.CalculatePRS.Count() != 9 || s.SampleForLD.Count() != 6 {
		t.Errorf("Got %d PRS and %d LD samples, expected %d and %d", s.CalculatePRS.Count(), s.SampleForLD.Count(), 9, 6)
	}
}

func TestGenSampleWithoutSelection(t *testing.T) {
	for _, remove := range []bool{true, false} {
		s := &Session{Delimiter: " ", UnfilteredSampleCount: 2, RemoveSample: remove}
		if err := s.InitSampleVectors(); err != nil {
			t.Fatal(err)
		}

		set := NewSampleSet()
		if err := s.GenSample(FamColumns, nil, "1", []string{"F", "I", "0", "0", "2", "1"}, set); err != nil {
			t.Fatal(err)
		}
		if len(set.Samples) != 1 {
			t.Errorf("remove=%v: Got %d samples, expected %d", remove, len(set.Samples), 1)
		}
		if !s.CalculatePRS.Test(0) || !s.SampleForLD.Test(0) {
			t.Errorf("remove=%v: bit 0 should be set", remove)
		}
	}

	// An empty keep list admits nobody
	s := &Session{Delimiter: " ", UnfilteredSampleCount: 2, SampleSelection: map[string]struct{}{}}
	if err := s.InitSampleVectors(); err != nil {
		t.Fatal(err)
	}
	set := NewSampleSet()
	if err := s.GenSample(FamColumns, nil, "1", []string{"F", "I", "0", "0", "2", "1"}, set); err != nil {
		t.Fatal(err)
	}
	if len(set.Samples) != 0 {
		t.Errorf("Got %d samples, expected %d", len(set.Samples), 0)
	}
}

func TestGenSampleUninitialized(t *testing.T) {
	s := quietSession()
	err := s.GenSample(FamColumns, nil, "1", []string{"F", "I", "0", "0", "1", "1"}, NewSampleSet())
	if err == nil {
		t.Errorf("GenSample before InitSampleVectors should fail")
	}
}

func TestGenSampleTooMany(t *testing.T) {
	s := quietSession()
	s.UnfilteredSampleCount = 1
	if err := s.InitSampleVectors(); err != nil {
		t.Fatal(err)
	}

	set := NewSampleSet()
	if err := s.GenSample(FamColumns, nil, "1", []string{"F", "I1", "0", "0", "1", "1"}, set); err != nil {
		t.Fatal(err)
	}
	if err := s.GenSample(FamColumns, nil, "1", []string{"F", "I2", "0", "0", "1", "1"}, set); err == nil {
		t.Errorf("admitting more samples than declared should fail")
	}
}
