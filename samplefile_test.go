package prsqc

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadSamplesFam(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "geno.fam", "F1 I1 0 0 1 -9\nF1 I2 0 0 2 -9\nF1 K1 I1 I2 1 1\nF2 J1 0 0 0 2\n")
	remove := writeFixture(t, dir, "remove.txt", "F2 J1\n")

	s := quietSession()
	s.Format = "bed"
	s.GenotypeFiles = []string{filepath.Join(dir, "geno")}
	s.RemoveFile = remove

	if err := s.CountSamples(); err != nil {
		t.Fatal(err)
	}
	if s.UnfilteredSampleCount != 4 {
		t.Errorf("Got %d, expected %d", s.UnfilteredSampleCount, 4)
	}

	set, err := s.LoadSamples()
	if err != nil {
		t.Fatal(err)
	}

	expected := SampleCounts{Male: 2, Female: 1, Founder: 2, NonFounder: 1, Samples: 3}
	if diff := cmp.Diff(expected, s.SampleCounts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}

	var iids []string
	for _, sample := range set.Samples {
		iids = append(iids, sample.IID)
	}
	if diff := cmp.Diff([]string{"I1", "I2", "K1"}, iids); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	if set.Samples[2].Founder || set.Samples[2].Pheno != "1" {
		t.Errorf("Got %+v, expected a non-founder with phenotype 1", set.Samples[2])
	}
	if s.SampleForLD.Count() != 2 {
		t.Errorf("Got %d, expected %d", s.SampleForLD.Count(), 2)
	}
}

func TestLoadSamplesFamShortLine(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "geno.fam", "F1 I1 0 0\n")

	s := quietSession()
	s.GenotypeFiles = []string{filepath.Join(dir, "geno.bed")}
	if _, err := s.LoadSamples(); err == nil {
		t.Errorf("a .fam line with four columns should fail")
	}
}

func TestLoadSamplesBGEN(t *testing.T) {
	dir := t.TempDir()
	writeBGENHeader(t, filepath.Join(dir, "geno.bgen"), 3, []string{"S1", "S2", "S3"})
	keep := writeFixture(t, dir, "keep.txt", "S1 S1\nS3 S3\n")

	s := quietSession()
	s.Format = "bgen"
	s.GenotypeFiles = []string{filepath.Join(dir, "geno")}
	s.KeepFile = keep

	set, err := s.LoadSamples()
	if err != nil {
		t.Fatal(err)
	}

	if s.UnfilteredSampleCount != 3 {
		t.Errorf("Got %d, expected %d", s.UnfilteredSampleCount, 3)
	}
	if len(set.Samples) != 2 {
		t.Fatalf("Got %d, expected %d", len(set.Samples), 2)
	}
	if set.Samples[0].IID != "S1" || set.Samples[1].IID != "S3" {
		t.Errorf("Got %+v, expected S1 and S3", set.Samples)
	}
	if s.SampleCounts.AmbigSex != 2 || s.SampleCounts.Founder != 2 {
		t.Errorf("Got %+v, expected two founders of unknown sex", s.SampleCounts)
	}
}

func TestLoadSamplesOxford(t *testing.T) {
	dir := t.TempDir()
	writeBGENHeader(t, filepath.Join(dir, "geno.bgen"), 2, nil)
	sample := writeFixture(t, dir, "geno.sample", "ID_1 ID_2 missing sex\n0 0 0 D\nA A 0 1\nB B 0 2\n")

	s := quietSession()
	s.Format = "bgen"
	s.GenotypeFiles = []string{filepath.Join(dir, "geno.bgen")}
	s.SampleFile = sample

	set, err := s.LoadSamples()
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Samples) != 2 {
		t.Fatalf("Got %d, expected %d", len(set.Samples), 2)
	}
	expected := SampleCounts{Male: 1, Female: 1, Founder: 2, Samples: 2}
	if diff := cmp.Diff(expected, s.SampleCounts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
}
