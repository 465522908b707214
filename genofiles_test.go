package prsqc

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetGenotypeFiles(t *testing.T) {
	s := quietSession()
	s.AutosomeCount = 3

	cases := map[string][]string{
		"chr#":         {"chr1", "chr2", "chr3"},
		"data/chr#_#":  {"data/chr1_1", "data/chr2_2", "data/chr3_3"},
		"all_autosome": {"all_autosome"},
	}

	for template, expected := range cases {
		if diff := cmp.Diff(expected, s.SetGenotypeFiles(template)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", template, diff)
		}
	}

	s.AutosomeCount = DefaultAutosomeCount
	got := s.SetGenotypeFiles("chr#test#")
	if len(got) != 22 {
		t.Fatalf("Got %d, expected %d", len(got), 22)
	}
	for i, name := range got {
		if expected := fmt.Sprintf("chr%dtest%d", i+1, i+1); name != expected {
			t.Errorf("Got %s, expected %s", name, expected)
		}
	}
}

func TestInitializeDefaults(t *testing.T) {
	s := quietSession()
	if err := s.Initialize(GenoSpec{FileName: "Genotype"}, PhenoSpec{}, "\t", "bed"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Genotype"}, s.GenotypeFiles); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if s.Delimiter != "\t" || s.KeepFile != "" || s.RemoveFile != "" || s.SampleFile != "" || s.IgnoreFID {
		t.Errorf("unexpected settings: %+v", s)
	}

	s = quietSession()
	if err := s.Initialize(GenoSpec{FileName: "chr#_geno,Sample", Keep: "Hi", NumAutosome: 30}, PhenoSpec{}, " ", "bed"); err != nil {
		t.Fatal(err)
	}
	if len(s.GenotypeFiles) != 30 || s.GenotypeFiles[29] != "chr30_geno" {
		t.Errorf("Got %v, expected 30 files ending in chr30_geno", s.GenotypeFiles)
	}
	if s.KeepFile != "Hi" || s.SampleFile != "Sample" {
		t.Errorf("Got keep %q sample %q", s.KeepFile, s.SampleFile)
	}
}

func TestInitializeFileName(t *testing.T) {
	s := quietSession()

	err := s.Initialize(GenoSpec{FileName: "chr#,external.sample", NumAutosome: 2, Remove: "remove.txt"}, PhenoSpec{IgnoreFID: true}, "_", "bgen")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"chr1", "chr2"}, s.GenotypeFiles); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if s.SampleFile != "external.sample" {
		t.Errorf("Got %s, expected %s", s.SampleFile, "external.sample")
	}
	if s.AutosomeCount != 2 || s.Delimiter != "_" || !s.IgnoreFID || s.Format != "bgen" || s.RemoveFile != "remove.txt" {
		t.Errorf("settings were not recorded: %+v", s)
	}
}

func TestInitializeFileList(t *testing.T) {
	dir := t.TempDir()
	list := writeFixture(t, dir, "list.txt", "A\nB\nC D\n\nE F G\nH#I\n")

	s := quietSession()
	if err := s.Initialize(GenoSpec{FileList: list}, PhenoSpec{}, " ", "bed"); err != nil {
		t.Fatal(err)
	}

	// Listed files are not expanded
	if diff := cmp.Diff([]string{"A", "B", "C D", "E F G", "H#I"}, s.GenotypeFiles); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if s.SampleFile != "" {
		t.Errorf("Got %q, expected no external sample file", s.SampleFile)
	}

	s = quietSession()
	if err := s.Initialize(GenoSpec{FileList: list + ",ext.fam"}, PhenoSpec{}, " ", "bed"); err != nil {
		t.Fatal(err)
	}
	if s.SampleFile != "ext.fam" {
		t.Errorf("Got %s, expected %s", s.SampleFile, "ext.fam")
	}
}

func TestInitializeErrors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFixture(t, dir, "empty.txt", "\n\n")

	cases := map[string]GenoSpec{
		"keep and remove":  {FileName: "chr#", Keep: "keep.txt", Remove: "remove.txt"},
		"name and list":    {FileName: "chr#", FileList: "list.txt"},
		"neither":          {},
		"three fields":     {FileName: "chr,x,y"},
		"three list parts": {FileList: "list.txt,B,C"},
		"empty list":       {FileList: empty},
		"missing list":     {FileList: filepath.Join(dir, "absent.txt")},
	}

	for name, geno := range cases {
		s := quietSession()
		if err := s.Initialize(geno, PhenoSpec{}, " ", "bed"); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
