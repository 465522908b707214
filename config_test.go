package prsqc

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "run.yaml", `
geno:
  file_name: chr#
  keep: keep.txt
base:
  file: base.txt
  or: true
  columns:
    snp: MarkerName
  maf_min: 0.01
threshold:
  fastscore: true
  bar_levels: [0.001, 0.05, 0.5]
x_range:
  - chr6:25000000-34000000
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	expectedColumns := ColumnNames{Chr: "CHR", BP: "BP", SNP: "MarkerName", Effect: "A1", NonEffect: "A2", P: "P", Stat: "OR"}
	if diff := cmp.Diff(expectedColumns, config.Base.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if config.Format != "bed" || config.Delimiter != " " || config.Geno.NumAutosome != 22 {
		t.Errorf("defaults were not applied: %+v", config)
	}
	if config.Threshold.Step != 0 {
		t.Errorf("fastscore runs need no step, got %v", config.Threshold.Step)
	}

	qc := config.Base.QC()
	if !qc.MAF.Enabled || qc.MAF.Value != 0.01 || qc.Info.Enabled || qc.MAFCase.Enabled {
		t.Errorf("Got %+v, expected only the MAF filter", qc)
	}
	if diff := cmp.Diff([]string{"chr6:25000000-34000000"}, config.Regions); diff != "" {
		t.Errorf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "run.toml", `
format = "bgen"
keep_nonfounder = true

[geno]
file_list = "list.txt"
num_autosome = 19

[base]
file = "base.txt"
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.Format != "bgen" || !config.KeepNonfounder || config.Geno.FileList != "list.txt" || config.Geno.NumAutosome != 19 {
		t.Errorf("Got %+v", config)
	}
	if config.Base.Columns.Stat != "BETA" {
		t.Errorf("Got %s, expected %s", config.Base.Columns.Stat, "BETA")
	}

	expected := ThresholdSpec{Lower: 0.0001, Step: 0.00005, Upper: 0.5}
	if diff := cmp.Diff(expected, config.Threshold); diff != "" {
		t.Errorf("threshold mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	for _, path := range []string{
		writeFixture(t, dir, "run.json", "{}"),
		writeFixture(t, dir, "broken.yaml", "geno: [unterminated"),
		filepath.Join(dir, "absent.yaml"),
	} {
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected an error", filepath.Base(path))
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "geno.fam", "F1 I1 0 0 1 -9\nF1 I2 0 0 2 -9\nF1 K1 I1 I2 1 1\n")
	base := writeFixture(t, dir, "base.txt", "SNP CHR BP A1 A2 BETA P\nrs1 1 100 A C 0.1 0.01\nrs2 6 30000000 A C 0.1 0.01\nrs3 1 300 A T 0.1 0.01\nrs4 1 400 G C 0.1 0.01\n")
	exclude := writeFixture(t, dir, "exclude.txt", "rs4\n")

	config := &Config{
		Geno:    GenoSpec{FileName: filepath.Join(dir, "geno")},
		Base:    BaseConfig{File: base},
		Regions: []string{"chr6:25000000-34000000"},
		Exclude: exclude,
	}
	config.defineMissing()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	report, err := Run(context.Background(), config, logger)
	if err != nil {
		t.Fatal(err)
	}

	if report.Counts[CountLines] != 4 || report.Counts[CountRegion] != 1 || report.Counts[CountAmbiguous] != 1 || report.Counts[CountSelect] != 1 {
		t.Errorf("Got %v", report.Counts)
	}
	if _, exists := report.Session.Variants["rs1"]; !exists || len(report.Session.Variants) != 1 {
		t.Errorf("Got %v, expected only rs1", report.Session.Variants)
	}
	if report.Samples == nil || len(report.Samples.Samples) != 3 {
		t.Fatalf("Got %+v, expected three samples", report.Samples)
	}
	if report.Session.SampleCounts.NonFounder != 1 {
		t.Errorf("Got %d, expected %d", report.Session.SampleCounts.NonFounder, 1)
	}
}

func TestRunWithoutSamples(t *testing.T) {
	dir := t.TempDir()
	base := writeFixture(t, dir, "base.txt", "SNP P BETA\nrs1 0.01 0.5\n")

	config := &Config{
		Geno: GenoSpec{FileName: filepath.Join(dir, "absent")},
		Base: BaseConfig{File: base},
	}
	config.defineMissing()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	report, err := Run(context.Background(), config, logger)
	if err != nil {
		t.Fatal(err)
	}
	if report.Samples != nil {
		t.Errorf("no sample source exists, so no samples should load")
	}
	if len(report.Session.Variants) != 1 {
		t.Errorf("Got %d, expected %d", len(report.Session.Variants), 1)
	}
}
