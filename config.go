package prsqc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config describes a complete admission run.
type Config struct {
	Geno  GenoSpec  `yaml:"geno" toml:"geno"`
	Pheno PhenoSpec `yaml:"pheno" toml:"pheno"`
	// Format of the genotype files, "bed" or "bgen".
	Format    string `yaml:"format" toml:"format"`
	Delimiter string `yaml:"delimiter" toml:"delimiter"`

	KeepNonfounder bool `yaml:"keep_nonfounder" toml:"keep_nonfounder"`

	Base      BaseConfig    `yaml:"base" toml:"base"`
	Threshold ThresholdSpec `yaml:"threshold" toml:"threshold"`

	// Regions are "chr:start-end" ranges or BED files to exclude.
	Regions []string `yaml:"x_range" toml:"x_range"`
	Extract string   `yaml:"extract" toml:"extract"`
	Exclude string   `yaml:"exclude" toml:"exclude"`

	// TargetIndex is an optional .bgi of the target genotypes.
	TargetIndex string `yaml:"target_index" toml:"target_index"`
}

// BaseConfig describes the summary statistics file.
type BaseConfig struct {
	File    string      `yaml:"file" toml:"file"`
	Columns ColumnNames `yaml:"columns" toml:"columns"`
	IsOR    bool        `yaml:"or" toml:"or"`

	InfoMin    *float64 `yaml:"info_min" toml:"info_min"`
	MAFMin     *float64 `yaml:"maf_min" toml:"maf_min"`
	MAFCaseMin *float64 `yaml:"maf_case_min" toml:"maf_case_min"`
}

// QC turns the configured bounds into QCThresholds.
func (b BaseConfig) QC() QCThresholds {
	var qc QCThresholds
	if b.InfoMin != nil {
		qc.Info = Min(*b.InfoMin)
	}
	if b.MAFMin != nil {
		qc.MAF = Min(*b.MAFMin)
	}
	if b.MAFCaseMin != nil {
		qc.MAFCase = Min(*b.MAFCaseMin)
	}
	return qc
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) config file and fills
// in the defaults for everything left unset.
func LoadConfig(path string) (*Config, error) {
	path = genomisc.ExpandHome(path)
	var config Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return nil, pfx.Err(fmt.Errorf("failed to parse the config file: %w", err))
		}
	case ".yaml", ".yml":
		configFile, err := os.ReadFile(path)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("failed to open the config file: %w", err))
		}
		if err := yaml.Unmarshal(configFile, &config); err != nil {
			return nil, pfx.Err(fmt.Errorf("failed to parse the config file: %w", err))
		}
	default:
		return nil, pfx.Err(fmt.Errorf("config file %s must end in .yaml, .yml or .toml", path))
	}

	config.defineMissing()
	return &config, nil
}

// Define all missing mandatory fields
func (config *Config) defineMissing() {
	if config.Format == "" {
		config.Format = "bed"
	}
	if config.Delimiter == "" {
		config.Delimiter = " "
	}
	if config.Geno.NumAutosome <= 0 {
		config.Geno.NumAutosome = DefaultAutosomeCount
	}

	// Base columns
	cols := &config.Base.Columns
	if cols.Chr == "" {
		cols.Chr = "CHR"
	}
	if cols.BP == "" {
		cols.BP = "BP"
	}
	if cols.SNP == "" {
		cols.SNP = "SNP"
	}
	if cols.Effect == "" {
		cols.Effect = "A1"
	}
	if cols.NonEffect == "" {
		cols.NonEffect = "A2"
	}
	if cols.P == "" {
		cols.P = "P"
	}
	if cols.Stat == "" {
		cols.Stat = "BETA"
		if config.Base.IsOR {
			cols.Stat = "OR"
		}
	}

	// Threshold stepping
	t := &config.Threshold
	if !t.FastScore && t.Step == 0 {
		t.Step = 0.00005
		if t.Lower == 0 {
			t.Lower = 0.0001
		}
		if t.Upper == 0 {
			t.Upper = 0.5
		}
	}
}

// Report summarizes an admission run.
type Report struct {
	Counts     FilterCounts
	Duplicates map[string]struct{}
	// TargetDropped is the number of retained variants removed by MatchTarget.
	TargetDropped int
	// Samples is nil when no sample source was available.
	Samples *SampleSet
	Session *Session
}

// Run executes the admission pipeline described by config: genotype files
// and selection lists, base file filtering, optional target matching, and
// sample admission when a sample source exists.
func Run(ctx context.Context, config *Config, log logrus.FieldLogger) (*Report, error) {
	s := NewSession()
	s.Ctx = ctx
	if log != nil {
		s.Log = log
	}
	s.KeepNonfounder = config.KeepNonfounder

	if err := s.Initialize(config.Geno, config.Pheno, config.Delimiter, config.Format); err != nil {
		return nil, pfx.Err(err)
	}
	if err := s.SNPExtraction(config.Extract, config.Exclude); err != nil {
		return nil, pfx.Err(err)
	}

	regions, err := s.LoadRegions(config.Regions...)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if err := config.Threshold.Validate(); err != nil {
		return nil, pfx.Err(err)
	}

	header, err := s.readHeader(config.Base.File)
	if err != nil {
		return nil, pfx.Err(err)
	}
	bf, err := BaseFileFromHeader(config.Base.File, header, config.Base.Columns, config.Base.IsOR)
	if err != nil {
		return nil, pfx.Err(err)
	}

	report := &Report{Session: s}
	report.Counts, report.Duplicates, err = s.ReadBase(bf, config.Base.QC(), config.Threshold, regions)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if config.TargetIndex != "" {
		bgi, err := OpenBGI(config.TargetIndex)
		if err != nil {
			return nil, pfx.Err(err)
		}
		defer bgi.Close()

		if report.TargetDropped, err = s.MatchTarget(bgi); err != nil {
			return nil, pfx.Err(err)
		}
	}

	if s.sampleSourceExists() {
		if report.Samples, err = s.LoadSamples(); err != nil {
			return nil, pfx.Err(err)
		}
	} else {
		s.logger().Warn("No sample source was found; samples were not loaded")
	}

	return report, nil
}

var errStopScan = errors.New("stop scanning")

// readHeader returns the first line of path.
func (s *Session) readHeader(path string) (string, error) {
	var header string
	err := s.scanLines(path, func(_ int, line string) error {
		header = line
		return errStopScan
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return "", pfx.Err(err)
	}
	if strings.TrimSpace(header) == "" {
		return "", pfx.Err(fmt.Errorf("%s has no header line", path))
	}
	return header, nil
}

// sampleSourceExists reports whether the file LoadSamples would read is
// present. Remote paths are assumed to exist.
func (s *Session) sampleSourceExists() bool {
	var path string
	var err error
	switch {
	case s.Format == "bed":
		path, err = s.famPath()
	case s.SampleFile != "":
		path = s.SampleFile
	default:
		path, err = s.bgenPath()
	}
	if err != nil {
		return false
	}
	if strings.HasPrefix(path, "gs://") {
		return true
	}
	_, err = os.Stat(genomisc.ExpandHome(path))
	return err == nil
}
