package prsqc

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
)

// famPath is the .fam file of a PLINK binary fileset, or the external
// sample file when one was given.
func (s *Session) famPath() (string, error) {
	if s.SampleFile != "" {
		return s.SampleFile, nil
	}
	if len(s.GenotypeFiles) == 0 {
		return "", fmt.Errorf("no genotype files were resolved")
	}
	return strings.TrimSuffix(s.GenotypeFiles[0], ".bed") + ".fam", nil
}

func (s *Session) bgenPath() (string, error) {
	if len(s.GenotypeFiles) == 0 {
		return "", fmt.Errorf("no genotype files were resolved")
	}
	name := s.GenotypeFiles[0]
	if !strings.HasSuffix(name, ".bgen") {
		name += ".bgen"
	}
	return name, nil
}

// CountSamples sets UnfilteredSampleCount from the genotype input: the
// lines of the .fam (bed format) or the BGEN header (bgen format).
func (s *Session) CountSamples() error {
	switch s.Format {
	case "bgen":
		path, err := s.bgenPath()
		if err != nil {
			return pfx.Err(err)
		}
		b, err := OpenBGEN(path)
		if err != nil {
			return pfx.Err(err)
		}
		defer b.Close()
		s.UnfilteredSampleCount = int(b.NSamples)
	case "bed":
		path, err := s.famPath()
		if err != nil {
			return pfx.Err(err)
		}
		n := 0
		err = s.scanLines(path, func(_ int, line string) error {
			if strings.TrimSpace(line) != "" {
				n++
			}
			return nil
		})
		if err != nil {
			return pfx.Err(err)
		}
		s.UnfilteredSampleCount = n
	default:
		return pfx.Err(fmt.Errorf("unsupported genotype format %q", s.Format))
	}

	s.logger().WithField("samples", s.UnfilteredSampleCount).Debug("Counted genotype samples")
	return nil
}

// LoadSamples builds the working sample set: it loads the keep/remove list,
// allocates the sample bitsets and admits every sample of the genotype
// input through GenSample.
func (s *Session) LoadSamples() (*SampleSet, error) {
	if s.UnfilteredSampleCount == 0 {
		if err := s.CountSamples(); err != nil {
			return nil, pfx.Err(err)
		}
	}
	if err := s.LoadSampleSelection(); err != nil {
		return nil, pfx.Err(err)
	}
	if err := s.InitSampleVectors(); err != nil {
		return nil, pfx.Err(err)
	}

	set := NewSampleSet()
	var err error
	switch {
	case s.Format == "bed":
		err = s.loadFam(set)
	case s.SampleFile != "":
		err = s.loadOxfordSample(set)
	default:
		err = s.loadBGENSampleIDs(set)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	s.logger().WithFields(logrus.Fields{
		"samples":     s.SampleCounts.Samples,
		"males":       s.SampleCounts.Male,
		"females":     s.SampleCounts.Female,
		"ambig_sex":   s.SampleCounts.AmbigSex,
		"founders":    s.SampleCounts.Founder,
		"nonfounders": s.SampleCounts.NonFounder,
	}).Info("Samples loaded")
	if len(set.Duplicates) > 0 {
		s.logger().WithField("duplicates", len(set.Duplicates)).Warn("Duplicated sample ids were ignored")
	}

	return set, nil
}

func (s *Session) loadFam(set *SampleSet) error {
	path, err := s.famPath()
	if err != nil {
		return err
	}

	var rows [][]string
	err = s.scanLines(path, func(lineNo int, line string) error {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			return nil
		}
		if len(tokens) < 5 {
			return fmt.Errorf("%s line %d: a .fam line needs at least 5 columns", path, lineNo)
		}
		rows = append(rows, tokens)
		return nil
	})
	if err != nil {
		return err
	}

	// Anyone listed in the file can be a parent
	founders := make(map[string]struct{}, len(rows))
	for _, tokens := range rows {
		founders[s.sampleKey(tokens[0], tokens[1])] = struct{}{}
	}

	for _, tokens := range rows {
		pheno := "NA"
		if len(tokens) > 5 {
			pheno = tokens[5]
		}
		if err := s.GenSample(FamColumns, founders, pheno, tokens, set); err != nil {
			return err
		}
	}
	return nil
}

// loadOxfordSample reads a .sample file: a header of column names, a line
// of column types, then ID_1 ID_2 missing [sex ...] per sample.
func (s *Session) loadOxfordSample(set *SampleSet) error {
	layout := FamLayout{FID: 0, IID: 1, Sex: -1, Father: -1, Mother: -1}

	return s.scanLines(s.SampleFile, func(lineNo int, line string) error {
		tokens := strings.Fields(line)
		switch {
		case lineNo == 1:
			for i, name := range tokens {
				if strings.EqualFold(name, "sex") {
					layout.Sex = i
				}
			}
			return nil
		case lineNo == 2, len(tokens) == 0:
			return nil
		case len(tokens) < 3:
			return fmt.Errorf("%s line %d: a .sample line needs at least 3 columns", s.SampleFile, lineNo)
		}
		return s.GenSample(layout, nil, "NA", tokens, set)
	})
}

func (s *Session) loadBGENSampleIDs(set *SampleSet) error {
	path, err := s.bgenPath()
	if err != nil {
		return err
	}
	b, err := OpenBGEN(path)
	if err != nil {
		return err
	}
	defer b.Close()

	ids, err := b.ReadSampleIDs()
	if err != nil {
		return err
	}

	layout := FamLayout{FID: 0, IID: 1, Sex: -1, Father: -1, Mother: -1}
	for _, id := range ids {
		if err := s.GenSample(layout, nil, "NA", []string{id, id}, set); err != nil {
			return err
		}
	}
	return nil
}
