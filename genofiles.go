package prsqc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
)

// GenoSpec names the genotype input. Exactly one of FileName and FileList
// is used. Either may carry a second comma-separated field naming an
// external sample file.
type GenoSpec struct {
	// FileName is a genotype file prefix. Every "#" is replaced by each
	// autosome number in turn.
	FileName string `yaml:"file_name" toml:"file_name"`
	// FileList is a text file with one genotype file prefix per line.
	FileList string `yaml:"file_list" toml:"file_list"`

	NumAutosome int    `yaml:"num_autosome" toml:"num_autosome"`
	Keep        string `yaml:"keep" toml:"keep"`
	Remove      string `yaml:"remove" toml:"remove"`
}

// PhenoSpec carries the phenotype-side settings that affect sample
// identity.
type PhenoSpec struct {
	IgnoreFID bool `yaml:"ignore_fid" toml:"ignore_fid"`
}

// SetGenotypeFiles expands every "#" in template with the autosome numbers
// 1..AutosomeCount. A template without "#" is returned unchanged.
func (s *Session) SetGenotypeFiles(template string) []string {
	if !strings.Contains(template, "#") {
		return []string{template}
	}

	names := make([]string, 0, s.AutosomeCount)
	for chr := 1; chr <= s.AutosomeCount; chr++ {
		names = append(names, strings.ReplaceAll(template, "#", strconv.Itoa(chr)))
	}
	return names
}

// Initialize resolves the genotype file names and the optional external
// sample file, and records the sample selection files and identity
// settings. The selection files themselves are read by
// LoadSampleSelection.
func (s *Session) Initialize(geno GenoSpec, pheno PhenoSpec, delim, format string) error {
	if geno.NumAutosome > 0 {
		s.AutosomeCount = geno.NumAutosome
	}
	s.Delimiter = delim
	s.IgnoreFID = pheno.IgnoreFID
	s.Format = format
	s.KeepFile = geno.Keep
	s.RemoveFile = geno.Remove

	if geno.Keep != "" && geno.Remove != "" {
		return pfx.Err(fmt.Errorf("cannot use keep and remove sample lists together"))
	}

	switch {
	case geno.FileName != "" && geno.FileList != "":
		return pfx.Err(fmt.Errorf("give either a genotype file name or a genotype file list, not both"))
	case geno.FileName == "" && geno.FileList == "":
		return pfx.Err(fmt.Errorf("no genotype file name or genotype file list was given"))
	}

	if geno.FileList != "" {
		listFile, sampleFile, err := splitFileSpec(geno.FileList)
		if err != nil {
			return pfx.Err(err)
		}

		names, err := s.readFileList(listFile)
		if err != nil {
			return pfx.Err(err)
		}
		s.GenotypeFiles = names
		s.SampleFile = sampleFile
	} else {
		template, sampleFile, err := splitFileSpec(geno.FileName)
		if err != nil {
			return pfx.Err(err)
		}
		s.GenotypeFiles = s.SetGenotypeFiles(genomisc.ExpandHome(template))
		s.SampleFile = sampleFile
	}

	if s.SampleFile != "" {
		s.SampleFile = genomisc.ExpandHome(s.SampleFile)
	}

	s.logger().WithField("files", len(s.GenotypeFiles)).WithField("sample_file", s.SampleFile).Info("Resolved genotype files")
	return nil
}

// splitFileSpec splits "name" or "name,sample" into its parts.
func splitFileSpec(spec string) (string, string, error) {
	fields := strings.Split(spec, ",")
	switch len(fields) {
	case 1:
		return fields[0], "", nil
	case 2:
		if fields[0] == "" {
			return "", "", fmt.Errorf("genotype input %q has an empty file name", spec)
		}
		return fields[0], fields[1], nil
	}
	return "", "", fmt.Errorf("genotype input %q has %d comma-separated fields; expected the file name and at most one external sample file", spec, len(fields))
}

// readFileList returns one genotype file per non-empty line. Lines are
// taken verbatim: no "#" expansion is done on listed files.
func (s *Session) readFileList(path string) ([]string, error) {
	var names []string
	err := s.scanLines(genomisc.ExpandHome(path), func(_ int, line string) error {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
		return nil
	})
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(names) == 0 {
		return nil, pfx.Err(fmt.Errorf("genotype file list %s is empty", path))
	}
	return names, nil
}
