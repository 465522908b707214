package prsqc

import (
	"context"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/sirupsen/logrus"
)

// DefaultAutosomeCount is the human autosome count.
const DefaultAutosomeCount = 22

// Session holds the configuration and the state built while admitting
// variants and samples. A Session is not safe for concurrent use, but
// independent Sessions share nothing.
type Session struct {
	// AutosomeCount bounds both "#" expansion of genotype file names and
	// the chromosome codes accepted from the base file.
	AutosomeCount int

	// Delimiter joins FID and IID into a pedigree key.
	Delimiter string
	IgnoreFID bool

	// Format of the genotype files, "bed" or "bgen".
	Format        string
	GenotypeFiles []string
	// SampleFile is the external sample file. Empty means sample
	// identities come from the genotype files.
	SampleFile string

	KeepFile   string
	RemoveFile string

	// SampleSelection is loaded from KeepFile or RemoveFile. RemoveSample
	// tells whether it lists samples to drop (true) or to keep (false). A
	// nil selection admits every sample.
	SampleSelection map[string]struct{}
	RemoveSample    bool
	KeepNonfounder  bool

	// SNPSelection is loaded by SNPExtraction. ExcludeSNP tells whether it
	// lists variants to drop (true) or to keep (false). A nil selection
	// admits every variant.
	SNPSelection map[string]struct{}
	ExcludeSNP   bool

	// Variants holds the retained base variants keyed by rs-id.
	Variants map[string]RetainedVariant

	UnfilteredSampleCount int
	CalculatePRS          *bitset.BitSet
	SampleForLD           *bitset.BitSet
	SampleCounts          SampleCounts

	Log logrus.FieldLogger

	// Open is used for every input file. It defaults to OpenInput.
	Open func(ctx context.Context, path string) (io.ReadCloser, error)
	Ctx  context.Context
}

// NewSession returns a Session with the default settings: 22 autosomes, a
// single space delimiter and SNP selection in exclusion mode.
func NewSession() *Session {
	return &Session{
		AutosomeCount: DefaultAutosomeCount,
		Delimiter:     " ",
		Format:        "bed",
		ExcludeSNP:    true,
		RemoveSample:  true,
		Variants:      make(map[string]RetainedVariant),
		Log:           logrus.StandardLogger(),
		Open:          OpenInput,
		Ctx:           context.Background(),
	}
}

func (s *Session) open(path string) (io.ReadCloser, error) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Open == nil {
		return OpenInput(ctx, path)
	}
	return s.Open(ctx, path)
}

func (s *Session) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// sampleKey builds the pedigree key of a sample: FID, delimiter, IID, or
// the IID alone when family ids are ignored.
func (s *Session) sampleKey(fid, iid string) string {
	if s.IgnoreFID {
		return iid
	}
	return fid + s.Delimiter + iid
}
