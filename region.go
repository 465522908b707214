package prsqc

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
	"github.com/carbocation/pfx"
	"github.com/vertgenlab/gonomics/bed"
)

// Interval is a closed, 1-based genomic range.
type Interval struct {
	Start, End int64
}

// region is an Interval stored in an interval.IntTree. The tree works on
// half-open ranges, so the closed [Start, End] is kept as [Start, End+1).
type region struct {
	Interval
	id uintptr
}

func (r region) Range() interval.IntRange {
	return interval.IntRange{Start: int(r.Start), End: int(r.End) + 1}
}

func (r region) ID() uintptr { return r.id }

func (r region) Overlap(b interval.IntRange) bool {
	return int(r.End)+1 > b.Start && int(r.Start) < b.End
}

// span is a closed query range.
type span struct{ start, end int64 }

func (q span) Overlap(b interval.IntRange) bool {
	return int(q.end)+1 > b.Start && int(q.start) < b.End
}

// RegionIndex answers whether a position falls inside any excluded region.
// Each chromosome has its own interval tree and intervals are never merged.
// It is immutable once built and safe to query from multiple goroutines.
type RegionIndex struct {
	chroms map[ChromCode]*interval.IntTree
}

// NewRegionIndex builds an index from descriptors of the form
// "chr:start-end" or "chr:pos". A descriptor may hold a comma-separated list.
// BED file descriptors need a Session; see (*Session).LoadRegions.
func NewRegionIndex(descriptors ...string) (*RegionIndex, error) {
	return NewSession().LoadRegions(descriptors...)
}

// LoadRegions builds a RegionIndex. Each descriptor is a "chr:start-end" or
// "chr:pos" range, a comma-separated list of them, or the path of a BED
// file.
func (s *Session) LoadRegions(descriptors ...string) (*RegionIndex, error) {
	pending := make(map[ChromCode][]Interval)

	for _, desc := range descriptors {
		for _, item := range strings.Split(desc, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}

			if isBEDPath(item) {
				if err := s.readBED(item, pending); err != nil {
					return nil, pfx.Err(err)
				}
				continue
			}

			chr, ival, err := parseRegion(item)
			if err != nil {
				return nil, pfx.Err(err)
			}
			pending[chr] = append(pending[chr], ival)
		}
	}

	idx := &RegionIndex{chroms: make(map[ChromCode]*interval.IntTree, len(pending))}
	nRegions := 0
	for chr, ivals := range pending {
		tree := &interval.IntTree{}
		for _, iv := range ivals {
			nRegions++
			if err := tree.Insert(region{Interval: iv, id: uintptr(nRegions)}, true); err != nil {
				return nil, pfx.Err(fmt.Errorf("region %s:%d-%d: %w", chr, iv.Start, iv.End, err))
			}
		}
		tree.AdjustRanges()
		idx.chroms[chr] = tree
	}

	if nRegions > 0 {
		s.logger().WithField("regions", nRegions).Info("Loaded exclusion regions")
	}

	return idx, nil
}

func isBEDPath(item string) bool {
	lower := strings.ToLower(item)
	return strings.HasPrefix(lower, "gs://") ||
		strings.HasSuffix(lower, ".bed") ||
		strings.HasSuffix(lower, ".bed.gz") ||
		strings.HasSuffix(lower, ".bed.zst")
}

func parseRegion(item string) (ChromCode, Interval, error) {
	chrToken, rangeToken, ok := strings.Cut(item, ":")
	if !ok {
		return 0, Interval{}, fmt.Errorf("region %q is not of the form chr:start-end", item)
	}

	chr := GetChromCode(chrToken)
	if chr == ChromUnrecognized {
		return 0, Interval{}, fmt.Errorf("region %q has an unrecognized chromosome", item)
	}

	startToken, endToken, isRange := strings.Cut(rangeToken, "-")
	start, err := strconv.ParseInt(startToken, 10, 64)
	if err != nil || start < 0 {
		return 0, Interval{}, fmt.Errorf("region %q has an invalid start", item)
	}

	end := start
	if isRange {
		end, err = strconv.ParseInt(endToken, 10, 64)
		if err != nil || end < start {
			return 0, Interval{}, fmt.Errorf("region %q has an invalid end", item)
		}
	}

	return chr, Interval{Start: start, End: end}, nil
}

// readBED adds the intervals of a BED file. Local plain or gzipped files are
// read with gonomics; Google Storage and zstd files are streamed through the
// session opener.
func (s *Session) readBED(path string, pending map[ChromCode][]Interval) error {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "gs://") || strings.HasSuffix(lower, ".zst") {
		return s.scanBED(path, pending)
	}

	records, err := readBEDRecords(path)
	if err != nil {
		return pfx.Err(err)
	}

	for i, rec := range records {
		if err := addBEDInterval(pending, rec.Chrom, int64(rec.ChromStart), int64(rec.ChromEnd)); err != nil {
			return fmt.Errorf("%s record %d: %w", path, i+1, err)
		}
	}

	return nil
}

// readBEDRecords wraps bed.Read, which panics rather than returning errors.
func readBEDRecords(path string) (records []bed.Bed, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: %v", path, r)
		}
	}()

	return bed.Read(path), nil
}

func (s *Session) scanBED(path string, pending map[ChromCode][]Interval) error {
	return s.scanLines(path, func(lineNo int, line string) error {
		cols := strings.Fields(line)
		if len(cols) == 0 || cols[0] == "track" || cols[0] == "browser" || strings.HasPrefix(cols[0], "#") {
			return nil
		}
		if len(cols) < 3 {
			return fmt.Errorf("%s line %d: BED records need at least 3 columns", path, lineNo)
		}

		start, err := strconv.ParseInt(cols[1], 10, 64)
		if err != nil {
			return fmt.Errorf("%s line %d: invalid start %q", path, lineNo, cols[1])
		}
		end, err := strconv.ParseInt(cols[2], 10, 64)
		if err != nil {
			return fmt.Errorf("%s line %d: invalid end %q", path, lineNo, cols[2])
		}

		if err := addBEDInterval(pending, cols[0], start, end); err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		return nil
	})
}

// addBEDInterval converts the 0-based half-open [start, end) of a BED record
// to the closed range [start+1, end].
func addBEDInterval(pending map[ChromCode][]Interval, chrom string, start, end int64) error {
	chr := GetChromCode(chrom)
	if chr == ChromUnrecognized {
		return fmt.Errorf("unrecognized chromosome %q", chrom)
	}
	if start < 0 {
		return fmt.Errorf("invalid start %d", start)
	}
	if end <= start {
		return fmt.Errorf("invalid end %d", end)
	}

	pending[chr] = append(pending[chr], Interval{Start: start + 1, End: end})
	return nil
}

// IsExcluded reports whether position falls within any region on chr. An
// absent chromosome or position is never excluded.
func (r *RegionIndex) IsExcluded(chr ChromCode, position int64) bool {
	return r.Overlaps(chr, position, position)
}

// Overlaps reports whether the closed range [start, end] on chr touches any
// region.
func (r *RegionIndex) Overlaps(chr ChromCode, start, end int64) bool {
	if r == nil || chr == ChromAbsent || start == LocAbsent {
		return false
	}
	tree, exists := r.chroms[chr]
	if !exists {
		return false
	}

	found := false
	tree.DoMatching(func(interval.IntInterface) bool {
		found = true
		return true
	}, span{start: start, end: end})
	return found
}

// Len returns the number of stored intervals.
func (r *RegionIndex) Len() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, tree := range r.chroms {
		n += tree.Len()
	}
	return n
}
