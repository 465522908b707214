package prsqc

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/floats"
)

// categoryTolerance is the relative tolerance used when comparing a p-value
// with the bounds of the threshold range and with bar levels.
const categoryTolerance = 1e-8

// boundaryTolerance is the relative tolerance between a p-value and a step
// boundary. It only absorbs the rounding of category*Step+Lower, so a p-value
// just above a boundary still goes to the next bucket.
const boundaryTolerance = 1e-12

// ThresholdSpec describes the p-value thresholds at which scores are
// accumulated: either uniform steps from Lower to Upper, or the explicit
// ascending BarLevels when FastScore is set.
type ThresholdSpec struct {
	Lower float64 `yaml:"lower" toml:"lower"`
	Step  float64 `yaml:"step" toml:"step"`
	Upper float64 `yaml:"upper" toml:"upper"`

	BarLevels []float64 `yaml:"bar_levels" toml:"bar_levels"`
	FastScore bool      `yaml:"fastscore" toml:"fastscore"`

	// NoFull drops the implicit threshold of 1 that includes every variant.
	NoFull bool `yaml:"no_full" toml:"no_full"`
}

// Validate checks that the spec describes at least one threshold.
func (t ThresholdSpec) Validate() error {
	if t.FastScore {
		if len(t.BarLevels) == 0 {
			return pfx.Err(fmt.Errorf("fastscore requires at least one bar level"))
		}
		if floats.HasNaN(t.BarLevels) || floats.Min(t.BarLevels) < 0 || floats.Max(t.BarLevels) > 1 {
			return pfx.Err(fmt.Errorf("bar levels must lie within [0,1]: %v", t.BarLevels))
		}
		if !sort.Float64sAreSorted(t.BarLevels) {
			return pfx.Err(fmt.Errorf("bar levels must be ascending: %v", t.BarLevels))
		}
		return nil
	}

	if t.Step <= 0 {
		return pfx.Err(fmt.Errorf("threshold step must be positive, got %v", t.Step))
	}
	if t.Lower < 0 || t.Upper > 1 || t.Lower > t.Upper {
		return pfx.Err(fmt.Errorf("invalid threshold range [%v, %v]", t.Lower, t.Upper))
	}
	return nil
}

// MaxThreshold is the largest p-value admitted by the spec.
func (t ThresholdSpec) MaxThreshold() float64 {
	switch {
	case !t.NoFull:
		return 1
	case t.FastScore && len(t.BarLevels) > 0:
		return floats.Max(t.BarLevels)
	}
	return t.Upper
}

// CalculateCategory maps a p-value to its accumulation bucket and the
// threshold of that bucket. Anything at or below the lowest threshold is
// category 0. Anything above the last threshold lands beyond the last
// bucket with threshold 1.
func CalculateCategory(p float64, t ThresholdSpec) (int, float64) {
	if t.FastScore {
		return CategoryFromBarLevels(p, t.BarLevels)
	}

	if p > t.Upper && !logicallyEqual(p, t.Upper) {
		return int(math.Ceil((t.Upper + 0.1 - t.Lower) / t.Step)), 1
	}
	if p < t.Lower || logicallyEqual(p, t.Lower) {
		return 0, t.Lower
	}

	category := math.Ceil((p - t.Lower) / t.Step)
	if below := category - 1; below >= 0 && withinTolerance(p, below*t.Step+t.Lower, boundaryTolerance) {
		category = below
	}
	return int(category), category*t.Step + t.Lower
}

// CategoryFromBarLevels returns the index of the first level at or above p,
// or len(levels) with threshold 1 when p exceeds every level.
func CategoryFromBarLevels(p float64, levels []float64) (int, float64) {
	for i, level := range levels {
		if p < level || logicallyEqual(p, level) {
			return i, level
		}
	}
	return len(levels), 1
}

func logicallyEqual(a, b float64) bool {
	return withinTolerance(a, b, categoryTolerance)
}

func withinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}
