package prsqc

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
)

// MinValue is an optional lower bound. The zero value disables the filter.
type MinValue struct {
	Value   float64
	Enabled bool
}

// Min returns an enabled bound.
func Min(v float64) MinValue {
	return MinValue{Value: v, Enabled: true}
}

// QCThresholds are the per-variant quality filters of the base file.
type QCThresholds struct {
	Info    MinValue
	MAF     MinValue
	MAFCase MinValue
}

// ReadBase reads the summary statistics file described by bf, skipping its
// header line, and fills s.Variants with the rows that clear every filter.
// It returns the rejection counts and the set of rs-ids seen more than once;
// duplicated ids are dropped from s.Variants entirely.
//
// A negative coordinate or a p-value outside [0,1] aborts the read with an
// error, as does a row with fewer columns than the schema needs.
func (s *Session) ReadBase(bf *BaseFile, qc QCThresholds, threshold ThresholdSpec, regions *RegionIndex) (FilterCounts, map[string]struct{}, error) {
	var counts FilterCounts
	duplicates := make(map[string]struct{})

	if !bf.Has(FieldRS) {
		return counts, nil, pfx.Err(fmt.Errorf("%s: no SNP id column was provided", bf.FileName))
	}
	if !bf.Has(FieldStat) {
		return counts, nil, pfx.Err(fmt.Errorf("%s: no statistic column was provided", bf.FileName))
	}
	if !bf.Has(FieldP) {
		return counts, nil, pfx.Err(fmt.Errorf("%s: no p-value column was provided", bf.FileName))
	}

	upper := threshold.MaxThreshold()
	caser := newAlleleCaser()
	seen := make(map[string]struct{})
	variants := make(map[string]RetainedVariant)

	err := s.scanLines(bf.FileName, func(lineNo int, line string) error {
		if lineNo == 1 {
			// header
			return nil
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			return nil
		}
		counts[CountLines]++

		if len(tokens) <= bf.MaxIndex() {
			return fmt.Errorf("%s line %d: %d columns, but column %d is required", bf.FileName, lineNo, len(tokens), bf.MaxIndex()+1)
		}

		rs, rsStatus, err := s.ParseRSID(tokens, seen, bf)
		if err != nil {
			return err
		}
		switch rsStatus {
		case RSDuplicate:
			duplicates[rs] = struct{}{}
			return nil
		case RSNotSelected:
			counts[CountSelect]++
			return nil
		}
		seen[rs] = struct{}{}

		chr, chrStatus := s.ParseChr(tokens, bf, FieldChr)
		switch chrStatus {
		case ChrUnrecognized:
			counts[CountInvalidChr]++
			return nil
		case ChrExcluded:
			if chr.IsSexOrMT() {
				counts[CountHaploid]++
			} else {
				counts[CountInvalidChr]++
			}
			return nil
		}

		loc, ok := ParseLoc(tokens, bf, FieldBP)
		if !ok {
			idx, _ := bf.Column(FieldBP)
			return fmt.Errorf("%s line %d: invalid coordinate %q for %s", bf.FileName, lineNo, tokens[idx], rs)
		}

		if regions.IsExcluded(chr, loc) {
			counts[CountRegion]++
			return nil
		}

		effect := parseAllele(tokens, bf, FieldEffect, caser)
		nonEffect := parseAllele(tokens, bf, FieldNonEffect, caser)

		if (qc.MAF.Enabled && BaseFilterByValue(tokens, bf, qc.MAF.Value, FieldMAF)) ||
			(qc.MAFCase.Enabled && BaseFilterByValue(tokens, bf, qc.MAFCase.Value, FieldMAFCase)) {
			counts[CountMAF]++
			return nil
		}
		if qc.Info.Enabled && BaseFilterByValue(tokens, bf, qc.Info.Value, FieldInfo) {
			counts[CountInfo]++
			return nil
		}

		pIdx, _ := bf.Column(FieldP)
		p, pStatus := ParsePValue(tokens[pIdx], upper)
		switch pStatus {
		case PNotConvertible:
			counts[CountNotConvert]++
			return nil
		case PAboveThreshold:
			counts[CountPExcluded]++
			return nil
		case POutOfRange:
			return fmt.Errorf("%s line %d: p-value %q for %s is outside [0,1]", bf.FileName, lineNo, tokens[pIdx], rs)
		}

		statIdx, _ := bf.Column(FieldStat)
		stat, statStatus := ParseStat(tokens[statIdx], bf.IsOR)
		switch statStatus {
		case StatNotConvertible:
			counts[CountNotConvert]++
			return nil
		case StatNegativeOR:
			counts[CountNegativeStat]++
			return nil
		}

		if Ambiguous(effect, nonEffect) {
			counts[CountAmbiguous]++
			return nil
		}

		category, pthres := CalculateCategory(p, threshold)
		variants[rs] = RetainedVariant{
			RSID:            rs,
			Chromosome:      chr,
			Position:        loc,
			EffectAllele:    effect,
			NonEffectAllele: nonEffect,
			Stat:            stat,
			PValue:          p,
			Category:        category,
			PThreshold:      pthres,
		}
		return nil
	})
	if err != nil {
		return counts, nil, pfx.Err(err)
	}

	// A duplicated id is unreliable, so its first occurrence goes too
	for rs := range duplicates {
		delete(variants, rs)
	}
	s.Variants = variants

	s.logBaseSummary(bf, counts, duplicates)

	return counts, duplicates, nil
}

func (s *Session) logBaseSummary(bf *BaseFile, counts FilterCounts, duplicates map[string]struct{}) {
	fields := logrus.Fields{
		"file":       bf.FileName,
		"lines":      counts[CountLines],
		"retained":   len(s.Variants),
		"duplicates": len(duplicates),
	}
	for _, class := range counts.Classes() {
		if counts[class] > 0 {
			fields[class.String()] = counts[class]
		}
	}
	s.logger().WithFields(fields).Info("Base file processed")

	if len(duplicates) > 0 {
		s.logger().WithField("duplicates", len(duplicates)).Warn("Duplicated SNP ids were removed from the base file")
	}
}
