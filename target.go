package prsqc

import (
	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

// alleleMatch reports whether the base alleles describe the target allele
// pair, directly, swapped, or on the opposite strand. A missing base allele
// matches anything.
func alleleMatch(caser cases.Caser, effect, nonEffect, target1, target2 string) bool {
	t1, t2 := caser.String(target1), caser.String(target2)

	matchPair := func(a, b string) bool {
		if a != "" && a != t1 && a != t2 {
			return false
		}
		if b != "" && b != t1 && b != t2 {
			return false
		}
		return a == "" || b == "" || a != b || t1 == t2
	}

	if matchPair(effect, nonEffect) {
		return true
	}
	return matchPair(flipStrand(effect), flipStrand(nonEffect))
}

// MatchTarget drops every retained variant that the target genotype index
// does not contain, or whose position or alleles disagree with the target.
// It returns the number of variants dropped.
func (s *Session) MatchTarget(bgi *BGIIndex) (int, error) {
	indexed, err := bgi.Variants()
	if err != nil {
		return 0, pfx.Err(err)
	}

	target := make(map[string]VariantIndex, len(indexed))
	for _, v := range indexed {
		if _, exists := target[v.RSID]; !exists {
			target[v.RSID] = v
		}
	}

	caser := newAlleleCaser()
	notFound, mismatch := 0, 0
	for rs, v := range s.Variants {
		tv, exists := target[rs]
		if !exists {
			notFound++
			delete(s.Variants, rs)
			continue
		}

		sameChr := v.Chromosome == ChromAbsent || v.Chromosome == GetChromCode(tv.Chromosome)
		samePos := v.Position == LocAbsent || v.Position == int64(tv.Position)
		if !sameChr || !samePos || !alleleMatch(caser, v.EffectAllele, v.NonEffectAllele, tv.Allele1, tv.Allele2) {
			mismatch++
			delete(s.Variants, rs)
		}
	}

	s.logger().WithFields(logrus.Fields{
		"target_variants": len(indexed),
		"not_in_target":   notFound,
		"mismatched":      mismatch,
		"retained":        len(s.Variants),
		"sqlite_driver":   WhichSQLiteDriver(),
	}).Info("Matched base variants against the target index")

	return notFound + mismatch, nil
}
