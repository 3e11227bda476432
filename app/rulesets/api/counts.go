package api

import (
	"fmt"
	"math"
	"strings"
)

// HitCounts is the raw judgement tally of a play as reported upstream.
// Counts are float64 so that a field missing from the source stays NaN.
type HitCounts struct {
	Count300  float64 `json:"count_300"`
	Count100  float64 `json:"count_100"`
	Count50   float64 `json:"count_50"`
	CountMiss float64 `json:"count_miss"`
	CountGeki float64 `json:"count_geki"`
	CountKatu float64 `json:"count_katu"`
	MaxCombo  float64 `json:"max_combo"`
	Score     float64 `json:"score"`
}

// MissingHitCounts returns a tally where every field is NaN.
func MissingHitCounts() HitCounts {
	nan := math.NaN()

	return HitCounts{nan, nan, nan, nan, nan, nan, nan, nan}
}

// Version selects one of the formula revisions of a ruleset.
type Version int

const (
	// Legacy formulas: 1.12 standard multiplier, 0.985 taiko miss decay, score bands in mania.
	Legacy Version = iota
	// Revised formulas: 1.14 standard multiplier, effective miss counts, accuracy based mania strain.
	Revised
)

func (v Version) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Revised:
		return "revised"
	}

	return fmt.Sprintf("Version(%d)", int(v))
}

func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "v1":
		return Legacy, nil
	case "revised", "v2", "":
		return Revised, nil
	}

	return Revised, fmt.Errorf("unknown formula version %q", s)
}
