package performance

import (
	"math"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

// PPv2 evaluates the single catch formula. It has no skill breakdown,
// so results carry only a total.
type PPv2 struct {
	attribs api.CatchAttributes
	mods    difficulty.Modifier
	stats   Statistics
}

// NewPPCalculator ignores the version, both revisions share one formula.
func NewPPCalculator(_ api.Version) *PPv2 {
	return &PPv2{}
}

func (pp *PPv2) Calculate(attribs api.CatchAttributes, stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	pp.attribs = attribs
	pp.mods = mods
	pp.stats = stats

	return api.PPv2Results{
		Skills:   map[api.Skill]float64{},
		Total:    pp.computeTotalValue(),
		Accuracy: stats.accuracy * 100,
	}
}

func (pp *PPv2) computeTotalValue() float64 {
	value := math.Pow(5.0*max(1.0, pp.attribs.Total/0.0049)-4.0, 2.0) / 100000.0

	// Longer maps are worth more
	comboHits := pp.stats.totalComboHits

	lengthBonus := 0.95 + 0.3*min(1.0, comboHits/2500.0)
	if comboHits > 2500 {
		lengthBonus += math.Log10(comboHits/2500.0) * 0.475
	}

	value *= lengthBonus

	// Penalize misses exponentially
	value *= math.Pow(0.97, pp.stats.countMiss)

	// Combo scaling
	if pp.attribs.MaxCombo > 0 {
		value *= min(math.Pow(pp.stats.combo, 0.8)/math.Pow(float64(pp.attribs.MaxCombo), 0.8), 1.0)
	}

	ar := pp.attribs.ApproachRate

	approachRateFactor := 1.0
	if ar > 9.0 {
		approachRateFactor += 0.1 * (ar - 9.0)
	}

	if ar > 10.0 {
		approachRateFactor += 0.1 * (ar - 10.0)
	}

	if ar < 8.0 {
		approachRateFactor += 0.025 * (8.0 - ar)
	}

	value *= approachRateFactor

	if pp.mods.Active(difficulty.Hidden) {
		if ar <= 10.0 {
			value *= 1.05 + 0.075*(10.0-ar)
		} else {
			value *= 1.01 + 0.04*(11.0-min(11.0, ar))
		}
	}

	if pp.mods.Active(difficulty.Flashlight) {
		value *= 1.35 * lengthBonus
	}

	value *= math.Pow(pp.stats.accuracy, 5.5)

	if pp.mods.Active(difficulty.NoFail) {
		value *= 0.90
	}

	if pp.mods.Active(difficulty.SpunOut) {
		value *= 0.95
	}

	return value
}
