package performance

import (
	"math"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/framework/math/mutils"
)

const (
	LegacyBaseMultiplier  float64 = 0.8
	RevisedBaseMultiplier float64 = 8.0
)

type PPv2 struct {
	attribs api.ManiaAttributes
	version api.Version
	stats   Statistics
}

func NewPPCalculator(version api.Version) *PPv2 {
	return &PPv2{version: version}
}

func (pp *PPv2) Calculate(attribs api.ManiaAttributes, stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	pp.attribs = attribs
	pp.stats = stats

	multiplier := RevisedBaseMultiplier
	noFailMultiplier := 0.75

	if pp.version == api.Legacy {
		multiplier = LegacyBaseMultiplier
		noFailMultiplier = 0.90
	}

	if mods.Active(difficulty.NoFail) {
		multiplier *= noFailMultiplier
	}

	if mods.Active(difficulty.SpunOut) {
		multiplier *= 0.95
	}

	if mods.Active(difficulty.Easy) {
		multiplier *= 0.50
	}

	var strainValue float64
	if pp.version == api.Legacy {
		strainValue = pp.computeLegacyStrainValue()
	} else {
		strainValue = pp.computeStrainValue()
	}

	accValue := pp.computeAccuracyValue()

	return api.PPv2Results{
		Skills: map[api.Skill]float64{
			api.SkillStrain:   strainValue,
			api.SkillAccuracy: accValue,
		},
		Total:    mutils.PowerMean(1.1, strainValue, accValue) * multiplier,
		Accuracy: stats.accuracy * 100,
	}
}

// adjustedScore removes the score multiplier of the active mods.
// Returns false if the multiplier can't be divided out.
func (pp *PPv2) adjustedScore() (float64, bool) {
	if pp.attribs.ScoreMultiplier <= 0 {
		return 0, false
	}

	return pp.stats.score / pp.attribs.ScoreMultiplier, true
}

func (pp *PPv2) lengthBonus() float64 {
	return 1 + 0.1*min(1.0, pp.stats.totalHits/1500.0)
}

func (pp *PPv2) computeLegacyStrainValue() float64 {
	score, ok := pp.adjustedScore()
	if !ok {
		return 0
	}

	strainValue := math.Pow(5.0*max(1.0, pp.attribs.Total/0.2)-4.0, 2.2) / 135.0

	strainValue *= pp.lengthBonus()

	switch {
	case score <= 500000:
		strainValue = 0
	case score <= 600000:
		strainValue *= (score - 500000) / 100000.0 * 0.3
	case score <= 700000:
		strainValue *= 0.3 + (score-600000)/100000.0*0.25
	case score <= 800000:
		strainValue *= 0.55 + (score-700000)/100000.0*0.20
	case score <= 900000:
		strainValue *= 0.75 + (score-800000)/100000.0*0.15
	default:
		strainValue *= 0.90 + (score-900000)/100000.0*0.1
	}

	return strainValue
}

func (pp *PPv2) computeStrainValue() float64 {
	strainValue := math.Pow(max(pp.attribs.Total-0.15, 0.05), 2.2)

	strainValue *= max(0.0, 5.0*pp.stats.CustomAccuracy()-4.0)
	strainValue *= pp.lengthBonus()

	return strainValue
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.attribs.HitWindow300 <= 0 {
		return 0
	}

	accuracyValue := max(0.0, 0.2-(pp.attribs.HitWindow300-34)*0.006667) * pp.attribs.Total

	score, ok := pp.adjustedScore()
	if !ok {
		return 0
	}

	return accuracyValue * math.Pow(max(0.0, score-960000)/40000.0, 1.1)
}
