package performance

import (
	"math"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/framework/math/mutils"
)

const (
	LegacyBaseMultiplier  float64 = 1.1
	RevisedBaseMultiplier float64 = 1.13
)

type PPv2 struct {
	attribs api.TaikoAttributes
	version api.Version
	mods    difficulty.Modifier

	countGreat float64
	countOk    float64
	countMeh   float64
	countMiss  float64

	totalHits float64
	accuracy  float64
}

func NewPPCalculator(version api.Version) *PPv2 {
	return &PPv2{version: version}
}

func (pp *PPv2) Calculate(attribs api.TaikoAttributes, stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	pp.attribs = attribs
	pp.mods = mods
	pp.countGreat = stats.countGreat
	pp.countOk = stats.countOk
	pp.countMeh = stats.countMeh
	pp.countMiss = stats.countMiss
	pp.totalHits = stats.totalHits
	pp.accuracy = stats.accuracy

	multiplier := RevisedBaseMultiplier
	hiddenMultiplier := 1.075

	if pp.version == api.Legacy {
		multiplier = LegacyBaseMultiplier
		hiddenMultiplier = 1.10
	}

	if mods.Active(difficulty.NoFail) {
		multiplier *= 0.90
	}

	if mods.Active(difficulty.Hidden) {
		multiplier *= hiddenMultiplier
	}

	if pp.version == api.Revised && mods.Active(difficulty.Easy) {
		multiplier *= 0.975
	}

	strainValue := pp.computeStrainValue()
	accValue := pp.computeAccuracyValue()

	return api.PPv2Results{
		Skills: map[api.Skill]float64{
			api.SkillStrain:   strainValue,
			api.SkillAccuracy: accValue,
		},
		Total:    mutils.PowerMean(1.1, strainValue, accValue) * multiplier,
		Accuracy: pp.accuracy * 100,
	}
}

func (pp *PPv2) computeStrainValue() float64 {
	lengthBonus := 1 + 0.1*min(1.0, pp.totalHits/1500.0)

	if pp.version == api.Legacy {
		strainValue := math.Pow(5.0*max(1.0, pp.attribs.Total/0.0075)-4.0, 2.0) / 100000.0

		strainValue *= lengthBonus
		strainValue *= math.Pow(0.985, pp.countMiss)

		if pp.mods.Active(difficulty.Hidden) {
			strainValue *= 1.025
		}

		if pp.mods.Active(difficulty.Flashlight) {
			strainValue *= 1.05 * lengthBonus
		}

		return strainValue * pp.accuracy
	}

	strainValue := math.Pow(5.0*max(1.0, pp.attribs.Total/0.115)-4.0, 2.25) / 1150.0

	strainValue *= lengthBonus
	strainValue *= math.Pow(0.986, pp.effectiveMissCount())

	if pp.mods.Active(difficulty.Easy) {
		strainValue *= 0.985
	}

	if pp.mods.Active(difficulty.Hidden) {
		strainValue *= 1.025
	}

	if pp.mods.Active(difficulty.HardRock) {
		strainValue *= 1.05
	}

	if pp.mods.Active(difficulty.Flashlight) {
		strainValue *= 1.05 * lengthBonus
	}

	return strainValue * pp.accuracy * pp.accuracy
}

// Misses on short maps are weighted more heavily.
func (pp *PPv2) effectiveMissCount() float64 {
	successfulHits := pp.countGreat + pp.countOk + pp.countMeh

	return max(1.0, 1000.0/max(1.0, successfulHits)) * pp.countMiss
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.attribs.HitWindow300 <= 0 {
		return 0
	}

	accuracyValue := math.Pow(150.0/pp.attribs.HitWindow300, 1.1) * math.Pow(pp.accuracy, 15) * 22.0

	// Bonus for many objects - it's harder to keep good accuracy up for longer
	accuracyValue *= min(1.15, math.Pow(pp.totalHits/1500.0, 0.3))

	return accuracyValue
}
