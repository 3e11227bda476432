package performance

import (
	"math"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/framework/math/mutils"
)

const (
	LegacyBaseMultiplier  float64 = 1.12
	RevisedBaseMultiplier float64 = 1.14
)

/* ------------------------------------------------------------- */
/* pp calc                                                       */

// PPv2 : structure to store ppv2 values
type PPv2 struct {
	attribs api.OsuAttributes
	version api.Version
	mods    difficulty.Modifier

	scoreMaxCombo      float64
	countGreat         float64
	countOk            float64
	countMeh           float64
	countMiss          float64
	effectiveMissCount float64

	totalHits                    float64
	accuracy                     float64
	amountHitObjectsWithAccuracy float64
}

func NewPPCalculator(version api.Version) *PPv2 {
	return &PPv2{version: version}
}

func (pp *PPv2) Calculate(attribs api.OsuAttributes, stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	pp.attribs = attribs
	pp.mods = mods
	pp.totalHits = stats.totalHits
	pp.scoreMaxCombo = stats.combo
	pp.countGreat = stats.countGreat
	pp.countOk = stats.countOk
	pp.countMeh = stats.countMeh
	pp.countMiss = stats.countMiss
	pp.accuracy = stats.accuracy
	pp.effectiveMissCount = pp.calculateEffectiveMissCount()

	switch {
	case pp.version == api.Legacy && mods.Active(difficulty.ScoreV2):
		pp.amountHitObjectsWithAccuracy = pp.totalHits
	case pp.version == api.Revised && mods.Active(difficulty.ScoreV2):
		pp.amountHitObjectsWithAccuracy = float64(attribs.Circles + attribs.Sliders)
	default:
		pp.amountHitObjectsWithAccuracy = float64(attribs.Circles)
	}

	// total pp

	multiplier := RevisedBaseMultiplier
	noFailMisses := pp.effectiveMissCount

	if pp.version == api.Legacy {
		multiplier = LegacyBaseMultiplier
		noFailMisses = pp.countMiss
	}

	if mods.Active(difficulty.NoFail) {
		multiplier *= max(0.90, 1.0-0.02*noFailMisses)
	}

	if mods.Active(difficulty.SpunOut) && pp.totalHits > 0 {
		multiplier *= 1.0 - math.Pow(float64(attribs.Spinners)/pp.totalHits, 0.85)
	}

	if pp.version == api.Revised && mods.Active(difficulty.Relax) {
		od := attribs.OverallDifficulty

		okMultiplier := 1.0
		mehMultiplier := 1.0

		if od > 0.0 {
			okMultiplier = max(0.0, 1-math.Pow(od/13.33, 1.8))
			mehMultiplier = max(0.0, 1-math.Pow(od/13.33, 5))
		}

		pp.effectiveMissCount = min(pp.effectiveMissCount+pp.countOk*okMultiplier+pp.countMeh*mehMultiplier, pp.totalHits)
	}

	aimValue := pp.computeAimValue()
	speedValue := pp.computeSpeedValue()
	flashlightValue := pp.computeFlashlightValue()
	accValue := pp.computeAccuracyValue()

	return api.PPv2Results{
		Skills: map[api.Skill]float64{
			api.SkillAim:        aimValue,
			api.SkillSpeed:      speedValue,
			api.SkillFlashlight: flashlightValue,
			api.SkillAccuracy:   accValue,
		},
		Total:    mutils.PowerMean(1.1, aimValue, speedValue, flashlightValue, accValue) * multiplier,
		Accuracy: pp.accuracy * 100,
	}
}

func (pp *PPv2) computeAimValue() float64 {
	rawAim := pp.attribs.Aim

	if pp.version == api.Legacy && pp.mods.Active(difficulty.TouchDevice) {
		rawAim = math.Pow(rawAim, 0.8)
	}

	aimValue := DifficultyToPerformance(rawAim)

	// Longer maps are worth more
	lengthBonus := pp.lengthBonus()

	aimValue *= lengthBonus

	// Penalize misses by assessing # of misses relative to the total # of objects. Default a 3% reduction for any # of misses.
	if pp.effectiveMissCount > 0 {
		aimValue *= 0.97 * math.Pow(1-math.Pow(pp.effectiveMissCount/pp.totalHits, 0.775), pp.effectiveMissCount)
	}

	aimValue *= pp.getComboScalingFactor()

	ar := pp.attribs.ApproachRate

	approachRateFactor := 0.0
	if ar > 10.33 {
		approachRateFactor = 0.3 * (ar - 10.33)
	} else if ar < 8.0 {
		if pp.version == api.Legacy {
			approachRateFactor = 0.1 * (8.0 - ar)
		} else {
			approachRateFactor = 0.05 * (8.0 - ar)
		}
	}

	if pp.version == api.Revised && pp.mods.Active(difficulty.Relax) {
		approachRateFactor = 0.0
	}

	aimValue *= 1.0 + approachRateFactor*lengthBonus

	// We want to give more reward for lower AR when it comes to aim and HD. This nerfs high AR and buffs lower AR.
	if pp.mods.Active(difficulty.Hidden) {
		aimValue *= 1.0 + 0.04*(12.0-ar)
	}

	if pp.version == api.Revised && pp.attribs.Sliders > 0 {
		// We assume 15% of sliders in a map are difficult since there's no way to tell from the performance calculator.
		estimateDifficultSliders := float64(pp.attribs.Sliders) * 0.15

		estimateSliderEndsDropped := mutils.Clamp(min(pp.countOk+pp.countMeh+pp.countMiss, float64(pp.attribs.MaxCombo)-pp.scoreMaxCombo), 0, estimateDifficultSliders)
		sliderNerfFactor := (1-pp.attribs.SliderFactor)*math.Pow(1-estimateSliderEndsDropped/estimateDifficultSliders, 3) + pp.attribs.SliderFactor
		aimValue *= sliderNerfFactor
	}

	aimValue *= pp.accuracy
	// It is important to also consider accuracy difficulty when doing that
	aimValue *= 0.98 + math.Pow(pp.attribs.OverallDifficulty, 2)/2500

	return aimValue
}

func (pp *PPv2) computeSpeedValue() float64 {
	if pp.version == api.Revised && pp.mods.Active(difficulty.Relax) {
		return 0
	}

	speedValue := DifficultyToPerformance(pp.attribs.Speed)

	// Longer maps are worth more
	lengthBonus := pp.lengthBonus()

	speedValue *= lengthBonus

	if pp.effectiveMissCount > 0 {
		speedValue *= 0.97 * math.Pow(1-math.Pow(pp.effectiveMissCount/pp.totalHits, 0.775), math.Pow(pp.effectiveMissCount, 0.875))
	}

	speedValue *= pp.getComboScalingFactor()

	ar := pp.attribs.ApproachRate
	od := pp.attribs.OverallDifficulty

	approachRateFactor := 0.0
	if ar > 10.33 {
		approachRateFactor = 0.3 * (ar - 10.33)
	}

	speedValue *= 1.0 + approachRateFactor*lengthBonus

	if pp.mods.Active(difficulty.Hidden) {
		speedValue *= 1.0 + 0.04*(12.0-ar)
	}

	relevantAccuracy := pp.accuracy

	if pp.version == api.Revised {
		relevantAccuracy = (pp.accuracy + pp.calculateRelevantAccuracy()) / 2.0
	}

	// Scale the speed value with accuracy and OD
	speedValue *= (0.95 + math.Pow(od, 2)/750) * math.Pow(relevantAccuracy, (14.5-max(od, 8.0))/2)

	mehBase := 0.99
	if pp.version == api.Legacy {
		mehBase = 0.98
	}

	// Scale the speed value with # of 50s to punish doubletapping.
	if pp.countMeh >= pp.totalHits/500 {
		speedValue *= math.Pow(mehBase, pp.countMeh-pp.totalHits/500.0)
	}

	return speedValue
}

// calculateRelevantAccuracy is the accuracy over speed-relevant notes. Documents
// without a speed note count fall back to the play's accuracy.
func (pp *PPv2) calculateRelevantAccuracy() float64 {
	if pp.attribs.SpeedNoteCount <= 0 {
		return pp.accuracy
	}

	relevantTotalDiff := pp.totalHits - pp.attribs.SpeedNoteCount
	relevantCountGreat := max(0, pp.countGreat-relevantTotalDiff)
	relevantCountOk := max(0, pp.countOk-max(0, relevantTotalDiff-pp.countGreat))
	relevantCountMeh := max(0, pp.countMeh-max(0, relevantTotalDiff-pp.countGreat-pp.countOk))

	return (relevantCountGreat*6.0 + relevantCountOk*2.0 + relevantCountMeh) / (pp.attribs.SpeedNoteCount * 6.0)
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.version == api.Revised && pp.mods.Active(difficulty.Relax) {
		return 0.0
	}

	// This percentage only considers HitCircles of any value - in this part of the calculation we focus on hitting the timing hit window
	betterAccuracyPercentage := 0.0

	if pp.version == api.Legacy && pp.mods.Active(difficulty.ScoreV2) {
		betterAccuracyPercentage = pp.accuracy
	} else if pp.amountHitObjectsWithAccuracy > 0 {
		betterAccuracyPercentage = ((pp.countGreat-(pp.totalHits-pp.amountHitObjectsWithAccuracy))*6 + pp.countOk*2 + pp.countMeh) / (pp.amountHitObjectsWithAccuracy * 6)
	}

	// It is possible to reach a negative accuracy with this formula. Cap it at zero - zero points
	if betterAccuracyPercentage < 0 {
		betterAccuracyPercentage = 0
	}

	// Lots of arbitrary values from testing.
	// Considering to use derivation from perfect accuracy in a probabilistic manner - assume normal distribution
	accuracyValue := math.Pow(1.52163, pp.attribs.OverallDifficulty) * math.Pow(betterAccuracyPercentage, 24) * 2.83

	// Bonus for many hitcircles - it's harder to keep good accuracy up for longer
	if pp.amountHitObjectsWithAccuracy > 0 {
		accuracyValue *= min(1.15, math.Pow(pp.amountHitObjectsWithAccuracy/1000.0, 0.3))
	} else {
		accuracyValue = 0
	}

	if pp.mods.Active(difficulty.Hidden) {
		accuracyValue *= 1.08
	}

	if pp.mods.Active(difficulty.Flashlight) {
		accuracyValue *= 1.02
	}

	return accuracyValue
}

func (pp *PPv2) computeFlashlightValue() float64 {
	if !pp.mods.Active(difficulty.Flashlight) {
		return 0
	}

	rawFlashlight := pp.attribs.Flashlight
	missCount := pp.effectiveMissCount

	if pp.version == api.Legacy {
		if pp.mods.Active(difficulty.TouchDevice) {
			rawFlashlight = math.Pow(rawFlashlight, 0.8)
		}

		missCount = pp.countMiss
	}

	flashlightValue := FlashlightDifficultyToPerformance(rawFlashlight)

	if pp.version == api.Legacy && pp.mods.Active(difficulty.Hidden) {
		flashlightValue *= 1.3
	}

	// Penalize misses by assessing # of misses relative to the total # of objects. Default a 3% reduction for any # of misses.
	if missCount > 0 {
		flashlightValue *= 0.97 * math.Pow(1-math.Pow(missCount/pp.totalHits, 0.775), math.Pow(missCount, 0.875))
	}

	// Combo scaling.
	flashlightValue *= pp.getComboScalingFactor()

	// Account for shorter maps having a higher ratio of 0 combo/100 combo flashlight radius.
	scale := 0.7 + 0.1*min(1.0, pp.totalHits/200.0)
	if pp.totalHits > 200 {
		scale += 0.2 * min(1.0, (pp.totalHits-200)/200.0)
	}

	flashlightValue *= scale

	// Scale the flashlight value with accuracy _slightly_.
	flashlightValue *= 0.5 + pp.accuracy/2.0
	// It is important to also consider accuracy difficulty when doing that.
	flashlightValue *= 0.98 + math.Pow(pp.attribs.OverallDifficulty, 2)/2500

	return flashlightValue
}

func (pp *PPv2) lengthBonus() float64 {
	lengthBonus := 0.95 + 0.4*min(1.0, pp.totalHits/2000.0)
	if pp.totalHits > 2000 {
		lengthBonus += math.Log10(pp.totalHits/2000.0) * 0.5
	}

	return lengthBonus
}

func (pp *PPv2) calculateEffectiveMissCount() float64 {
	// guess the number of misses + slider breaks from combo
	comboBasedMissCount := 0.0

	if pp.attribs.Sliders > 0 {
		fullComboThreshold := float64(pp.attribs.MaxCombo) - 0.1*float64(pp.attribs.Sliders)
		if pp.scoreMaxCombo < fullComboThreshold {
			comboBasedMissCount = fullComboThreshold / max(1.0, pp.scoreMaxCombo)
		}
	}

	if pp.version == api.Legacy {
		comboBasedMissCount = min(comboBasedMissCount, pp.totalHits)

		return max(pp.countMiss, math.Floor(comboBasedMissCount))
	}

	// Clamp miss count to maximum amount of possible breaks
	comboBasedMissCount = min(comboBasedMissCount, pp.countOk+pp.countMeh+pp.countMiss)

	return max(pp.countMiss, comboBasedMissCount)
}

func (pp *PPv2) getComboScalingFactor() float64 {
	if pp.attribs.MaxCombo <= 0 {
		return 1.0
	} else {
		return min(math.Pow(pp.scoreMaxCombo, 0.8)/math.Pow(float64(pp.attribs.MaxCombo), 0.8), 1.0)
	}
}

func DifficultyToPerformance(difficulty float64) float64 {
	return math.Pow(5.0*max(1.0, difficulty/0.0675)-4.0, 3.0) / 100000.0
}

func FlashlightDifficultyToPerformance(difficulty float64) float64 {
	return math.Pow(difficulty, 2) * 25.0
}
