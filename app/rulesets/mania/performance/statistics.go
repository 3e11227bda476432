package performance

import (
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/framework/math/mutils"
)

// Statistics is an immutable osu!mania judgement tally. Geki are MAX
// judgements and katu are 200s.
type Statistics struct {
	countPerfect float64
	countGreat   float64
	countGood    float64
	countOk      float64
	countMeh     float64
	countMiss    float64
	score        float64

	totalHits float64
	accuracy  float64
}

func NewStatistics(counts api.HitCounts) Statistics {
	stats := Statistics{
		countPerfect: counts.CountGeki,
		countGreat:   counts.Count300,
		countGood:    counts.CountKatu,
		countOk:      counts.Count100,
		countMeh:     counts.Count50,
		countMiss:    counts.CountMiss,
		score:        counts.Score,
	}

	stats.derive()

	return stats
}

func (stats *Statistics) derive() {
	stats.totalHits = stats.countGreat + stats.countOk + stats.countMeh + stats.countMiss + stats.countPerfect + stats.countGood
	stats.accuracy = 0

	if stats.totalHits != 0 {
		stats.accuracy = mutils.Clamp((stats.countGreat+stats.countPerfect+stats.countGood*2/3+stats.countOk/3+stats.countMeh/6)/stats.totalHits, 0, 1)
	}
}

func (stats Statistics) TotalHits() float64 { return stats.totalHits }

func (stats Statistics) Accuracy() float64 { return stats.accuracy }

func (stats Statistics) Score() float64 { return stats.score }

// CustomAccuracy weighs MAX judgements above 300s, as the revised strain formula expects.
func (stats Statistics) CustomAccuracy() float64 {
	if stats.totalHits == 0 {
		return 0
	}

	return (stats.countPerfect*320 + stats.countGreat*300 + stats.countGood*200 + stats.countOk*100 + stats.countMeh*50) / (stats.totalHits * 320)
}

func (stats Statistics) Counts() api.HitCounts {
	return api.HitCounts{
		Count300:  stats.countGreat,
		Count100:  stats.countOk,
		Count50:   stats.countMeh,
		CountMiss: stats.countMiss,
		CountGeki: stats.countPerfect,
		CountKatu: stats.countGood,
		Score:     stats.score,
	}
}

// FullCombo turns every miss into a MAX judgement. The raw score is kept.
func (stats Statistics) FullCombo() Statistics {
	stats.countPerfect += stats.countMiss
	stats.countMiss = 0
	stats.derive()

	return stats
}
