package performance

import (
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/framework/math/mutils"
)

// Statistics is an immutable osu!taiko judgement tally.
type Statistics struct {
	countGreat float64
	countOk    float64
	countMeh   float64
	countMiss  float64

	totalHits float64
	accuracy  float64
}

func NewStatistics(counts api.HitCounts) Statistics {
	stats := Statistics{
		countGreat: counts.Count300,
		countOk:    counts.Count100,
		countMeh:   counts.Count50,
		countMiss:  counts.CountMiss,
	}

	stats.derive()

	return stats
}

func (stats *Statistics) derive() {
	stats.totalHits = stats.countGreat + stats.countOk + stats.countMeh + stats.countMiss
	stats.accuracy = 0

	if stats.totalHits != 0 {
		stats.accuracy = mutils.Clamp((stats.countOk/2+stats.countGreat)/stats.totalHits, 0, 1)
	}
}

func (stats Statistics) TotalHits() float64 { return stats.totalHits }

func (stats Statistics) Accuracy() float64 { return stats.accuracy }

func (stats Statistics) Counts() api.HitCounts {
	return api.HitCounts{
		Count300:  stats.countGreat,
		Count100:  stats.countOk,
		Count50:   stats.countMeh,
		CountMiss: stats.countMiss,
	}
}

// FullCombo turns every miss into a great.
func (stats Statistics) FullCombo() Statistics {
	stats.countGreat += stats.countMiss
	stats.countMiss = 0
	stats.derive()

	return stats
}
