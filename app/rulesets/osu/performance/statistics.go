package performance

import (
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/framework/math/mutils"
)

// Statistics is an immutable osu!standard judgement tally. Total hits and
// accuracy are derived once at construction.
type Statistics struct {
	countGreat float64
	countOk    float64
	countMeh   float64
	countMiss  float64
	combo      float64

	totalHits float64
	accuracy  float64
}

func NewStatistics(counts api.HitCounts) Statistics {
	stats := Statistics{
		countGreat: counts.Count300,
		countOk:    counts.Count100,
		countMeh:   counts.Count50,
		countMiss:  counts.CountMiss,
		combo:      counts.MaxCombo,
	}

	stats.derive()

	return stats
}

func (stats *Statistics) derive() {
	stats.totalHits = stats.countGreat + stats.countOk + stats.countMeh + stats.countMiss
	stats.accuracy = 0

	if stats.totalHits != 0 {
		stats.accuracy = mutils.Clamp((stats.countGreat+stats.countOk/3+stats.countMeh/6)/stats.totalHits, 0, 1)
	}
}

func (stats Statistics) TotalHits() float64 { return stats.totalHits }

// Accuracy is in [0, 1], or NaN if a count was missing.
func (stats Statistics) Accuracy() float64 { return stats.accuracy }

func (stats Statistics) Combo() float64 { return stats.combo }

func (stats Statistics) Counts() api.HitCounts {
	return api.HitCounts{
		Count300:  stats.countGreat,
		Count100:  stats.countOk,
		Count50:   stats.countMeh,
		CountMiss: stats.countMiss,
		MaxCombo:  stats.combo,
	}
}

// Reconcile recomputes the 300 count from the map's object count.
func (stats Statistics) Reconcile(attribs api.OsuAttributes) Statistics {
	stats.countGreat = float64(attribs.ObjectCount()) - stats.countOk - stats.countMeh - stats.countMiss
	stats.derive()

	return stats
}

// FullCombo projects the play as if every miss had been a 300 and the
// combo had never broken.
func (stats Statistics) FullCombo(attribs api.OsuAttributes) Statistics {
	stats.countGreat += stats.countMiss
	stats.countMiss = 0
	stats.combo = float64(attribs.MaxCombo)
	stats.derive()

	return stats
}
