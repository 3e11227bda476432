package performance

import (
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/framework/math/mutils"
)

// Statistics is an immutable osu!catch judgement tally: 300s are fruits,
// 100s are drops, 50s are droplets and katu are missed droplets.
type Statistics struct {
	countFruits        float64
	countDrops         float64
	countDroplets      float64
	countMiss          float64
	countMissedDroplet float64
	combo              float64

	totalHits      float64
	totalComboHits float64
	accuracy       float64
}

func NewStatistics(counts api.HitCounts) Statistics {
	stats := Statistics{
		countFruits:        counts.Count300,
		countDrops:         counts.Count100,
		countDroplets:      counts.Count50,
		countMiss:          counts.CountMiss,
		countMissedDroplet: counts.CountKatu,
		combo:              counts.MaxCombo,
	}

	stats.derive()

	return stats
}

func (stats *Statistics) derive() {
	stats.totalHits = stats.countFruits + stats.countDrops + stats.countDroplets + stats.countMiss + stats.countMissedDroplet
	stats.totalComboHits = stats.countFruits + stats.countDrops + stats.countMiss
	stats.accuracy = 0

	if stats.totalHits != 0 {
		stats.accuracy = mutils.Clamp((stats.countDroplets+stats.countDrops+stats.countFruits)/stats.totalHits, 0, 1)
	}
}

func (stats Statistics) TotalHits() float64 { return stats.totalHits }

// TotalComboHits counts the objects that affect combo.
func (stats Statistics) TotalComboHits() float64 { return stats.totalComboHits }

func (stats Statistics) Accuracy() float64 { return stats.accuracy }

func (stats Statistics) Combo() float64 { return stats.combo }

func (stats Statistics) Counts() api.HitCounts {
	return api.HitCounts{
		Count300:  stats.countFruits,
		Count100:  stats.countDrops,
		Count50:   stats.countDroplets,
		CountMiss: stats.countMiss,
		CountKatu: stats.countMissedDroplet,
		MaxCombo:  stats.combo,
	}
}

func (stats Statistics) FullCombo(attribs api.CatchAttributes) Statistics {
	stats.countFruits += stats.countMiss
	stats.countMiss = 0
	stats.combo = float64(attribs.MaxCombo)
	stats.derive()

	return stats
}
