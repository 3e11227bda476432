package performance

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

// Score is an upstream play normalized to the fields the calculators read.
type Score struct {
	Counts    api.HitCounts
	Mods      difficulty.Modifier
	BeatmapID int64
}

// ParseScore accepts the API v1 shape (count300, enabled_mods, ...), the
// API v2 shape (statistics.count_300, mods, ...) and the lazer shape with
// statistics.great and friends. Fields absent from v1 and v2 documents are
// NaN; lazer documents omit zero counts, so there they are 0. A document in
// none of the shapes yields NaN counts without an error.
func ParseScore(data []byte, mode difficulty.GameMode) (Score, error) {
	doc := gjson.ParseBytes(data)
	statistics := doc.Get("statistics")

	switch {
	case doc.Get("count300").Exists():
		return parseLegacyScore(doc)
	case statistics.Get("count_300").Exists():
		return parseCurrentScore(doc, statistics)
	case statistics.IsObject():
		return parseLazerScore(doc, statistics, mode)
	}

	return Score{Counts: api.MissingHitCounts()}, nil
}

func parseLegacyScore(doc gjson.Result) (Score, error) {
	score := Score{
		Counts: api.HitCounts{
			Count300:  number(doc.Get("count300")),
			Count100:  number(doc.Get("count100")),
			Count50:   number(doc.Get("count50")),
			CountMiss: number(doc.Get("countmiss")),
			CountGeki: number(doc.Get("countgeki")),
			CountKatu: number(doc.Get("countkatu")),
			MaxCombo:  number(doc.Get("maxcombo")),
			Score:     number(doc.Get("score")),
		},
		BeatmapID: identifier(doc.Get("beatmap_id")),
	}

	var err error
	score.Mods, err = parseMods(doc.Get("enabled_mods"))

	return score, err
}

func parseCurrentScore(doc, statistics gjson.Result) (Score, error) {
	score := Score{
		Counts: api.HitCounts{
			Count300:  number(statistics.Get("count_300")),
			Count100:  number(statistics.Get("count_100")),
			Count50:   number(statistics.Get("count_50")),
			CountMiss: number(statistics.Get("count_miss")),
			CountGeki: number(statistics.Get("count_geki")),
			CountKatu: number(statistics.Get("count_katu")),
			MaxCombo:  number(doc.Get("max_combo")),
			Score:     number(doc.Get("score")),
		},
		BeatmapID: beatmapID(doc),
	}

	var err error
	score.Mods, err = parseMods(doc.Get("mods"))

	return score, err
}

// lazer judgement names per legacy bucket. Missed drops (large_tick_miss)
// break combo and count as misses in catch.
var lazerStatistics = map[difficulty.GameMode]struct{ great, ok, meh, geki, katu, dropMiss string }{
	difficulty.Osu:   {"great", "ok", "meh", "", "", ""},
	difficulty.Taiko: {"great", "ok", "meh", "", "", ""},
	difficulty.Catch: {"great", "large_tick_hit", "small_tick_hit", "", "small_tick_miss", "large_tick_miss"},
	difficulty.Mania: {"great", "ok", "meh", "perfect", "good", ""},
}

func parseLazerScore(doc, statistics gjson.Result, mode difficulty.GameMode) (Score, error) {
	names := lazerStatistics[mode]

	count := func(key string) float64 {
		if key == "" {
			return 0
		}

		return zeroIfAbsent(statistics.Get(key))
	}

	total := doc.Get("legacy_total_score")
	if total.Float() <= 0 {
		total = doc.Get("total_score")
	}

	score := Score{
		Counts: api.HitCounts{
			Count300:  count(names.great),
			Count100:  count(names.ok),
			Count50:   count(names.meh),
			CountMiss: count("miss") + count(names.dropMiss),
			CountGeki: count(names.geki),
			CountKatu: count(names.katu),
			MaxCombo:  number(doc.Get("max_combo")),
			Score:     number(total),
		},
		BeatmapID: beatmapID(doc),
	}

	var err error
	score.Mods, err = parseMods(doc.Get("mods"))

	return score, err
}

func beatmapID(doc gjson.Result) int64 {
	if id := doc.Get("beatmap.id"); id.Exists() {
		return identifier(id)
	}

	return identifier(doc.Get("beatmap_id"))
}

// parseMods reads a bitmask, a numeric string, a code string or a list of
// codes, names or {"acronym": ...} objects.
func parseMods(r gjson.Result) (difficulty.Modifier, error) {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return difficulty.None, nil
	case r.Type == gjson.Number:
		return difficulty.FromFloat(r.Num)
	case r.Type == gjson.String:
		if v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64); err == nil {
			return difficulty.FromFloat(v)
		}

		return difficulty.ParseMods(r.Str)
	case r.IsArray():
		var names []string

		r.ForEach(func(_, entry gjson.Result) bool {
			if entry.IsObject() {
				entry = entry.Get("acronym")
			}

			names = append(names, entry.String())

			return true
		})

		return difficulty.FromNames(names), nil
	}

	return difficulty.None, fmt.Errorf("%w: unexpected value %s", difficulty.ErrInvalidMods, r.Raw)
}

// number coerces numbers and numeric strings; anything else is NaN.
func number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		if v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64); err == nil {
			return v
		}
	}

	return math.NaN()
}

func zeroIfAbsent(r gjson.Result) float64 {
	if !r.Exists() {
		return 0
	}

	return number(r)
}

func identifier(r gjson.Result) int64 {
	v := number(r)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}

	return int64(v)
}
