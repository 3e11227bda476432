package performance

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

// difficultyEntry locates the attribute set for diffMods. A combined document
// ({beatmap, difficulty}) holds one entry per difficulty-relevant mod bitmask,
// keyed by array index or object key; anything else is a flat entry.
func difficultyEntry(data []byte, diffMods difficulty.Modifier) (entry, beatmap gjson.Result, err error) {
	if !gjson.ValidBytes(data) {
		return entry, beatmap, fmt.Errorf("%w: malformed difficulty document", ErrDifficultyUnavailable)
	}

	doc := gjson.ParseBytes(data)

	beatmap = doc.Get("beatmap")
	entries := doc.Get("difficulty")

	if !beatmap.Exists() || !entries.Exists() {
		if !doc.IsObject() {
			return entry, beatmap, fmt.Errorf("%w: difficulty document is not an object", ErrDifficultyUnavailable)
		}

		return doc, gjson.Result{}, nil
	}

	entry = entries.Get(strconv.FormatUint(uint64(diffMods.Bits()), 10))
	if !entry.IsObject() {
		return entry, beatmap, fmt.Errorf("%w: no attributes for mods %q (%d)", ErrDifficultyUnavailable, diffMods.Format(true), diffMods.Bits())
	}

	return entry, beatmap, nil
}

func parseOsuAttributes(entry, beatmap gjson.Result) api.OsuAttributes {
	return api.OsuAttributes{
		Total:             value(entry, 0, "total"),
		Aim:               value(entry, 0, "aim"),
		Speed:             value(entry, 0, "speed"),
		Flashlight:        value(entry, 0, "flashlight_rating", "fl", "flashlight"),
		SliderFactor:      value(entry, 1, "slider_factor"),
		SpeedNoteCount:    value(entry, 0, "speed_note_count"),
		ApproachRate:      value(entry, 0, "ar"),
		OverallDifficulty: value(entry, 0, "od"),
		MaxCombo:          integer(value(entry, 0, "max_combo")),
		Circles:           objectCount(entry, beatmap, "count_circles", "num_circles"),
		Sliders:           objectCount(entry, beatmap, "count_sliders", "num_sliders"),
		Spinners:          objectCount(entry, beatmap, "count_spinners", "num_spinners"),
	}
}

func parseTaikoAttributes(entry gjson.Result) api.TaikoAttributes {
	return api.TaikoAttributes{
		Total:        value(entry, 0, "total"),
		HitWindow300: value(entry, 0, "hit_window_300"),
	}
}

func parseCatchAttributes(entry gjson.Result) api.CatchAttributes {
	return api.CatchAttributes{
		Total:        value(entry, 0, "total"),
		ApproachRate: value(entry, 0, "ar"),
		MaxCombo:     integer(value(entry, 0, "max_combo")),
	}
}

func parseManiaAttributes(entry gjson.Result) api.ManiaAttributes {
	return api.ManiaAttributes{
		Total:           value(entry, 0, "total"),
		HitWindow300:    value(entry, 0, "hit_window_300"),
		ScoreMultiplier: value(entry, 0, "score_multiplier"),
	}
}

// value returns the first present numeric key, or def.
func value(entry gjson.Result, def float64, keys ...string) float64 {
	for _, key := range keys {
		if r := entry.Get(key); r.Exists() && r.Type != gjson.Null {
			return number(r)
		}
	}

	return def
}

// Object counts live on the beatmap in combined documents and on the entry otherwise.
func objectCount(entry, beatmap gjson.Result, entryKey, beatmapKey string) int {
	if beatmap.Exists() {
		return integer(value(beatmap, 0, beatmapKey))
	}

	return integer(value(entry, 0, entryKey))
}

func integer(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}

	return int(v)
}
