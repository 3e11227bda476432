package performance

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
	catchpp "github.com/Givikap120/ppv2/app/rulesets/catch/performance"
	maniapp "github.com/Givikap120/ppv2/app/rulesets/mania/performance"
	osupp "github.com/Givikap120/ppv2/app/rulesets/osu/performance"
	taikopp "github.com/Givikap120/ppv2/app/rulesets/taiko/performance"
)

// Statistics is the mode-independent view of a normalized play.
type Statistics interface {
	TotalHits() float64
	// Accuracy in [0, 1], NaN if a count was missing.
	Accuracy() float64
	Counts() api.HitCounts
}

// ruleset adapts one mode's statistics and formulas to the calculator.
// Statistics passed in always come from the same ruleset's newStatistics.
type ruleset interface {
	newStatistics(counts api.HitCounts) Statistics
	hasAttributes() bool
	setAttributes(attr any) error
	parseAttributes(entry, beatmap gjson.Result)
	reconcile(stats Statistics) Statistics
	fullCombo(stats Statistics) Statistics
	calculate(stats Statistics, mods difficulty.Modifier) api.PPv2Results
}

func newRuleset(mode difficulty.GameMode, version api.Version) (ruleset, error) {
	switch mode {
	case difficulty.Osu:
		return &osuRuleset{calc: osupp.NewPPCalculator(version)}, nil
	case difficulty.Taiko:
		return &taikoRuleset{calc: taikopp.NewPPCalculator(version)}, nil
	case difficulty.Catch:
		return &catchRuleset{calc: catchpp.NewPPCalculator(version)}, nil
	case difficulty.Mania:
		return &maniaRuleset{calc: maniapp.NewPPCalculator(version)}, nil
	}

	return nil, fmt.Errorf("unsupported game mode %v", mode)
}

func mismatch(mode difficulty.GameMode, attr any) error {
	return fmt.Errorf("%w: %T for %s", ErrModeMismatch, attr, mode)
}

/* ------------------------------------------------------------- */
/* osu!standard                                                  */

type osuRuleset struct {
	attribs *api.OsuAttributes
	calc    *osupp.PPv2
}

func (r *osuRuleset) newStatistics(counts api.HitCounts) Statistics {
	return osupp.NewStatistics(counts)
}

func (r *osuRuleset) hasAttributes() bool { return r.attribs != nil }

func (r *osuRuleset) setAttributes(attr any) error {
	switch a := attr.(type) {
	case api.OsuAttributes:
		r.attribs = &a
	case *api.OsuAttributes:
		if a == nil {
			return mismatch(difficulty.Osu, attr)
		}

		r.attribs = a
	default:
		return mismatch(difficulty.Osu, attr)
	}

	return nil
}

func (r *osuRuleset) parseAttributes(entry, beatmap gjson.Result) {
	attribs := parseOsuAttributes(entry, beatmap)
	r.attribs = &attribs
}

// The map is the source of truth for the object count, so 300s are backfilled.
func (r *osuRuleset) reconcile(stats Statistics) Statistics {
	return stats.(osupp.Statistics).Reconcile(*r.attribs)
}

func (r *osuRuleset) fullCombo(stats Statistics) Statistics {
	return stats.(osupp.Statistics).FullCombo(*r.attribs)
}

func (r *osuRuleset) calculate(stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	return r.calc.Calculate(*r.attribs, stats.(osupp.Statistics), mods)
}

/* ------------------------------------------------------------- */
/* osu!taiko                                                     */

type taikoRuleset struct {
	attribs *api.TaikoAttributes
	calc    *taikopp.PPv2
}

func (r *taikoRuleset) newStatistics(counts api.HitCounts) Statistics {
	return taikopp.NewStatistics(counts)
}

func (r *taikoRuleset) hasAttributes() bool { return r.attribs != nil }

func (r *taikoRuleset) setAttributes(attr any) error {
	switch a := attr.(type) {
	case api.TaikoAttributes:
		r.attribs = &a
	case *api.TaikoAttributes:
		if a == nil {
			return mismatch(difficulty.Taiko, attr)
		}

		r.attribs = a
	default:
		return mismatch(difficulty.Taiko, attr)
	}

	return nil
}

func (r *taikoRuleset) parseAttributes(entry, _ gjson.Result) {
	attribs := parseTaikoAttributes(entry)
	r.attribs = &attribs
}

func (r *taikoRuleset) reconcile(stats Statistics) Statistics { return stats }

func (r *taikoRuleset) fullCombo(stats Statistics) Statistics {
	return stats.(taikopp.Statistics).FullCombo()
}

func (r *taikoRuleset) calculate(stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	return r.calc.Calculate(*r.attribs, stats.(taikopp.Statistics), mods)
}

/* ------------------------------------------------------------- */
/* osu!catch                                                     */

type catchRuleset struct {
	attribs *api.CatchAttributes
	calc    *catchpp.PPv2
}

func (r *catchRuleset) newStatistics(counts api.HitCounts) Statistics {
	return catchpp.NewStatistics(counts)
}

func (r *catchRuleset) hasAttributes() bool { return r.attribs != nil }

func (r *catchRuleset) setAttributes(attr any) error {
	switch a := attr.(type) {
	case api.CatchAttributes:
		r.attribs = &a
	case *api.CatchAttributes:
		if a == nil {
			return mismatch(difficulty.Catch, attr)
		}

		r.attribs = a
	default:
		return mismatch(difficulty.Catch, attr)
	}

	return nil
}

func (r *catchRuleset) parseAttributes(entry, _ gjson.Result) {
	attribs := parseCatchAttributes(entry)
	r.attribs = &attribs
}

func (r *catchRuleset) reconcile(stats Statistics) Statistics { return stats }

func (r *catchRuleset) fullCombo(stats Statistics) Statistics {
	return stats.(catchpp.Statistics).FullCombo(*r.attribs)
}

func (r *catchRuleset) calculate(stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	return r.calc.Calculate(*r.attribs, stats.(catchpp.Statistics), mods)
}

/* ------------------------------------------------------------- */
/* osu!mania                                                     */

type maniaRuleset struct {
	attribs *api.ManiaAttributes
	calc    *maniapp.PPv2
}

func (r *maniaRuleset) newStatistics(counts api.HitCounts) Statistics {
	return maniapp.NewStatistics(counts)
}

func (r *maniaRuleset) hasAttributes() bool { return r.attribs != nil }

func (r *maniaRuleset) setAttributes(attr any) error {
	switch a := attr.(type) {
	case api.ManiaAttributes:
		r.attribs = &a
	case *api.ManiaAttributes:
		if a == nil {
			return mismatch(difficulty.Mania, attr)
		}

		r.attribs = a
	default:
		return mismatch(difficulty.Mania, attr)
	}

	return nil
}

func (r *maniaRuleset) parseAttributes(entry, _ gjson.Result) {
	attribs := parseManiaAttributes(entry)
	r.attribs = &attribs
}

func (r *maniaRuleset) reconcile(stats Statistics) Statistics { return stats }

func (r *maniaRuleset) fullCombo(stats Statistics) Statistics {
	return stats.(maniapp.Statistics).FullCombo()
}

func (r *maniaRuleset) calculate(stats Statistics, mods difficulty.Modifier) api.PPv2Results {
	return r.calc.Calculate(*r.attribs, stats.(maniapp.Statistics), mods)
}
