package performance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

var errOffline = errors.New("offline")

type fakeProvider struct {
	docs  map[int64]string
	calls int
	err   error
}

func (p *fakeProvider) FetchDifficulty(_ context.Context, beatmapID int64, _ difficulty.GameMode) ([]byte, error) {
	p.calls++

	if p.err != nil {
		return nil, p.err
	}

	doc, ok := p.docs[beatmapID]
	if !ok {
		return nil, fmt.Errorf("beatmap %d: %w", beatmapID, errOffline)
	}

	return []byte(doc), nil
}

func osuAttributes() api.OsuAttributes {
	return api.OsuAttributes{
		Total:             5,
		Aim:               3.0,
		Speed:             2.5,
		SliderFactor:      1,
		SpeedNoteCount:    500,
		ApproachRate:      9,
		OverallDifficulty: 9,
		Circles:           900,
		Sliders:           100,
		MaxCombo:          1000,
	}
}

// combined document with one nomod and one DT entry
const combinedDifficulty = `{
	"beatmap": {"num_circles": 900, "num_sliders": 100, "num_spinners": 0},
	"difficulty": {
		"0":  {"aim": 3.0, "speed": 2.5, "total": 5.0, "max_combo": 1000, "ar": 9, "od": 9},
		"64": {"aim": 4.2, "speed": 3.6, "total": 7.0, "max_combo": 1000, "ar": 10.33, "od": 10.08}
	}
}`

func mustCalculator(t *testing.T, mode difficulty.GameMode, opts ...Option) *Calculator {
	t.Helper()

	c, err := NewCalculator(mode, opts...)
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func TestCompute_StandardScenario(t *testing.T) {
	c := mustCalculator(t, difficulty.Osu)

	c.SetStatistics(api.HitCounts{Count300: 1000, MaxCombo: 1000}, difficulty.None)

	if err := c.SetAttributes(osuAttributes()); err != nil {
		t.Fatal(err)
	}

	res, err := c.Compute(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}

	if c.Accuracy() != 1 || res.Accuracy != 100 {
		t.Errorf("expected perfect accuracy, got %v / %v", c.Accuracy(), res.Accuracy)
	}

	if res.Skill(api.SkillFlashlight) != 0 {
		t.Errorf("expected no flashlight value, got %v", res.Skill(api.SkillFlashlight))
	}

	previous := res.Total

	for _, aim := range []float64{3.5, 4.0, 5.0} {
		attribs := osuAttributes()
		attribs.Aim = aim

		if err := c.SetAttributes(&attribs); err != nil {
			t.Fatal(err)
		}

		res, err := c.Compute(context.Background(), false)
		if err != nil {
			t.Fatal(err)
		}

		if res.Total <= previous {
			t.Errorf("expected total to increase with aim %v: %v <= %v", aim, res.Total, previous)
		}

		previous = res.Total
	}
}

func TestCompute_FullComboLeavesStatistics(t *testing.T) {
	c := mustCalculator(t, difficulty.Osu)

	if err := c.SetAttributes(osuAttributes()); err != nil {
		t.Fatal(err)
	}

	c.SetStatistics(api.HitCounts{Count300: 950, Count100: 30, Count50: 5, CountMiss: 15, MaxCombo: 400}, difficulty.Hidden)

	before := c.Statistics().Counts()
	accuracy := c.Accuracy()

	actual, err := c.Compute(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}

	fc, err := c.Compute(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}

	if c.Statistics().Counts() != before || c.Accuracy() != accuracy {
		t.Error("full combo projection changed the stored statistics")
	}

	again, err := c.Compute(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}

	if again.Total != actual.Total {
		t.Errorf("repeated compute differs: %v != %v", again.Total, actual.Total)
	}

	if fc.Total <= actual.Total || fc.Accuracy <= actual.Accuracy {
		t.Errorf("expected full combo to be worth more, %+v vs %+v", fc, actual)
	}
}

func TestSetDifficulty_BackfillsGreats(t *testing.T) {
	c := mustCalculator(t, difficulty.Osu)

	// the score disagrees with the map about the object count
	c.SetStatistics(api.HitCounts{Count300: 10, Count100: 20, Count50: 5, CountMiss: 5, MaxCombo: 900}, difficulty.None)

	if err := c.SetDifficulty([]byte(combinedDifficulty)); err != nil {
		t.Fatal(err)
	}

	counts := c.Statistics().Counts()
	if counts.Count300 != 970 || c.Statistics().TotalHits() != 1000 {
		t.Errorf("expected 970 greats over 1000 hits, got %+v", counts)
	}
}

func TestSetDifficulty_SelectsByDifficultyMods(t *testing.T) {
	// HD without FL and NF don't select a different entry
	c := mustCalculator(t, difficulty.Osu)
	c.SetStatistics(api.HitCounts{Count300: 1000, MaxCombo: 1000}, difficulty.Hidden|difficulty.DoubleTime|difficulty.NoFail)

	if got := c.DifficultyMods(); got != difficulty.DoubleTime {
		t.Fatalf("expected DT only, got %v", got)
	}

	if err := c.SetDifficulty([]byte(combinedDifficulty)); err != nil {
		t.Fatal(err)
	}

	dt, _ := c.Compute(context.Background(), false)

	nomod := mustCalculator(t, difficulty.Osu)
	nomod.SetStatistics(api.HitCounts{Count300: 1000, MaxCombo: 1000}, difficulty.Hidden|difficulty.NoFail)

	if err := nomod.SetDifficulty([]byte(combinedDifficulty)); err != nil {
		t.Fatal(err)
	}

	base, _ := nomod.Compute(context.Background(), false)

	if dt.Skill(api.SkillAim) <= base.Skill(api.SkillAim) {
		t.Errorf("expected the DT entry to be used, aim %v <= %v", dt.Skill(api.SkillAim), base.Skill(api.SkillAim))
	}

	// array documents are indexed by the bitmask
	taiko := mustCalculator(t, difficulty.Taiko)
	taiko.SetStatistics(api.HitCounts{Count300: 500}, difficulty.HardRock)

	entries := make([]string, 17)
	for i := range entries {
		entries[i] = `{"total": 1, "hit_window_300": 30}`
	}

	entries[16] = `{"total": 5, "hit_window_300": 25}`

	doc := `{"beatmap": {}, "difficulty": [` + strings.Join(entries, ",") + `]}`
	if err := taiko.SetDifficulty([]byte(doc)); err != nil {
		t.Fatal(err)
	}

	hr, _ := taiko.Compute(context.Background(), false)
	if hr.Skill(api.SkillStrain) < 10 {
		t.Errorf("expected the HR entry to be used, strain %v", hr.Skill(api.SkillStrain))
	}

	missing := mustCalculator(t, difficulty.Osu)
	missing.SetStatistics(api.HitCounts{Count300: 1}, difficulty.HardRock)

	if err := missing.SetDifficulty([]byte(combinedDifficulty)); !errors.Is(err, ErrDifficultyUnavailable) {
		t.Errorf("expected ErrDifficultyUnavailable, got %v", err)
	}
}

func TestSetDifficulty_Flat(t *testing.T) {
	c := mustCalculator(t, difficulty.Mania)
	c.SetStatistics(api.HitCounts{CountGeki: 1000, Score: 1000000}, difficulty.None)

	if err := c.SetDifficulty([]byte(`{"total": 4.5, "hit_window_300": 40, "score_multiplier": 1}`)); err != nil {
		t.Fatal(err)
	}

	res, err := c.Compute(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}

	if res.Skill(api.SkillStrain) <= 0 || res.Skill(api.SkillAccuracy) <= 0 {
		t.Errorf("expected both mania skills, got %+v", res.Skills)
	}

	for _, doc := range []string{`[1, 2]`, `{"broken"`} {
		if err := c.SetDifficulty([]byte(doc)); !errors.Is(err, ErrDifficultyUnavailable) {
			t.Errorf("%s: expected ErrDifficultyUnavailable, got %v", doc, err)
		}
	}
}

func TestCompute_LazyFetch(t *testing.T) {
	provider := &fakeProvider{docs: map[int64]string{129891: combinedDifficulty}}

	c := mustCalculator(t, difficulty.Osu, WithProvider(provider))

	if _, err := c.SetPerformance([]byte(currentScore)); err != nil {
		t.Fatal(err)
	}

	if c.BeatmapID() != 129891 {
		t.Fatalf("expected beatmap id from score, got %d", c.BeatmapID())
	}

	actual, err := c.Compute(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Compute(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	if provider.calls != 1 {
		t.Errorf("expected a single fetch, got %d", provider.calls)
	}

	if math.IsNaN(actual.Total) || actual.Total <= 0 {
		t.Errorf("expected a positive total, got %v", actual.Total)
	}
}

func TestCompute_Errors(t *testing.T) {
	ctx := context.Background()

	c := mustCalculator(t, difficulty.Taiko)
	if _, err := c.Compute(ctx, false); !errors.Is(err, ErrNoStatistics) {
		t.Errorf("expected ErrNoStatistics, got %v", err)
	}

	c.SetStatistics(api.HitCounts{Count300: 100}, difficulty.None)
	if _, err := c.Compute(ctx, false); !errors.Is(err, ErrMissingBeatmapID) {
		t.Errorf("expected ErrMissingBeatmapID, got %v", err)
	}

	c.SetBeatmap(7)
	if _, err := c.Compute(ctx, false); !errors.Is(err, ErrDifficultyUnavailable) {
		t.Errorf("expected ErrDifficultyUnavailable without provider, got %v", err)
	}

	provider := &fakeProvider{err: errOffline}
	failing := mustCalculator(t, difficulty.Taiko, WithProvider(provider), WithBeatmapID(7))
	failing.SetStatistics(api.HitCounts{Count300: 100}, difficulty.None)

	_, err := failing.Compute(ctx, false)
	if !errors.Is(err, ErrDifficultyUnavailable) || !errors.Is(err, errOffline) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}

	if err := failing.SetAttributes(api.ManiaAttributes{}); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("expected ErrModeMismatch, got %v", err)
	}

	if err := failing.SetAttributes((*api.TaikoAttributes)(nil)); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("expected ErrModeMismatch for nil attributes, got %v", err)
	}

	if _, err := NewCalculator(difficulty.GameMode(9)); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestCompute_AllModes(t *testing.T) {
	tests := []struct {
		mode   difficulty.GameMode
		counts api.HitCounts
		attr   any
		skills []api.Skill
	}{
		{difficulty.Osu, api.HitCounts{Count300: 990, Count100: 8, CountMiss: 2, MaxCombo: 800}, osuAttributes(), []api.Skill{api.SkillAim, api.SkillSpeed, api.SkillFlashlight, api.SkillAccuracy}},
		{difficulty.Taiko, api.HitCounts{Count300: 1400, Count100: 90, CountMiss: 10}, api.TaikoAttributes{Total: 5, HitWindow300: 28}, []api.Skill{api.SkillStrain, api.SkillAccuracy}},
		{difficulty.Catch, api.HitCounts{Count300: 1000, Count100: 100, Count50: 400, CountMiss: 4, CountKatu: 10, MaxCombo: 900}, api.CatchAttributes{Total: 6, ApproachRate: 9, MaxCombo: 1104}, nil},
		{difficulty.Mania, api.HitCounts{CountGeki: 1500, Count300: 300, CountKatu: 50, Count100: 10, CountMiss: 5, Score: 970000}, api.ManiaAttributes{Total: 4, HitWindow300: 40, ScoreMultiplier: 1}, []api.Skill{api.SkillStrain, api.SkillAccuracy}},
	}

	for _, version := range []api.Version{api.Legacy, api.Revised} {
		for _, tt := range tests {
			c := mustCalculator(t, tt.mode, WithVersion(version))
			c.SetStatistics(tt.counts, difficulty.None)

			if err := c.SetAttributes(tt.attr); err != nil {
				t.Fatal(err)
			}

			for _, fc := range []bool{false, true} {
				res, err := c.Compute(context.Background(), fc)
				if err != nil {
					t.Fatal(err)
				}

				if len(res.Skills) != len(tt.skills) {
					t.Errorf("%s/%s: expected skills %v, got %v", tt.mode, version, tt.skills, res.Skills)
				}

				for _, skill := range tt.skills {
					if v, ok := res.Skills[skill]; !ok || v < 0 {
						t.Errorf("%s/%s: invalid %s value %v", tt.mode, version, skill, v)
					}
				}

				if res.Total < 0 || math.IsNaN(res.Total) || math.IsInf(res.Total, 0) {
					t.Errorf("%s/%s: invalid total %v", tt.mode, version, res.Total)
				}

				if res.Accuracy < 0 || res.Accuracy > 100 {
					t.Errorf("%s/%s: accuracy out of range %v", tt.mode, version, res.Accuracy)
				}
			}
		}
	}
}
