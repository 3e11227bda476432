package performance

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

func TestStatistics(t *testing.T) {
	inRange := func(n300, n100, n50, nmiss, nkatu uint16) bool {
		acc := NewStatistics(api.HitCounts{
			Count300:  float64(n300),
			Count100:  float64(n100),
			Count50:   float64(n50),
			CountMiss: float64(nmiss),
			CountKatu: float64(nkatu),
		}).Accuracy()

		return acc >= 0 && acc <= 1
	}

	if err := quick.Check(inRange, nil); err != nil {
		t.Error(err)
	}

	stats := NewStatistics(api.HitCounts{Count300: 500, Count100: 50, Count50: 300, CountMiss: 10, CountKatu: 40, MaxCombo: 300})

	if stats.TotalHits() != 900 || stats.TotalComboHits() != 560 {
		t.Errorf("unexpected totals %v / %v", stats.TotalHits(), stats.TotalComboHits())
	}

	if want := 850.0 / 900.0; stats.Accuracy() != want {
		t.Errorf("expected %v, got %v", want, stats.Accuracy())
	}

	fc := stats.FullCombo(api.CatchAttributes{MaxCombo: 560})
	if fc.Counts().CountMiss != 0 || fc.Counts().Count300 != 510 || fc.Combo() != 560 {
		t.Errorf("unexpected projection %+v", fc.Counts())
	}
}

func TestCalculate(t *testing.T) {
	attribs := api.CatchAttributes{Total: 6, ApproachRate: 9.5, MaxCombo: 1200}
	stats := NewStatistics(api.HitCounts{Count300: 1000, Count100: 200, Count50: 600, MaxCombo: 1200})

	for _, version := range []api.Version{api.Legacy, api.Revised} {
		res := NewPPCalculator(version).Calculate(attribs, stats, difficulty.None)

		if len(res.Skills) != 0 {
			t.Errorf("expected no skill breakdown, got %v", res.Skills)
		}

		if res.Total <= 0 || math.IsInf(res.Total, 0) {
			t.Errorf("expected finite positive total, got %v", res.Total)
		}

		if res.Accuracy != 100 {
			t.Errorf("expected 100%% accuracy, got %v", res.Accuracy)
		}
	}

	calc := NewPPCalculator(api.Revised)
	base := calc.Calculate(attribs, stats, difficulty.None).Total

	if ratio := calc.Calculate(attribs, stats, difficulty.NoFail|difficulty.SpunOut).Total / base; math.Abs(ratio-0.90*0.95) > 1e-9 {
		t.Errorf("expected NF and SO penalties, got ratio %v", ratio)
	}

	if calc.Calculate(attribs, stats, difficulty.Hidden).Total <= base {
		t.Error("expected HD bonus")
	}

	broken := NewStatistics(api.HitCounts{Count300: 990, Count100: 200, Count50: 600, CountMiss: 10, MaxCombo: 400})
	if calc.Calculate(attribs, broken, difficulty.None).Total >= base {
		t.Error("expected misses to lower total")
	}
}

func TestCalculate_NonNegative(t *testing.T) {
	valid := func(fruits, drops, droplets, nmiss, nkatu uint16, hidden bool) bool {
		comboHits := float64(fruits) + float64(drops) + float64(nmiss)

		stats := NewStatistics(api.HitCounts{
			Count300:  float64(fruits),
			Count100:  float64(drops),
			Count50:   float64(droplets),
			CountMiss: float64(nmiss),
			CountKatu: float64(nkatu),
			MaxCombo:  float64(fruits),
		})

		mods := difficulty.None
		if hidden {
			mods = difficulty.Hidden | difficulty.Flashlight
		}

		attribs := api.CatchAttributes{Total: 5, ApproachRate: 9.5, MaxCombo: int(comboHits)}
		res := NewPPCalculator(api.Revised).Calculate(attribs, stats, mods)

		return res.Total >= 0 && !math.IsNaN(res.Total) && !math.IsInf(res.Total, 0)
	}

	if err := quick.Check(valid, nil); err != nil {
		t.Error(err)
	}
}
