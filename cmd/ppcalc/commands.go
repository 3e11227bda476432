package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/osuapi"
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/app/rulesets/performance"
	"github.com/Givikap120/ppv2/app/settings"
)

// newProvider returns the configured difficulty source and a function that
// releases it. The remote provider is wrapped by the cache when a DSN is set.
func newProvider(s settings.Settings) (performance.DifficultyProvider, func(), error) {
	remote, err := osuapi.NewDifficultyProvider(s.Difficulty.URL, s.Difficulty.Timeout)
	if err != nil {
		return nil, nil, err
	}

	if s.Difficulty.CacheDSN == "" {
		return remote, func() {}, nil
	}

	cache, err := osuapi.OpenCache(osuapi.DialectType(s.Difficulty.CacheDriver), s.Difficulty.CacheDSN, remote, s.Difficulty.CacheTTL)
	if err != nil {
		return nil, nil, err
	}

	return cache, func() { cache.Close() }, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}

func runCalc(ctx context.Context, s settings.Settings) error {
	mode, err := difficulty.ParseGameMode(*calcMode)
	if err != nil {
		return err
	}

	version, err := s.FormulaVersion()
	if err != nil {
		return err
	}

	data, err := readInput(*calcInput)
	if err != nil {
		return fmt.Errorf("failed to read score: %w", err)
	}

	provider, release, err := newProvider(s)
	if err != nil {
		return err
	}

	defer release()

	calc, err := performance.NewCalculator(mode,
		performance.WithVersion(version),
		performance.WithProvider(provider),
		performance.WithBeatmapID(*calcBeatmap),
	)
	if err != nil {
		return err
	}

	if _, err = calc.SetPerformance(data); err != nil {
		return err
	}

	if *calcDifficulty != "" {
		doc, err := os.ReadFile(*calcDifficulty)
		if err != nil {
			return err
		}

		if err := calc.SetDifficulty(doc); err != nil {
			return err
		}
	}

	rows := make([]resultRow, 0, 2)

	res, err := calc.Compute(ctx, false)
	if err != nil {
		return err
	}

	rows = append(rows, resultRow{label: "play", results: res})

	if *calcFullCombo {
		fc, err := calc.Compute(ctx, true)
		if err != nil {
			return err
		}

		rows = append(rows, resultRow{label: "fc", results: fc})
	}

	printSummary(os.Stdout, calc.BeatmapID(), mode, calc.Mods(), version)
	renderResults(os.Stdout, mode, rows)

	return nil
}

func runMods(arg string) error {
	var (
		mods difficulty.Modifier
		err  error
	)

	if n, convErr := strconv.ParseFloat(strings.TrimSpace(arg), 64); convErr == nil {
		mods, err = difficulty.FromFloat(n)
	} else {
		mods, err = difficulty.ParseMods(arg)
	}

	if err != nil {
		return err
	}

	renderMods(os.Stdout, mods)

	return nil
}

func runConfig(s settings.Settings) error {
	path := *configOut
	if path == "" {
		path = *configPath
	}

	if err := s.Save(path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	fmt.Fprintln(os.Stdout, "settings written to", path)

	return nil
}

// skillsOf lists the breakdown columns shown for a mode.
func skillsOf(mode difficulty.GameMode) []api.Skill {
	switch mode {
	case difficulty.Osu:
		return []api.Skill{api.SkillAim, api.SkillSpeed, api.SkillAccuracy, api.SkillFlashlight}
	case difficulty.Taiko, difficulty.Mania:
		return []api.Skill{api.SkillStrain, api.SkillAccuracy}
	}

	return nil
}
