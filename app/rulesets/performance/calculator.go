package performance

import (
	"context"
	"fmt"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/logger"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

// DifficultyProvider returns the raw difficulty document of a beatmap, either
// combined ({beatmap, difficulty}) or flat.
type DifficultyProvider interface {
	FetchDifficulty(ctx context.Context, beatmapID int64, mode difficulty.GameMode) ([]byte, error)
}

type Option func(*Calculator)

// WithVersion selects the formula revision, api.Revised by default.
func WithVersion(version api.Version) Option {
	return func(c *Calculator) {
		c.version = version
	}
}

// WithProvider sets where attributes come from when none were attached.
func WithProvider(provider DifficultyProvider) Option {
	return func(c *Calculator) {
		c.provider = provider
	}
}

func WithBeatmapID(beatmapID int64) Option {
	return func(c *Calculator) {
		c.beatmapID = beatmapID
	}
}

// Calculator evaluates one play in one mode. It is owned by a single
// goroutine at a time; independent calculators may run concurrently.
type Calculator struct {
	mode      difficulty.GameMode
	version   api.Version
	provider  DifficultyProvider
	beatmapID int64

	mods  difficulty.Modifier
	stats Statistics
	rules ruleset
}

func NewCalculator(mode difficulty.GameMode, opts ...Option) (*Calculator, error) {
	c := &Calculator{
		mode:    mode,
		version: api.Revised,
	}

	for _, opt := range opts {
		opt(c)
	}

	rules, err := newRuleset(mode, c.version)
	if err != nil {
		return nil, err
	}

	c.rules = rules

	return c, nil
}

func (c *Calculator) Mode() difficulty.GameMode { return c.mode }

func (c *Calculator) Version() api.Version { return c.version }

func (c *Calculator) Mods() difficulty.Modifier { return c.mods }

func (c *Calculator) BeatmapID() int64 { return c.beatmapID }

// DifficultyMods is the subset of the active mods that selects the attribute set.
func (c *Calculator) DifficultyMods() difficulty.Modifier {
	return c.mods.DifficultyRelevant(c.mode.DifficultyMods())
}

func (c *Calculator) SetBeatmap(beatmapID int64) *Calculator {
	c.beatmapID = beatmapID
	return c
}

// SetStatistics replaces the play. Standard 300 counts are reconciled with
// attributes that are already attached.
func (c *Calculator) SetStatistics(counts api.HitCounts, mods difficulty.Modifier) *Calculator {
	c.mods = mods
	c.stats = c.rules.newStatistics(counts)

	if c.rules.hasAttributes() {
		c.stats = c.rules.reconcile(c.stats)
	}

	return c
}

// SetPerformance reads an upstream score document, see ParseScore. A beatmap
// id found in the document replaces the current one.
func (c *Calculator) SetPerformance(data []byte) (*Calculator, error) {
	score, err := ParseScore(data, c.mode)
	if err != nil {
		return c, err
	}

	if score.BeatmapID != 0 {
		c.beatmapID = score.BeatmapID
	}

	return c.SetStatistics(score.Counts, score.Mods), nil
}

// SetAttributes attaches typed attributes of the calculator's mode, by value or pointer.
func (c *Calculator) SetAttributes(attr any) error {
	if err := c.rules.setAttributes(attr); err != nil {
		return err
	}

	if c.stats != nil {
		c.stats = c.rules.reconcile(c.stats)
	}

	return nil
}

// SetDifficulty attaches attributes from a difficulty document. Combined
// documents are indexed by the difficulty-relevant mods, so statistics
// should be set first.
func (c *Calculator) SetDifficulty(data []byte) error {
	diffMods := c.DifficultyMods()

	entry, beatmap, err := difficultyEntry(data, diffMods)
	if err != nil {
		return err
	}

	logger.Debug("difficulty attributes selected", "mode", c.mode.String(), "mods", diffMods.Format(true))

	c.rules.parseAttributes(entry, beatmap)

	if c.stats != nil {
		c.stats = c.rules.reconcile(c.stats)
	}

	return nil
}

// Statistics returns the play as set, never the full combo projection. Nil until set.
func (c *Calculator) Statistics() Statistics { return c.stats }

// Accuracy of the play in [0, 1]. 0 until statistics are set.
func (c *Calculator) Accuracy() float64 {
	if c.stats == nil {
		return 0
	}

	return c.stats.Accuracy()
}

// Compute evaluates the play, fetching attributes first if none are attached.
// With fullCombo the play is projected to have no misses and full combo; the
// stored statistics are left untouched either way.
func (c *Calculator) Compute(ctx context.Context, fullCombo bool) (api.PPv2Results, error) {
	if c.stats == nil {
		return api.PPv2Results{}, ErrNoStatistics
	}

	if !c.rules.hasAttributes() {
		if err := c.fetchDifficulty(ctx); err != nil {
			return api.PPv2Results{}, err
		}
	}

	stats := c.stats
	if fullCombo {
		stats = c.rules.fullCombo(stats)
	}

	return c.rules.calculate(stats, c.mods), nil
}

func (c *Calculator) fetchDifficulty(ctx context.Context) error {
	if c.beatmapID == 0 {
		return ErrMissingBeatmapID
	}

	if c.provider == nil {
		return fmt.Errorf("%w: no provider configured for beatmap %d", ErrDifficultyUnavailable, c.beatmapID)
	}

	logger.Debug("fetching difficulty attributes", "beatmap", c.beatmapID, "mode", c.mode.String())

	data, err := c.provider.FetchDifficulty(ctx, c.beatmapID, c.mode)
	if err != nil {
		return fmt.Errorf("%w: beatmap %d: %w", ErrDifficultyUnavailable, c.beatmapID, err)
	}

	return c.SetDifficulty(data)
}
