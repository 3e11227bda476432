package main

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/logger"
	"github.com/Givikap120/ppv2/app/osuapi"
	"github.com/Givikap120/ppv2/app/rulesets/api"
	"github.com/Givikap120/ppv2/app/rulesets/performance"
	"github.com/Givikap120/ppv2/app/settings"
)

type playResult struct {
	title    string
	mods     difficulty.Modifier
	reported float64

	play api.PPv2Results
	fc   api.PPv2Results
	err  error
}

func runBest(ctx context.Context, s settings.Settings) error {
	mode, err := difficulty.ParseGameMode(*bestMode)
	if err != nil {
		return err
	}

	version, err := s.FormulaVersion()
	if err != nil {
		return err
	}

	client, err := osuapi.NewClient(osuapi.Credentials{
		ClientID:     s.API.ClientID,
		ClientSecret: s.API.ClientSecret,
	}, osuapi.ClientOptions{
		BaseURL:  s.API.BaseURL,
		TokenURL: s.API.TokenURL,
		Timeout:  s.API.Timeout,
	})
	if err != nil {
		return err
	}

	provider, release, err := newProvider(s)
	if err != nil {
		return err
	}

	defer release()

	scores, err := client.UserBest(ctx, *bestUser, mode, *bestLimit)
	if err != nil {
		return err
	}

	logger.Info("evaluating top plays", "user", *bestUser, "mode", mode.String(), "plays", len(scores))

	results := evaluatePlays(ctx, scores, mode, version, provider, s.Performance.Workers)
	renderPlays(os.Stdout, results)

	return nil
}

// evaluatePlays computes every score on a fixed pool of workers. Results keep
// the order of scores; failed plays carry their error.
func evaluatePlays(ctx context.Context, scores [][]byte, mode difficulty.GameMode, version api.Version, provider performance.DifficultyProvider, workers int) []playResult {
	results := make([]playResult, len(scores))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for n := 0; n < max(1, workers); n++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				results[i] = evaluatePlay(ctx, scores[i], mode, version, provider)
			}
		}()
	}

	for i := range scores {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	return results
}

func evaluatePlay(ctx context.Context, data []byte, mode difficulty.GameMode, version api.Version, provider performance.DifficultyProvider) (result playResult) {
	doc := gjson.ParseBytes(data)

	result.title = doc.Get("beatmapset.title").String()
	if diff := doc.Get("beatmap.version"); diff.Exists() {
		result.title += " [" + diff.String() + "]"
	}

	result.reported = doc.Get("pp").Float()

	calc, err := performance.NewCalculator(mode, performance.WithVersion(version), performance.WithProvider(provider))
	if err != nil {
		result.err = err
		return
	}

	if _, result.err = calc.SetPerformance(data); result.err != nil {
		return
	}

	result.mods = calc.Mods()

	if result.play, result.err = calc.Compute(ctx, false); result.err != nil {
		logger.Warning("failed to evaluate play", "beatmap", calc.BeatmapID(), "error", result.err)
		return
	}

	result.fc, result.err = calc.Compute(ctx, true)

	return
}

func renderPlays(w io.Writer, results []playResult) {
	table := newTable(w, []string{"#", "beatmap", "mods", "reported", "computed", "fc", "accuracy"})

	var total float64

	for i, r := range results {
		if r.err != nil {
			table.Append([]string{humanize.Ordinal(i + 1), r.title, r.mods.Format(true), formatPP(r.reported), color.RedString(r.err.Error()), "", ""})
			continue
		}

		total += r.play.Total
		table.Append([]string{
			humanize.Ordinal(i + 1),
			r.title,
			r.mods.Format(true),
			formatPP(r.reported),
			ppColor.Sprint(formatPP(r.play.Total)),
			formatPP(r.fc.Total),
			formatAccuracy(r.play.Accuracy),
		})
	}

	table.SetFooter([]string{"", "", "", "", formatPP(total), "", ""})
	table.Render()
}
