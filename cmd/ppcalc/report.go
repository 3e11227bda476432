package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

var (
	headerColor = color.New(color.FgHiWhite, color.Bold)
	ppColor     = color.New(color.FgHiMagenta)
)

type resultRow struct {
	label   string
	results api.PPv2Results
}

func printSummary(w io.Writer, beatmapID int64, mode difficulty.GameMode, mods difficulty.Modifier, version api.Version) {
	beatmap := "unknown beatmap"
	if beatmapID != 0 {
		beatmap = "beatmap " + humanize.Comma(beatmapID)
	}

	headerColor.Fprintf(w, "%s (%s) %s, %s formula\n", beatmap, mode, mods.Format(true), version)
}

func renderResults(w io.Writer, mode difficulty.GameMode, rows []resultRow) {
	skills := skillsOf(mode)

	header := []string{"", "total", "accuracy"}
	for _, skill := range skills {
		header = append(header, string(skill))
	}

	table := newTable(w, header)

	for _, row := range rows {
		line := []string{row.label, ppColor.Sprint(formatPP(row.results.Total)), formatAccuracy(row.results.Accuracy)}
		for _, skill := range skills {
			line = append(line, formatPP(row.results.Skill(skill)))
		}

		table.Append(line)
	}

	table.Render()
}

func renderMods(w io.Writer, mods difficulty.Modifier) {
	headerColor.Fprintf(w, "%s = %d\n", mods.Format(true), mods.Bits())

	if names := mods.Names(); len(names) > 0 {
		fmt.Fprintln(w, strings.Join(names, ", "))
	}

	table := newTable(w, []string{"mode", "attribute key", "bits"})

	for _, mode := range []difficulty.GameMode{difficulty.Osu, difficulty.Taiko, difficulty.Catch, difficulty.Mania} {
		key := mods.DifficultyRelevant(mode.DifficultyMods())
		table.Append([]string{mode.String(), key.Format(true), strconv.FormatUint(uint64(key.Bits()), 10)})
	}

	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	return table
}

func formatPP(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}

	return strconv.FormatFloat(v, 'f', 2, 64) + "pp"
}

func formatAccuracy(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}

	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
