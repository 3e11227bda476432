package main

import (
	"context"
	"os"
	"os/signal"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/Givikap120/ppv2/app/logger"
	"github.com/Givikap120/ppv2/app/settings"
)

var (
	app = kingpin.New("ppcalc", "osu! performance points calculator")

	configPath  = app.Flag("config", "Settings file").Default("ppcalc.yaml").Short('c').String()
	formulaFlag = app.Flag("formula", "Formula revision, legacy or revised").Short('f').String()

	calcCmd        = app.Command("calc", "Evaluate a score document")
	calcInput      = calcCmd.Arg("score", "Score JSON file, stdin if omitted").String()
	calcMode       = calcCmd.Flag("mode", "Ruleset").Default("osu").Short('m').String()
	calcBeatmap    = calcCmd.Flag("beatmap", "Beatmap id when the score carries none").Short('b').Int64()
	calcDifficulty = calcCmd.Flag("difficulty", "Difficulty document, fetched when omitted").Short('d').ExistingFile()
	calcFullCombo  = calcCmd.Flag("fc", "Also evaluate the full combo projection").Bool()

	bestCmd   = app.Command("best", "Evaluate a user's top plays")
	bestUser  = bestCmd.Arg("user", "User id").Required().Int64()
	bestMode  = bestCmd.Flag("mode", "Ruleset").Default("osu").Short('m').String()
	bestLimit = bestCmd.Flag("limit", "Number of plays").Default("10").Short('n').Int()

	modsCmd = app.Command("mods", "Normalize a mod combination")
	modsArg = modsCmd.Arg("mods", "Bitmask or acronyms, e.g. 72 or HDDT").Required().String()

	configCmd = app.Command("config", "Write the effective settings")
	configOut = configCmd.Arg("file", "Destination, --config if omitted").String()
)

func main() {
	app.Version("0.1.0")
	app.HelpFlag.Short('h')

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	s, err := settings.Load(*configPath)
	app.FatalIfError(err, "settings")

	if *formulaFlag != "" {
		s.Performance.Version = *formulaFlag
	}

	app.FatalIfError(logger.Initialize(s.Logging), "logger")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case calcCmd.FullCommand():
		err = runCalc(ctx, s)
	case bestCmd.FullCommand():
		err = runBest(ctx, s)
	case modsCmd.FullCommand():
		err = runMods(*modsArg)
	case configCmd.FullCommand():
		err = runConfig(s)
	}

	if err != nil {
		logger.Error("command failed", "command", command, "error", err)
		stop()
		app.Fatalf("%s", err)
	}
}
