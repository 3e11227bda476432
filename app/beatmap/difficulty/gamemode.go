package difficulty

import (
	"fmt"
	"strings"
)

type GameMode int

const (
	Osu GameMode = iota
	Taiko
	Catch
	Mania
)

var gameModeNames = [...]string{"osu", "taiko", "fruits", "mania"}

func (mode GameMode) String() string {
	if mode < Osu || mode > Mania {
		return fmt.Sprintf("GameMode(%d)", int(mode))
	}

	return gameModeNames[mode]
}

// DifficultyMods returns the modifiers that select a distinct set of
// precomputed difficulty attributes in this mode.
func (mode GameMode) DifficultyMods() Modifier {
	switch mode {
	case Osu:
		return TouchDevice | Hidden | HardRock | Easy | DoubleTime | HalfTime | Flashlight
	case Taiko, Catch:
		return HardRock | Easy | DoubleTime | HalfTime
	case Mania:
		return TouchDevice | Hidden | HardRock | Easy | DoubleTime | HalfTime | Flashlight | KeyMods
	}

	return None
}

// ParseGameMode accepts ruleset names used by the osu! API v1 and v2 as well as
// their numeric ids.
func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "osu", "std", "standard", "0":
		return Osu, nil
	case "taiko", "1":
		return Taiko, nil
	case "fruits", "catch", "ctb", "2":
		return Catch, nil
	case "mania", "3":
		return Mania, nil
	}

	return Osu, fmt.Errorf("unknown game mode %q", s)
}
