package difficulty

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidMods is returned when a modifier encoding cannot be decoded.
var ErrInvalidMods = errors.New("invalid mods")

type Modifier uint32

const (
	NoFail Modifier = 1 << iota
	Easy
	TouchDevice
	Hidden
	HardRock
	SuddenDeath
	DoubleTime
	Relax
	HalfTime
	Nightcore
	Flashlight
	Autoplay
	SpunOut
	Autopilot
	Perfect
	Key4
	Key5
	Key6
	Key7
	Key8
	FadeIn
	Random
	Cinema
	Target
	Key9
	KeyCoop
	Key1
	Key3
	Key2
	ScoreV2
	Mirror

	None Modifier = 0

	KeyMods = Key1 | Key2 | Key3 | Key4 | Key5 | Key6 | Key7 | Key8 | Key9

	// All defined bits.
	All = Mirror<<1 - 1
)

var modNames = [...]string{
	"NoFail",
	"Easy",
	"TouchDevice",
	"Hidden",
	"HardRock",
	"SuddenDeath",
	"DoubleTime",
	"Relax",
	"HalfTime",
	"Nightcore",
	"Flashlight",
	"Autoplay",
	"SpunOut",
	"Autopilot",
	"Perfect",
	"Key4",
	"Key5",
	"Key6",
	"Key7",
	"Key8",
	"FadeIn",
	"Random",
	"Cinema",
	"Target",
	"Key9",
	"KeyCoop",
	"Key1",
	"Key3",
	"Key2",
	"ScoreV2",
	"Mirror",
}

// Autopilot has no two-letter code in the legacy table.
var modCodes = [...]string{
	"NF",
	"EZ",
	"TD",
	"HD",
	"HR",
	"SD",
	"DT",
	"RX",
	"HT",
	"NC",
	"FL",
	"AT",
	"SO",
	"",
	"PF",
	"4K",
	"5K",
	"6K",
	"7K",
	"8K",
	"FI",
	"RD",
	"CN",
	"TP",
	"9K",
	"KC",
	"1K",
	"3K",
	"2K",
	"V2",
	"MR",
}

// aliases maps a modifier to the base modifier it implies.
var aliases = map[Modifier]Modifier{
	Nightcore: DoubleTime,
	Perfect:   SuddenDeath,
}

var upper = cases.Upper(language.Und)

// FromBits decodes a raw bitmask as reported by the legacy API.
func FromBits(n int64) (Modifier, error) {
	if n < 0 || n > math.MaxUint32 {
		return None, fmt.Errorf("%w: bitmask %d out of range", ErrInvalidMods, n)
	}

	return normalize(Modifier(n)), nil
}

// FromFloat decodes a bitmask that arrived as a JSON number.
func FromFloat(v float64) (Modifier, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return None, fmt.Errorf("%w: bitmask %v is not an integer", ErrInvalidMods, v)
	}

	return FromBits(int64(v))
}

// ParseMods decodes a compact code string like "+HDDT" or "hd,dt".
// Unknown codes are skipped.
func ParseMods(s string) (Modifier, error) {
	s = strings.TrimSpace(upper.String(s))

	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == ',' || r == '+' || r == ' ') {
			return None, fmt.Errorf("%w: unexpected character %q in %q", ErrInvalidMods, r, s)
		}
	}

	s = strings.ReplaceAll(strings.TrimPrefix(s, "+"), " ", "")

	var parts []string

	if strings.Contains(s, ",") {
		parts = strings.Split(s, ",")
	} else {
		for i := 0; i < len(s); i += 2 {
			parts = append(parts, s[i:min(i+2, len(s))])
		}
	}

	mods := None

	for _, part := range parts {
		mods |= fromCode(strings.TrimSpace(part))
	}

	return normalize(mods), nil
}

// FromNames decodes a list whose entries are either two-letter codes or full names.
// Unknown entries are skipped.
func FromNames(list []string) Modifier {
	mods := None

	for _, entry := range list {
		if len(entry) == 2 {
			mods |= fromCode(upper.String(entry))
			continue
		}

		for i, name := range modNames {
			if name == entry {
				mods |= 1 << i
				break
			}
		}
	}

	return normalize(mods)
}

func fromCode(code string) Modifier {
	if code == "" {
		return None
	}

	for i, c := range modCodes {
		if c == code {
			return 1 << i
		}
	}

	return None
}

func normalize(mods Modifier) Modifier {
	for alias, base := range aliases {
		if mods&alias > 0 {
			mods |= base
		}
	}

	return mods
}

func (mods Modifier) Bits() uint32 {
	return uint32(mods)
}

// Active reports whether every bit of mod is set.
func (mods Modifier) Active(mod Modifier) bool {
	return mod != None && mods&mod == mod
}

// Names lists full modifier names in ascending bit order.
func (mods Modifier) Names() []string {
	names := make([]string, 0, bits.OnesCount32(uint32(mods)))

	for i, name := range modNames {
		if mods&(1<<i) > 0 {
			names = append(names, name)
		}
	}

	return names
}

// Format joins the two-letter codes in ascending bit order, skipping aliases
// whose base modifier is emitted instead.
func (mods Modifier) Format(withPlus bool) string {
	mods = normalize(mods)

	codes := make([]string, 0, bits.OnesCount32(uint32(mods)))

	for i, code := range modCodes {
		mod := Modifier(1 << i)
		if mods&mod == 0 || code == "" {
			continue
		}

		if _, ok := aliases[mod]; ok {
			continue
		}

		codes = append(codes, code)
	}

	if len(codes) == 0 {
		return ""
	}

	s := strings.Join(codes, ",")
	if withPlus {
		s = "+" + s
	}

	return s
}

func (mods Modifier) String() string {
	return mods.Format(false)
}

// DifficultyRelevant keeps only the modifiers in allowed. Hidden only changes
// precomputed attributes together with Flashlight, so it is dropped otherwise.
func (mods Modifier) DifficultyRelevant(allowed Modifier) Modifier {
	if mods.Active(Hidden) && !mods.Active(Flashlight) {
		mods &^= Hidden
	}

	return mods & allowed
}
