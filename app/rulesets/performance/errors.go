package performance

import "errors"

var (
	// ErrMissingBeatmapID is returned when attributes have to be fetched but
	// no beatmap id is known.
	ErrMissingBeatmapID = errors.New("no beatmap id given")

	// ErrDifficultyUnavailable wraps any failure to obtain difficulty attributes.
	ErrDifficultyUnavailable = errors.New("difficulty attributes unavailable")

	ErrNoStatistics = errors.New("no play statistics set")
	ErrModeMismatch = errors.New("attributes do not belong to the calculator mode")
)
