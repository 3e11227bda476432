package api

// OsuAttributes are the precomputed difficulty values of an osu!standard map
// for one difficulty-relevant mod combination.
type OsuAttributes struct {
	// Total Star rating, visible on osu!'s beatmap page
	Total float64 `json:"total"`

	// Aim stars, needed for Performance Points (aka PP) calculations
	Aim float64 `json:"aim"`

	// Speed stars, needed for Performance Points (aka PP) calculations
	Speed float64 `json:"speed"`

	// Flashlight stars, needed for Performance Points (aka PP) calculations
	Flashlight float64 `json:"flashlight"`

	// SliderFactor is a ratio of Aim calculated without sliders to Aim with them
	SliderFactor float64 `json:"slider_factor"`

	SpeedNoteCount float64 `json:"speed_note_count"`

	ApproachRate      float64 `json:"ar"`
	OverallDifficulty float64 `json:"od"`

	Circles  int `json:"count_circles"`
	Sliders  int `json:"count_sliders"`
	Spinners int `json:"count_spinners"`
	MaxCombo int `json:"max_combo"`
}

func (attr OsuAttributes) ObjectCount() int {
	return attr.Circles + attr.Sliders + attr.Spinners
}

type TaikoAttributes struct {
	Total        float64 `json:"total"`
	HitWindow300 float64 `json:"hit_window_300"`
}

type CatchAttributes struct {
	Total        float64 `json:"total"`
	ApproachRate float64 `json:"ar"`
	MaxCombo     int     `json:"max_combo"`
}

type ManiaAttributes struct {
	Total           float64 `json:"total"`
	HitWindow300    float64 `json:"hit_window_300"`
	ScoreMultiplier float64 `json:"score_multiplier"`
}
