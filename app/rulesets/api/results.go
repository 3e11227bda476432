package api

type Skill string

const (
	SkillAim        Skill = "aim"
	SkillSpeed      Skill = "speed"
	SkillFlashlight Skill = "flashlight"
	SkillAccuracy   Skill = "accuracy"
	SkillStrain     Skill = "strain"
)

// PPv2Results holds the skill breakdown of one evaluation, the combined total
// and the accuracy (in percent) the formulas used.
type PPv2Results struct {
	Skills   map[Skill]float64 `json:"skills"`
	Total    float64           `json:"total"`
	Accuracy float64           `json:"accuracy"`
}

// Skill returns the value of a skill component, or 0 if the mode has no such skill.
func (r PPv2Results) Skill(skill Skill) float64 {
	return r.Skills[skill]
}
