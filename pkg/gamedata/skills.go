package gamedata

// The twelve skills, grouped by governing attribute.
const (
	SkillLore          = "lore"
	SkillStreetwise    = "streetwise"
	SkillPersuasion    = "persuasion"
	SkillRangedWeapons = "ranged_weapons"

	SkillMeleeWeapons = "melee_weapons"
	SkillDance        = "dance"
	SkillEvasion      = "evasion"
	SkillBrawling     = "brawling"

	SkillReligion      = "religion"
	SkillClairvoyance  = "clairvoyance"
	SkillDrugTolerance = "drug_tolerance"
	SkillExorcism      = "exorcism"
)

var skillAttributes = map[string]Attribute{
	SkillLore:          AttributeMind,
	SkillStreetwise:    AttributeMind,
	SkillPersuasion:    AttributeMind,
	SkillRangedWeapons: AttributeMind,

	SkillMeleeWeapons: AttributeBody,
	SkillDance:        AttributeBody,
	SkillEvasion:      AttributeBody,
	SkillBrawling:     AttributeBody,

	SkillReligion:      AttributeSoul,
	SkillClairvoyance:  AttributeSoul,
	SkillDrugTolerance: AttributeSoul,
	SkillExorcism:      AttributeSoul,
}

// skillOrder is the canonical listing order: mind, body, soul.
var skillOrder = []string{
	SkillLore,
	SkillStreetwise,
	SkillPersuasion,
	SkillRangedWeapons,
	SkillMeleeWeapons,
	SkillDance,
	SkillEvasion,
	SkillBrawling,
	SkillReligion,
	SkillClairvoyance,
	SkillDrugTolerance,
	SkillExorcism,
}

// Skills returns all skill names in canonical order.
func Skills() []string {
	skills := make([]string, len(skillOrder))
	copy(skills, skillOrder)
	return skills
}

// SkillAttribute returns the attribute governing a skill. The name must
// already be normalized. The second return value reports whether the
// skill exists.
func SkillAttribute(name string) (Attribute, bool) {
	attribute, ok := skillAttributes[name]
	return attribute, ok
}

// IsSkill reports whether a normalized name is a known skill.
func IsSkill(name string) bool {
	_, ok := skillAttributes[name]
	return ok
}
