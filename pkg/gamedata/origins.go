package gamedata

// Origin names.
const (
	OriginNoble     = "noble"
	OriginCitizen   = "citizen"
	OriginCountry   = "country"
	OriginStreetrat = "streetrat"
)

// ItemGrant is a quantity of an item granted by an origin.
type ItemGrant struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// Origin is a character background template. Skill bonuses are applied
// on top of freshly created skills without spending unassigned points,
// capped at MaxSkillPoints. Origins with a non-empty WeaponChoices list
// let the player pick one of the listed weapons as an extra starting
// item; the first entry is the default.
type Origin struct {
	Name          string         `json:"name"`
	Wallet        int            `json:"wallet"`
	Items         []ItemGrant    `json:"items"`
	SkillBonuses  map[string]int `json:"skill_bonuses"`
	WeaponChoices []string       `json:"weapon_choices,omitempty"`
}

var origins = []Origin{
	{
		Name:   OriginNoble,
		Wallet: 1000,
		Items:  []ItemGrant{{Item: ItemFormalOutfit, Qty: 1}},
		SkillBonuses: map[string]int{
			SkillPersuasion: 1,
			SkillDance:      1,
		},
	},
	{
		Name:   OriginCitizen,
		Wallet: 400,
		Items:  []ItemGrant{{Item: ItemCommonOutfit, Qty: 1}},
		SkillBonuses: map[string]int{
			SkillLore:       1,
			SkillReligion:   1,
			SkillPersuasion: 1,
		},
	},
	{
		Name:   OriginCountry,
		Wallet: 400,
		Items:  []ItemGrant{{Item: ItemWorkOutfit, Qty: 1}},
		SkillBonuses: map[string]int{
			SkillRangedWeapons: 1,
			SkillEvasion:       1,
			SkillDrugTolerance: 1,
		},
	},
	{
		Name:   OriginStreetrat,
		Wallet: 10,
		Items:  []ItemGrant{{Item: ItemRaggedOutfit, Qty: 1}},
		SkillBonuses: map[string]int{
			SkillStreetwise:    1,
			SkillMeleeWeapons:  1,
			SkillBrawling:      1,
			SkillDrugTolerance: 1,
		},
		WeaponChoices: []string{ItemPistol, ItemDagger},
	},
}

// Origins returns the origin templates in listing order.
func Origins() []Origin {
	templates := make([]Origin, len(origins))
	copy(templates, origins)
	return templates
}

// GetOrigin returns the origin template for a normalized name. The
// second return value reports whether the origin exists.
func GetOrigin(name string) (Origin, bool) {
	for _, origin := range origins {
		if origin.Name == name {
			return origin, true
		}
	}
	return Origin{}, false
}

// DefaultWeapon returns the origin's default weapon choice, or the empty
// string if the origin has no weapon choice.
func (o Origin) DefaultWeapon() string {
	if len(o.WeaponChoices) == 0 {
		return ""
	}
	return o.WeaponChoices[0]
}

// AllowsWeapon reports whether a normalized item name is a valid weapon
// choice for the origin.
func (o Origin) AllowsWeapon(name string) bool {
	for _, choice := range o.WeaponChoices {
		if choice == name {
			return true
		}
	}
	return false
}
