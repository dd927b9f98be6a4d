package gamedata

import (
	"fmt"
	"strings"
)

const (
	// SettingName is the display name of the campaign setting.
	SettingName = "Marble Isles"
	// CurrencyName is the display name of the in-game currency.
	CurrencyName = "doubloons"
	// StartingSkillPoints is the size of the unassigned skill point pool
	// a new character starts with.
	StartingSkillPoints = 10
	// MaxSkillPoints is the per-skill point cap.
	MaxSkillPoints = 3
	// CheckDieSides is the number of sides on the check die.
	CheckDieSides = 20
	// PrimaryAttributeValue is the value of the attribute chosen as primary.
	PrimaryAttributeValue = 5
	// SecondaryAttributeValue is the value of the attribute chosen as secondary.
	SecondaryAttributeValue = 3
	// TertiaryAttributeValue is the value of the remaining attribute.
	TertiaryAttributeValue = 1
	// PoolMultiplier scales an attribute value into the maximum of its resource pool.
	PoolMultiplier = 2
)

// Attribute identifies one of the three governing attributes.
type Attribute string

const (
	AttributeMind Attribute = "mind"
	AttributeBody Attribute = "body"
	AttributeSoul Attribute = "soul"
)

// Attributes returns the three attributes in canonical order.
func Attributes() []Attribute {
	return []Attribute{AttributeMind, AttributeBody, AttributeSoul}
}

// ParseAttribute parses an attribute name, normalizing it first.
func ParseAttribute(name string) (Attribute, error) {
	switch Attribute(Normalize(name)) {
	case AttributeMind:
		return AttributeMind, nil
	case AttributeBody:
		return AttributeBody, nil
	case AttributeSoul:
		return AttributeSoul, nil
	default:
		return "", fmt.Errorf("unknown attribute: %s", name)
	}
}

// Pool identifies one of the three resource pools.
type Pool string

const (
	PoolHealth Pool = "health"
	PoolSanity Pool = "sanity"
	PoolSpirit Pool = "spirit"
)

// Pools returns the three resource pools in canonical order.
func Pools() []Pool {
	return []Pool{PoolHealth, PoolSanity, PoolSpirit}
}

// ParsePool parses a pool name, normalizing it first.
func ParsePool(name string) (Pool, error) {
	switch Pool(Normalize(name)) {
	case PoolHealth:
		return PoolHealth, nil
	case PoolSanity:
		return PoolSanity, nil
	case PoolSpirit:
		return PoolSpirit, nil
	default:
		return "", fmt.Errorf("unknown pool: %s", name)
	}
}

// Attribute returns the attribute that governs the pool's maximum.
func (p Pool) Attribute() Attribute {
	switch p {
	case PoolHealth:
		return AttributeBody
	case PoolSanity:
		return AttributeMind
	case PoolSpirit:
		return AttributeSoul
	default:
		return ""
	}
}

// Terminal conditions reported when a pool is emptied.
const (
	ConditionIncapacitated = "incapacitated"
	ConditionInsane        = "insane"
	ConditionPossessed     = "possessed"
)

// TerminalCondition returns the condition a character suffers when the
// pool reaches zero.
func (p Pool) TerminalCondition() string {
	switch p {
	case PoolHealth:
		return ConditionIncapacitated
	case PoolSanity:
		return ConditionInsane
	case PoolSpirit:
		return ConditionPossessed
	default:
		return ""
	}
}

// Normalize canonicalizes a player-supplied name: surrounding whitespace
// is trimmed, letters are lowercased, and interior spaces become
// underscores, so "  Melee Weapons " and "melee_weapons" are the same skill.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
