package ledger

import (
	"context"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
)

// CheckResult is the outcome of one skill check: a die roll plus the
// skill's points plus the governing attribute's value.
type CheckResult struct {
	Skill          string             `json:"skill"`
	Die            int                `json:"die"`
	SkillPoints    int                `json:"skill_points"`
	Attribute      gamedata.Attribute `json:"attribute"`
	AttributeValue int                `json:"attribute_value"`
	Total          int                `json:"total"`
	Critical       bool               `json:"critical"`
	Fumble         bool               `json:"fumble"`
}

// RollCheck rolls a skill check for a character. The die result alone
// decides criticals and fumbles; modifiers cannot turn a roll into
// either.
func (l *Ledger) RollCheck(ctx context.Context, communityID, memberID, skillName string) (*CheckResult, error) {
	name := gamedata.Normalize(skillName)
	attribute, ok := gamedata.SkillAttribute(name)
	if !ok {
		return nil, &ErrUnknownSkill{Skill: skillName}
	}

	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	points := 0
	if s, err := l.repository.GetSkill(ctx, communityID, memberID, name); err == nil {
		points = s.Points
	} else if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get skill: %v", err)
	}

	die := l.roller.Roll(gamedata.CheckDieSides)
	value := attributeValue(character, attribute)

	result := &CheckResult{
		Skill:          name,
		Die:            die,
		SkillPoints:    points,
		Attribute:      attribute,
		AttributeValue: value,
		Total:          die + points + value,
		Critical:       die == gamedata.CheckDieSides,
		Fumble:         die == 1,
	}

	l.publish(events.EventTypeCheckRolled, communityID, memberID, result)

	return result, nil
}
