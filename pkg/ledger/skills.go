package ledger

import (
	"context"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

// AllocateResult reports the outcome of a skill point allocation.
type AllocateResult struct {
	Skill     string `json:"skill"`
	Points    int    `json:"points"`
	Spent     int    `json:"spent"`
	Remaining int    `json:"remaining"`
}

// AllocateSkillPoints moves up to amount points from the unassigned
// pool into a skill. The spend is clamped by the per-skill cap and the
// points remaining in the pool, so the operation never fails for asking
// too much; Spent reports how many points actually moved.
func (l *Ledger) AllocateSkillPoints(ctx context.Context, communityID, memberID, skillName string, amount int) (*AllocateResult, error) {
	name := gamedata.Normalize(skillName)
	if !gamedata.IsSkill(name) {
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
	s, err := l.repository.GetSkill(ctx, communityID, memberID, name)
	if err != nil {
		// a restored character may be missing skill rows; treat them as
		// untrained and recreate the row on write
		if !repositories.IsNotFound(err) {
			return nil, fmt.Errorf("failed to get skill: %v", err)
		}
	} else {
		points = s.Points
	}

	spent := max(0, min(gamedata.MaxSkillPoints-points, min(amount, character.UnassignedPoints)))
	result := &AllocateResult{
		Skill:     name,
		Points:    points + spent,
		Spent:     spent,
		Remaining: character.UnassignedPoints - spent,
	}
	if spent == 0 {
		return result, nil
	}

	character.UnassignedPoints -= spent
	changes := &repositories.ChangeSet{
		Characters: []models.Character{*character},
		Skills: []models.Skill{{
			CommunityID: communityID,
			MemberID:    memberID,
			Skill:       name,
			Points:      result.Points,
		}},
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to allocate skill points: %v", err)
	}

	l.publish(events.EventTypePointsAllocated, communityID, memberID, result)

	return result, nil
}
