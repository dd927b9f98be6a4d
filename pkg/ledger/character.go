package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

// Sheet is the full view of one character: the character row plus its
// skills and inventory in stable order.
type Sheet struct {
	Character *models.Character       `json:"character"`
	Skills    []models.Skill          `json:"skills"`
	Inventory []models.InventoryEntry `json:"inventory"`
}

// CreateCharacterParams are the player's choices at creation. Primary
// and Secondary name the attributes receiving the high and middle
// values; the remaining attribute gets the low value. Weapon is only
// consulted for origins that offer a starting weapon choice and
// defaults to the origin's first choice.
type CreateCharacterParams struct {
	CommunityID string
	MemberID    string
	Name        string
	Origin      string
	Primary     string
	Secondary   string
	Weapon      string
}

// CreateCharacter creates a character for an identity that does not
// have one yet. The character row, all skill rows, the starting
// inventory and the origin's wallet are written as one atomic unit.
func (l *Ledger) CreateCharacter(ctx context.Context, params CreateCharacterParams) (*Sheet, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &ErrInvalidInput{Reason: "name must not be empty"}
	}

	origin, ok := gamedata.GetOrigin(gamedata.Normalize(params.Origin))
	if !ok {
		return nil, &ErrInvalidInput{Reason: fmt.Sprintf("unknown origin: %s", params.Origin)}
	}

	primary, err := gamedata.ParseAttribute(params.Primary)
	if err != nil {
		return nil, &ErrInvalidInput{Reason: err.Error()}
	}
	secondary, err := gamedata.ParseAttribute(params.Secondary)
	if err != nil {
		return nil, &ErrInvalidInput{Reason: err.Error()}
	}
	if primary == secondary {
		return nil, &ErrInvalidInput{Reason: "primary and secondary attributes must differ"}
	}

	weapon := origin.DefaultWeapon()
	if len(origin.WeaponChoices) > 0 && params.Weapon != "" {
		weapon = gamedata.Normalize(params.Weapon)
		if !origin.AllowsWeapon(weapon) {
			return nil, &ErrInvalidInput{Reason: fmt.Sprintf("origin %s cannot start with weapon %s", origin.Name, params.Weapon)}
		}
	}

	defer l.lockIdentity(params.CommunityID, params.MemberID)()

	if _, err := l.repository.GetCharacter(ctx, params.CommunityID, params.MemberID); err == nil {
		return nil, &ErrAlreadyExists{}
	} else if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check for existing character: %v", err)
	}

	values := map[gamedata.Attribute]int{
		gamedata.AttributeMind: gamedata.TertiaryAttributeValue,
		gamedata.AttributeBody: gamedata.TertiaryAttributeValue,
		gamedata.AttributeSoul: gamedata.TertiaryAttributeValue,
	}
	values[primary] = gamedata.PrimaryAttributeValue
	values[secondary] = gamedata.SecondaryAttributeValue

	character := models.Character{
		CommunityID:      params.CommunityID,
		MemberID:         params.MemberID,
		Name:             name,
		Origin:           origin.Name,
		Mind:             values[gamedata.AttributeMind],
		Body:             values[gamedata.AttributeBody],
		Soul:             values[gamedata.AttributeSoul],
		Wallet:           origin.Wallet,
		UnassignedPoints: gamedata.StartingSkillPoints,
	}
	character.MaxHealth = character.Body * gamedata.PoolMultiplier
	character.Health = character.MaxHealth
	character.MaxSanity = character.Mind * gamedata.PoolMultiplier
	character.Sanity = character.MaxSanity
	character.MaxSpirit = character.Soul * gamedata.PoolMultiplier
	character.Spirit = character.MaxSpirit

	// all skills start at zero, then origin bonuses are layered on top
	// without consuming unassigned points
	var skills []models.Skill
	for _, skillName := range gamedata.Skills() {
		points := 0
		if bonus, ok := origin.SkillBonuses[skillName]; ok {
			points = min(gamedata.MaxSkillPoints, bonus)
		}
		skills = append(skills, models.Skill{
			CommunityID: params.CommunityID,
			MemberID:    params.MemberID,
			Skill:       skillName,
			Points:      points,
		})
	}

	inventoryQty := map[string]int{}
	var inventoryOrder []string
	for _, grant := range origin.Items {
		if _, ok := inventoryQty[grant.Item]; !ok {
			inventoryOrder = append(inventoryOrder, grant.Item)
		}
		inventoryQty[grant.Item] += grant.Qty
	}
	if weapon != "" {
		if _, ok := inventoryQty[weapon]; !ok {
			inventoryOrder = append(inventoryOrder, weapon)
		}
		inventoryQty[weapon]++
	}
	var inventory []models.InventoryEntry
	for _, item := range inventoryOrder {
		inventory = append(inventory, models.InventoryEntry{
			CommunityID: params.CommunityID,
			MemberID:    params.MemberID,
			Item:        item,
			Qty:         inventoryQty[item],
		})
	}

	changes := &repositories.ChangeSet{
		Characters: []models.Character{character},
		Skills:     skills,
		Inventory:  inventory,
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to create character: %v", err)
	}

	sheet := &Sheet{
		Character: &character,
		Skills:    skills,
		Inventory: inventory,
	}
	l.publish(events.EventTypeCharacterCreated, params.CommunityID, params.MemberID, sheet)

	return sheet, nil
}

// GetSheet returns the character, skills and inventory of one identity.
func (l *Ledger) GetSheet(ctx context.Context, communityID, memberID string) (*Sheet, error) {
	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	skills, err := l.repository.ListSkills(ctx, communityID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %v", err)
	}

	inventory, err := l.repository.ListInventory(ctx, communityID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %v", err)
	}

	return &Sheet{
		Character: character,
		Skills:    skills,
		Inventory: inventory,
	}, nil
}
