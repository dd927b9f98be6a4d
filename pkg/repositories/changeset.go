package repositories

import "github.com/cbodonnell/tavernkeep/pkg/repositories/models"

// ChangeSet is a group of writes applied in a single transaction.
// When PurgeCommunityID is set, every row belonging to that community is
// deleted before the upserts run. Rows are upserted by their natural key,
// so writing the same row twice is safe.
type ChangeSet struct {
	PurgeCommunityID string
	Characters       []models.Character
	Skills           []models.Skill
	Inventory        []models.InventoryEntry
}

// Empty reports whether applying the ChangeSet would write nothing.
func (c *ChangeSet) Empty() bool {
	return c.PurgeCommunityID == "" &&
		len(c.Characters) == 0 &&
		len(c.Skills) == 0 &&
		len(c.Inventory) == 0
}
