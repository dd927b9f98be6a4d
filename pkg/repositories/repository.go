package repositories

import (
	"context"

	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error
	Ping(ctx context.Context) error
	GetCharacter(ctx context.Context, communityID, memberID string) (*models.Character, error)
	GetSkill(ctx context.Context, communityID, memberID, skill string) (*models.Skill, error)
	ListSkills(ctx context.Context, communityID, memberID string) ([]models.Skill, error)
	GetInventoryEntry(ctx context.Context, communityID, memberID, item string) (*models.InventoryEntry, error)
	ListInventory(ctx context.Context, communityID, memberID string) ([]models.InventoryEntry, error)
	LoadCommunity(ctx context.Context, communityID string) (*models.CommunityState, error)
	ListCommunities(ctx context.Context) ([]string, error)
	Apply(ctx context.Context, changes *ChangeSet) error
}
