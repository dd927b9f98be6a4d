package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

type characterKey struct {
	communityID string
	memberID    string
}

type skillKey struct {
	communityID string
	memberID    string
	skill       string
}

type inventoryKey struct {
	communityID string
	memberID    string
	item        string
}

// MemoryRepository is an in-memory Repository. It is used by tests and
// as a throwaway development backend. All data is lost on Close.
type MemoryRepository struct {
	mu         sync.RWMutex
	characters map[characterKey]models.Character
	skills     map[skillKey]models.Skill
	inventory  map[inventoryKey]models.InventoryEntry
}

var _ Repository = &MemoryRepository{}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		characters: make(map[characterKey]models.Character),
		skills:     make(map[skillKey]models.Skill),
		inventory:  make(map[inventoryKey]models.InventoryEntry),
	}
}

func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) GetCharacter(ctx context.Context, communityID, memberID string) (*models.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	character, ok := r.characters[characterKey{communityID, memberID}]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return &character, nil
}

func (r *MemoryRepository) GetSkill(ctx context.Context, communityID, memberID, skill string) (*models.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.skills[skillKey{communityID, memberID, skill}]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return &s, nil
}

func (r *MemoryRepository) ListSkills(ctx context.Context, communityID, memberID string) ([]models.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var skills []models.Skill
	for key, s := range r.skills {
		if key.communityID == communityID && key.memberID == memberID {
			skills = append(skills, s)
		}
	}
	sort.Slice(skills, func(i, j int) bool {
		return skills[i].Skill < skills[j].Skill
	})
	return skills, nil
}

func (r *MemoryRepository) GetInventoryEntry(ctx context.Context, communityID, memberID, item string) (*models.InventoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.inventory[inventoryKey{communityID, memberID, item}]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return &entry, nil
}

func (r *MemoryRepository) ListInventory(ctx context.Context, communityID, memberID string) ([]models.InventoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var inventory []models.InventoryEntry
	for key, entry := range r.inventory {
		if key.communityID == communityID && key.memberID == memberID {
			inventory = append(inventory, entry)
		}
	}
	sort.Slice(inventory, func(i, j int) bool {
		return inventory[i].Item < inventory[j].Item
	})
	return inventory, nil
}

func (r *MemoryRepository) LoadCommunity(ctx context.Context, communityID string) (*models.CommunityState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := &models.CommunityState{}
	for key, character := range r.characters {
		if key.communityID == communityID {
			state.Characters = append(state.Characters, character)
		}
	}
	for key, s := range r.skills {
		if key.communityID == communityID {
			state.Skills = append(state.Skills, s)
		}
	}
	for key, entry := range r.inventory {
		if key.communityID == communityID {
			state.Inventory = append(state.Inventory, entry)
		}
	}

	sort.Slice(state.Characters, func(i, j int) bool {
		return state.Characters[i].MemberID < state.Characters[j].MemberID
	})
	sort.Slice(state.Skills, func(i, j int) bool {
		if state.Skills[i].MemberID != state.Skills[j].MemberID {
			return state.Skills[i].MemberID < state.Skills[j].MemberID
		}
		return state.Skills[i].Skill < state.Skills[j].Skill
	})
	sort.Slice(state.Inventory, func(i, j int) bool {
		if state.Inventory[i].MemberID != state.Inventory[j].MemberID {
			return state.Inventory[i].MemberID < state.Inventory[j].MemberID
		}
		return state.Inventory[i].Item < state.Inventory[j].Item
	})

	return state, nil
}

func (r *MemoryRepository) ListCommunities(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var communities []string
	for key := range r.characters {
		if !seen[key.communityID] {
			seen[key.communityID] = true
			communities = append(communities, key.communityID)
		}
	}
	sort.Strings(communities)
	return communities, nil
}

func (r *MemoryRepository) Apply(ctx context.Context, changes *ChangeSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if changes.PurgeCommunityID != "" {
		for key := range r.characters {
			if key.communityID == changes.PurgeCommunityID {
				delete(r.characters, key)
			}
		}
		for key := range r.skills {
			if key.communityID == changes.PurgeCommunityID {
				delete(r.skills, key)
			}
		}
		for key := range r.inventory {
			if key.communityID == changes.PurgeCommunityID {
				delete(r.inventory, key)
			}
		}
	}

	for _, character := range changes.Characters {
		r.characters[characterKey{character.CommunityID, character.MemberID}] = character
	}
	for _, s := range changes.Skills {
		r.skills[skillKey{s.CommunityID, s.MemberID, s.Skill}] = s
	}
	for _, entry := range changes.Inventory {
		r.inventory[inventoryKey{entry.CommunityID, entry.MemberID, entry.Item}] = entry
	}

	return nil
}
