package ledger

import (
	"context"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/snapshot"
)

// ImportResult reports how many rows a community restore wrote and how
// many were skipped for belonging to a different community.
type ImportResult struct {
	Characters int `json:"characters"`
	Skills     int `json:"skills"`
	Inventory  int `json:"inventory"`
	Skipped    int `json:"skipped"`
}

// ExportCommunity returns a snapshot of every row belonging to one
// community, in stable order.
func (l *Ledger) ExportCommunity(ctx context.Context, communityID string) (*snapshot.Snapshot, error) {
	l.restoreLock.RLock()
	defer l.restoreLock.RUnlock()

	state, err := l.repository.LoadCommunity(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load community: %v", err)
	}

	return &snapshot.Snapshot{
		Characters: state.Characters,
		Skills:     state.Skills,
		Inventory:  state.Inventory,
	}, nil
}

// ImportCommunity replaces a community's rows with the snapshot's rows
// in one transaction. Rows scoped to a different community are skipped.
// This is a game master operation and destroys the community's current
// state.
func (l *Ledger) ImportCommunity(ctx context.Context, communityID string, s *snapshot.Snapshot) (*ImportResult, error) {
	l.restoreLock.Lock()
	defer l.restoreLock.Unlock()

	result := &ImportResult{}
	changes := &repositories.ChangeSet{
		PurgeCommunityID: communityID,
	}
	for _, character := range s.Characters {
		if character.CommunityID != communityID {
			result.Skipped++
			continue
		}
		changes.Characters = append(changes.Characters, character)
		result.Characters++
	}
	for _, skill := range s.Skills {
		if skill.CommunityID != communityID {
			result.Skipped++
			continue
		}
		changes.Skills = append(changes.Skills, skill)
		result.Skills++
	}
	for _, entry := range s.Inventory {
		if entry.CommunityID != communityID {
			result.Skipped++
			continue
		}
		changes.Inventory = append(changes.Inventory, entry)
		result.Inventory++
	}

	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to restore community: %v", err)
	}

	l.publish(events.EventTypeCommunityRestored, communityID, "", result)

	return result, nil
}
