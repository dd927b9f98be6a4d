package ledger

import (
	"context"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

// PoolResult reports a resource pool after damage or healing.
// Condition is set when damage empties the pool.
type PoolResult struct {
	Pool      gamedata.Pool `json:"pool"`
	Value     int           `json:"value"`
	Max       int           `json:"max"`
	Condition string        `json:"condition,omitempty"`
}

// ApplyDamage subtracts amount from a pool, clamping the result into
// [0, max]. When the pool lands on zero the pool's terminal condition
// is reported.
func (l *Ledger) ApplyDamage(ctx context.Context, communityID, memberID, poolName string, amount int) (*PoolResult, error) {
	pool, err := gamedata.ParsePool(poolName)
	if err != nil {
		return nil, &ErrInvalidInput{Reason: err.Error()}
	}

	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	current, maximum := poolValues(character, pool)
	value := min(maximum, max(0, current-amount))
	setPoolValue(character, pool, value)

	changes := &repositories.ChangeSet{
		Characters: []models.Character{*character},
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to apply damage: %v", err)
	}

	result := &PoolResult{
		Pool:  pool,
		Value: value,
		Max:   maximum,
	}
	if value == 0 {
		result.Condition = pool.TerminalCondition()
	}

	l.publish(events.EventTypeDamageApplied, communityID, memberID, result)

	return result, nil
}

// ApplyHeal adds amount to a pool, clamping the result into [0, max].
func (l *Ledger) ApplyHeal(ctx context.Context, communityID, memberID, poolName string, amount int) (*PoolResult, error) {
	pool, err := gamedata.ParsePool(poolName)
	if err != nil {
		return nil, &ErrInvalidInput{Reason: err.Error()}
	}

	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	current, maximum := poolValues(character, pool)
	value := min(maximum, max(0, current+amount))
	setPoolValue(character, pool, value)

	changes := &repositories.ChangeSet{
		Characters: []models.Character{*character},
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to apply healing: %v", err)
	}

	result := &PoolResult{
		Pool:  pool,
		Value: value,
		Max:   maximum,
	}

	l.publish(events.EventTypeHealApplied, communityID, memberID, result)

	return result, nil
}
