package ledger

import (
	"context"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

// BalanceResult reports a character's wallet.
type BalanceResult struct {
	Wallet   int    `json:"wallet"`
	Currency string `json:"currency"`
}

// PurchaseResult reports a completed shop purchase.
type PurchaseResult struct {
	Item      string `json:"item"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price"`
	TotalCost int    `json:"total_cost"`
	Wallet    int    `json:"wallet"`
	Owned     int    `json:"owned"`
}

// GrantResult reports an inventory adjustment made by a game master.
type GrantResult struct {
	Item  string `json:"item"`
	Qty   int    `json:"qty"`
	Owned int    `json:"owned"`
}

// WalletBalance returns a character's wallet balance.
func (l *Ledger) WalletBalance(ctx context.Context, communityID, memberID string) (*BalanceResult, error) {
	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	return &BalanceResult{
		Wallet:   character.Wallet,
		Currency: gamedata.CurrencyName,
	}, nil
}

// WalletDebit removes funds from a character's wallet. The amount must
// not be negative: a negative debit would be a self-credit, and credits
// are a game master operation.
func (l *Ledger) WalletDebit(ctx context.Context, communityID, memberID string, amount int) (*BalanceResult, error) {
	if amount < 0 {
		return nil, &ErrInvalidInput{Reason: "debit amount must not be negative"}
	}

	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	if character.Wallet < amount {
		return nil, &ErrInsufficientFunds{Needed: amount, Available: character.Wallet}
	}

	character.Wallet -= amount
	changes := &repositories.ChangeSet{
		Characters: []models.Character{*character},
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to debit wallet: %v", err)
	}

	result := &BalanceResult{
		Wallet:   character.Wallet,
		Currency: gamedata.CurrencyName,
	}
	l.publish(events.EventTypeWalletDebited, communityID, memberID, result)

	return result, nil
}

// WalletCredit adjusts a character's wallet by a signed amount without
// any funds check. The balance never drops below zero. This is a game
// master operation.
func (l *Ledger) WalletCredit(ctx context.Context, communityID, memberID string, amount int) (*BalanceResult, error) {
	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	character.Wallet = max(0, character.Wallet+amount)
	changes := &repositories.ChangeSet{
		Characters: []models.Character{*character},
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %v", err)
	}

	result := &BalanceResult{
		Wallet:   character.Wallet,
		Currency: gamedata.CurrencyName,
	}
	l.publish(events.EventTypeWalletCredited, communityID, memberID, result)

	return result, nil
}

// Purchase buys qty of a shop item, debiting the wallet and crediting
// the inventory as one atomic unit. Quantities below one are treated
// as one.
func (l *Ledger) Purchase(ctx context.Context, communityID, memberID, itemName string, qty int) (*PurchaseResult, error) {
	item := gamedata.Normalize(itemName)
	price, ok := gamedata.ItemPrice(item)
	if !ok {
		return nil, &ErrUnknownItem{Item: itemName}
	}
	qty = max(1, qty)
	total := price * qty

	defer l.lockIdentity(communityID, memberID)()

	character, err := l.repository.GetCharacter(ctx, communityID, memberID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	if character.Wallet < total {
		return nil, &ErrInsufficientFunds{Needed: total, Available: character.Wallet}
	}

	owned := 0
	if entry, err := l.repository.GetInventoryEntry(ctx, communityID, memberID, item); err == nil {
		owned = entry.Qty
	} else if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get inventory entry: %v", err)
	}

	character.Wallet -= total
	changes := &repositories.ChangeSet{
		Characters: []models.Character{*character},
		Inventory: []models.InventoryEntry{{
			CommunityID: communityID,
			MemberID:    memberID,
			Item:        item,
			Qty:         owned + qty,
		}},
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to complete purchase: %v", err)
	}

	result := &PurchaseResult{
		Item:      item,
		Qty:       qty,
		UnitPrice: price,
		TotalCost: total,
		Wallet:    character.Wallet,
		Owned:     owned + qty,
	}
	l.publish(events.EventTypeItemPurchased, communityID, memberID, result)

	return result, nil
}

// GrantItem adjusts a character's stock of a catalogue item by a signed
// quantity without touching the wallet. A zero quantity means one. The
// stock never drops below zero. This is a game master operation.
func (l *Ledger) GrantItem(ctx context.Context, communityID, memberID, itemName string, qty int) (*GrantResult, error) {
	item := gamedata.Normalize(itemName)
	if !gamedata.IsItem(item) {
		return nil, &ErrUnknownItem{Item: itemName}
	}
	if qty == 0 {
		qty = 1
	}

	defer l.lockIdentity(communityID, memberID)()

	if _, err := l.repository.GetCharacter(ctx, communityID, memberID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character: %v", err)
	}

	owned := 0
	if entry, err := l.repository.GetInventoryEntry(ctx, communityID, memberID, item); err == nil {
		owned = entry.Qty
	} else if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get inventory entry: %v", err)
	}

	newQty := max(0, owned+qty)
	changes := &repositories.ChangeSet{
		Inventory: []models.InventoryEntry{{
			CommunityID: communityID,
			MemberID:    memberID,
			Item:        item,
			Qty:         newQty,
		}},
	}
	if err := l.repository.Apply(ctx, changes); err != nil {
		return nil, fmt.Errorf("failed to grant item: %v", err)
	}

	result := &GrantResult{
		Item:  item,
		Qty:   qty,
		Owned: newQty,
	}
	l.publish(events.EventTypeItemGranted, communityID, memberID, result)

	return result, nil
}
