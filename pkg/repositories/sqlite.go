package repositories

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = &SQLiteRepository{}

// NewSQLiteRepository opens (creating if necessary) a SQLite database at
// path and ensures the schema exists. The caller is responsible for
// calling Close() on the repository.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) GetCharacter(ctx context.Context, communityID, memberID string) (*models.Character, error) {
	q := `
	SELECT community_id, member_id, name, origin, mind, body, soul,
		max_health, health, max_sanity, sanity, max_spirit, spirit,
		wallet, unassigned_points
	FROM characters WHERE community_id = ? AND member_id = ?;
	`
	character := &models.Character{}
	err := r.db.QueryRowContext(ctx, q, communityID, memberID).Scan(
		&character.CommunityID, &character.MemberID, &character.Name, &character.Origin,
		&character.Mind, &character.Body, &character.Soul,
		&character.MaxHealth, &character.Health,
		&character.MaxSanity, &character.Sanity,
		&character.MaxSpirit, &character.Spirit,
		&character.Wallet, &character.UnassignedPoints,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}

	return character, nil
}

func (r *SQLiteRepository) GetSkill(ctx context.Context, communityID, memberID, skill string) (*models.Skill, error) {
	q := `
	SELECT community_id, member_id, skill, points
	FROM skills WHERE community_id = ? AND member_id = ? AND skill = ?;
	`
	s := &models.Skill{}
	err := r.db.QueryRowContext(ctx, q, communityID, memberID, skill).Scan(
		&s.CommunityID, &s.MemberID, &s.Skill, &s.Points,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan skill: %v", err)
	}

	return s, nil
}

func (r *SQLiteRepository) ListSkills(ctx context.Context, communityID, memberID string) ([]models.Skill, error) {
	q := `
	SELECT community_id, member_id, skill, points
	FROM skills WHERE community_id = ? AND member_id = ?
	ORDER BY skill;
	`
	rows, err := r.db.QueryContext(ctx, q, communityID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %v", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.CommunityID, &s.MemberID, &s.Skill, &s.Points); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %v", err)
		}
		skills = append(skills, s)
	}

	return skills, rows.Err()
}

func (r *SQLiteRepository) GetInventoryEntry(ctx context.Context, communityID, memberID, item string) (*models.InventoryEntry, error) {
	q := `
	SELECT community_id, member_id, item, qty
	FROM inventory WHERE community_id = ? AND member_id = ? AND item = ?;
	`
	entry := &models.InventoryEntry{}
	err := r.db.QueryRowContext(ctx, q, communityID, memberID, item).Scan(
		&entry.CommunityID, &entry.MemberID, &entry.Item, &entry.Qty,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan inventory entry: %v", err)
	}

	return entry, nil
}

func (r *SQLiteRepository) ListInventory(ctx context.Context, communityID, memberID string) ([]models.InventoryEntry, error) {
	q := `
	SELECT community_id, member_id, item, qty
	FROM inventory WHERE community_id = ? AND member_id = ?
	ORDER BY item;
	`
	rows, err := r.db.QueryContext(ctx, q, communityID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %v", err)
	}
	defer rows.Close()

	var inventory []models.InventoryEntry
	for rows.Next() {
		var entry models.InventoryEntry
		if err := rows.Scan(&entry.CommunityID, &entry.MemberID, &entry.Item, &entry.Qty); err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %v", err)
		}
		inventory = append(inventory, entry)
	}

	return inventory, rows.Err()
}

// LoadCommunity reads all three relations inside one transaction so the
// returned state is a consistent view of the community.
func (r *SQLiteRepository) LoadCommunity(ctx context.Context, communityID string) (*models.CommunityState, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	state := &models.CommunityState{}

	q := `
	SELECT community_id, member_id, name, origin, mind, body, soul,
		max_health, health, max_sanity, sanity, max_spirit, spirit,
		wallet, unassigned_points
	FROM characters WHERE community_id = ?
	ORDER BY member_id;
	`
	rows, err := tx.QueryContext(ctx, q, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var character models.Character
		if err := rows.Scan(
			&character.CommunityID, &character.MemberID, &character.Name, &character.Origin,
			&character.Mind, &character.Body, &character.Soul,
			&character.MaxHealth, &character.Health,
			&character.MaxSanity, &character.Sanity,
			&character.MaxSpirit, &character.Spirit,
			&character.Wallet, &character.UnassignedPoints,
		); err != nil {
			return nil, fmt.Errorf("failed to scan character: %v", err)
		}
		state.Characters = append(state.Characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read characters: %v", err)
	}
	// a transaction holds a single connection, so each result set must be
	// closed before the next query
	rows.Close()

	q = `
	SELECT community_id, member_id, skill, points
	FROM skills WHERE community_id = ?
	ORDER BY member_id, skill;
	`
	skillRows, err := tx.QueryContext(ctx, q, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %v", err)
	}
	defer skillRows.Close()
	for skillRows.Next() {
		var s models.Skill
		if err := skillRows.Scan(&s.CommunityID, &s.MemberID, &s.Skill, &s.Points); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %v", err)
		}
		state.Skills = append(state.Skills, s)
	}
	if err := skillRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills: %v", err)
	}
	skillRows.Close()

	q = `
	SELECT community_id, member_id, item, qty
	FROM inventory WHERE community_id = ?
	ORDER BY member_id, item;
	`
	inventoryRows, err := tx.QueryContext(ctx, q, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %v", err)
	}
	defer inventoryRows.Close()
	for inventoryRows.Next() {
		var entry models.InventoryEntry
		if err := inventoryRows.Scan(&entry.CommunityID, &entry.MemberID, &entry.Item, &entry.Qty); err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %v", err)
		}
		state.Inventory = append(state.Inventory, entry)
	}
	if err := inventoryRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory: %v", err)
	}
	inventoryRows.Close()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return state, nil
}

func (r *SQLiteRepository) ListCommunities(ctx context.Context) ([]string, error) {
	q := `
	SELECT DISTINCT community_id FROM characters ORDER BY community_id;
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query communities: %v", err)
	}
	defer rows.Close()

	var communities []string
	for rows.Next() {
		var communityID string
		if err := rows.Scan(&communityID); err != nil {
			return nil, fmt.Errorf("failed to scan community: %v", err)
		}
		communities = append(communities, communityID)
	}

	return communities, rows.Err()
}

func (r *SQLiteRepository) Apply(ctx context.Context, changes *ChangeSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if changes.PurgeCommunityID != "" {
		for _, q := range []string{
			`DELETE FROM characters WHERE community_id = ?;`,
			`DELETE FROM skills WHERE community_id = ?;`,
			`DELETE FROM inventory WHERE community_id = ?;`,
		} {
			if _, err := tx.ExecContext(ctx, q, changes.PurgeCommunityID); err != nil {
				return fmt.Errorf("failed to purge community: %v", err)
			}
		}
	}

	for _, character := range changes.Characters {
		q := `
		INSERT OR REPLACE INTO characters (community_id, member_id, name, origin,
			mind, body, soul, max_health, health, max_sanity, sanity,
			max_spirit, spirit, wallet, unassigned_points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`
		_, err = tx.ExecContext(ctx, q,
			character.CommunityID, character.MemberID, character.Name, character.Origin,
			character.Mind, character.Body, character.Soul,
			character.MaxHealth, character.Health,
			character.MaxSanity, character.Sanity,
			character.MaxSpirit, character.Spirit,
			character.Wallet, character.UnassignedPoints,
		)
		if err != nil {
			return fmt.Errorf("failed to insert character: %v", err)
		}
	}

	for _, s := range changes.Skills {
		q := `
		INSERT OR REPLACE INTO skills (community_id, member_id, skill, points)
		VALUES (?, ?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, s.CommunityID, s.MemberID, s.Skill, s.Points); err != nil {
			return fmt.Errorf("failed to insert skill: %v", err)
		}
	}

	for _, entry := range changes.Inventory {
		q := `
		INSERT OR REPLACE INTO inventory (community_id, member_id, item, qty)
		VALUES (?, ?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, entry.CommunityID, entry.MemberID, entry.Item, entry.Qty); err != nil {
			return fmt.Errorf("failed to insert inventory entry: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
