package repositories

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/postgres.sql
var postgresSchema string

type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = &PostgresRepository{}

// NewPostgresRepository connects to a Postgres database and ensures the
// schema exists. The caller is responsible for calling Close() on the
// repository.
func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %v", err)
	}

	var username string
	var database string
	if err := pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database); err != nil {
		return nil, fmt.Errorf("failed to query database: %v", err)
	}
	log.Debug("Connected to %s as %s", database, username)

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %v", err)
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) GetCharacter(ctx context.Context, communityID, memberID string) (*models.Character, error) {
	q := `
	SELECT community_id, member_id, name, origin, mind, body, soul,
		max_health, health, max_sanity, sanity, max_spirit, spirit,
		wallet, unassigned_points
	FROM characters WHERE community_id = $1 AND member_id = $2;
	`
	character := &models.Character{}
	err := r.pool.QueryRow(ctx, q, communityID, memberID).Scan(
		&character.CommunityID, &character.MemberID, &character.Name, &character.Origin,
		&character.Mind, &character.Body, &character.Soul,
		&character.MaxHealth, &character.Health,
		&character.MaxSanity, &character.Sanity,
		&character.MaxSpirit, &character.Spirit,
		&character.Wallet, &character.UnassignedPoints,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}

	return character, nil
}

func (r *PostgresRepository) GetSkill(ctx context.Context, communityID, memberID, skill string) (*models.Skill, error) {
	q := `
	SELECT community_id, member_id, skill, points
	FROM skills WHERE community_id = $1 AND member_id = $2 AND skill = $3;
	`
	s := &models.Skill{}
	err := r.pool.QueryRow(ctx, q, communityID, memberID, skill).Scan(
		&s.CommunityID, &s.MemberID, &s.Skill, &s.Points,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan skill: %v", err)
	}

	return s, nil
}

func (r *PostgresRepository) ListSkills(ctx context.Context, communityID, memberID string) ([]models.Skill, error) {
	q := `
	SELECT community_id, member_id, skill, points
	FROM skills WHERE community_id = $1 AND member_id = $2
	ORDER BY skill;
	`
	rows, err := r.pool.Query(ctx, q, communityID, memberID)
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

func (r *PostgresRepository) GetInventoryEntry(ctx context.Context, communityID, memberID, item string) (*models.InventoryEntry, error) {
	q := `
	SELECT community_id, member_id, item, qty
	FROM inventory WHERE community_id = $1 AND member_id = $2 AND item = $3;
	`
	entry := &models.InventoryEntry{}
	err := r.pool.QueryRow(ctx, q, communityID, memberID, item).Scan(
		&entry.CommunityID, &entry.MemberID, &entry.Item, &entry.Qty,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan inventory entry: %v", err)
	}

	return entry, nil
}

func (r *PostgresRepository) ListInventory(ctx context.Context, communityID, memberID string) ([]models.InventoryEntry, error) {
	q := `
	SELECT community_id, member_id, item, qty
	FROM inventory WHERE community_id = $1 AND member_id = $2
	ORDER BY item;
	`
	rows, err := r.pool.Query(ctx, q, communityID, memberID)
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
func (r *PostgresRepository) LoadCommunity(ctx context.Context, communityID string) (*models.CommunityState, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	state := &models.CommunityState{}

	q := `
	SELECT community_id, member_id, name, origin, mind, body, soul,
		max_health, health, max_sanity, sanity, max_spirit, spirit,
		wallet, unassigned_points
	FROM characters WHERE community_id = $1
	ORDER BY member_id;
	`
	rows, err := tx.Query(ctx, q, communityID)
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
	FROM skills WHERE community_id = $1
	ORDER BY member_id, skill;
	`
	skillRows, err := tx.Query(ctx, q, communityID)
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
	FROM inventory WHERE community_id = $1
	ORDER BY member_id, item;
	`
	inventoryRows, err := tx.Query(ctx, q, communityID)
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

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return state, nil
}

func (r *PostgresRepository) ListCommunities(ctx context.Context) ([]string, error) {
	q := `
	SELECT DISTINCT community_id FROM characters ORDER BY community_id;
	`
	rows, err := r.pool.Query(ctx, q)
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

func (r *PostgresRepository) Apply(ctx context.Context, changes *ChangeSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if changes.PurgeCommunityID != "" {
		for _, q := range []string{
			`DELETE FROM characters WHERE community_id = $1;`,
			`DELETE FROM skills WHERE community_id = $1;`,
			`DELETE FROM inventory WHERE community_id = $1;`,
		} {
			if _, err := tx.Exec(ctx, q, changes.PurgeCommunityID); err != nil {
				return fmt.Errorf("failed to purge community: %v", err)
			}
		}
	}

	for _, character := range changes.Characters {
		q := `
		INSERT INTO characters (community_id, member_id, name, origin,
			mind, body, soul, max_health, health, max_sanity, sanity,
			max_spirit, spirit, wallet, unassigned_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (community_id, member_id) DO UPDATE SET
			name = EXCLUDED.name, origin = EXCLUDED.origin,
			mind = EXCLUDED.mind, body = EXCLUDED.body, soul = EXCLUDED.soul,
			max_health = EXCLUDED.max_health, health = EXCLUDED.health,
			max_sanity = EXCLUDED.max_sanity, sanity = EXCLUDED.sanity,
			max_spirit = EXCLUDED.max_spirit, spirit = EXCLUDED.spirit,
			wallet = EXCLUDED.wallet, unassigned_points = EXCLUDED.unassigned_points;
		`
		_, err = tx.Exec(ctx, q,
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
		INSERT INTO skills (community_id, member_id, skill, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (community_id, member_id, skill) DO UPDATE SET
			points = EXCLUDED.points;
		`
		if _, err := tx.Exec(ctx, q, s.CommunityID, s.MemberID, s.Skill, s.Points); err != nil {
			return fmt.Errorf("failed to insert skill: %v", err)
		}
	}

	for _, entry := range changes.Inventory {
		q := `
		INSERT INTO inventory (community_id, member_id, item, qty)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (community_id, member_id, item) DO UPDATE SET
			qty = EXCLUDED.qty;
		`
		if _, err := tx.Exec(ctx, q, entry.CommunityID, entry.MemberID, entry.Item, entry.Qty); err != nil {
			return fmt.Errorf("failed to insert inventory entry: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
