package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seojin-dev/eldoria/internal/game/ability"
)

// AbilityProgressRepository persists per-character ability advancement.
// Level-up thresholds are computed by the apply_ability_exp SQL function;
// the repository only submits experience deltas and reads back levels.
type AbilityProgressRepository struct {
	db *pgxpool.Pool
}

// NewAbilityProgressRepository creates a repository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewAbilityProgressRepository(db *pgxpool.Pool) *AbilityProgressRepository {
	return &AbilityProgressRepository{db: db}
}

// IncreaseExperience applies a batch of experience grants for one character
// in a single round trip.
//
// Precondition: characterID must be non-nil; every grant's Exp must be >= 0.
// Postcondition: Returns nil iff every grant was applied.
func (r *AbilityProgressRepository) IncreaseExperience(ctx context.Context, characterID uuid.UUID, grants []ability.Grant) error {
	if len(grants) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, g := range grants {
		batch.Queue(`SELECT apply_ability_exp($1, $2, $3)`, characterID, g.AbilityID, g.Exp)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range grants {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("applying ability experience: %w", err)
		}
	}
	return nil
}

// GetProgress returns the character's progress across every ability they
// have used. Abilities never used have no row and read as level 0.
//
// Postcondition: Returns a non-nil map (may be empty) or a non-nil error.
func (r *AbilityProgressRepository) GetProgress(ctx context.Context, characterID uuid.UUID) (ability.ProgressMap, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ability_id, level, exp
		FROM ability_progress WHERE character_id = $1`,
		characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying ability progress: %w", err)
	}
	defer rows.Close()

	progress := make(ability.ProgressMap)
	for rows.Next() {
		var id string
		var p ability.Progress
		if err := rows.Scan(&id, &p.Level, &p.Exp); err != nil {
			return nil, fmt.Errorf("scanning ability progress row: %w", err)
		}
		progress[id] = p
	}
	return progress, rows.Err()
}
