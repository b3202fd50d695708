package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ExploreNcrack/Comput496/internal/repository"
)

// ExperienceRepo stores playout stats in the experience table, one row per
// (board size, fingerprint, point). Each row carries the exact position key.
type ExperienceRepo struct {
	db *sql.DB
}

// NewExperienceRepo creates an ExperienceRepo.
func NewExperienceRepo(db *sql.DB) *ExperienceRepo {
	return &ExperienceRepo{db: db}
}

// LoadExperience returns the stats stored for a position, or nil when none are.
func (r *ExperienceRepo) LoadExperience(ctx context.Context, pos repository.Position) (repository.Experience, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT point, wins, visits FROM experience
		 WHERE board_size = $1 AND fingerprint = $2 AND position_key = $3`,
		pos.Size, int64(pos.Fingerprint), pos.Key,
	)
	if err != nil {
		return nil, fmt.Errorf("load experience: %w", err)
	}
	defer rows.Close()

	var exp repository.Experience
	for rows.Next() {
		var point int
		var s repository.MoveStat
		if err := rows.Scan(&point, &s.Wins, &s.Visits); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		if exp == nil {
			exp = make(repository.Experience)
		}
		exp[point] = s
	}
	return exp, rows.Err()
}

// SaveExperience replaces the stats stored for a position.
func (r *ExperienceRepo) SaveExperience(ctx context.Context, pos repository.Position, exp repository.Experience) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for point, s := range exp {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO experience (board_size, fingerprint, point, position_key, wins, visits)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (board_size, fingerprint, point)
			 DO UPDATE SET position_key = EXCLUDED.position_key, wins = EXCLUDED.wins,
			               visits = EXCLUDED.visits, updated_at = now()`,
			pos.Size, int64(pos.Fingerprint), point, pos.Key, s.Wins, s.Visits,
		)
		if err != nil {
			return fmt.Errorf("save experience: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection pool.
func (r *ExperienceRepo) Close() error {
	return r.db.Close()
}
