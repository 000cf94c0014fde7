package repository

import (
	"context"
	"database/sql"
	"errors"

	"business-nexus/backend/internal/mfa/domain"
)

// PostgresRepository stores challenges in the mfa_challenges table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a challenge repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the challenge. The challenge must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Challenge) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mfa_challenges (id, user_id, client_id, code_hash, attempts, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UserID, c.ClientID, c.CodeHash, c.Attempts, c.ExpiresAt, c.CreatedAt)
	return err
}

// GetByID returns the challenge for id, or nil if not found. Expired rows are
// returned; the caller compares ExpiresAt against its own clock.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	var c domain.Challenge
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, client_id, code_hash, attempts, expires_at, created_at
		 FROM mfa_challenges WHERE id = $1`, id).
		Scan(&c.ID, &c.UserID, &c.ClientID, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// IncrementAttempts bumps attempts in place and returns the new value.
func (r *PostgresRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`UPDATE mfa_challenges SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// Delete removes the challenge by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mfa_challenges WHERE id = $1`, id)
	return err
}
