package repository

import (
	"context"
	"database/sql"
	"errors"

	"business-nexus/backend/internal/collaboration/domain"
)

const requestColumns = `id, investor_id, entrepreneur_id, message, status, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a collaboration request repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the request. The ID must be set by the caller.
func (r *PostgresRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collaboration_requests (`+requestColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID, req.InvestorID, req.EntrepreneurID, req.Message, string(req.Status), req.CreatedAt,
	)
	return err
}

// GetByID returns the request for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM collaboration_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

// UpdateStatus is a compare-and-set on the status column, so two concurrent resolutions
// cannot both succeed.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE collaboration_requests SET status = $3 WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PostgresRepository) ListByInvestor(ctx context.Context, investorID string) ([]*domain.Request, error) {
	return r.query(ctx, `SELECT `+requestColumns+` FROM collaboration_requests WHERE investor_id = $1 ORDER BY created_at, id`, investorID)
}

func (r *PostgresRepository) ListByEntrepreneur(ctx context.Context, entrepreneurID string) ([]*domain.Request, error) {
	return r.query(ctx, `SELECT `+requestColumns+` FROM collaboration_requests WHERE entrepreneur_id = $1 ORDER BY created_at, id`, entrepreneurID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Request, error) {
	return r.query(ctx, `SELECT `+requestColumns+` FROM collaboration_requests ORDER BY created_at, id`)
}

func (r *PostgresRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Request, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(s rowScanner) (*domain.Request, error) {
	var (
		req    domain.Request
		status string
	)
	if err := s.Scan(&req.ID, &req.InvestorID, &req.EntrepreneurID, &req.Message, &status, &req.CreatedAt); err != nil {
		return nil, err
	}
	req.Status = domain.Status(status)
	req.CreatedAt = req.CreatedAt.UTC()
	return &req, nil
}
