package repository

import (
	"context"
	"database/sql"
	"errors"

	"business-nexus/backend/internal/document/domain"
)

const documentColumns = `id, owner_id, name, type, status, uploaded_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a document repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the document. The ID must be set by the caller.
func (r *PostgresRepository) Create(ctx context.Context, d *domain.Document) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.OwnerID, d.Name, d.Type, string(d.Status), d.UploadedAt,
	)
	return err
}

// GetByID returns the document for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE owner_id = $1 ORDER BY uploaded_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateStatus is a compare-and-set on the status column.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = $3 WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*domain.Document, error) {
	var (
		d      domain.Document
		status string
	)
	if err := s.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Type, &status, &d.UploadedAt); err != nil {
		return nil, err
	}
	d.Status = domain.Status(status)
	d.UploadedAt = d.UploadedAt.UTC()
	return &d, nil
}
