package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"business-nexus/backend/internal/user/domain"
)

const userColumns = `id, name, email, role, avatar_url, bio, is_online, created_at, startup_name, industry, pitch_summary`

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserRow(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUserRow(row)
}

// List returns all users ordered by creation sequence.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// ListByRole returns the users with the given role ordered by creation sequence.
func (r *PostgresRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY seq`, string(role))
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// Search returns the users matching f ordered by creation sequence. The query is matched
// with ILIKE against name, startup name, industry and pitch summary.
func (r *PostgresRepository) Search(ctx context.Context, f domain.Filter) ([]*domain.User, error) {
	var pattern string
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern = "%" + likeEscaper.Replace(q) + "%"
	}
	industries := make([]string, 0, len(f.Industries))
	for _, v := range f.Industries {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			industries = append(industries, v)
		}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE ($1 = '' OR role = $1)
		   AND ($2 = '' OR name ILIKE $2 OR startup_name ILIKE $2 OR industry ILIKE $2 OR pitch_summary ILIKE $2)
		   AND (cardinality($3::text[]) = 0 OR lower(industry) = ANY($3::text[]))
		 ORDER BY seq`,
		string(f.Role), pattern, industries,
	)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Count returns the number of users in the directory.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
// Returns ErrDuplicateEmail when the email unique index rejects the row.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Name, u.Email, string(u.Role), u.AvatarURL, u.Bio, u.IsOnline, u.CreatedAt,
		u.StartupName, u.Industry, u.PitchSummary,
	)
	return mapUniqueViolation(err)
}

// Update updates the mutable columns of an existing user. Missing rows are ignored.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $2, email = $3, avatar_url = $4, bio = $5, is_online = $6,
		 startup_name = $7, industry = $8, pitch_summary = $9 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.AvatarURL, u.Bio, u.IsOnline, u.StartupName, u.Industry, u.PitchSummary,
	)
	return mapUniqueViolation(err)
}

// Delete removes the user; credentials go with it through ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &role, &u.AvatarURL, &u.Bio, &u.IsOnline, &u.CreatedAt,
		&u.StartupName, &u.Industry, &u.PitchSummary); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func scanUserRow(row *sql.Row) (*domain.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]*domain.User, error) {
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

// PostgresCredentialStore stores password hashes in the credentials table.
type PostgresCredentialStore struct {
	db *sql.DB
}

// NewPostgresCredentialStore returns a credential store backed by db.
func NewPostgresCredentialStore(db *sql.DB) *PostgresCredentialStore {
	return &PostgresCredentialStore{db: db}
}

// GetPasswordHash returns the hash for userID, or "" if none is stored.
func (s *PostgresCredentialStore) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM credentials WHERE user_id = $1`, userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// SetPasswordHash upserts the hash for userID.
func (s *PostgresCredentialStore) SetPasswordHash(ctx context.Context, userID, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (user_id, password_hash, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = now()`,
		userID, hash,
	)
	return err
}
