// Package migrate applies the embedded schema migrations with golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"business-nexus/backend/internal/db"
)

// ErrNoChange is returned by the library when Up/Down has nothing to do. Run reports it as nil.
var ErrNoChange = migrate.ErrNoChange

// Direction is the migration direction.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("direction must be up or down, got %q", s)
}

// Run applies every migration in direction against dsn. Being already at the target
// version is not an error.
func Run(dsn string, direction Direction, log *zap.Logger) error {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return errors.New("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}
	if _, err := ParseDirection(string(direction)); err != nil {
		return err
	}
	if log == nil {
		log = zap.NewNop()
	}

	sourceDriver, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()
	m.Log = zapMigrateLogger{log: log.Sugar()}

	if direction == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	version, dirty, verr := m.Version()
	if verr == nil {
		log.Info("migrations applied", zap.String("direction", string(direction)), zap.Uint("version", version), zap.Bool("dirty", dirty))
	}
	return nil
}

// zapMigrateLogger adapts zap to migrate.Logger.
type zapMigrateLogger struct {
	log *zap.SugaredLogger
}

func (l zapMigrateLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l zapMigrateLogger) Verbose() bool { return false }
