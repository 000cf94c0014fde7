package migrate

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"business-nexus/backend/internal/db"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		err := Run(dsn, Up, nil)
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL is not set") {
			t.Errorf("Run(%q) err = %v", dsn, err)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"up", "down"} {
		if d, err := ParseDirection(s); err != nil || string(d) != s {
			t.Errorf("ParseDirection(%q) = %q, %v", s, d, err)
		}
	}
	for _, s := range []string{"", "UP", "Down", "sideways"} {
		if _, err := ParseDirection(s); err == nil {
			t.Errorf("ParseDirection(%q) should fail", s)
		}
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	if err := Run("postgres://localhost/test", Direction("left"), nil); err == nil || !strings.Contains(err.Error(), "direction") {
		t.Errorf("err = %v, want direction error", err)
	}
}

func TestRun_InvalidDSN(t *testing.T) {
	for _, dsn := range []string{"invalid-dsn", "://localhost/test", "postgres://localhost with spaces/test"} {
		err := Run(dsn, Up, nil)
		if err == nil {
			t.Errorf("Run(%q) should fail", dsn)
		}
		if errors.Is(err, ErrNoChange) {
			t.Errorf("Run(%q) must not surface ErrNoChange", dsn)
		}
	}
}

func TestMigrationFS_PairsUpAndDown(t *testing.T) {
	names, err := fs.Glob(db.MigrationFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", n)
		}
	}
	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("%s has no down migration", base)
		}
	}
}

func TestZapMigrateLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zapMigrateLogger{log: zap.New(core).Sugar()}
	l.Printf("applied %d\n", 1)
	if l.Verbose() {
		t.Error("Verbose should be false")
	}
	if logs.Len() != 1 || logs.All()[0].Message != "applied 1" {
		t.Errorf("logs = %v", logs.All())
	}
}
