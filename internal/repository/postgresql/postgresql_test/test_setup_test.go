package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

// TestDatabaseSetup holds a connection to a scratch database carrying the
// current schema.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL, skipping the test when it
// is unset, and recreates the schema from migrations/.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	setup := &TestDatabaseSetup{DB: db}
	t.Cleanup(setup.Close)

	if err := setup.resetSchema(context.Background()); err != nil {
		t.Fatalf("failed to reset schema: %v", err)
	}
	return setup
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

func (t *TestDatabaseSetup) resetSchema(ctx context.Context) error {
	for _, name := range []string{"0001_init.down.sql", "0001_init.up.sql"} {
		sql, err := os.ReadFile(filepath.Join(migrationsDir(), name))
		if err != nil {
			return err
		}
		if _, err := t.DB.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
