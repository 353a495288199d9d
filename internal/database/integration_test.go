package database

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Test that tables were created by migrations
	tables := []string{"admins", "access_requests", "passes", "migrations"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestMigrationsIdempotent verifies re-running migrations is a no-op
func TestMigrationsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Second RunMigrations() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count == 0 {
		t.Error("No migrations were recorded")
	}

	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&after); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if after != count {
		t.Errorf("Migration count changed on re-run: %d -> %d", count, after)
	}
}

// TestExecReturningID verifies insert ID handling on the SQLite path
func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	id1, err := db.ExecReturningID(
		"INSERT INTO admins (username, password_hash) VALUES (?, ?)", "one", "hash")
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	id2, err := db.ExecReturningID(
		"INSERT INTO admins (username, password_hash) VALUES (?, ?)", "two", "hash")
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}

	if id1 == 0 || id2 == 0 {
		t.Errorf("ExecReturningID() returned zero IDs: %d, %d", id1, id2)
	}
	if id2 <= id1 {
		t.Errorf("ExecReturningID() IDs not increasing: %d then %d", id1, id2)
	}
}

// TestPassUniqueConstraints verifies the schema backstops on passes
func TestPassUniqueConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	_, err := db.Exec(
		`INSERT INTO access_requests (id, first_name, last_name, email, instagram, approved, created_at)
			VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		"req-1", "Ana", "Lopez", "ana@example.com", "@ana", false)
	if err != nil {
		t.Fatalf("Failed to insert request: %v", err)
	}

	if _, err := db.Exec(
		"INSERT INTO passes (token, request_id, used, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
		"token-1", "req-1", false); err != nil {
		t.Fatalf("Failed to insert pass: %v", err)
	}

	t.Run("duplicate token rejected", func(t *testing.T) {
		_, err := db.Exec(
			"INSERT INTO passes (token, request_id, used, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
			"token-1", "req-other", false)
		if err == nil {
			t.Error("Duplicate token insert succeeded, want unique violation")
		}
	})

	t.Run("second pass for request rejected", func(t *testing.T) {
		_, err := db.Exec(
			"INSERT INTO passes (token, request_id, used, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
			"token-2", "req-1", false)
		if err == nil {
			t.Error("Second pass for the same request succeeded, want unique violation")
		}
	})
}
