package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/carsharing/carsharing/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetCarsSchema drops and recreates the cars table.
func ResetCarsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_cars")
}

// ResetUsersSchema drops and recreates the users table.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_users")
}

// MigrationPath returns the path of a migration file by its base name,
// e.g. "000001_cars.up.sql".
func MigrationPath(name string) (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "internal", "repository", "migrations", name), nil
}

func resetSchema(ctx context.Context, pool *pgxpool.Pool, migration string) error {
	for _, suffix := range []string{".down.sql", ".up.sql"} {
		path, err := MigrationPath(migration + suffix)
		if err != nil {
			return err
		}

		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", filepath.Base(path), err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCar creates an unsaved car with sensible defaults.
func NewTestCar(t testing.TB, size string, doors int) *model.Car {
	t.Helper()
	return model.NewCar(model.CarInput{Size: size, Doors: doors})
}

// WriteLedgerFile writes cars as a ledger document into a temp dir and returns its path.
func WriteLedgerFile(t testing.TB, cars []model.CarWithTrips) string {
	t.Helper()

	data, err := json.MarshalIndent(cars, "", "    ")
	if err != nil {
		t.Fatalf("marshal ledger: %v", err)
	}

	path := filepath.Join(t.TempDir(), "cars.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}

	return path
}

// ReadLedgerFile decodes the ledger document at path.
func ReadLedgerFile(t testing.TB, path string) []model.CarWithTrips {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}

	var cars []model.CarWithTrips
	if err := json.Unmarshal(data, &cars); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}

	return cars
}
