// Package util provides the shared Postgres test database used by the policy
// store and notification tests.
package util

import (
	"context"
	"crypto/rand"
	stdsql "database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:17-alpine"
	testDatabase  = "respmask_test"
)

var (
	sharedConnStr string
	containerOnce sync.Once
	containerErr  error
)

// SetupTestDatabase returns a *sql.DB confined to a fresh schema of the shared
// test database; every pooled connection has its search_path set to it.
// The schema and its tables are dropped when the test completes. Callers run
// their own migrations.
func SetupTestDatabase(t *testing.T) *stdsql.DB {
	t.Helper()

	connStr := getOrCreateSharedDatabase(t)
	schema := GenerateSchemaName(t)

	admin, err := stdsql.Open("pgx", connStr)
	require.NoError(t, err)
	defer admin.Close()
	_, err = admin.ExecContext(context.Background(), "CREATE SCHEMA "+schema)
	require.NoError(t, err, "create schema %s", schema)

	db, err := stdsql.Open("pgx", AddSearchPathToConnString(connStr, schema))
	require.NoError(t, err)
	db.SetMaxOpenConns(4)

	t.Cleanup(func() {
		if _, err := db.ExecContext(context.Background(), "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("failed to drop schema %s: %v", schema, err)
		}
		_ = db.Close()
	})
	return db
}

// SeedProperties inserts policy properties into mask_properties, which must
// already exist in db's schema.
func SeedProperties(t *testing.T, db *stdsql.DB, properties map[string]string) {
	t.Helper()
	for key, value := range properties {
		_, err := db.ExecContext(context.Background(),
			`INSERT INTO mask_properties (key, value) VALUES ($1, $2)`, key, value)
		require.NoError(t, err, "seed %s", key)
	}
}

// GetBaseConnectionString returns the shared database's connection string
// without a search_path, for dedicated connections such as a LISTEN conn.
func GetBaseConnectionString(t *testing.T) string {
	return getOrCreateSharedDatabase(t)
}

// getOrCreateSharedDatabase returns CI_DATABASE_URL when set, otherwise the
// connection string of a testcontainer started once per test binary.
func getOrCreateSharedDatabase(t *testing.T) string {
	if url := os.Getenv("CI_DATABASE_URL"); url != "" {
		return url
	}

	containerOnce.Do(func() {
		ctx := context.Background()
		t.Logf("Starting %s for the policy store tests", postgresImage)

		pgContainer, err := postgres.Run(ctx,
			postgresImage,
			postgres.WithDatabase(testDatabase),
			postgres.WithUsername("respmask"),
			postgres.WithPassword("respmask"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			containerErr = fmt.Errorf("failed to start postgres container: %w", err)
			return
		}

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			containerErr = fmt.Errorf("failed to get connection string: %w", err)
			return
		}
		sharedConnStr = connStr
	})

	require.NoError(t, containerErr, "shared postgres container")
	return sharedConnStr
}

// GenerateSchemaName returns "test_<test name>_<random hex>", lower-cased with
// every other character replaced by '_' and short enough for a Postgres
// identifier (63 bytes).
func GenerateSchemaName(t *testing.T) string {
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToLower(t.Name()))
	name = name[:min(len(name), 40)]

	suffix := make([]byte, 4)
	_, err := rand.Read(suffix)
	require.NoError(t, err)
	return "test_" + name + "_" + hex.EncodeToString(suffix)
}

// AddSearchPathToConnString sets search_path on a URL-style connection string.
func AddSearchPathToConnString(connStr, schema string) string {
	if strings.Contains(connStr, "?") {
		return connStr + "&search_path=" + schema
	}
	return connStr + "?search_path=" + schema
}
