//go:build container

// Package dbtest starts a throwaway Postgres for store integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MrJamesThe3rd/tally/internal/database"
)

// Postgres starts a migrated and seeded database. The container is removed
// when the test finishes.
func Postgres(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "tally",
			"POSTGRES_PASSWORD": "tally",
			"POSTGRES_DB":       "tally",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}

	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	connStr := fmt.Sprintf("postgres://tally:tally@%s:%s/tally?sslmode=disable", host, port.Port())

	db, err := database.New(connStr, database.PoolOptions{})
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	if err := database.Seed(ctx, db, nil); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	return db
}

// CreateUser inserts an active ordinary user and returns its id.
func CreateUser(t *testing.T, db *sql.DB, name, email string) uuid.UUID {
	t.Helper()

	var id uuid.UUID

	err := db.QueryRowContext(context.Background(), `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, 'x')
		RETURNING id`, name, email).Scan(&id)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}

	return id
}
