package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const databaseFile = "ae-conjure.db"

type Client struct {
	db *sql.DB
}

// opens (or creates) the database in dataDir and applies pending migrations.
// ":memory:" opens an in-memory database.
func NewClient(ctx context.Context, dataDir string) (*Client, error) {
	dsn := ":memory:"

	if dataDir != ":memory:" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, databaseFile)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps sqlite from reporting "database is locked"
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode=WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	c := &Client{db: db}
	if err := c.migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return c, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// applies embedded migrations that have not run yet, in filename order
func (c *Client) migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, createSchemaVersionQuery); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return fmt.Errorf("failed to parse migration version from %q: %w", entry.Name(), err)
		}

		var applied int
		if err := c.db.QueryRowContext(ctx, countMigrationQuery, version).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}

		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		if err := c.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", version, err)
			}

			if _, err := tx.ExecContext(ctx, insertMigrationQuery, version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", version, err)
			}

			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

// returns the applied migration versions in ascending order
func (c *Client) AppliedMigrations(ctx context.Context) ([]int, error) {
	rows, err := c.db.QueryContext(ctx, listMigrationsQuery)
	if err != nil {
		return nil, err
	}

	defer rows.Close() //nolint:errcheck

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}

func (c *Client) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	return tx.Commit()
}
