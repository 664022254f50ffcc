// Package store persists integrated mean densities in SQLite so repeated
// runs over the same density tables skip the shell integration.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Stats summarises the cache contents.
type Stats struct {
	Entries int
	Hits    int64
}

// SQLiteCache implements core.MeanDensityCache on a SQLite database.
type SQLiteCache struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies pending
// migrations. Use ":memory:" for a throwaway cache.
func Open(ctx context.Context, path string) (*SQLiteCache, error) {
	if path == "" {
		return nil, errors.New("cache path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	c := &SQLiteCache{db: db, path: path}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCache) migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, c.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the applied migration version.
func (c *SQLiteCache) Version() (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersion(c.db)
}

// Path returns the path the cache was opened with.
func (c *SQLiteCache) Path() string { return c.path }

// Close closes the database.
func (c *SQLiteCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// LookupMeanDensity returns the stored value for key and bumps its hit count.
func (c *SQLiteCache) LookupMeanDensity(ctx context.Context, key string) (float64, bool, error) {
	var density float64
	err := c.db.QueryRowContext(ctx,
		`UPDATE mean_density_cache SET hits = hits + 1 WHERE key = ? RETURNING mean_density`,
		key,
	).Scan(&density)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup mean density %s: %w", key, err)
	}
	return density, true, nil
}

// StoreMeanDensity inserts or replaces the value for key.
func (c *SQLiteCache) StoreMeanDensity(ctx context.Context, key string, density float64) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO mean_density_cache (key, mean_density, computed_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET mean_density = excluded.mean_density, computed_at = excluded.computed_at`,
		key, density, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store mean density %s: %w", key, err)
	}
	return nil
}

// Stats reports the number of entries and the total hits served.
func (c *SQLiteCache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM mean_density_cache`,
	).Scan(&s.Entries, &s.Hits)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return s, nil
}

// Purge deletes every entry and returns how many were removed.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM mean_density_cache`)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return res.RowsAffected()
}
