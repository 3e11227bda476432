package osuapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Givikap120/ppv2/app/beatmap/difficulty"
	"github.com/Givikap120/ppv2/app/logger"
)

// Cache stores difficulty documents in SQL and falls back to its source on a
// miss. Entries older than ttl are refetched; a zero ttl keeps them forever.
type Cache struct {
	db      *sql.DB
	dialect Dialect
	source  DifficultySource
	ttl     time.Duration

	selectQuery string
	upsertQuery string

	now func() time.Time
}

func OpenCache(dialectType DialectType, dsn string, source DifficultySource, ttl time.Duration) (*Cache, error) {
	dialect, err := NewDialect(dialectType)
	if err != nil {
		return nil, err
	}

	if dialect.DriverName() == "sqlite3" && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if dialect.DriverName() == "sqlite3" {
		// ":memory:" databases exist per connection
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
	}

	c := &Cache{
		db:      db,
		dialect: dialect,
		source:  source,
		ttl:     ttl,
		now:     time.Now,
	}

	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	p := dialect.Placeholder

	c.selectQuery = fmt.Sprintf(
		"SELECT payload, fetched_at FROM difficulty_cache WHERE beatmap_id = %s AND mode = %s",
		p(1), p(2),
	)

	c.upsertQuery = fmt.Sprintf(
		`INSERT INTO difficulty_cache (beatmap_id, mode, payload, fetched_at) VALUES (%s, %s, %s, %s)
		ON CONFLICT (beatmap_id, mode) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		p(1), p(2), p(3), p(4),
	)

	return c, nil
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS difficulty_cache (
		beatmap_id BIGINT NOT NULL,
		mode INTEGER NOT NULL,
		payload %s NOT NULL,
		fetched_at BIGINT NOT NULL,
		PRIMARY KEY (beatmap_id, mode)
	)`, c.dialect.BlobType()))

	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) FetchDifficulty(ctx context.Context, beatmapID int64, mode difficulty.GameMode) ([]byte, error) {
	payload, fetchedAt, err := c.lookup(ctx, beatmapID, mode)

	switch {
	case err == nil && (c.ttl <= 0 || c.now().Sub(fetchedAt) < c.ttl):
		logger.Debug("difficulty cache hit", "beatmap", beatmapID, "mode", mode.String())
		return payload, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		logger.Warning("difficulty cache lookup failed", "beatmap", beatmapID, "error", err)
	default:
		logger.Debug("difficulty cache miss", "beatmap", beatmapID, "mode", mode.String())
	}

	if c.source == nil {
		return nil, fmt.Errorf("%w: %d not cached", ErrBeatmapNotFound, beatmapID)
	}

	payload, err = c.source.FetchDifficulty(ctx, beatmapID, mode)
	if err != nil {
		return nil, err
	}

	if err := c.Store(ctx, beatmapID, mode, payload); err != nil {
		logger.Warning("failed to store difficulty", "beatmap", beatmapID, "error", err)
	}

	return payload, nil
}

func (c *Cache) lookup(ctx context.Context, beatmapID int64, mode difficulty.GameMode) ([]byte, time.Time, error) {
	var (
		payload   []byte
		fetchedAt int64
	)

	if err := c.db.QueryRowContext(ctx, c.selectQuery, beatmapID, int(mode)).Scan(&payload, &fetchedAt); err != nil {
		return nil, time.Time{}, err
	}

	return payload, time.Unix(fetchedAt, 0), nil
}

func (c *Cache) Store(ctx context.Context, beatmapID int64, mode difficulty.GameMode, payload []byte) error {
	_, err := c.db.ExecContext(ctx, c.upsertQuery, beatmapID, int(mode), payload, c.now().Unix())
	return err
}
