/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// CachedService keeps category details in a sqlite database so repeat
// categories skip the network. The category listing always goes to the
// wrapped service, since it is what makes each board different.
type CachedService struct {
	Service
	db     *sql.DB
	maxAge time.Duration
	now    func() time.Time
}

// OpenCache opens (creating if needed) the cache database at path. Entries
// older than maxAge are fetched again; a maxAge of zero keeps them forever.
func OpenCache(path string, next Service, maxAge time.Duration) (*CachedService, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		detail TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache migration failed: %w", err)
	}

	return &CachedService{
		Service: next,
		db:      db,
		maxAge:  maxAge,
		now:     time.Now,
	}, nil
}

// FetchCategoryDetail serves from the cache when possible. Cache errors are
// not fatal: a failed read falls through to the network and a failed write
// is dropped.
func (c *CachedService) FetchCategoryDetail(ctx context.Context, id CategoryID) (CategoryDetail, error) {
	if detail, ok := c.lookup(ctx, id); ok {
		return detail, nil
	}

	detail, err := c.Service.FetchCategoryDetail(ctx, id)
	if err != nil {
		return CategoryDetail{}, err
	}

	c.store(ctx, id, detail)

	return detail, nil
}

// Len reports how many categories are cached.
func (c *CachedService) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached categories: %w", err)
	}

	return n, nil
}

func (c *CachedService) Close() error {
	return c.db.Close()
}

func (c *CachedService) lookup(ctx context.Context, id CategoryID) (CategoryDetail, bool) {
	var oldest int64
	if c.maxAge > 0 {
		oldest = c.now().Add(-c.maxAge).Unix()
	}

	var raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT detail FROM categories WHERE id = ? AND fetched_at >= ?`,
		int(id), oldest,
	).Scan(&raw)
	if err != nil {
		// sql.ErrNoRows covers both absent and expired entries; anything
		// else is treated as a miss too.
		return CategoryDetail{}, false
	}

	var detail CategoryDetail
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		return CategoryDetail{}, false
	}

	return detail, true
}

func (c *CachedService) store(ctx context.Context, id CategoryID, detail CategoryDetail) {
	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}

	_, _ = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO categories (id, detail, fetched_at) VALUES (?, ?, ?)`,
		int(id), string(raw), c.now().Unix(),
	)
}
