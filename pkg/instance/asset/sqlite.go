package asset

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteCatalog persists assets to SQLite and serves them as a Loader.
// It is suitable for single-process production use.
//
// Resolved assets are cached so repeated resolves of one ID return the same
// Asset value, matching the identity semantics the instance database's
// source-mismatch validation relies on.
type SQLiteCatalog struct {
	db     *sql.DB
	mu     sync.RWMutex
	cache  map[ID]*Blob
	closed bool
}

// Compile-time interface check.
var _ Loader = (*SQLiteCatalog)(nil)

// NewSQLiteCatalog opens or creates a catalog at path.
// Use ":memory:" for testing.
func NewSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS assets (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			payload BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteCatalog{
		db:    db,
		cache: make(map[ID]*Blob),
	}, nil
}

// Put stores an asset, replacing any previous asset with the same ID.
func (c *SQLiteCatalog) Put(id ID, typ Type, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCatalogClosed
	}

	// A nil payload binds as SQL NULL; store it as an empty blob so the
	// NOT NULL column accepts the same payloads Catalog does.
	if payload == nil {
		payload = []byte{}
	}

	_, err := c.db.Exec(`
		INSERT INTO assets (id, type, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, id.String(), string(typ), payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put asset: %w", err)
	}

	// The stored row is now authoritative.
	delete(c.cache, id)
	return nil
}

// Resolve implements Loader. A blocking resolve reads the payload from disk;
// a non-blocking resolve only serves assets already resolved and cached.
func (c *SQLiteCatalog) Resolve(ctx context.Context, req LoadRequest) (Asset, error) {
	c.mu.RLock()
	b, ok := c.cache[req.ID]
	closed := c.closed
	c.mu.RUnlock()

	if closed {
		return nil, ErrCatalogClosed
	}
	if ok {
		if req.Filter != nil && !req.Filter(b) {
			return nil, ErrFiltered
		}
		return b, nil
	}
	if !req.Blocking {
		return nil, ErrNotReady
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCatalogClosed
	}

	// Another resolve may have filled the cache while we waited.
	if b, ok := c.cache[req.ID]; ok {
		if req.Filter != nil && !req.Filter(b) {
			return nil, ErrFiltered
		}
		return b, nil
	}

	var typ string
	var payload []byte
	err := c.db.QueryRowContext(ctx, `
		SELECT type, payload FROM assets WHERE id = ?
	`, req.ID.String()).Scan(&typ, &payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load asset: %w", err)
	}

	b = NewBlob(req.ID, Type(typ), payload)
	if req.Filter != nil && !req.Filter(b) {
		return nil, ErrFiltered
	}
	c.cache[req.ID] = b
	return b, nil
}

// Delete removes an asset. Returns nil if the asset doesn't exist.
func (c *SQLiteCatalog) Delete(id ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCatalogClosed
	}

	if _, err := c.db.Exec(`DELETE FROM assets WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	delete(c.cache, id)
	return nil
}

// Close releases the database connection.
func (c *SQLiteCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cache = nil
	return c.db.Close()
}
