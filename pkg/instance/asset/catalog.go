package asset

import (
	"context"
	"sync"
)

// Catalog is an in-memory asset catalog and Loader. Data is lost when the
// process exits; use SQLiteCatalog to persist assets across runs.
type Catalog struct {
	mu     sync.RWMutex
	assets map[ID]*Blob
	closed bool
}

// Compile-time interface check.
var _ Loader = (*Catalog)(nil)

// NewCatalog creates an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		assets: make(map[ID]*Blob),
	}
}

// Put stores a ready asset, replacing any previous asset with the same ID.
func (c *Catalog) Put(id ID, typ Type, payload []byte) error {
	return c.put(NewBlob(id, typ, payload))
}

// PutPending stores an asset whose data is present but not yet loaded.
// It becomes ready only through a blocking Resolve.
func (c *Catalog) PutPending(id ID, typ Type, payload []byte) error {
	return c.put(NewPendingBlob(id, typ, payload))
}

func (c *Catalog) put(b *Blob) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCatalogClosed
	}
	c.assets[b.ID()] = b
	return nil
}

// Get returns the stored asset without loading it.
func (c *Catalog) Get(id ID) (Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.assets[id]
	if !ok || c.closed {
		return nil, false
	}
	return b, true
}

// Resolve implements Loader. A blocking resolve marks the asset ready; a
// non-blocking resolve returns ErrNotReady for pending assets.
func (c *Catalog) Resolve(ctx context.Context, req LoadRequest) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	b, ok := c.assets[req.ID]
	closed := c.closed
	c.mu.RUnlock()

	if closed {
		return nil, ErrCatalogClosed
	}
	if !ok {
		return nil, ErrNotFound
	}
	if req.Filter != nil && !req.Filter(b) {
		return nil, ErrFiltered
	}

	if !b.Ready() {
		if !req.Blocking {
			return nil, ErrNotReady
		}
		b.markReady()
	}
	return b, nil
}

// Len returns the number of stored assets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.assets)
}

// Close releases the catalog. Subsequent operations fail with
// ErrCatalogClosed.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.assets = nil
	return nil
}
