// Package asset defines the data-source boundary consumed by the instance
// database: asset identity, family typing, readiness, and blocking loads.
//
// The database never creates or destroys assets; it only consumes them. A
// production system plugs its own Loader in; Catalog and SQLiteCatalog are
// complete implementations for tests, tools, and single-process use.
package asset

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ID uniquely identifies an asset. The zero value is invalid.
type ID uuid.UUID

// NewID returns a unique asset ID.
func NewID() ID {
	return ID(uuid.New())
}

// IDFromName derives a deterministic asset ID from a name.
func IDFromName(name string) ID {
	return ID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)))
}

// IsZero reports whether the ID is the invalid zero value.
func (id ID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// String returns the canonical UUID form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Type tags a family of assets. All assets of one family share an instance
// handler. The empty Type is invalid.
type Type string

// Asset is an externally owned reference to source data. Instances are
// constructed from ready assets; a non-ready asset must be resolved through
// a Loader first.
type Asset interface {
	// ID returns the asset's identity.
	ID() ID

	// Type returns the asset's family tag.
	Type() Type

	// Ready reports whether the asset's data is loaded and usable.
	Ready() bool
}

// LoadRequest describes one Resolve call.
type LoadRequest struct {
	// ID is the asset to resolve.
	ID ID

	// Type is the asset's family tag.
	Type Type

	// Queue requests that the load be scheduled if it is not in flight.
	Queue bool

	// Filter, if non-nil, rejects assets the caller is not interested in.
	Filter func(Asset) bool

	// Blocking makes Resolve wait until the asset is ready or failed.
	Blocking bool
}

// Loader resolves assets, blocking the caller when requested. The instance
// database always resolves with Blocking set on its miss path.
// Implementations must be safe for concurrent use.
type Loader interface {
	Resolve(ctx context.Context, req LoadRequest) (Asset, error)
}

// Sentinel errors for asset resolution.
var (
	// ErrNotFound indicates the asset does not exist in the catalog.
	ErrNotFound = errors.New("asset not found")

	// ErrNotReady indicates a non-blocking resolve found the asset unloaded.
	ErrNotReady = errors.New("asset not ready")

	// ErrFiltered indicates the load filter rejected the asset.
	ErrFiltered = errors.New("asset rejected by load filter")

	// ErrCatalogClosed indicates the catalog has been closed.
	ErrCatalogClosed = errors.New("asset catalog closed")
)
