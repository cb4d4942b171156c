package instance

import (
	"github.com/google/uuid"

	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
)

// nameSpace seeds name-derived IDs so they never collide with asset-derived
// ones. Fixed forever: changing it changes every FromName result.
var nameSpace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// ID uniquely identifies one instance within a database.
// The zero value is invalid and is never stored.
type ID uuid.UUID

// FromAsset derives an ID from an asset ID. The mapping is one-to-one:
// repeated calls with the same asset converge on the same instance.
func FromAsset(assetID asset.ID) ID {
	return ID(assetID)
}

// FromName derives a deterministic ID from a name. Useful for well-known
// instances ("default-white") shared by callers that never see each other.
func FromName(name string) ID {
	return ID(uuid.NewSHA1(nameSpace, []byte(name)))
}

// NewRandom returns a unique ID. Instances created with random IDs are never
// deduplicated against each other.
func NewRandom() ID {
	return ID(uuid.New())
}

// IsZero reports whether the ID is the invalid zero value.
func (id ID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// String returns the canonical UUID form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}
