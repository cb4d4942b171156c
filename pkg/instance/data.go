package instance

import (
	"sync/atomic"

	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
)

// releaser is the non-owning back-reference from an instance to its
// database. It lets a handle address the store entry on final release
// without the instance owning the database or vice versa.
type releaser interface {
	releaseInstance(meta *Data)
}

// Instance is implemented by embedding Data in the concrete instance type:
//
//	type Texture struct {
//	    instance.Data
//	    // ...
//	}
//
// The embedded Data carries the identity and reference count the database
// needs; user code never touches it directly.
type Instance interface {
	instanceMeta() *Data
}

// deletionSentinel marks a reference count claimed for teardown. Exactly one
// goroutine ever performs the 0 -> deletionSentinel transition per instance.
const deletionSentinel = -1

// Data is the metadata base for database-managed instances. All fields are
// stamped once, at insertion into the database, and never change afterward
// except the reference count.
type Data struct {
	id        ID
	assetID   asset.ID
	assetType asset.Type
	refs      atomic.Int32
	owner     releaser
}

func (d *Data) instanceMeta() *Data { return d }

// InstanceID returns the identifier this instance is stored under.
// Zero until the instance is inserted into a database.
func (d *Data) InstanceID() ID {
	return d.id
}

// AssetID returns the id of the asset the instance was created from.
func (d *Data) AssetID() asset.ID {
	return d.assetID
}

// AssetType returns the family tag of the asset the instance was created from.
func (d *Data) AssetType() asset.Type {
	return d.assetType
}

// stamp fixes the instance's identity. Called exactly once, under the
// database's exclusive lock, at the moment of insertion.
func (d *Data) stamp(id ID, a asset.Asset, owner releaser) {
	d.id = id
	d.assetID = a.ID()
	d.assetType = a.Type()
	d.owner = owner
	d.refs.Store(1)
}
