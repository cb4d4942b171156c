/*
Package instance provides a thread-safe deduplication database for runtime
objects built from externally owned assets.

# Overview

An "instance" is any object constructed at runtime from an asset and addressed
by a unique ID. The database guarantees that at most one live instance exists
per ID, constructs instances lazily through registered handlers, and removes
each instance exactly once when its last handle is released. It is the
concurrency core for systems where duplicate live objects or premature
teardown are correctness bugs, not performance bugs.

The database does not own instances. Ownership is returned to the caller as a
Handle, and the instance is finalized only when every outstanding handle has
been released.

# Basic Usage

Declare an instance type by embedding Data, register a handler, and acquire
instances through the database:

	type Texture struct {
	    instance.Data
	    pixels []byte
	}

	hierarchy := asset.NewHierarchy()
	catalog := asset.NewCatalog()

	db := instance.New[*Texture]("texture",
	    instance.WithLoader(catalog),
	    instance.WithAncestry(hierarchy),
	)

	err := db.AddHandler("texture", instance.Handler[*Texture]{
	    Create: func(a asset.Asset) (*Texture, error) {
	        return &Texture{pixels: a.(*asset.Blob).Payload()}, nil
	    },
	})

	// One ID per asset: repeated calls converge on one instance.
	h := db.FindOrCreateFromAsset(ctx, myAsset)
	defer h.Release()

	// Explicit IDs dedupe across callers.
	h2 := db.FindOrCreate(ctx, instance.FromName("default-white"), myAsset)
	defer h2.Release()

	// Random IDs always produce a fresh instance.
	h3 := db.CreateNew(ctx, myAsset)
	defer h3.Release()

# Concurrency

All database operations are safe for concurrent use. FindOrCreate with the
same ID from many goroutines invokes the handler's Create function exactly
once; the losers of the race receive handles to the winner's instance.
Creation runs under the database's exclusive lock, so Create functions should
be quick. If the asset is not ready, FindOrCreate performs a blocking load
through the configured Loader before taking the lock; callers that must not
block should preload assets and use Find.

# Lifecycle

A Handle is a counted reference. Clone a handle to share it and release every
handle exactly once. When the count reaches zero the database removes the
instance and invokes the handler's optional Delete function. Re-acquiring an
ID during teardown is safe: the release protocol detects the race and yields
to the new reference.

Close reports instances that are still live as a *LeakError; outstanding
handles at shutdown are a defect worth surfacing, not a silent pass.
*/
package instance
