// Package registry provides a generic thread-safe lookup table for values
// indexed by key.
//
// Registry is designed for read-heavy workloads using sync.RWMutex. It
// supports any comparable key type and any value type through Go generics.
//
// # Registration Tables
//
// The main use is dispatch tables registered once at startup and consulted
// on every request, such as the instance database's handler table:
//
//	handlers := registry.New[asset.Type, Handler]()
//	if !handlers.Add("texture", textureHandler) {
//	    // a handler for "texture" already exists
//	}
//
//	h, ok := handlers.Get("texture")
//	if ok {
//	    // h is a copy; the registry lock is no longer held
//	    h.Create(someAsset)
//	}
//
// Add only inserts when the key is absent, which keeps duplicate
// registration an explicit, checkable condition. Use Set when last-writer
// -wins replacement is the intended behavior.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Get returns a copy of
// the stored value taken under the shared lock, so callers never invoke
// handler code while the registry is locked. The Range method iterates over
// a snapshot, allowing mutations during iteration without affecting the
// iteration itself.
package registry
