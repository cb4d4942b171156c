package instance

// Handle is a counted reference to a live instance. Handles are returned by
// Find, FindOrCreate, and CreateNew, each return already counted. Clone a
// handle to share it; release every handle (original and clones) exactly
// once. When the last handle is released the database removes the instance
// and invokes the handler's Delete function.
//
// The zero Handle is empty: IsEmpty reports true, Value returns the zero T,
// and Clone and Release are no-ops. Callers must check IsEmpty rather than
// expect an error; fallible acquisition reports through the database's
// logger and metrics instead of the return path.
type Handle[T Instance] struct {
	value T
	meta  *Data
}

// IsEmpty reports whether the handle refers to no instance.
func (h Handle[T]) IsEmpty() bool {
	return h.meta == nil
}

// Value returns the instance, or the zero T for an empty handle.
func (h Handle[T]) Value() T {
	return h.value
}

// ID returns the instance's identifier, or the zero ID for an empty handle.
func (h Handle[T]) ID() ID {
	if h.meta == nil {
		return ID{}
	}
	return h.meta.id
}

// Clone returns a new counted reference to the same instance.
//
// The increment happens before any release check runs: a concurrent final
// release observes the raised count under the store lock and abandons the
// teardown, so cloning from a still-held handle is always safe.
func (h Handle[T]) Clone() Handle[T] {
	if h.meta != nil {
		h.meta.refs.Add(1)
	}
	return h
}

// Release drops this reference. If it was the last one, the instance is
// removed from its database and finalized through its handler. Releasing
// the same handle value twice is a caller error, the same as a double free.
func (h Handle[T]) Release() {
	if h.meta == nil {
		return
	}
	if h.meta.refs.Add(-1) == 0 {
		if owner := h.meta.owner; owner != nil {
			owner.releaseInstance(h.meta)
		}
	}
}
