package instance

import (
	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
)

// Handler provides create and delete functions for one asset family.
//
// Create runs under the database's exclusive lock so that concurrent
// requests for one ID produce exactly one instance; keep it quick and move
// slow work into asset loading, which happens before the lock. Returning an
// error or a nil instance aborts the acquisition without inserting anything.
//
// Delete is optional. It runs after the instance has been removed from the
// database, as a finalize hook for resources the garbage collector does not
// manage (GPU memory, file locks, pools).
type Handler[T Instance] struct {
	// Create builds an instance from a ready asset. Required.
	Create func(a asset.Asset) (T, error)

	// Delete finalizes an instance after its last reference dropped. Optional.
	Delete func(v T)
}

// AddHandler registers a handler for an asset family. It fails with a
// *ConfigurationError when the handler has no Create function or when the
// family already has a handler; re-registration is rejected, not replaced.
func (d *Database[T]) AddHandler(t asset.Type, h Handler[T]) error {
	if h.Create == nil {
		err := &ConfigurationError{Op: "add handler", Type: t, Err: ErrNilCreateFunc}
		d.reportConfig("add handler", t, ErrNilCreateFunc)
		return err
	}
	if !d.handlers.Add(t, h) {
		err := &ConfigurationError{Op: "add handler", Type: t, Err: ErrHandlerExists}
		d.reportConfig("add handler", t, ErrHandlerExists)
		return err
	}
	return nil
}

// RemoveHandler removes the handler for an asset family. No-op if absent.
// Removing a handler while instances of its family are live leaves those
// instances without a finalizer; their release is reported as a
// configuration error.
func (d *Database[T]) RemoveHandler(t asset.Type) {
	d.handlers.Delete(t)
}
