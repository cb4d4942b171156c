package instance

import (
	"fmt"
	"sync"

	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
)

// Slot is a named lifecycle owner for one database: at most one database per
// family, created explicitly and destroyed explicitly. The component that
// owns the type family constructs the Slot and passes it (or the database it
// resolves) to consumers; there is no hidden process-global.
//
// Slot is safe for concurrent use. Create and Destroy are expected at
// startup and shutdown; Instance dominates in between.
type Slot[T Instance] struct {
	name string

	mu sync.RWMutex
	db *Database[T]
}

// NewSlot creates an empty slot. The name appears in lifecycle errors and
// panics; use the family name.
func NewSlot[T Instance](name string) *Slot[T] {
	return &Slot[T]{name: name}
}

// Create builds the slot's database. Creating twice is reported misuse: the
// second call returns a *ConfigurationError and leaves the existing database
// untouched.
func (s *Slot[T]) Create(base asset.Type, opts ...Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return &ConfigurationError{Op: "create slot " + s.name, Err: ErrAlreadyCreated}
	}
	s.db = New[T](base, opts...)
	return nil
}

// CreateWithHandler builds the database and registers a handler for the base
// family in one step, for databases whose concrete type is known up front.
func (s *Slot[T]) CreateWithHandler(base asset.Type, h Handler[T], opts ...Option) error {
	if err := s.Create(base, opts...); err != nil {
		return err
	}
	return s.Instance().AddHandler(base, h)
}

// Destroy tears the database down and empties the slot. Instances still
// live are reported through the database's leak check; the returned error
// is the *LeakError when there are any.
func (s *Slot[T]) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return &ConfigurationError{Op: "destroy slot " + s.name, Err: ErrNotCreated}
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// IsReady reports whether the slot holds a database.
func (s *Slot[T]) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}

// Instance returns the slot's database, panicking if the slot was used
// before Create. Use Get for the checked form.
func (s *Slot[T]) Instance() *Database[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		panic(fmt.Sprintf("instance: slot %q accessed before Create", s.name))
	}
	return s.db
}

// Get returns the slot's database and whether it exists.
func (s *Slot[T]) Get() (*Database[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db, s.db != nil
}
