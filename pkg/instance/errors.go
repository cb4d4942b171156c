package instance

import (
	"errors"
	"fmt"

	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
)

// Sentinel errors for handler registration and lookup.
var (
	// ErrNilCreateFunc indicates a handler was registered without a Create function.
	ErrNilCreateFunc = errors.New("handler create function is required")

	// ErrHandlerExists indicates a handler is already registered for the asset type.
	ErrHandlerExists = errors.New("handler already registered for asset type")

	// ErrNoHandler indicates no handler is registered for the asset type.
	ErrNoHandler = errors.New("no handler registered for asset type")

	// ErrNilInstance indicates a handler's Create returned a nil instance
	// without an error.
	ErrNilInstance = errors.New("handler returned a nil instance")

	// ErrUnrelatedType indicates a handler was registered for an asset type
	// that does not descend from the database's base type.
	ErrUnrelatedType = errors.New("asset type is not a descendant of the database base type")
)

// Sentinel errors for slot lifecycle.
var (
	// ErrAlreadyCreated indicates Create was called on a slot that already
	// holds a database.
	ErrAlreadyCreated = errors.New("database already created")

	// ErrNotCreated indicates the slot was used before Create.
	ErrNotCreated = errors.New("database not created")
)

// ConfigurationError wraps programmer misuse of the database: bad handler
// registration, handlers for unrelated families, double slot creation.
type ConfigurationError struct {
	// Op is the operation that was misused ("add handler", "create", "release").
	Op string
	// Type is the asset type involved, if any.
	Type asset.Type
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("configuration: %s (%s): %v", e.Op, e.Type, e.Err)
	}
	return fmt.Sprintf("configuration: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// MismatchError records that an existing instance was requested with a
// different asset than the one it was created from. It is advisory: the
// existing instance is still returned to the caller.
type MismatchError struct {
	// ID is the instance's identifier.
	ID ID
	// Have is the asset the instance was created from.
	Have asset.ID
	// Got is the asset supplied by the mismatched request.
	Got asset.ID
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("instance %s was created from asset %s but requested with asset %s; "+
		"acquire an instance with the same asset every time, or use a unique instance id",
		e.ID, e.Have, e.Got)
}

// LeakError reports instances still live when the database was closed.
type LeakError struct {
	// IDs are the identifiers of the leaked instances.
	IDs []ID
}

// Error implements the error interface.
func (e *LeakError) Error() string {
	return fmt.Sprintf("%d instances still have active references", len(e.IDs))
}
