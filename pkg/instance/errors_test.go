package instance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
)

func TestConfigurationErrorUnwrap(t *testing.T) {
	err := &ConfigurationError{Op: "add handler", Type: "test.widget", Err: ErrHandlerExists}

	assert.True(t, errors.Is(err, ErrHandlerExists))
	assert.Contains(t, err.Error(), "add handler")
	assert.Contains(t, err.Error(), "test.widget")
}

func TestConfigurationErrorWithoutType(t *testing.T) {
	err := &ConfigurationError{Op: "create slot widget", Err: ErrAlreadyCreated}

	assert.True(t, errors.Is(err, ErrAlreadyCreated))
	assert.Contains(t, err.Error(), "create slot widget")
}

func TestMismatchErrorMessage(t *testing.T) {
	have := asset.NewID()
	got := asset.NewID()
	err := &MismatchError{ID: FromName("x"), Have: have, Got: got}

	assert.Contains(t, err.Error(), have.String())
	assert.Contains(t, err.Error(), got.String())
}

func TestLeakErrorMessage(t *testing.T) {
	err := &LeakError{IDs: []ID{NewRandom(), NewRandom()}}
	assert.Contains(t, err.Error(), "2 instances")
}
