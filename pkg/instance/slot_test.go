package instance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLifecycle(t *testing.T) {
	slot := NewSlot[*testInstance]("widget")
	assert.False(t, slot.IsReady())

	require.NoError(t, slot.Create(testType))
	assert.True(t, slot.IsReady())

	db, ok := slot.Get()
	require.True(t, ok)
	assert.Same(t, db, slot.Instance())

	require.NoError(t, slot.Destroy())
	assert.False(t, slot.IsReady())
}

func TestSlotDoubleCreateIsNoop(t *testing.T) {
	slot := NewSlot[*testInstance]("widget")
	require.NoError(t, slot.Create(testType))
	first := slot.Instance()

	err := slot.Create(testType)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyCreated)

	// The misuse is reported but the original database survives.
	assert.Same(t, first, slot.Instance())
}

func TestSlotDestroyBeforeCreate(t *testing.T) {
	slot := NewSlot[*testInstance]("widget")
	err := slot.Destroy()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotCreated)
}

func TestSlotInstancePanicsBeforeCreate(t *testing.T) {
	slot := NewSlot[*testInstance]("widget")
	assert.Panics(t, func() {
		slot.Instance()
	})
}

func TestSlotCreateWithHandler(t *testing.T) {
	var c counters
	slot := NewSlot[*testInstance]("widget")
	require.NoError(t, slot.CreateWithHandler(testType, countingHandler(&c)))

	h := slot.Instance().FindOrCreate(context.Background(), NewRandom(), newTestAsset(t, testType))
	require.False(t, h.IsEmpty())
	h.Release()

	require.NoError(t, slot.Destroy())
}

func TestSlotDestroyReportsLeaks(t *testing.T) {
	var c counters
	slot := NewSlot[*testInstance]("widget")
	require.NoError(t, slot.CreateWithHandler(testType, countingHandler(&c)))

	h := slot.Instance().CreateNew(context.Background(), newTestAsset(t, testType))
	require.False(t, h.IsEmpty())

	err := slot.Destroy()
	require.Error(t, err)

	var leak *LeakError
	require.ErrorAs(t, err, &leak)
	assert.Len(t, leak.IDs, 1)
	assert.False(t, slot.IsReady(), "slot empties even when leaks are reported")

	h.Release()
}
