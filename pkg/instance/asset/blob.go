package asset

import "sync/atomic"

// Blob is a concrete Asset carrying an opaque payload. Readiness is observed
// atomically so a blocking load on one goroutine is visible to the rest.
type Blob struct {
	id      ID
	typ     Type
	payload []byte
	ready   atomic.Bool
}

// NewBlob returns a ready Blob.
func NewBlob(id ID, typ Type, payload []byte) *Blob {
	b := &Blob{id: id, typ: typ, payload: payload}
	b.ready.Store(true)
	return b
}

// NewPendingBlob returns a Blob that is present but not yet loaded.
// It becomes ready when a blocking Resolve completes.
func NewPendingBlob(id ID, typ Type, payload []byte) *Blob {
	return &Blob{id: id, typ: typ, payload: payload}
}

// ID implements Asset.
func (b *Blob) ID() ID {
	return b.id
}

// Type implements Asset.
func (b *Blob) Type() Type {
	return b.typ
}

// Ready implements Asset.
func (b *Blob) Ready() bool {
	return b.ready.Load()
}

// Payload returns the asset's data. Valid only once the blob is ready.
func (b *Blob) Payload() []byte {
	return b.payload
}

func (b *Blob) markReady() {
	b.ready.Store(true)
}
