package instance

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
	"github.com/lonlypiano/lumberyard/pkg/instance/observability"
	"github.com/lonlypiano/lumberyard/pkg/instance/registry"
)

// Database is a thread-safe deduplication store for instances of type T,
// all created from assets descending from one base family. At most one live
// instance exists per ID; creation is lazy through registered handlers, and
// removal happens exactly once when the last handle is released.
//
// A Database does not own its instances. Construct one Database per type
// family and pass it to consumers; see Slot for a guarded lifecycle owner.
type Database[T Instance] struct {
	base asset.Type
	cfg  dbConfig

	handlers *registry.Registry[asset.Type, Handler[T]]

	// mu guards instances. It is independent of the handler registry's lock
	// and the two are never nested: handler lookups copy the handler out
	// before any instance work, and instance paths take mu first.
	mu        sync.RWMutex
	instances map[ID]T
}

// New creates a Database for instances built from assets of the base family
// or its descendants.
func New[T Instance](base asset.Type, opts ...Option) *Database[T] {
	cfg := defaultDBConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Database[T]{
		base:      base,
		cfg:       cfg,
		handlers:  registry.New[asset.Type, Handler[T]](),
		instances: make(map[ID]T),
	}
}

// BaseType returns the asset family this database was declared for.
func (d *Database[T]) BaseType() asset.Type {
	return d.base
}

// Find returns a handle to the instance stored under id, or an empty handle.
// Find never loads or creates; it is the non-blocking path for callers that
// preloaded their assets.
func (d *Database[T]) Find(id ID) Handle[T] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.instances[id]
	if !ok {
		return Handle[T]{}
	}
	return d.acquire(v)
}

// FindOrCreate returns the instance stored under id, creating it from a if
// absent. Safe to call from many goroutines with the same id: exactly one
// creates, the rest receive handles to that one instance.
//
// If a is not ready, the configured loader performs a blocking load first;
// callers that must not block should preload and use Find. An empty handle
// means the id was zero, the asset never became ready, no handler matched,
// or the handler declined to create; all are reported through the logger
// and metrics, never the return path.
func (d *Database[T]) FindOrCreate(ctx context.Context, id ID, a asset.Asset) Handle[T] {
	if id.IsZero() {
		return Handle[T]{}
	}

	ctx, span := d.cfg.spans.StartAcquireSpan(ctx, id.String(), assetTypeLabel(a))
	h, err := d.findOrCreate(ctx, id, a)
	d.cfg.spans.EndSpanWithError(span, err)
	return h
}

func (d *Database[T]) findOrCreate(ctx context.Context, id ID, a asset.Asset) (Handle[T], error) {
	// Optimistic probe under the shared lock; the common case is a hit.
	d.mu.RLock()
	if v, ok := d.instances[id]; ok {
		h := d.acquire(v)
		d.mu.RUnlock()
		d.reportMismatch(ctx, h.meta, a)
		d.cfg.metrics.RecordDedupHit(ctx, string(h.meta.assetType))
		return h, nil
	}
	d.mu.RUnlock()

	if a == nil {
		return Handle[T]{}, asset.ErrNotFound
	}

	if !a.Ready() {
		loaded, err := d.loadBlocking(ctx, a)
		if err != nil {
			return Handle[T]{}, err
		}
		a = loaded
	}

	if d.cfg.ancestry != nil && !d.cfg.ancestry.IsDescendant(a.Type(), d.base) {
		// A handler registered for an unrelated family is only discoverable
		// here: until now all we had was two family tags.
		if d.handlers.Has(a.Type()) {
			d.reportConfig("find or create", a.Type(), ErrUnrelatedType)
			return Handle[T]{}, ErrUnrelatedType
		}
	}

	// Full lock for insertion.
	d.mu.Lock()
	defer d.mu.Unlock()

	// Search again in case someone else got here while we loaded or waited.
	if v, ok := d.instances[id]; ok {
		h := d.acquire(v)
		d.reportMismatch(ctx, h.meta, a)
		d.cfg.metrics.RecordDedupHit(ctx, string(h.meta.assetType))
		return h, nil
	}

	handler, ok := d.handlers.Get(a.Type())
	if !ok {
		observability.LogMissingHandler(d.cfg.logger, "find or create", string(a.Type()))
		return Handle[T]{}, ErrNoHandler
	}

	done := observability.TimedOperation()
	v, err := handler.Create(a)
	if err == nil && isNilValue(v) {
		err = ErrNilInstance
	}
	if err != nil {
		d.cfg.metrics.RecordCreate(ctx, string(a.Type()), time.Duration(done())*time.Millisecond, err)
		observability.LogConfigurationError(d.cfg.logger, "create", string(a.Type()), err)
		return Handle[T]{}, err
	}

	meta := v.instanceMeta()
	meta.stamp(id, a, d)
	d.instances[id] = v

	durationMs := done()
	d.cfg.metrics.RecordCreate(ctx, string(a.Type()), time.Duration(durationMs)*time.Millisecond, nil)
	observability.LogInstanceCreated(d.cfg.logger, id.String(), a.ID().String(), string(a.Type()), durationMs)

	return Handle[T]{value: v, meta: meta}, nil
}

// FindOrCreateFromAsset calls FindOrCreate with an ID derived from the asset
// ID, so repeated calls with the same asset converge on one instance.
func (d *Database[T]) FindOrCreateFromAsset(ctx context.Context, a asset.Asset) Handle[T] {
	if a == nil {
		return Handle[T]{}
	}
	return d.FindOrCreate(ctx, FromAsset(a.ID()), a)
}

// CreateNew calls FindOrCreate with a random ID, so every call produces a
// distinct instance even from the same asset.
func (d *Database[T]) CreateNew(ctx context.Context, a asset.Asset) Handle[T] {
	return d.FindOrCreate(ctx, NewRandom(), a)
}

// Len returns the number of live instances.
func (d *Database[T]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.instances)
}

// Close tears the database down. Instances still live are a defect: Close
// logs each leaked ID up to the configured limit and returns a *LeakError
// carrying all of them. Outstanding handles released after Close are no-ops.
func (d *Database[T]) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.instances) == 0 {
		return nil
	}

	leak := &LeakError{IDs: make([]ID, 0, len(d.instances))}
	logged := 0
	for id := range d.instances {
		leak.IDs = append(leak.IDs, id)
		if logged < d.cfg.leakLogLimit {
			observability.LogLeakedInstance(d.cfg.logger, id.String())
			logged++
		}
	}
	d.instances = make(map[ID]T)
	return leak
}

// acquire hands out a counted reference to a stored instance. Caller holds
// d.mu in at least read mode.
//
// The increment may race a final release that already decremented to zero
// but has not yet claimed the instance; the claim's compare-and-swap in
// releaseInstance reconciles that, so increment-then-check ordering here is
// load-bearing.
func (d *Database[T]) acquire(v T) Handle[T] {
	meta := v.instanceMeta()
	meta.refs.Add(1)
	return Handle[T]{value: v, meta: meta}
}

// releaseInstance implements the final-release protocol. Called by a handle
// whose decrement took the count to zero.
func (d *Database[T]) releaseInstance(meta *Data) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// The id may be gone (another release won), or occupied by a different
	// instance that reused the id after ours was removed. Either way this
	// release is not ours to perform.
	v, ok := d.instances[meta.id]
	if !ok || v.instanceMeta() != meta {
		return
	}

	// Claim the teardown. Failure means another goroutine re-acquired a
	// reference between the external decrement and this lock; the instance
	// is live again and must stay.
	if !meta.refs.CompareAndSwap(0, deletionSentinel) {
		return
	}

	delete(d.instances, meta.id)

	handler, ok := d.handlers.Get(meta.assetType)
	if !ok {
		// The handler existed at creation time; losing it mid-life is misuse.
		d.reportConfig("release", meta.assetType, ErrNoHandler)
		return
	}
	if handler.Delete != nil {
		handler.Delete(v)
	}

	d.cfg.metrics.RecordRelease(context.Background(), string(meta.assetType))
	observability.LogInstanceReleased(d.cfg.logger, meta.id.String(), string(meta.assetType))
}

// loadBlocking resolves a non-ready asset through the configured loader,
// blocking the caller until it is ready or failed.
func (d *Database[T]) loadBlocking(ctx context.Context, a asset.Asset) (asset.Asset, error) {
	typ := string(a.Type())

	if d.cfg.loader == nil {
		d.cfg.metrics.RecordLoadFailure(ctx, typ)
		observability.LogLoadFailure(d.cfg.logger, a.ID().String(), typ, asset.ErrNotReady)
		return nil, asset.ErrNotReady
	}

	ctx, span := d.cfg.spans.StartLoadSpan(ctx, a.ID().String(), typ)
	loaded, err := d.cfg.loader.Resolve(ctx, asset.LoadRequest{
		ID:       a.ID(),
		Type:     a.Type(),
		Queue:    true,
		Blocking: true,
	})
	if err == nil && (loaded == nil || !loaded.Ready()) {
		err = asset.ErrNotReady
	}
	d.cfg.spans.EndSpanWithError(span, err)

	if err != nil {
		d.cfg.metrics.RecordLoadFailure(ctx, typ)
		observability.LogLoadFailure(d.cfg.logger, a.ID().String(), typ, err)
		return nil, err
	}
	return loaded, nil
}

// validateSameAsset performs the advisory source-mismatch check: an
// instance's bound asset never changes, so later requests must carry the
// asset it was created from. Returns a *MismatchError describing the
// violation, or nil when the request matches or validation is off.
func (d *Database[T]) validateSameAsset(meta *Data, a asset.Asset) *MismatchError {
	if d.cfg.validation == ValidationOff || a == nil {
		return nil
	}
	if meta.assetID == a.ID() {
		return nil
	}
	return &MismatchError{ID: meta.id, Have: meta.assetID, Got: a.ID()}
}

// reportMismatch logs and counts a source-mismatch on a dedup hit. The
// existing instance is returned regardless; reporting is how id collisions
// and wrong assets surface instead of silently handing out someone else's
// instance.
func (d *Database[T]) reportMismatch(ctx context.Context, meta *Data, a asset.Asset) {
	merr := d.validateSameAsset(meta, a)
	if merr == nil {
		return
	}
	d.cfg.metrics.RecordMismatch(ctx, string(meta.assetType))
	observability.LogAssetMismatch(d.cfg.logger, merr.ID.String(), merr.Have.String(), merr.Got.String())
}

func (d *Database[T]) reportConfig(op string, t asset.Type, err error) {
	observability.LogConfigurationError(d.cfg.logger, op, string(t), err)
}

// isNilValue reports whether a handler returned a typed nil instance.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func assetTypeLabel(a asset.Asset) string {
	if a == nil {
		return ""
	}
	return string(a.Type())
}
