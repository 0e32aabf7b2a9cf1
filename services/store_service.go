package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"lemonshop_server/migration"
	"lemonshop_server/storage"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

const (
	blobSnapshot = "snapshot"
	blobCart     = "cart"
)

// StoreService persists the whole application snapshot as one blob and the
// carts as one blob each. Reads never fail: anything that cannot be read or
// decoded comes back as defaults. Writes report success as a bool.
type StoreService struct {
	logger      *gecho.Logger
	store       storage.BlobStore
	snapshotKey string
	cartKey     string
	now         func() time.Time

	// mu serialises read-modify-write cycles
	mu sync.Mutex

	subsMu  sync.RWMutex
	subs    map[int]func(structs.Snapshot)
	nextSub int
}

func NewStoreService(logger *gecho.Logger, cfg *structs.Config, store storage.BlobStore) *StoreService {
	return &StoreService{
		logger:      logger,
		store:       store,
		snapshotKey: cfg.Storage.SnapshotKey,
		cartKey:     cfg.Storage.CartKey,
		now:         time.Now,
		subs:        make(map[int]func(structs.Snapshot)),
	}
}

// Backend exposes the underlying blob store for health checks
func (ss *StoreService) Backend() storage.BlobStore {
	return ss.store
}

// Load reads and migrates the snapshot
func (ss *StoreService) Load(ctx context.Context) structs.Snapshot {
	raw, ok := ss.read(ctx, ss.snapshotKey)
	if !ok {
		return structs.NewSnapshot()
	}

	snap, err := migration.Snapshot(raw, ss.now().UTC())
	if err != nil {
		ss.logger.Warn("Snapshot partially unreadable, using defaults for the broken parts",
			gecho.Field("key", ss.snapshotKey),
			gecho.Field("error", err),
		)
	}
	return snap
}

// Save writes snap as a whole
func (ss *StoreService) Save(ctx context.Context, snap structs.Snapshot) bool {
	return ss.write(ctx, blobSnapshot, ss.snapshotKey, snap)
}

// Update runs fn against a freshly loaded snapshot and writes the result.
// An error from fn aborts without writing. When the write fails the returned
// snapshot still carries the change and saved is false.
func (ss *StoreService) Update(ctx context.Context, fn func(*structs.Snapshot) error) (snap structs.Snapshot, saved bool, err error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	snap = ss.Load(ctx)
	if err := fn(&snap); err != nil {
		return snap, false, err
	}

	saved = ss.Save(ctx, snap)
	ss.broadcast(snap)
	return snap, saved, nil
}

// Subscribe registers fn to receive every snapshot written through Update.
// The returned function removes the subscription.
func (ss *StoreService) Subscribe(fn func(structs.Snapshot)) (unsubscribe func()) {
	ss.subsMu.Lock()
	id := ss.nextSub
	ss.nextSub++
	ss.subs[id] = fn
	ss.subsMu.Unlock()

	return func() {
		ss.subsMu.Lock()
		delete(ss.subs, id)
		ss.subsMu.Unlock()
	}
}

func (ss *StoreService) broadcast(snap structs.Snapshot) {
	ss.subsMu.RLock()
	defer ss.subsMu.RUnlock()
	for _, fn := range ss.subs {
		fn(snap)
	}
}

// CartKey is the blob key of the cart with the given id. The empty id is the
// shared default cart.
func (ss *StoreService) CartKey(cartID string) string {
	if cartID == "" {
		return ss.cartKey
	}
	return ss.cartKey + ":" + cartID
}

// CartExists reports whether a cart is stored under cartID. A backend that
// cannot be read counts as holding it, so reads fall back to defaults.
func (ss *StoreService) CartExists(ctx context.Context, cartID string) bool {
	_, err := ss.store.Get(ctx, ss.CartKey(cartID))
	return !errors.Is(err, storage.ErrNotFound)
}

func (ss *StoreService) LoadCart(ctx context.Context, cartID string) structs.Cart {
	key := ss.CartKey(cartID)
	raw, ok := ss.read(ctx, key)
	if !ok {
		return structs.NewCart()
	}

	c, err := migration.Cart(raw)
	if err != nil {
		ss.logger.Warn("Cart unreadable, starting empty",
			gecho.Field("key", key),
			gecho.Field("error", err),
		)
	}
	return c
}

func (ss *StoreService) SaveCart(ctx context.Context, cartID string, c structs.Cart) bool {
	return ss.write(ctx, blobCart, ss.CartKey(cartID), c)
}

// UpdateCart is Update for a single cart
func (ss *StoreService) UpdateCart(ctx context.Context, cartID string, fn func(*structs.Cart) error) (c structs.Cart, saved bool, err error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	c = ss.LoadCart(ctx, cartID)
	if err := fn(&c); err != nil {
		return c, false, err
	}
	return c, ss.SaveCart(ctx, cartID, c), nil
}

// UpdateCartWithSnapshot is UpdateCart with fn also seeing the snapshot, so
// that checks against products hold for the write they guard. Only the cart
// is written.
func (ss *StoreService) UpdateCartWithSnapshot(ctx context.Context, cartID string, fn func(structs.Snapshot, *structs.Cart) error) (c structs.Cart, snap structs.Snapshot, saved bool, err error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	snap = ss.Load(ctx)
	c = ss.LoadCart(ctx, cartID)
	if err := fn(snap, &c); err != nil {
		return c, snap, false, err
	}
	return c, snap, ss.SaveCart(ctx, cartID, c), nil
}

// UpdateSnapshotAndCart runs fn against the snapshot and one cart in a single
// critical section and writes both, the snapshot first. saved is true only
// when both writes succeed.
func (ss *StoreService) UpdateSnapshotAndCart(ctx context.Context, cartID string, fn func(*structs.Snapshot, *structs.Cart) error) (snap structs.Snapshot, c structs.Cart, saved bool, err error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	snap = ss.Load(ctx)
	c = ss.LoadCart(ctx, cartID)
	if err := fn(&snap, &c); err != nil {
		return snap, c, false, err
	}

	snapSaved := ss.Save(ctx, snap)
	ss.broadcast(snap)
	cartSaved := ss.SaveCart(ctx, cartID, c)
	return snap, c, snapSaved && cartSaved, nil
}

// DeleteCart removes a cart blob
func (ss *StoreService) DeleteCart(ctx context.Context, cartID string) bool {
	if err := ss.store.Delete(ctx, ss.CartKey(cartID)); err != nil {
		ss.logger.Error("Failed to delete cart", gecho.Field("cart", cartID), gecho.Field("error", err))
		return false
	}
	return true
}

func (ss *StoreService) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := ss.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			ss.logger.Warn("Failed to read blob, using defaults",
				gecho.Field("key", key),
				gecho.Field("error", err),
			)
		}
		return nil, false
	}
	return raw, true
}

func (ss *StoreService) write(ctx context.Context, blob string, key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		ss.logger.Error("Failed to encode blob", gecho.Field("key", key), gecho.Field("error", err))
		StoreWrites.WithLabelValues(blob, resultFailed).Inc()
		return false
	}

	if err := ss.store.Set(ctx, key, raw); err != nil {
		ss.logger.Error("Failed to write blob",
			gecho.Field("key", key),
			gecho.Field("bytes", len(raw)),
			gecho.Field("error", err),
		)
		StoreWrites.WithLabelValues(blob, resultFailed).Inc()
		return false
	}

	StoreWrites.WithLabelValues(blob, resultOK).Inc()
	ss.logger.Debug("Blob written", gecho.Field("key", key), gecho.Field("bytes", len(raw)))
	return true
}
