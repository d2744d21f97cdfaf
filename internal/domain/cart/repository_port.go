package cart

import "context"

// Repository is the outbound port for the authenticated (remote) cart.
//
// Policy:
//   - GetByUserID returns an empty cart (never "not found") when the doc is absent.
//   - AddItem appends with set-union semantics at the storage layer (a concurrent
//     duplicate add of the identical item is idempotent); it does NOT coalesce
//     duplicate productIds; that only happens on the reconciliation path.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID string, item Item) error
	RemoveItem(ctx context.Context, userID string, item Item) error
	SetItems(ctx context.Context, userID string, items []Item) error
	Clear(ctx context.Context, userID string) error
}

// GuestStore is the outbound port for the pre-authentication guest cart.
//
// All operations are best-effort: a storage-write failure is swallowed because
// guest-cart loss is non-fatal (the shopper can re-add items).
type GuestStore interface {
	Get(sessionID string) []Item
	Set(sessionID string, items []Item)
	AddItem(sessionID string, item Item) []Item
	Clear(sessionID string)
}
