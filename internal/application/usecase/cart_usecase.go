package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"caterhub/internal/application/notifier"
	cartdom "caterhub/internal/domain/cart"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
)

// CartUsecase coordinates the guest cart, the remote cart and the badge.
type CartUsecase struct {
	repo  cartdom.Repository
	guest cartdom.GuestStore
	badge *notifier.CartBadge
	clock Clock
}

func NewCartUsecase(repo cartdom.Repository, guest cartdom.GuestStore, badge *notifier.CartBadge) *CartUsecase {
	return &CartUsecase{
		repo:  repo,
		guest: guest,
		badge: badge,
		clock: systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, guest cartdom.GuestStore, badge *notifier.CartBadge, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{repo: repo, guest: guest, badge: badge, clock: clock}
}

// ----------------------------------------
// Remote (authenticated) cart
// ----------------------------------------

// Get returns the remote cart items for uid.
// A storage failure degrades to an empty cart (logged, not surfaced): total
// failure here means "show empty state, allow retry", never a crash.
func (uc *CartUsecase) Get(ctx context.Context, userID string) []cartdom.Item {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return []cartdom.Item{}
	}

	c, err := uc.repo.GetByUserID(ctx, uid)
	if err != nil {
		log.Printf("[cart_uc] get degraded to empty userId=%s err=%v", uid, err)
		return []cartdom.Item{}
	}
	items := c.Items
	if items == nil {
		items = []cartdom.Item{}
	}
	uc.publishAbsolute(uid, cartdom.CountItems(items))
	return items
}

// AddItem appends item to uid's remote cart (set-union at the storage layer;
// no coalescing by productId here; that only happens on reconciliation).
func (uc *CartUsecase) AddItem(ctx context.Context, userID string, item cartdom.Item) error {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(item.ProductID)
	if uid == "" || pid == "" {
		return ErrCartInvalidArgument
	}
	item.ProductID = pid
	if item.Qty <= 0 {
		item.Qty = 1
	}

	if err := uc.repo.AddItem(ctx, uid, item); err != nil {
		return err
	}
	uc.publishDelta(uid, item.Qty)
	log.Printf("[cart_uc] add-item userId=%s productId=%s qty=%d", uid, pid, item.Qty)
	return nil
}

// SetItems replaces uid's remote cart wholesale (last-write-wins path).
func (uc *CartUsecase) SetItems(ctx context.Context, userID string, items []cartdom.Item) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ErrCartInvalidArgument
	}

	normalized := cartdom.NormalizeItems(items)
	if err := uc.repo.SetItems(ctx, uid, normalized); err != nil {
		return err
	}
	uc.publishAbsolute(uid, cartdom.CountItems(normalized))
	return nil
}

// RemoveItem removes the exact line item from uid's remote cart.
func (uc *CartUsecase) RemoveItem(ctx context.Context, userID string, item cartdom.Item) error {
	uid := strings.TrimSpace(userID)
	if uid == "" || strings.TrimSpace(item.ProductID) == "" {
		return ErrCartInvalidArgument
	}

	if err := uc.repo.RemoveItem(ctx, uid, item); err != nil {
		return err
	}
	qty := item.Qty
	if qty <= 0 {
		qty = 1
	}
	uc.publishDelta(uid, -qty)
	return nil
}

// Clear empties uid's remote cart.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ErrCartInvalidArgument
	}
	if err := uc.repo.Clear(ctx, uid); err != nil {
		return err
	}
	uc.publishAbsolute(uid, 0)
	return nil
}

// ----------------------------------------
// Guest cart (best-effort, pre-authentication)
// ----------------------------------------

func (uc *CartUsecase) GuestGet(sessionID string) []cartdom.Item {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || uc.guest == nil {
		return []cartdom.Item{}
	}
	items := uc.guest.Get(sid)
	uc.publishAbsolute(guestSubject(sid), cartdom.CountItems(items))
	return items
}

func (uc *CartUsecase) GuestAdd(sessionID string, item cartdom.Item) []cartdom.Item {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || uc.guest == nil || strings.TrimSpace(item.ProductID) == "" {
		return []cartdom.Item{}
	}
	items := uc.guest.AddItem(sid, item)
	uc.publishAbsolute(guestSubject(sid), cartdom.CountItems(items))
	return items
}

func (uc *CartUsecase) GuestSet(sessionID string, items []cartdom.Item) []cartdom.Item {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || uc.guest == nil {
		return []cartdom.Item{}
	}
	normalized := cartdom.NormalizeItems(items)
	uc.guest.Set(sid, normalized)
	uc.publishAbsolute(guestSubject(sid), cartdom.CountItems(normalized))
	return normalized
}

func (uc *CartUsecase) GuestClear(sessionID string) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || uc.guest == nil {
		return
	}
	uc.guest.Clear(sid)
	uc.publishAbsolute(guestSubject(sid), 0)
}

// ----------------------------------------
// Reconciliation (sign-in transition)
// ----------------------------------------

// Reconcile folds the guest cart into uid's remote cart, exactly once per
// sign-in transition:
//
//   - remote empty, guest non-empty: guest cart becomes the remote cart verbatim
//   - both non-empty: guest items are merged into the remote cart, coalescing
//     by productId (summing qty); dropping them silently would lose data
//   - guest empty: no-op (which makes a second run idempotent)
//
// In every executed branch the guest store is cleared afterwards and is never
// read again for this session until a future explicit sign-out.
func (uc *CartUsecase) Reconcile(ctx context.Context, sessionID, userID string) ([]cartdom.Item, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	var guest []cartdom.Item
	sid := strings.TrimSpace(sessionID)
	if sid != "" && uc.guest != nil {
		guest = uc.guest.Get(sid)
	}

	remote, err := uc.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	remoteItems := []cartdom.Item{}
	if remote != nil && remote.Items != nil {
		remoteItems = remote.Items
	}

	if len(guest) == 0 {
		uc.publishAbsolute(uid, cartdom.CountItems(remoteItems))
		return remoteItems, nil
	}

	var merged []cartdom.Item
	if len(remoteItems) == 0 {
		merged = cartdom.NormalizeItems(guest)
	} else {
		merged = cartdom.Merge(remoteItems, guest)
		log.Printf("[cart_uc] reconcile merged guest into remote userId=%s guestItems=%d remoteItems=%d", uid, len(guest), len(remoteItems))
	}

	// Write remote first; clear the guest store only once the write stuck, so
	// a failure here cannot lose the shopper's cart.
	if err := uc.repo.SetItems(ctx, uid, merged); err != nil {
		return nil, err
	}
	if sid != "" && uc.guest != nil {
		uc.guest.Clear(sid)
		uc.publishAbsolute(guestSubject(sid), 0)
	}

	uc.publishAbsolute(uid, cartdom.CountItems(merged))
	log.Printf("[cart_uc] reconcile done userId=%s items=%d", uid, len(merged))
	return merged, nil
}

// ----------------------------------------
// badge helpers
// ----------------------------------------

func (uc *CartUsecase) publishAbsolute(subject string, n int) {
	if uc.badge != nil {
		uc.badge.Publish(subject, notifier.Absolute(n))
	}
}

func (uc *CartUsecase) publishDelta(subject string, n int) {
	if uc.badge != nil {
		uc.badge.Publish(subject, notifier.Delta(n))
	}
}

func guestSubject(sessionID string) string {
	return "guest:" + sessionID
}
