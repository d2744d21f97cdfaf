package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	orderdom "caterhub/internal/domain/order"
	userdom "caterhub/internal/domain/user"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrOrderNotFound        = errors.New("order_usecase: not found")
	ErrOrderForbidden       = errors.New("order_usecase: forbidden")
)

// OrderUsecase serves order reads and seller/system status transitions.
type OrderUsecase struct {
	repo   orderdom.Repository
	users  userdom.Repository
	mailer Mailer
	clock  Clock
}

func NewOrderUsecase(repo orderdom.Repository, users userdom.Repository, mailer Mailer) *OrderUsecase {
	return &OrderUsecase{repo: repo, users: users, mailer: mailer, clock: systemClock{}}
}

func NewOrderUsecaseWithClock(repo orderdom.Repository, users userdom.Repository, mailer Mailer, clock Clock) *OrderUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &OrderUsecase{repo: repo, users: users, mailer: mailer, clock: clock}
}

// Get returns one order; callers enforce visibility.
func (uc *OrderUsecase) Get(ctx context.Context, orderID string) (*orderdom.Order, error) {
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return nil, ErrOrderInvalidArgument
	}
	o, err := uc.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// ListForBuyer returns buyerID's orders, newest first.
// A storage failure degrades to an empty list (logged).
func (uc *OrderUsecase) ListForBuyer(ctx context.Context, buyerID string) []*orderdom.Order {
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return []*orderdom.Order{}
	}
	out, err := uc.repo.ListByBuyer(ctx, bid)
	if err != nil {
		log.Printf("[order_uc] list-buyer degraded to empty buyerId=%s err=%v", bid, err)
		return []*orderdom.Order{}
	}
	return out
}

// ListForSeller returns sellerID's orders, newest first.
func (uc *OrderUsecase) ListForSeller(ctx context.Context, sellerID string) []*orderdom.Order {
	sid := strings.TrimSpace(sellerID)
	if sid == "" {
		return []*orderdom.Order{}
	}
	out, err := uc.repo.ListBySeller(ctx, sid)
	if err != nil {
		log.Printf("[order_uc] list-seller degraded to empty sellerId=%s err=%v", sid, err)
		return []*orderdom.Order{}
	}
	return out
}

// UpdateStatus transitions the order, enforcing the state machine and that
// only the owning seller (or an admin) may move it. Buyers never transition
// orders after creation.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, orderID, actorUID string, actorRole userdom.Role, next orderdom.Status) (*orderdom.Order, error) {
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return nil, ErrOrderInvalidArgument
	}

	o, err := uc.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	if actorRole != userdom.RoleAdmin && o.SellerID != strings.TrimSpace(actorUID) {
		return nil, ErrOrderForbidden
	}

	if err := o.Transition(next, uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, oid, next); err != nil {
		return nil, err
	}
	log.Printf("[order_uc] status-updated orderId=%s status=%s actor=%s", oid, next, actorUID)

	uc.notifyBuyer(ctx, o)
	return o, nil
}

// notifyBuyer emails the buyer about the status change, best-effort.
func (uc *OrderUsecase) notifyBuyer(ctx context.Context, o *orderdom.Order) {
	if uc.mailer == nil || uc.users == nil || o == nil {
		return
	}
	profile, err := uc.users.GetByUID(ctx, o.BuyerID)
	if err != nil || profile == nil || strings.TrimSpace(profile.Email) == "" {
		return
	}
	if err := uc.mailer.SendOrderStatus(ctx, profile.Email, profile.Name, o.ID, o.Status); err != nil {
		log.Printf("[order_uc] WARN: status mail failed orderId=%s err=%v", o.ID, err)
	}
}
