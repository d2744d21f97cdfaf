package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	orderdom "caterhub/internal/domain/order"
)

var (
	ErrRatingInvalidArgument = errors.New("rating_usecase: invalid argument")
	ErrRatingForbidden       = errors.New("rating_usecase: forbidden")
)

// RatingUsecase handles buyer ratings on delivered order line items.
//
// The one-rating-per-line-item guard is enforced against the stored order at
// write time (conditional write inside RateItemTx), not client-visible state,
// and the product aggregate is updated with increment semantics in the same
// transaction so concurrent submissions for the same product never lose
// updates.
type RatingUsecase struct {
	orders orderdom.Repository
}

func NewRatingUsecase(orders orderdom.Repository) *RatingUsecase {
	return &RatingUsecase{orders: orders}
}

// RateOrderItem submits buyerID's rating for one line item of orderID.
func (uc *RatingUsecase) RateOrderItem(ctx context.Context, orderID, buyerID, productID string, value int) error {
	oid := strings.TrimSpace(orderID)
	bid := strings.TrimSpace(buyerID)
	pid := strings.TrimSpace(productID)
	if oid == "" || bid == "" || pid == "" {
		return ErrRatingInvalidArgument
	}
	if value < 1 || value > 5 {
		return orderdom.ErrInvalidRatingValue
	}

	o, err := uc.orders.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if o == nil {
		return ErrOrderNotFound
	}
	if o.BuyerID != bid {
		return ErrRatingForbidden
	}

	if err := uc.orders.RateItemTx(ctx, oid, pid, value); err != nil {
		return err
	}
	log.Printf("[rating_uc] rated orderId=%s productId=%s value=%d", oid, pid, value)
	return nil
}
