package order

import "context"

// Repository is the outbound port for the orders collection.
//
// Policy:
//   - Create is a single atomic append of an immutable record; callers clear
//     the originating cart only after Create succeeds.
//   - GetByID returns (nil, nil) when the doc is absent.
//   - RateItemTx must apply the line-item rating guard and the product rating
//     increments in one transaction (the "already rated" check happens against
//     the stored order at write time, not client state).
type Repository interface {
	Create(ctx context.Context, o *Order) (string, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	ListByBuyer(ctx context.Context, buyerID string) ([]*Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Order, error)
	RateItemTx(ctx context.Context, orderID, productID string, value int) error
}
