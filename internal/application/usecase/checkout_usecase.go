package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	cartdom "caterhub/internal/domain/cart"
	orderdom "caterhub/internal/domain/order"
)

var (
	ErrCheckoutEmptyCart      = errors.New("checkout: cart is empty")
	ErrCheckoutInvalidBuyer   = errors.New("checkout: buyerId is empty")
	ErrCheckoutOrdersMissing  = errors.New("checkout: order repository is not configured")
	ErrCheckoutCartUCMissing  = errors.New("checkout: cart usecase is not configured")
)

// CheckoutInput is the app-level checkout request.
type CheckoutInput struct {
	BuyerID   string
	BuyerName string

	DeliveryAddress     orderdom.DeliveryAddress
	SpecialInstructions string
	PaymentMethod       string
}

// CheckoutResult reports what was created.
type CheckoutResult struct {
	OrderID string
	Totals  orderdom.Totals
	Order   *orderdom.Order
}

// CheckoutUsecase orchestrates "cart -> totals -> order -> clear cart".
//
// Ordering matters: the immutable order record is written first and the cart
// is cleared only after that write succeeds. A crash in between leaves the
// cart intact (resubmission risk, never data loss).
type CheckoutUsecase struct {
	orders orderdom.Repository
	cartUC *CartUsecase
	clock  Clock
}

func NewCheckoutUsecase(orders orderdom.Repository, cartUC *CartUsecase) *CheckoutUsecase {
	return &CheckoutUsecase{orders: orders, cartUC: cartUC, clock: systemClock{}}
}

func NewCheckoutUsecaseWithClock(orders orderdom.Repository, cartUC *CartUsecase, clock Clock) *CheckoutUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CheckoutUsecase{orders: orders, cartUC: cartUC, clock: clock}
}

// PlaceOrder snapshots the buyer's remote cart into an order.
func (uc *CheckoutUsecase) PlaceOrder(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if uc.orders == nil {
		return CheckoutResult{}, ErrCheckoutOrdersMissing
	}
	if uc.cartUC == nil {
		return CheckoutResult{}, ErrCheckoutCartUCMissing
	}

	buyerID := strings.TrimSpace(in.BuyerID)
	if buyerID == "" {
		return CheckoutResult{}, ErrCheckoutInvalidBuyer
	}

	payment, err := orderdom.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return CheckoutResult{}, err
	}

	items := uc.cartUC.Get(ctx, buyerID)
	if len(items) == 0 {
		return CheckoutResult{}, ErrCheckoutEmptyCart
	}

	totals := orderdom.ComputeTotals(items)
	sellerID, sellerName := sellerOfCart(items)

	now := uc.clock.Now()
	o, err := orderdom.New(
		buyerID, in.BuyerName, sellerID, sellerName,
		orderdom.SnapshotItems(items),
		totals.Total,
		in.DeliveryAddress,
		in.SpecialInstructions,
		payment,
		now,
	)
	if err != nil {
		return CheckoutResult{}, err
	}

	orderID, err := uc.orders.Create(ctx, o)
	if err != nil {
		return CheckoutResult{}, err
	}
	o.ID = orderID

	// Clear only after the order write succeeded. A failed clear is logged
	// and swallowed: the order exists, the stale cart is a UX wart, not loss.
	if err := uc.cartUC.Clear(ctx, buyerID); err != nil {
		log.Printf("[checkout_uc] WARN: cart clear failed after order create buyerId=%s orderId=%s err=%v", buyerID, orderID, err)
	}

	log.Printf("[checkout_uc] order created buyerId=%s orderId=%s total=%.2f items=%d", buyerID, orderID, totals.Total, len(items))
	return CheckoutResult{OrderID: orderID, Totals: totals, Order: o}, nil
}

// sellerOfCart resolves the order's seller from the first line item carrying
// one (single-seller carts are the stated assumption).
func sellerOfCart(items []cartdom.Item) (string, string) {
	for _, it := range items {
		if strings.TrimSpace(it.SellerID) != "" {
			name := strings.TrimSpace(it.SellerName)
			if name == "" {
				name = "Unknown seller"
			}
			return strings.TrimSpace(it.SellerID), name
		}
	}
	return "unknown", "Unknown seller"
}
