package order

import (
	"errors"
	"math"
	"strings"
	"time"

	cartdom "caterhub/internal/domain/cart"
)

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID            = errors.New("order: invalid id")
	ErrInvalidBuyerID       = errors.New("order: invalid buyerId")
	ErrInvalidItems         = errors.New("order: invalid items")
	ErrInvalidStatus        = errors.New("order: invalid status")
	ErrInvalidPayment       = errors.New("order: invalid paymentMethod")
	ErrInvalidTransition    = errors.New("order: invalid status transition")
	ErrAlreadyRated         = errors.New("order: line item already rated")
	ErrLineItemNotFound     = errors.New("order: line item not found")
	ErrInvalidRatingValue   = errors.New("order: rating value out of range")
	ErrNotDeliveredYet      = errors.New("order: not delivered yet")
	ErrInvalidDeliveryAddr  = errors.New("order: invalid deliveryAddress")
	ErrItemsRequired        = errors.New("order: at least one item required")
	ErrNegativeTotal        = errors.New("order: negative totalAmount")
	ErrInvalidSpecialNotes  = errors.New("order: invalid specialInstructions")
	ErrInvalidRatingContext = errors.New("order: rating requires delivered order")
)

// ========================================
// Status state machine
// ========================================

// Status is the order lifecycle state. Transitions are monotonic:
//
//	Pending   -> Confirmed | Cancelled
//	Confirmed -> Preparing | Cancelled
//	Preparing -> Delivered
//
// Delivered and Cancelled are terminal. Transitions are seller- or
// system-triggered, never buyer-triggered after creation.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusPreparing Status = "Preparing"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus validates s against the known states.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if _, ok := transitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether s -> to is a legal move.
func (s Status) CanTransition(to Status) bool {
	for _, n := range transitions[s] {
		if n == to {
			return true
		}
	}
	return false
}

// ========================================
// Payment method
// ========================================

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCash PaymentMethod = "cash"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.TrimSpace(strings.ToLower(s))) {
	case PaymentCard:
		return PaymentCard, nil
	case PaymentUPI:
		return PaymentUPI, nil
	case PaymentCash:
		return PaymentCash, nil
	}
	return "", ErrInvalidPayment
}

// ========================================
// Snapshot structs
// ========================================

// Item is a cart line item snapshot frozen into an order at checkout.
// The only mutation allowed after creation is attaching RatingUser once the
// order is delivered.
type Item struct {
	ProductID  string  `json:"productId" firestore:"productId"`
	Name       string  `json:"name" firestore:"name"`
	Price      float64 `json:"price" firestore:"price"`
	Qty        int     `json:"qty" firestore:"qty"`
	Image      string  `json:"image,omitempty" firestore:"image,omitempty"`
	SellerID   string  `json:"sellerId,omitempty" firestore:"sellerId,omitempty"`
	SellerName string  `json:"sellerName,omitempty" firestore:"sellerName,omitempty"`

	// RatingUser is the buyer-submitted rating (1..5) for this line item.
	// nil means "not rated yet"; once set it can never change.
	RatingUser *int `json:"ratingUser,omitempty" firestore:"ratingUser,omitempty"`
}

// SnapshotItems freezes cart items into order items.
func SnapshotItems(items []cartdom.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range cartdom.NormalizeItems(items) {
		out = append(out, Item{
			ProductID:  it.ProductID,
			Name:       it.Name,
			Price:      it.Price,
			Qty:        it.Qty,
			Image:      it.Image,
			SellerID:   it.SellerID,
			SellerName: it.SellerName,
		})
	}
	return out
}

// DeliveryAddress is the delivery destination snapshot.
type DeliveryAddress struct {
	Address string `json:"address" firestore:"address"`
	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	Postal  string `json:"postal" firestore:"postal"`
}

// ========================================
// Totals
// ========================================

const taxRate = 0.05

// Totals is the checkout aggregation over a cart's line items.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals computes subtotal/tax/total from line items.
// Tax is 5% of the subtotal rounded half-up to the nearest integer currency
// unit (12.5 -> 13, never banker's rounding).
func ComputeTotals(items []cartdom.Item) Totals {
	subtotal := 0.0
	for _, it := range items {
		qty := it.Qty
		if qty <= 0 {
			qty = 1
		}
		subtotal += it.Price * float64(qty)
	}
	tax := roundHalfUp(subtotal * taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// roundHalfUp rounds to the nearest integer with ties going up.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID         string `json:"id" firestore:"-"`
	BuyerID    string `json:"buyerId" firestore:"buyerId"`
	BuyerName  string `json:"buyerName" firestore:"buyerName"`
	SellerID   string `json:"sellerId" firestore:"sellerId"`
	SellerName string `json:"sellerName" firestore:"sellerName"`

	Items       []Item  `json:"items" firestore:"items"`
	TotalAmount float64 `json:"totalAmount" firestore:"totalAmount"`

	DeliveryAddress     DeliveryAddress `json:"deliveryAddress" firestore:"deliveryAddress"`
	SpecialInstructions string          `json:"specialInstructions" firestore:"specialInstructions"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod" firestore:"paymentMethod"`

	Status    Status    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New creates an order snapshot from checkout input. Status starts Pending.
func New(
	buyerID, buyerName, sellerID, sellerName string,
	items []Item,
	totalAmount float64,
	addr DeliveryAddress,
	instructions string,
	payment PaymentMethod,
	now time.Time,
) (*Order, error) {
	o := &Order{
		BuyerID:             strings.TrimSpace(buyerID),
		BuyerName:           strings.TrimSpace(buyerName),
		SellerID:            strings.TrimSpace(sellerID),
		SellerName:          strings.TrimSpace(sellerName),
		Items:               items,
		TotalAmount:         totalAmount,
		DeliveryAddress:     addr,
		SpecialInstructions: strings.TrimSpace(instructions),
		PaymentMethod:       payment,
		Status:              StatusPending,
		CreatedAt:           now.UTC(),
		UpdatedAt:           now.UTC(),
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Order) validate() error {
	if o.BuyerID == "" {
		return ErrInvalidBuyerID
	}
	if len(o.Items) == 0 {
		return ErrItemsRequired
	}
	for _, it := range o.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Qty <= 0 {
			return ErrInvalidItems
		}
	}
	if o.TotalAmount < 0 {
		return ErrNegativeTotal
	}
	if _, err := ParsePaymentMethod(string(o.PaymentMethod)); err != nil {
		return err
	}
	return nil
}

// Transition moves the order to next, enforcing the state machine.
func (o *Order) Transition(next Status, now time.Time) error {
	if o == nil {
		return ErrInvalidStatus
	}
	if _, ok := transitions[next]; !ok {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransition(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = now.UTC()
	return nil
}

// RateItem attaches a buyer rating to the line item for productID.
// Allowed only once per line item and only after delivery.
func (o *Order) RateItem(productID string, value int, now time.Time) error {
	if o == nil {
		return ErrInvalidStatus
	}
	if o.Status != StatusDelivered {
		return ErrNotDeliveredYet
	}
	if value < 1 || value > 5 {
		return ErrInvalidRatingValue
	}
	pid := strings.TrimSpace(productID)
	for i := range o.Items {
		if o.Items[i].ProductID != pid {
			continue
		}
		if o.Items[i].RatingUser != nil {
			return ErrAlreadyRated
		}
		v := value
		o.Items[i].RatingUser = &v
		o.UpdatedAt = now.UTC()
		return nil
	}
	return ErrLineItemNotFound
}
