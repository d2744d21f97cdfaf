package cart

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
)

// Item represents one line item in a cart.
// Identity inside a cart is ProductID; merging line items with the same
// ProductID sums Qty.
type Item struct {
	ProductID  string  `json:"productId" firestore:"productId"`
	Name       string  `json:"name" firestore:"name"`
	Price      float64 `json:"price" firestore:"price"`
	Qty        int     `json:"qty" firestore:"qty"`
	Image      string  `json:"image,omitempty" firestore:"image,omitempty"`
	SellerID   string  `json:"sellerId,omitempty" firestore:"sellerId,omitempty"`
	SellerName string  `json:"sellerName,omitempty" firestore:"sellerName,omitempty"`
}

// Cart represents one cart document.
//   - authenticated cart: docId = uid (Firestore carts/{uid})
//   - guest cart: id = guest session id (local store)
//
// A cart is owned by exactly one subject at a time; the guest cart is folded
// into the remote cart at sign-in and then destroyed.
type Cart struct {
	ID        string    `json:"id" firestore:"id"`
	Items     []Item    `json:"items" firestore:"items"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New creates a cart. items can be nil (treated as empty).
func New(id string, items []Item, now time.Time) (*Cart, error) {
	c := &Cart{
		ID:        strings.TrimSpace(id),
		Items:     NormalizeItems(items),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add merges item into the cart. Same ProductID sums Qty; Qty defaults to 1
// when the incoming item has Qty <= 0.
func (c *Cart) Add(item Item, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(item.ProductID)
	if pid == "" {
		return ErrInvalidCart
	}
	item.ProductID = pid
	if item.Qty <= 0 {
		item.Qty = 1
	}

	if c.Items == nil {
		c.Items = []Item{}
	}

	idx := findItemIndex(c.Items, pid)
	if idx >= 0 {
		c.Items[idx].Qty += item.Qty
	} else {
		c.Items = append(c.Items, item)
	}

	c.touch(now)
	return c.validate()
}

// SetQty sets quantity for productID. qty <= 0 removes the item.
func (c *Cart) SetQty(productID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidCart
	}

	idx := findItemIndex(c.Items, pid)
	if qty <= 0 {
		if idx >= 0 {
			c.Items = removeIndex(c.Items, idx)
		}
		c.touch(now)
		return c.validate()
	}

	if idx < 0 {
		return ErrInvalidCart
	}
	c.Items[idx].Qty = qty
	c.touch(now)
	return c.validate()
}

// Remove deletes the line item for productID (no-op when absent).
func (c *Cart) Remove(productID string, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidCart
	}
	if idx := findItemIndex(c.Items, pid); idx >= 0 {
		c.Items = removeIndex(c.Items, idx)
	}
	c.touch(now)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear(now time.Time) {
	if c == nil {
		return
	}
	c.Items = []Item{}
	c.touch(now)
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// TotalQty is the badge count: sum of all quantities (qty defaults to 1).
func (c *Cart) TotalQty() int {
	if c == nil {
		return 0
	}
	return CountItems(c.Items)
}

// CountItems sums quantities over items, treating qty <= 0 as 1.
func CountItems(items []Item) int {
	n := 0
	for _, it := range items {
		q := it.Qty
		if q <= 0 {
			q = 1
		}
		n += q
	}
	return n
}

// Merge folds src items into dst items, coalescing by ProductID (qty summed).
// dst order is preserved; new items are appended in src order.
func Merge(dst, src []Item) []Item {
	out := NormalizeItems(dst)
	for _, it := range NormalizeItems(src) {
		if idx := findItemIndex(out, it.ProductID); idx >= 0 {
			out[idx].Qty += it.Qty
		} else {
			out = append(out, it)
		}
	}
	return out
}

// NormalizeItems trims ids, defaults qty to 1, drops items without a productId
// and coalesces duplicate productIds by summing qty.
func NormalizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			continue
		}
		it.ProductID = pid
		if it.Qty <= 0 {
			it.Qty = 1
		}
		if idx := findItemIndex(out, pid); idx >= 0 {
			out[idx].Qty += it.Qty
			continue
		}
		out = append(out, it)
	}
	return out
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	for _, it := range c.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Qty <= 0 {
			return ErrInvalidCart
		}
	}
	return nil
}

func findItemIndex(items []Item, productID string) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func removeIndex(items []Item, idx int) []Item {
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out
}
