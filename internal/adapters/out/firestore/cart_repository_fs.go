package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "caterhub/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: userId (docId is the source of truth)
// - fields: items(array), createdAt, updatedAt
//
// Line items live in an array field so AddItem/RemoveItem can use the
// set-union/remove operators and never need a read-modify-write cycle.
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// GetByUserID returns the cart for userID. A missing doc is an empty cart,
// never an error (nil policy: carts always "exist").
func (r *CartRepositoryFS) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_repository_fs: userID is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &cartdom.Cart{ID: uid, Items: []cartdom.Item{}}, nil
		}
		return nil, err
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	c := doc.toDomain()
	c.ID = uid
	return c, nil
}

// AddItem appends one line item via the array-union operator. Identical
// elements collapse (set semantics); distinct qty values coexist and are
// coalesced later by reconciliation or SetItems.
func (r *CartRepositoryFS) AddItem(ctx context.Context, userID string, item cartdom.Item) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_repository_fs: userID is empty")
	}

	now := time.Now().UTC()
	_, err := r.col().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "items", Value: firestore.ArrayUnion(itemDocFromDomain(item))},
		{Path: "updatedAt", Value: now},
	})
	if err == nil {
		return nil
	}

	// first item ever for this user: create the doc
	if status.Code(err) == codes.NotFound {
		_, setErr := r.col().Doc(uid).Set(ctx, cartDoc{
			Items:     []itemDoc{itemDocFromDomain(item)},
			CreatedAt: now,
			UpdatedAt: now,
		})
		return setErr
	}
	return err
}

// RemoveItem deletes the exact line item via the array-remove operator.
// Removing from a missing doc is a no-op.
func (r *CartRepositoryFS) RemoveItem(ctx context.Context, userID string, item cartdom.Item) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_repository_fs: userID is empty")
	}

	_, err := r.col().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "items", Value: firestore.ArrayRemove(itemDocFromDomain(item))},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

// SetItems overwrites the full item array (last-write-wins path used by
// reconciliation and bulk updates).
func (r *CartRepositoryFS) SetItems(ctx context.Context, userID string, items []cartdom.Item) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_repository_fs: userID is empty")
	}

	docs := make([]itemDoc, 0, len(items))
	for _, it := range items {
		docs = append(docs, itemDocFromDomain(it))
	}

	now := time.Now().UTC()
	_, err := r.col().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "items", Value: docs},
		{Path: "updatedAt", Value: now},
	})
	if err == nil {
		return nil
	}

	// first write for this user: create the doc so createdAt is persisted
	if status.Code(err) == codes.NotFound {
		_, setErr := r.col().Doc(uid).Set(ctx, cartDoc{
			Items:     docs,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return setErr
	}
	return err
}

// Clear empties the cart. A missing doc is created empty (idempotent).
func (r *CartRepositoryFS) Clear(ctx context.Context, userID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_repository_fs: userID is empty")
	}

	now := time.Now().UTC()
	_, err := r.col().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "items", Value: []itemDoc{}},
		{Path: "updatedAt", Value: now},
	})
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		_, setErr := r.col().Doc(uid).Set(ctx, cartDoc{
			Items:     []itemDoc{},
			CreatedAt: now,
			UpdatedAt: now,
		})
		return setErr
	}
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	Items     []itemDoc `firestore:"items"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type itemDoc struct {
	ProductID  string  `firestore:"productId"`
	Name       string  `firestore:"name"`
	Price      float64 `firestore:"price"`
	Qty        int     `firestore:"qty"`
	Image      string  `firestore:"image,omitempty"`
	SellerID   string  `firestore:"sellerId,omitempty"`
	SellerName string  `firestore:"sellerName,omitempty"`
}

func itemDocFromDomain(it cartdom.Item) itemDoc {
	return itemDoc{
		ProductID:  strings.TrimSpace(it.ProductID),
		Name:       it.Name,
		Price:      it.Price,
		Qty:        it.Qty,
		Image:      it.Image,
		SellerID:   it.SellerID,
		SellerName: it.SellerName,
	}
}

func (d cartDoc) toDomain() *cartdom.Cart {
	items := make([]cartdom.Item, 0, len(d.Items))
	for _, it := range d.Items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" || it.Qty <= 0 {
			continue
		}
		items = append(items, cartdom.Item{
			ProductID:  pid,
			Name:       it.Name,
			Price:      it.Price,
			Qty:        it.Qty,
			Image:      it.Image,
			SellerID:   it.SellerID,
			SellerName: it.SellerName,
		})
	}
	return &cartdom.Cart{
		Items:     items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
