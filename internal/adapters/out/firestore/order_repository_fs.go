package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "caterhub/internal/domain/order"
	productdom "caterhub/internal/domain/product"
)

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders, auto docId
// - items is a frozen snapshot array; only items[i].ratingUser mutates later
// - rating writes run as a transaction spanning orders + products
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) products() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// Create appends the order and returns the generated docId.
func (r *OrderRepositoryFS) Create(ctx context.Context, o *orderdom.Order) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("order_repository_fs: firestore client is nil")
	}
	if o == nil {
		return "", errors.New("order_repository_fs: order is nil")
	}

	ref, _, err := r.col().Add(ctx, o)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// GetByID returns (nil, nil) if not found (nil policy).
func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, errors.New("order_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return orderFromSnapshot(snap)
}

// UpdateStatus persists one status transition. The state machine is enforced
// by the caller against the current entity.
func (r *OrderRepositoryFS) UpdateStatus(ctx context.Context, id string, st orderdom.Status) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return errors.New("order_repository_fs: id is empty")
	}

	_, err := r.col().Doc(oid).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	return err
}

// ListByBuyer returns buyerID's orders, newest first.
func (r *OrderRepositoryFS) ListByBuyer(ctx context.Context, buyerID string) ([]*orderdom.Order, error) {
	return r.list(ctx, "buyerId", buyerID)
}

// ListBySeller returns sellerID's orders, newest first.
func (r *OrderRepositoryFS) ListBySeller(ctx context.Context, sellerID string) ([]*orderdom.Order, error) {
	return r.list(ctx, "sellerId", sellerID)
}

func (r *OrderRepositoryFS) list(ctx context.Context, field, value string) ([]*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return []*orderdom.Order{}, nil
	}

	it := r.col().
		Where(field, "==", v).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	out := []*orderdom.Order{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := orderFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// RateItemTx attaches a buyer rating to one delivered line item and folds the
// value into the product aggregate, atomically.
//
// The already-rated guard is evaluated against the stored order inside the
// transaction, so two concurrent submissions for the same line item cannot
// both commit. All reads happen before any write (Firestore tx rule).
func (r *OrderRepositoryFS) RateItemTx(ctx context.Context, orderID, productID string, value int) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(orderID)
	pid := strings.TrimSpace(productID)
	if oid == "" || pid == "" {
		return errors.New("order_repository_fs: orderID/productID is empty")
	}

	orderRef := r.col().Doc(oid)
	productRef := r.products().Doc(pid)

	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		orderSnap, err := tx.Get(orderRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return orderdom.ErrLineItemNotFound
			}
			return err
		}

		productSnap, productErr := tx.Get(productRef)
		productMissing := status.Code(productErr) == codes.NotFound
		if productErr != nil && !productMissing {
			return productErr
		}

		o, err := orderFromSnapshot(orderSnap)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := o.RateItem(pid, value, now); err != nil {
			return err
		}

		if err := tx.Update(orderRef, []firestore.Update{
			{Path: "items", Value: o.Items},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		// A deleted product doesn't invalidate the buyer's rating on the
		// order snapshot; there is just no aggregate left to update.
		if productMissing {
			return nil
		}

		var p productdom.Product
		if err := productSnap.DataTo(&p); err != nil {
			return err
		}
		if err := p.ApplyRating(value, now); err != nil {
			return err
		}

		return tx.Update(productRef, []firestore.Update{
			{Path: "ratingTotal", Value: firestore.Increment(float64(value))},
			{Path: "ratingCount", Value: firestore.Increment(1)},
			{Path: "rating", Value: p.Rating},
			{Path: "updatedAt", Value: now},
		})
	})
}

func orderFromSnapshot(snap *firestore.DocumentSnapshot) (*orderdom.Order, error) {
	if snap == nil {
		return nil, errors.New("order_repository_fs: snapshot is nil")
	}
	var o orderdom.Order
	if err := snap.DataTo(&o); err != nil {
		return nil, err
	}
	// docId is the source of truth
	o.ID = snap.Ref.ID
	return &o, nil
}
