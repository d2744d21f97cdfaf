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

	productdom "caterhub/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products, auto docId
// - rating aggregate fields: rating, ratingTotal, ratingCount
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// Create stores the product and returns the generated docId.
func (r *ProductRepositoryFS) Create(ctx context.Context, p *productdom.Product) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("product_repository_fs: firestore client is nil")
	}
	if p == nil {
		return "", errors.New("product_repository_fs: product is nil")
	}
	ref, _, err := r.col().Add(ctx, p)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// Update patches whitelisted fields. Field names arrive pre-validated from
// the usecase layer; a nil value deletes the field.
func (r *ProductRepositoryFS) Update(ctx context.Context, id string, fields map[string]any) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return errors.New("product_repository_fs: id is empty")
	}
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		if v == nil {
			updates = append(updates, firestore.Update{Path: k, Value: firestore.Delete})
			continue
		}
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	_, err := r.col().Doc(pid).Update(ctx, updates)
	return err
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return errors.New("product_repository_fs: id is empty")
	}
	_, err := r.col().Doc(pid).Delete(ctx)
	return err
}

// GetByID returns (nil, nil) if not found (nil policy).
func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, errors.New("product_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return productFromSnapshot(snap)
}

// List returns the whole catalog, newest first. Visibility filtering happens
// in the usecase layer.
func (r *ProductRepositoryFS) List(ctx context.Context) ([]*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	it := r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return drainProducts(it)
}

// ListBySeller returns sellerID's products, newest first (drafts included).
func (r *ProductRepositoryFS) ListBySeller(ctx context.Context, sellerID string) ([]*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(sellerID)
	if sid == "" {
		return []*productdom.Product{}, nil
	}
	it := r.col().
		Where("sellerId", "==", sid).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	return drainProducts(it)
}

func drainProducts(it *firestore.DocumentIterator) ([]*productdom.Product, error) {
	defer it.Stop()
	out := []*productdom.Product{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := productFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func productFromSnapshot(snap *firestore.DocumentSnapshot) (*productdom.Product, error) {
	if snap == nil {
		return nil, errors.New("product_repository_fs: snapshot is nil")
	}
	var p productdom.Product
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.ID = snap.Ref.ID
	return &p, nil
}
