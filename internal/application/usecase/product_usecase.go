package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	productdom "caterhub/internal/domain/product"
	userdom "caterhub/internal/domain/user"
)

var (
	ErrProductInvalidArgument = errors.New("product_usecase: invalid argument")
	ErrProductNotFound        = errors.New("product_usecase: not found")
	ErrProductForbidden       = errors.New("product_usecase: forbidden")
)

// ProductUsecase serves catalog reads and seller product management.
type ProductUsecase struct {
	repo  productdom.Repository
	clock Clock
}

func NewProductUsecase(repo productdom.Repository) *ProductUsecase {
	return &ProductUsecase{repo: repo, clock: systemClock{}}
}

func NewProductUsecaseWithClock(repo productdom.Repository, clock Clock) *ProductUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &ProductUsecase{repo: repo, clock: clock}
}

// CreateInput is a seller's product draft.
type CreateInput struct {
	SellerID    string
	SellerName  string
	Name        string
	Description string
	Category    string
	Price       float64
	Serves      int

	Image        string
	ThumbnailURL string
	CardURL      string
}

// Create registers a new product. It starts inactive (pending approval) with
// rating fields zeroed, regardless of what the caller supplies.
func (uc *ProductUsecase) Create(ctx context.Context, in CreateInput) (string, error) {
	p, err := productdom.New(in.SellerID, in.SellerName, in.Name, in.Price, uc.clock.Now())
	if err != nil {
		return "", err
	}
	p.Description = strings.TrimSpace(in.Description)
	p.Category = strings.TrimSpace(in.Category)
	p.Serves = in.Serves
	p.Image = strings.TrimSpace(in.Image)
	p.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	p.CardURL = strings.TrimSpace(in.CardURL)

	id, err := uc.repo.Create(ctx, p)
	if err != nil {
		return "", err
	}
	log.Printf("[product_uc] created id=%s sellerId=%s", id, p.SellerID)
	return id, nil
}

// Get returns one product.
func (uc *ProductUsecase) Get(ctx context.Context, id string) (*productdom.Product, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, ErrProductInvalidArgument
	}
	p, err := uc.repo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// List returns the catalog (newest first), filtered and sorted client-style.
// A storage failure degrades to an empty list.
func (uc *ProductUsecase) List(ctx context.Context, category string, sortKey productdom.SortKey, activeOnly bool) []*productdom.Product {
	items, err := uc.repo.List(ctx)
	if err != nil {
		log.Printf("[product_uc] list degraded to empty err=%v", err)
		return []*productdom.Product{}
	}
	out := productdom.Filter(items, category, activeOnly)
	productdom.Sort(out, sortKey)
	return out
}

// ListBySeller returns sellerID's own products, newest first (includes
// inactive drafts).
func (uc *ProductUsecase) ListBySeller(ctx context.Context, sellerID string) []*productdom.Product {
	sid := strings.TrimSpace(sellerID)
	if sid == "" {
		return []*productdom.Product{}
	}
	items, err := uc.repo.ListBySeller(ctx, sid)
	if err != nil {
		log.Printf("[product_uc] list-seller degraded to empty sellerId=%s err=%v", sid, err)
		return []*productdom.Product{}
	}
	productdom.Sort(items, productdom.SortNewest)
	return items
}

// Update patches product fields. Only the owning seller or an admin may
// update; isActive may only be flipped by an admin.
func (uc *ProductUsecase) Update(ctx context.Context, id, actorUID string, actorRole userdom.Role, fields map[string]any) error {
	p, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if actorRole != userdom.RoleAdmin && p.SellerID != strings.TrimSpace(actorUID) {
		return ErrProductForbidden
	}
	if _, ok := fields["isActive"]; ok && actorRole != userdom.RoleAdmin {
		delete(fields, "isActive")
	}
	if len(fields) == 0 {
		return nil
	}
	return uc.repo.Update(ctx, p.ID, fields)
}

// Approve activates a product for the public catalog (admin only).
func (uc *ProductUsecase) Approve(ctx context.Context, id string, actorRole userdom.Role) error {
	if actorRole != userdom.RoleAdmin {
		return ErrProductForbidden
	}
	p, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	return uc.repo.Update(ctx, p.ID, map[string]any{"isActive": true})
}

// Delete removes a product. Only the owning seller or an admin may delete.
func (uc *ProductUsecase) Delete(ctx context.Context, id, actorUID string, actorRole userdom.Role) error {
	p, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if actorRole != userdom.RoleAdmin && p.SellerID != strings.TrimSpace(actorUID) {
		return ErrProductForbidden
	}
	return uc.repo.Delete(ctx, p.ID)
}
