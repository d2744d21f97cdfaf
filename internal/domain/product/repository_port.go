package product

import "context"

// Repository is the outbound port for the products collection.
//
// Policy:
//   - GetByID returns (nil, nil) when the doc is absent.
//   - Rating aggregation is not exposed here: a rating submission mutates the
//     order and the product in one transaction, so it lives on the order port.
type Repository interface {
	Create(ctx context.Context, p *Product) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Product, error)
}
