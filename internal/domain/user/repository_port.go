package user

import "context"

// Repository is the outbound port for the users collection.
//
// Policy:
//   - GetByUID returns (nil, nil) when the doc is absent.
//   - Ensure writes with merge semantics (never clobbers fields it does not set).
//   - ListSellerRequests returns profiles with requestedRole == "seller",
//     newest first.
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*Profile, error)
	Ensure(ctx context.Context, p *Profile) error
	Update(ctx context.Context, uid string, fields map[string]any) error
	Delete(ctx context.Context, uid string) error
	ListAll(ctx context.Context) ([]*Profile, error)
	ListSellerRequests(ctx context.Context) ([]*Profile, error)
}
