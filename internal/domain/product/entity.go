package product

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidProduct     = errors.New("product: invalid")
	ErrInvalidRatingValue = errors.New("product: rating value out of range")
)

// Product is a catalog entry owned by a seller.
//
// Rating invariant: Rating == round(RatingTotal/RatingCount, 1) whenever
// RatingCount > 0. Rating is only a caller-supplied override outside the
// aggregation path (legacy docs).
type Product struct {
	ID          string  `json:"id" firestore:"-"`
	SellerID    string  `json:"sellerId" firestore:"sellerId"`
	SellerName  string  `json:"sellerName,omitempty" firestore:"sellerName,omitempty"`
	Name        string  `json:"name" firestore:"name"`
	Description string  `json:"description,omitempty" firestore:"description,omitempty"`
	Category    string  `json:"category,omitempty" firestore:"category,omitempty"`
	Price       float64 `json:"price" firestore:"price"`
	Serves      int     `json:"serves,omitempty" firestore:"serves,omitempty"`

	Image        string `json:"image,omitempty" firestore:"image,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" firestore:"thumbnailUrl,omitempty"`
	CardURL      string `json:"cardUrl,omitempty" firestore:"cardUrl,omitempty"`

	// IsActive gates catalog visibility; new seller products start inactive
	// until approved.
	IsActive bool `json:"isActive" firestore:"isActive"`

	Rating      float64 `json:"rating" firestore:"rating"`
	RatingTotal float64 `json:"ratingTotal" firestore:"ratingTotal"`
	RatingCount int     `json:"ratingCount" firestore:"ratingCount"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New creates a product draft. Rating fields start zeroed and IsActive is
// forced false unless explicitly approved later.
func New(sellerID, sellerName, name string, price float64, now time.Time) (*Product, error) {
	p := &Product{
		SellerID:   strings.TrimSpace(sellerID),
		SellerName: strings.TrimSpace(sellerName),
		Name:       strings.TrimSpace(name),
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.SellerID == "" || p.Name == "" || p.Price < 0 {
		return nil, ErrInvalidProduct
	}
	return p, nil
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// AverageRating computes the displayed average from a running (sum, count)
// pair, rounded to one decimal. Zero count yields 0.
func AverageRating(total float64, count int) float64 {
	if count <= 0 || total <= 0 {
		return 0
	}
	return Round1(total / float64(count))
}

// ApplyRating folds one rating value into the running aggregate.
// Value must be in [1,5].
func (p *Product) ApplyRating(value int, now time.Time) error {
	if p == nil {
		return ErrInvalidProduct
	}
	if value < 1 || value > 5 {
		return ErrInvalidRatingValue
	}
	p.RatingTotal += float64(value)
	p.RatingCount++
	p.Rating = AverageRating(p.RatingTotal, p.RatingCount)
	p.UpdatedAt = now
	return nil
}

// DisplayRating resolves the rating to show: an explicitly set positive
// rating field wins, otherwise the computed average, otherwise 0.
func (p *Product) DisplayRating() float64 {
	if p == nil {
		return 0
	}
	if p.Rating > 0 {
		return p.Rating
	}
	return AverageRating(p.RatingTotal, p.RatingCount)
}

// ========================================
// Catalog filtering / sorting (pure helpers)
// ========================================

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// Filter narrows a product list by category (empty matches all) and active
// visibility.
func Filter(items []*Product, category string, activeOnly bool) []*Product {
	cat := strings.TrimSpace(strings.ToLower(category))
	out := make([]*Product, 0, len(items))
	for _, p := range items {
		if p == nil {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		if cat != "" && strings.ToLower(strings.TrimSpace(p.Category)) != cat {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders items in place by key; unknown keys fall back to newest-first.
func Sort(items []*Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case SortRating:
		sort.SliceStable(items, func(i, j int) bool { return items[i].DisplayRating() > items[j].DisplayRating() })
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	}
}
