package mall

import (
	"log"
	"net/http"
	"strings"
)

// Deps is the buyer-facing (mall) handler set.
type Deps struct {
	Catalog http.Handler

	Auth    http.Handler
	Session http.Handler

	Cart       http.Handler
	CartBadge  http.Handler
	GuestCart  http.Handler
	GuestBadge http.Handler

	Checkout http.Handler
	Order    http.Handler
	Rating   http.Handler

	User http.Handler

	SellerProduct http.Handler
	SellerOrder   http.Handler
	Upload        http.Handler

	Admin http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so a partial
// container can still serve).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[mall.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers buyer-facing routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// catalog (public)
	handleSafe(mux, "/mall/products", deps.Catalog, "Catalog")
	handleSafe(mux, "/mall/products/", deps.Catalog, "Catalog")

	// auth entry points (public)
	handleSafe(mux, "/mall/auth/", deps.Auth, "Auth")

	// session lifecycle
	handleSafe(mux, "/mall/me/session", deps.Session, "Session")
	handleSafe(mux, "/mall/me/session/", deps.Session, "Session")
	handleSafe(mux, "/mall/me/verification", deps.Session, "Session(verification)")

	// cart
	handleSafe(mux, "/mall/me/cart", deps.Cart, "Cart")
	handleSafe(mux, "/mall/me/cart/items", deps.Cart, "Cart(items)")
	handleSafe(mux, "/mall/me/cart/badge", deps.CartBadge, "CartBadge")

	// guest cart (public)
	handleSafe(mux, "/mall/guest/session", deps.GuestCart, "GuestCart(session)")
	handleSafe(mux, "/mall/guest/cart", deps.GuestCart, "GuestCart")
	handleSafe(mux, "/mall/guest/cart/items", deps.GuestCart, "GuestCart(items)")
	handleSafe(mux, "/mall/guest/cart/badge", deps.GuestBadge, "GuestCartBadge")

	// checkout
	handleSafe(mux, "/mall/me/checkout", deps.Checkout, "Checkout")

	// orders; /mall/me/orders/{id}/ratings dispatches to the rating handler
	handleSafe(mux, "/mall/me/orders", deps.Order, "Order")
	handleSafe(mux, "/mall/me/orders/", dispatchRatings(deps.Order, deps.Rating), "Order|Rating")

	// profile
	handleSafe(mux, "/mall/me/profile", deps.User, "User(profile)")
	handleSafe(mux, "/mall/me/seller-request", deps.User, "User(seller-request)")

	// seller surface
	handleSafe(mux, "/mall/seller/products", deps.SellerProduct, "SellerProduct")
	handleSafe(mux, "/mall/seller/products/", deps.SellerProduct, "SellerProduct")
	handleSafe(mux, "/mall/seller/orders", deps.SellerOrder, "SellerOrder")
	handleSafe(mux, "/mall/seller/orders/", deps.SellerOrder, "SellerOrder")
	handleSafe(mux, "/mall/seller/uploads", deps.Upload, "Upload")

	// admin surface
	handleSafe(mux, "/mall/admin/", deps.Admin, "Admin")
}

// dispatchRatings routes /mall/me/orders/{id}/ratings to the rating handler
// and everything else under /mall/me/orders/ to the order handler.
func dispatchRatings(orders, ratings http.Handler) http.Handler {
	if orders == nil && ratings == nil {
		return nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ratings != nil && strings.HasSuffix(strings.TrimRight(r.URL.Path, "/"), "/ratings") {
			ratings.ServeHTTP(w, r)
			return
		}
		if orders == nil {
			http.NotFound(w, r)
			return
		}
		orders.ServeHTTP(w, r)
	})
}
