package mall

import (
	"encoding/json"
	"log"
	"net/http"

	mallhttp "caterhub/internal/adapters/in/http/mall"
	mallhandler "caterhub/internal/adapters/in/http/mall/handler"
	"caterhub/internal/adapters/in/http/middleware"
)

// notImplemented returns a non-nil handler (so deps are never nil) for
// endpoints that are not wired yet.
func notImplemented(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotImplemented)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "not_implemented",
			"name":  name,
		})
	})
}

// requireUserAuth wraps handler with the user auth middleware (fail-closed).
// If the middleware is not initialized, it returns 503 so the bug is obvious.
func requireUserAuth(mw *middleware.UserAuth, h http.Handler, name string) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	if mw == nil || mw.FirebaseAuth == nil {
		log.Printf("[mall.register] ERROR: user auth middleware is not initialized (endpoint=%s). returning 503", name)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "user_auth_not_initialized",
				"name":  name,
			})
		})
	}
	return mw.Handler(h)
}

// Register constructs handlers from the container and registers the
// marketplace routes onto mux.
// - no method/path branching here
// - deps must be non-nil for all handlers
// - user auth is applied to every /mall/me, /mall/seller and /mall/admin route
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	var userAuthMW *middleware.UserAuth
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		userAuthMW = &middleware.UserAuth{FirebaseAuth: cont.Infra.FirebaseAuth}
	} else {
		// fail-closed in requireUserAuth
		log.Printf("[mall.register] WARN: FirebaseAuth is nil (protected endpoints will return 503)")
		userAuthMW = &middleware.UserAuth{FirebaseAuth: nil}
	}

	// ----------------------------
	// Handlers (construct only)
	// ----------------------------
	catalogH := notImplemented("Catalog")
	authH := notImplemented("Auth")
	sessionH := notImplemented("Session")
	cartH := notImplemented("Cart")
	cartBadgeH := notImplemented("CartBadge")
	guestCartH := notImplemented("GuestCart")
	guestBadgeH := notImplemented("GuestCartBadge")
	checkoutH := notImplemented("Checkout")
	orderH := notImplemented("Order")
	ratingH := notImplemented("Rating")
	userH := notImplemented("User")
	sellerProductH := notImplemented("SellerProduct")
	sellerOrderH := notImplemented("SellerOrder")
	uploadH := notImplemented("Upload")
	adminH := notImplemented("Admin")

	if cont.ProductUC != nil {
		catalogH = mallhandler.NewCatalogHandler(cont.ProductUC)
	}
	if cont.AuthUC != nil {
		authH = mallhandler.NewAuthHandler(cont.AuthUC)
		sessionH = mallhandler.NewSessionHandler(cont.AuthUC)
	}
	if cont.CartUC != nil {
		cartH = mallhandler.NewCartHandler(cont.CartUC)
		guestCartH = mallhandler.NewGuestCartHandler(cont.CartUC)
	}
	if cont.Badge != nil {
		cartBadgeH = mallhandler.NewCartBadgeHandler(cont.Badge)
		guestBadgeH = mallhandler.NewGuestCartBadgeHandler(cont.Badge)
	}
	if cont.CheckoutUC != nil {
		checkoutH = mallhandler.NewCheckoutHandler(cont.CheckoutUC)
	}
	if cont.OrderUC != nil && cont.UserUC != nil {
		orderH = mallhandler.NewOrderHandler(cont.OrderUC, cont.UserUC)
		sellerOrderH = mallhandler.NewSellerOrderHandler(cont.OrderUC, cont.UserUC)
	}
	if cont.RatingUC != nil {
		ratingH = mallhandler.NewRatingHandler(cont.RatingUC)
	}
	if cont.UserUC != nil {
		userH = mallhandler.NewUserHandler(cont.UserUC)
	}
	if cont.ProductUC != nil && cont.UserUC != nil {
		sellerProductH = mallhandler.NewSellerProductHandler(cont.ProductUC, cont.UserUC)
	}
	if cont.Uploader != nil && cont.UserUC != nil {
		uploadH = mallhandler.NewUploadHandler(cont.Uploader, cont.UserUC)
	}
	if cont.UserUC != nil {
		adminH = mallhandler.NewAdminHandler(cont.UserUC, cont.ProductUC, cont.SettingsUC)
	}

	// ------------------------------------------------------------
	// Apply user auth to every authenticated handler
	// ------------------------------------------------------------
	sessionH = requireUserAuth(userAuthMW, sessionH, "Session")
	cartH = requireUserAuth(userAuthMW, cartH, "Cart")
	cartBadgeH = requireUserAuth(userAuthMW, cartBadgeH, "CartBadge")
	checkoutH = requireUserAuth(userAuthMW, checkoutH, "Checkout")
	orderH = requireUserAuth(userAuthMW, orderH, "Order")
	ratingH = requireUserAuth(userAuthMW, ratingH, "Rating")
	userH = requireUserAuth(userAuthMW, userH, "User")
	sellerProductH = requireUserAuth(userAuthMW, sellerProductH, "SellerProduct")
	sellerOrderH = requireUserAuth(userAuthMW, sellerOrderH, "SellerOrder")
	uploadH = requireUserAuth(userAuthMW, uploadH, "Upload")
	adminH = requireUserAuth(userAuthMW, adminH, "Admin")

	mallhttp.Register(mux, mallhttp.Deps{
		Catalog: catalogH,

		Auth:    authH,
		Session: sessionH,

		Cart:       cartH,
		CartBadge:  cartBadgeH,
		GuestCart:  guestCartH,
		GuestBadge: guestBadgeH,

		Checkout: checkoutH,
		Order:    orderH,
		Rating:   ratingH,

		User: userH,

		SellerProduct: sellerProductH,
		SellerOrder:   sellerOrderH,
		Upload:        uploadH,

		Admin: adminH,
	})
	log.Printf("[boot] mall routes registered")
}
