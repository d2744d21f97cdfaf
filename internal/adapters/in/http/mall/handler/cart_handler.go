package mallHandler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"caterhub/internal/adapters/in/http/middleware"
	usecase "caterhub/internal/application/usecase"
	cartdom "caterhub/internal/domain/cart"
)

// CartHandler serves the authenticated remote cart.
//
//	GET    /mall/me/cart        current items + count
//	PUT    /mall/me/cart        replace items wholesale
//	DELETE /mall/me/cart        clear
//	POST   /mall/me/cart/items  add one item
//	DELETE /mall/me/cart/items  remove one exact item
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	isItems := strings.HasSuffix(path, "/cart/items")

	switch {
	case r.Method == http.MethodGet && !isItems:
		h.respondCart(w, r, uid, start)

	case r.Method == http.MethodPut && !isItems:
		var req struct {
			Items []cartdom.Item `json:"items"`
		}
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := h.uc.SetItems(r.Context(), uid, req.Items); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		h.respondCart(w, r, uid, start)

	case r.Method == http.MethodDelete && !isItems:
		if err := h.uc.Clear(r.Context(), uid); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		h.respondCart(w, r, uid, start)

	case r.Method == http.MethodPost && isItems:
		var item cartdom.Item
		if err := readJSON(r, &item); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := h.uc.AddItem(r.Context(), uid, item); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		h.respondCart(w, r, uid, start)

	case r.Method == http.MethodDelete && isItems:
		var item cartdom.Item
		if err := readJSON(r, &item); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := h.uc.RemoveItem(r.Context(), uid, item); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		h.respondCart(w, r, uid, start)

	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, uid string, start time.Time) {
	items := h.uc.Get(r.Context(), uid)
	log.Printf("[mall_cart] respond userId=%s items=%d elapsed=%s", uid, len(items), time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": cartdom.CountItems(items),
	})
}
