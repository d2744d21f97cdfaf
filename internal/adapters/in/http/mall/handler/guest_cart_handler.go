package mallHandler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	usecase "caterhub/internal/application/usecase"
	cartdom "caterhub/internal/domain/cart"
)

// GuestCartHandler serves the pre-authentication guest cart. No auth: the
// session is identified by the X-Guest-Session header; the first call
// without one gets a generated session id back.
//
//	POST   /mall/guest/session     mint a session id
//	GET    /mall/guest/cart        current items + count
//	PUT    /mall/guest/cart        replace items
//	DELETE /mall/guest/cart        clear
//	POST   /mall/guest/cart/items  add one item (coalesces by productId)
type GuestCartHandler struct {
	uc *usecase.CartUsecase
}

func NewGuestCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &GuestCartHandler{uc: uc}
}

func (h *GuestCartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")

	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "guest cart handler is not configured")
		return
	}

	if r.Method == http.MethodPost && strings.HasSuffix(path, "/guest/session") {
		writeJSON(w, http.StatusCreated, map[string]string{"sessionId": uuid.NewString()})
		return
	}

	sid := guestSessionID(r)
	if sid == "" {
		writeErr(w, http.StatusBadRequest, "X-Guest-Session header is required")
		return
	}

	isItems := strings.HasSuffix(path, "/cart/items")

	switch {
	case r.Method == http.MethodGet && !isItems:
		h.respond(w, h.uc.GuestGet(sid))

	case r.Method == http.MethodPut && !isItems:
		var req struct {
			Items []cartdom.Item `json:"items"`
		}
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		h.respond(w, h.uc.GuestSet(sid, req.Items))

	case r.Method == http.MethodDelete && !isItems:
		h.uc.GuestClear(sid)
		h.respond(w, []cartdom.Item{})

	case r.Method == http.MethodPost && isItems:
		var item cartdom.Item
		if err := readJSON(r, &item); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if strings.TrimSpace(item.ProductID) == "" {
			writeErr(w, http.StatusBadRequest, "productId is required")
			return
		}
		h.respond(w, h.uc.GuestAdd(sid, item))

	default:
		methodNotAllowed(w)
	}
}

func (h *GuestCartHandler) respond(w http.ResponseWriter, items []cartdom.Item) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": cartdom.CountItems(items),
	})
}
