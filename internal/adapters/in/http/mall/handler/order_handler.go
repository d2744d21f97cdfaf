package mallHandler

import (
	"errors"
	"net/http"
	"strings"

	"caterhub/internal/adapters/in/http/middleware"
	usecase "caterhub/internal/application/usecase"
	orderdom "caterhub/internal/domain/order"
)

// OrderHandler serves order reads and seller status transitions.
//
//	GET   /mall/me/orders               buyer's orders, newest first
//	GET   /mall/me/orders/{id}          one order (buyer or seller)
//	GET   /mall/seller/orders           seller's incoming orders
//	PATCH /mall/seller/orders/{id}      status transition {"status": "..."}
type OrderHandler struct {
	uc    *usecase.OrderUsecase
	roles roleResolver

	// seller selects the seller-facing routes
	seller bool
}

func NewOrderHandler(uc *usecase.OrderUsecase, users *usecase.UserUsecase) http.Handler {
	return &OrderHandler{uc: uc, roles: roleResolver{users: users}}
}

func NewSellerOrderHandler(uc *usecase.OrderUsecase, users *usecase.UserUsecase) http.Handler {
	return &OrderHandler{uc: uc, roles: roleResolver{users: users}, seller: true}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if h.seller {
		h.serveSeller(w, r, uid)
		return
	}
	h.serveBuyer(w, r, uid)
}

func (h *OrderHandler) serveBuyer(w http.ResponseWriter, r *http.Request, uid string) {
	id := pathTail(r.URL.Path, "/mall/me/orders")

	switch {
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, map[string]any{"orders": h.uc.ListForBuyer(r.Context(), uid)})

	case r.Method == http.MethodGet:
		o, err := h.uc.Get(r.Context(), id)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		// visibility: only parties to the order may read it
		if o.BuyerID != uid && o.SellerID != uid {
			writeErr(w, http.StatusForbidden, "forbidden")
			return
		}
		writeJSON(w, http.StatusOK, o)

	default:
		methodNotAllowed(w)
	}
}

func (h *OrderHandler) serveSeller(w http.ResponseWriter, r *http.Request, uid string) {
	id := pathTail(r.URL.Path, "/mall/seller/orders")

	switch {
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, map[string]any{"orders": h.uc.ListForSeller(r.Context(), uid)})

	case r.Method == http.MethodPatch && id != "":
		var req struct {
			Status string `json:"status"`
		}
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		next, err := orderdom.ParseStatus(req.Status)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}

		role, err := h.roles.resolve(r.Context(), uid)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}

		o, err := h.uc.UpdateStatus(r.Context(), id, uid, role, next)
		if err != nil {
			if errors.Is(err, orderdom.ErrInvalidTransition) {
				writeErr(w, http.StatusConflict, err.Error())
				return
			}
			if errors.Is(err, orderdom.ErrInvalidStatus) {
				writeErr(w, http.StatusBadRequest, err.Error())
				return
			}
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, o)

	default:
		if strings.TrimSpace(id) == "" && r.Method == http.MethodPatch {
			writeErr(w, http.StatusBadRequest, "order id is required")
			return
		}
		methodNotAllowed(w)
	}
}
