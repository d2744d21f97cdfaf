package mallHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"caterhub/internal/adapters/in/http/middleware"
	usecase "caterhub/internal/application/usecase"
	orderdom "caterhub/internal/domain/order"
)

// RatingHandler serves POST /mall/me/orders/{id}/ratings:
// rate one delivered line item, once.
type RatingHandler struct {
	uc *usecase.RatingUsecase
}

func NewRatingHandler(uc *usecase.RatingUsecase) http.Handler {
	return &RatingHandler{uc: uc}
}

type ratingReq struct {
	ProductID string `json:"productId"`
	Value     int    `json:"value"`
}

func (h *RatingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "rating handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID := ratingOrderID(r.URL.Path)
	if orderID == "" {
		writeErr(w, http.StatusBadRequest, "order id is required")
		return
	}

	var req ratingReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	err := h.uc.RateOrderItem(r.Context(), orderID, uid, req.ProductID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, orderdom.ErrAlreadyRated):
			writeErr(w, http.StatusConflict, err.Error())
		case errors.Is(err, orderdom.ErrNotDeliveredYet),
			errors.Is(err, orderdom.ErrInvalidRatingValue),
			errors.Is(err, orderdom.ErrLineItemNotFound):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			writeUsecaseErr(w, err)
		}
		return
	}

	log.Printf("[mall_rating] rated orderId=%s productId=%s value=%d", orderID, req.ProductID, req.Value)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ratingOrderID extracts {id} from /mall/me/orders/{id}/ratings.
func ratingOrderID(path string) string {
	p := strings.TrimRight(path, "/")
	if !strings.HasSuffix(p, "/ratings") {
		return ""
	}
	p = strings.TrimSuffix(p, "/ratings")
	return pathTail(p, "/mall/me/orders")
}
