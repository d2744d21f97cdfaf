package mallHandler

import (
	"log"
	"net/http"
	"time"

	"caterhub/internal/adapters/in/http/middleware"
	usecase "caterhub/internal/application/usecase"
	orderdom "caterhub/internal/domain/order"
)

// CheckoutHandler serves POST /mall/me/checkout: snapshot the remote cart
// into an order and clear the cart.
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

type checkoutReq struct {
	BuyerName           string                   `json:"buyerName"`
	DeliveryAddress     orderdom.DeliveryAddress `json:"deliveryAddress"`
	SpecialInstructions string                   `json:"specialInstructions"`
	PaymentMethod       string                   `json:"paymentMethod"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
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

	var req checkoutReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.uc.PlaceOrder(r.Context(), usecase.CheckoutInput{
		BuyerID:             uid,
		BuyerName:           req.BuyerName,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		PaymentMethod:       req.PaymentMethod,
	})
	if err != nil {
		if err == orderdom.ErrInvalidPayment || err == orderdom.ErrItemsRequired {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeUsecaseErr(w, err)
		return
	}

	log.Printf("[mall_checkout] order placed userId=%s orderId=%s elapsed=%s", uid, res.OrderID, time.Since(start))
	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId": res.OrderID,
		"totals":  res.Totals,
		"order":   res.Order,
	})
}
