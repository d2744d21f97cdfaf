package mallHandler

import (
	"net/http"
	"strings"

	"caterhub/internal/adapters/in/http/middleware"
	usecase "caterhub/internal/application/usecase"
)

// UserHandler serves the caller's own profile.
//
//	GET   /mall/me/profile         current profile
//	PATCH /mall/me/profile         update name/phone/address
//	POST  /mall/me/seller-request  request seller role
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) http.Handler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "user handler is not configured")
		return
	}
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/profile"):
		p, err := h.uc.Get(r.Context(), uid)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case r.Method == http.MethodPatch && strings.HasSuffix(path, "/profile"):
		var fields map[string]any
		if err := readJSON(r, &fields); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		// privileged fields are stripped again in the usecase
		if err := h.uc.UpdateProfile(r.Context(), uid, fields); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		p, err := h.uc.Get(r.Context(), uid)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/seller-request"):
		if err := h.uc.RequestSellerRole(r.Context(), uid); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		methodNotAllowed(w)
	}
}
