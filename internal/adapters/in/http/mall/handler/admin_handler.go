package mallHandler

import (
	"net/http"
	"strings"

	"caterhub/internal/adapters/in/http/middleware"
	usecase "caterhub/internal/application/usecase"
)

// AdminHandler serves the admin console surface. Every route re-checks the
// stored role; the token alone never grants admin.
//
//	GET    /mall/admin/users                      all profiles
//	DELETE /mall/admin/users/{uid}                delete profile
//	PATCH  /mall/admin/users/{uid}                {"isActive": bool}
//	GET    /mall/admin/seller-requests            pending requests
//	POST   /mall/admin/seller-requests/{uid}      approve
//	POST   /mall/admin/products/{id}/approve      activate product
//	PUT    /mall/admin/secret                     rotate admin secret
type AdminHandler struct {
	users    *usecase.UserUsecase
	products *usecase.ProductUsecase
	settings *usecase.SettingsUsecase
}

func NewAdminHandler(users *usecase.UserUsecase, products *usecase.ProductUsecase, settings *usecase.SettingsUsecase) http.Handler {
	return &AdminHandler{users: users, products: products, settings: settings}
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.users == nil {
		writeErr(w, http.StatusInternalServerError, "admin handler is not configured")
		return
	}
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	actor, err := h.users.Get(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	role := actor.Role

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	// users
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/admin/users"):
		out, err := h.users.ListAll(r.Context(), role)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": out})

	case r.Method == http.MethodDelete && pathTail(path, "/mall/admin/users") != "":
		target := pathTail(path, "/mall/admin/users")
		if err := h.users.Delete(r.Context(), target, role); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodPatch && pathTail(path, "/mall/admin/users") != "":
		target := pathTail(path, "/mall/admin/users")
		var req struct {
			IsActive *bool `json:"isActive"`
		}
		if err := readJSON(r, &req); err != nil || req.IsActive == nil {
			writeErr(w, http.StatusBadRequest, "isActive is required")
			return
		}
		if err := h.users.SetActive(r.Context(), target, *req.IsActive, role); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	// seller requests
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/admin/seller-requests"):
		out, err := h.users.ListSellerRequests(r.Context(), role)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"requests": out})

	case r.Method == http.MethodPost && pathTail(path, "/mall/admin/seller-requests") != "":
		target := pathTail(path, "/mall/admin/seller-requests")
		if err := h.users.ApproveSellerRole(r.Context(), target, role); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	// product approval
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/approve"):
		if h.products == nil {
			writeErr(w, http.StatusInternalServerError, "product approval is not configured")
			return
		}
		pid := pathTail(strings.TrimSuffix(path, "/approve"), "/mall/admin/products")
		if pid == "" {
			writeErr(w, http.StatusBadRequest, "product id is required")
			return
		}
		if err := h.products.Approve(r.Context(), pid, role); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	// admin secret rotation
	case r.Method == http.MethodPut && strings.HasSuffix(path, "/admin/secret"):
		if h.settings == nil {
			writeErr(w, http.StatusInternalServerError, "settings are not configured")
			return
		}
		var req struct {
			Secret string `json:"secret"`
		}
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := h.settings.UpdateAdminSecret(r.Context(), req.Secret, role); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		notFound(w)
	}
}
