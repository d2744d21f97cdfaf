package mallHandler

import (
	"net/http"
	"strconv"
	"strings"

	"caterhub/internal/adapters/in/http/middleware"
	usecase "caterhub/internal/application/usecase"
	productdom "caterhub/internal/domain/product"
)

// CatalogHandler serves the public product catalog (no auth).
//
//	GET /mall/products                      active products
//	GET /mall/products/{id}                 one product
//
// Query params: category, sort (newest|price-asc|price-desc|rating).
type CatalogHandler struct {
	uc *usecase.ProductUsecase
}

func NewCatalogHandler(uc *usecase.ProductUsecase) http.Handler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "catalog handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := pathTail(r.URL.Path, "/mall/products")
	if id == "" {
		category := r.URL.Query().Get("category")
		sortKey := productdom.SortKey(strings.TrimSpace(r.URL.Query().Get("sort")))
		items := h.uc.List(r.Context(), category, sortKey, true)
		writeJSON(w, http.StatusOK, map[string]any{"products": items})
		return
	}

	p, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	if !p.IsActive {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SellerProductHandler serves seller product management (auth required).
//
//	GET    /mall/seller/products        own products (drafts included)
//	POST   /mall/seller/products        create draft
//	PATCH  /mall/seller/products/{id}   update fields
//	DELETE /mall/seller/products/{id}   delete
type SellerProductHandler struct {
	uc    *usecase.ProductUsecase
	roles roleResolver
}

func NewSellerProductHandler(uc *usecase.ProductUsecase, users *usecase.UserUsecase) http.Handler {
	return &SellerProductHandler{uc: uc, roles: roleResolver{users: users}}
}

type productCreateReq struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Serves       int     `json:"serves"`
	Image        string  `json:"image"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	CardURL      string  `json:"cardUrl"`
}

func (h *SellerProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "seller product handler is not configured")
		return
	}
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.roles.users.Get(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	id := pathTail(r.URL.Path, "/mall/seller/products")

	switch {
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, map[string]any{"products": h.uc.ListBySeller(r.Context(), uid)})

	case r.Method == http.MethodPost && id == "":
		if profile.Role != "seller" && profile.Role != "admin" {
			writeErr(w, http.StatusForbidden, "seller role required")
			return
		}
		var req productCreateReq
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		pid, err := h.uc.Create(r.Context(), usecase.CreateInput{
			SellerID:     uid,
			SellerName:   profile.Name,
			Name:         req.Name,
			Description:  req.Description,
			Category:     req.Category,
			Price:        req.Price,
			Serves:       req.Serves,
			Image:        req.Image,
			ThumbnailURL: req.ThumbnailURL,
			CardURL:      req.CardURL,
		})
		if err != nil {
			if err == productdom.ErrInvalidProduct {
				writeErr(w, http.StatusBadRequest, err.Error())
				return
			}
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": pid})

	case r.Method == http.MethodPatch && id != "":
		var fields map[string]any
		if err := readJSON(r, &fields); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		sanitizeProductFields(fields)
		if err := h.uc.Update(r.Context(), id, uid, profile.Role, fields); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodDelete && id != "":
		if err := h.uc.Delete(r.Context(), id, uid, profile.Role); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		methodNotAllowed(w)
	}
}

// sanitizeProductFields keeps only patchable fields and normalizes number
// types coming out of encoding/json.
func sanitizeProductFields(fields map[string]any) {
	allowed := map[string]bool{
		"name": true, "description": true, "category": true,
		"price": true, "serves": true,
		"image": true, "thumbnailUrl": true, "cardUrl": true,
		"isActive": true,
	}
	for k, v := range fields {
		if !allowed[k] {
			delete(fields, k)
			continue
		}
		if k == "serves" {
			switch n := v.(type) {
			case float64:
				fields[k] = int(n)
			case string:
				if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
					fields[k] = i
				} else {
					delete(fields, k)
				}
			}
		}
	}
	// rating aggregates are owned by the rating flow
	delete(fields, "rating")
	delete(fields, "ratingTotal")
	delete(fields, "ratingCount")
}
