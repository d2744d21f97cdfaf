package mallHandler

import (
	"errors"
	"net/http"
	"strings"

	usecase "caterhub/internal/application/usecase"
	authuc "caterhub/internal/application/usecase/auth"
	userdom "caterhub/internal/domain/user"
)

// AuthHandler serves the unauthenticated auth entry points.
//
//	POST /mall/auth/register        create account (+ admin secret gate)
//	POST /mall/auth/password-reset  mail a reset link
type AuthHandler struct {
	uc *authuc.Usecase
}

func NewAuthHandler(uc *authuc.Usecase) http.Handler {
	return &AuthHandler{uc: uc}
}

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	AdminSecret string `json:"adminSecret"`
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "auth handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case strings.HasSuffix(path, "/register"):
		var req registerReq
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		id, err := h.uc.Register(r.Context(), authuc.RegisterInput{
			Email:       req.Email,
			Password:    req.Password,
			Name:        req.Name,
			Phone:       req.Phone,
			Role:        req.Role,
			AdminSecret: req.AdminSecret,
		})
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrAdminSecretMismatch):
				writeErr(w, http.StatusUnauthorized, err.Error())
			case errors.Is(err, authuc.ErrInvalidArgument),
				errors.Is(err, userdom.ErrInvalidRole):
				writeErr(w, http.StatusBadRequest, err.Error())
			default:
				writeUsecaseErr(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"uid":   id.UID,
			"email": id.Email,
		})

	case strings.HasSuffix(path, "/password-reset"):
		var req struct {
			Email string `json:"email"`
		}
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := h.uc.SendPasswordReset(r.Context(), req.Email); err != nil {
			if errors.Is(err, authuc.ErrInvalidArgument) {
				writeErr(w, http.StatusBadRequest, err.Error())
				return
			}
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		notFound(w)
	}
}
