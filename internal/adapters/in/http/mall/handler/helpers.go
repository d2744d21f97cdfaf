package mallHandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	usecase "caterhub/internal/application/usecase"
	userdom "caterhub/internal/domain/user"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(msg)})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
}

func readJSON(r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathTail returns the path segment after prefix, "" when absent.
// pathTail("/mall/me/orders/abc", "/mall/me/orders") == "abc"
func pathTail(path, prefix string) string {
	p := strings.TrimRight(path, "/")
	if p == prefix {
		return ""
	}
	if !strings.HasPrefix(p, prefix+"/") {
		return ""
	}
	tail := strings.TrimPrefix(p, prefix+"/")
	// single segment only
	if strings.Contains(tail, "/") {
		return ""
	}
	return strings.TrimSpace(tail)
}

// guestSessionID reads the guest cart session from X-Guest-Session (header
// first, query fallback for EventSource clients that cannot set headers).
func guestSessionID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Guest-Session")); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("guestSession"))
}

// ============================================================
// role resolution
// ============================================================

// roleResolver loads the caller's stored role; handlers gate admin/seller
// operations on the users/{uid} doc, never on client-supplied claims.
type roleResolver struct {
	users *usecase.UserUsecase
}

func (rr roleResolver) resolve(ctx context.Context, uid string) (userdom.Role, error) {
	if rr.users == nil {
		return "", errors.New("role resolver not configured")
	}
	p, err := rr.users.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

// writeUsecaseErr maps the shared usecase error taxonomy onto HTTP statuses.
func writeUsecaseErr(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeErr(w, http.StatusInternalServerError, "unknown error")
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrOrderNotFound),
		errors.Is(err, usecase.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrUserForbidden),
		errors.Is(err, usecase.ErrOrderForbidden),
		errors.Is(err, usecase.ErrProductForbidden),
		errors.Is(err, usecase.ErrRatingForbidden),
		errors.Is(err, usecase.ErrSettingsForbidden):
		writeErr(w, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrAdminSecretMismatch):
		writeErr(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrUserInvalidArgument),
		errors.Is(err, usecase.ErrOrderInvalidArgument),
		errors.Is(err, usecase.ErrProductInvalidArgument),
		errors.Is(err, usecase.ErrRatingInvalidArgument),
		errors.Is(err, usecase.ErrSettingsInvalidArgument),
		errors.Is(err, usecase.ErrCheckoutEmptyCart),
		errors.Is(err, usecase.ErrCheckoutInvalidBuyer):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
