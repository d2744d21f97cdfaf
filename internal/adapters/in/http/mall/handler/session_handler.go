package mallHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"caterhub/internal/adapters/in/http/middleware"
	authuc "caterhub/internal/application/usecase/auth"
)

// SessionHandler serves the authenticated session lifecycle.
//
//	POST   /mall/me/session       sign-in bootstrap (gates + cart reconcile)
//	GET    /mall/me/session       fresh provider view (verified-flag sync)
//	DELETE /mall/me/session       sign out (revoke refresh tokens)
//	POST   /mall/me/verification  re-send the verification mail
type SessionHandler struct {
	uc *authuc.Usecase
}

func NewSessionHandler(uc *authuc.Usecase) http.Handler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "session handler is not configured")
		return
	}

	uid, email, name, emailVerified, federated, ok := middleware.CurrentSession(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	if strings.HasSuffix(path, "/verification") {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if err := h.uc.SendVerification(r.Context(), uid); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	switch r.Method {
	case http.MethodPost:
		profile, err := h.uc.SignInBootstrap(r.Context(), authuc.Session{
			UID:           uid,
			Email:         email,
			Name:          name,
			EmailVerified: emailVerified,
			Federated:     federated,
		}, guestSessionID(r))
		if err != nil {
			switch {
			case errors.Is(err, authuc.ErrEmailNotVerified),
				errors.Is(err, authuc.ErrAccountInactive):
				writeErr(w, http.StatusForbidden, err.Error())
			default:
				writeUsecaseErr(w, err)
			}
			return
		}
		log.Printf("[mall_session] bootstrap ok uid=%s role=%s", uid, profile.Role)
		writeJSON(w, http.StatusOK, profile)

	case http.MethodGet:
		id, err := h.uc.ReloadSession(r.Context(), uid)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"uid":           id.UID,
			"email":         id.Email,
			"name":          id.DisplayName,
			"emailVerified": id.EmailVerified,
		})

	case http.MethodDelete:
		if err := h.uc.SignOut(r.Context(), uid); err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		methodNotAllowed(w)
	}
}
