package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient is an alias so router deps can take
// *middleware.FirebaseAuthClient without importing the SDK.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type to avoid collisions (SA1029)
type ctxKey struct{ name string }

var (
	ctxKeyUID           = ctxKey{name: "uid"}
	ctxKeyEmail         = ctxKey{name: "email"}
	ctxKeyName          = ctxKey{name: "name"}
	ctxKeyEmailVerified = ctxKey{name: "emailVerified"}
	ctxKeyFederated     = ctxKey{name: "federated"}
)

// UserAuth verifies the Firebase ID token on Authorization: Bearer <token>
// and stores uid/email/name plus the verification flags in the request
// context. Requests without a valid token are rejected.
type UserAuth struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *UserAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUID, uid)

		if e := claimString(token.Claims, "email"); e != "" {
			ctx = context.WithValue(ctx, ctxKeyEmail, e)
		}
		if n := claimString(token.Claims, "name"); n != "" {
			ctx = context.WithValue(ctx, ctxKeyName, n)
		}
		if v, ok := token.Claims["email_verified"].(bool); ok && v {
			ctx = context.WithValue(ctx, ctxKeyEmailVerified, true)
		}
		if federatedProvider(token) {
			ctx = context.WithValue(ctx, ctxKeyFederated, true)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// federatedProvider reports whether the token came from a provider that
// verifies email out-of-band (anything but email/password).
func federatedProvider(token *fbauth.Token) bool {
	if token == nil {
		return false
	}
	sp := strings.TrimSpace(token.Firebase.SignInProvider)
	return sp != "" && sp != "password"
}

func claimString(claims map[string]any, key string) string {
	if claims == nil {
		return ""
	}
	if raw, ok := claims[key]; ok {
		if s, ok2 := raw.(string); ok2 {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// CurrentUID returns the verified Firebase UID.
func CurrentUID(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyUID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// CurrentSession returns everything the sign-in bootstrap needs from the
// verified token.
func CurrentSession(r *http.Request) (uid, email, name string, emailVerified, federated, ok bool) {
	uid, ok = CurrentUID(r)
	if !ok {
		return "", "", "", false, false, false
	}
	if v, okV := r.Context().Value(ctxKeyEmail).(string); okV {
		email = strings.TrimSpace(v)
	}
	if v, okV := r.Context().Value(ctxKeyName).(string); okV {
		name = strings.TrimSpace(v)
	}
	if v, okV := r.Context().Value(ctxKeyEmailVerified).(bool); okV {
		emailVerified = v
	}
	if v, okV := r.Context().Value(ctxKeyFederated).(bool); okV {
		federated = v
	}
	return uid, email, name, emailVerified, federated, true
}
