package mallHandler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"caterhub/internal/adapters/in/http/middleware"
	"caterhub/internal/application/notifier"
)

// CartBadgeHandler streams the cart badge count as server-sent events.
//
//	GET /mall/me/cart/badge     (authenticated; subject = uid)
//	GET /mall/guest/cart/badge  (subject = guest session)
//
// The stream opens with the current count and then delivers one event per
// change; intermediate values may be conflated to the latest.
type CartBadgeHandler struct {
	badge *notifier.CartBadge

	// guest selects the guest variant (session id instead of uid)
	guest bool
}

func NewCartBadgeHandler(badge *notifier.CartBadge) http.Handler {
	return &CartBadgeHandler{badge: badge}
}

func NewGuestCartBadgeHandler(badge *notifier.CartBadge) http.Handler {
	return &CartBadgeHandler{badge: badge, guest: true}
}

const badgeHeartbeat = 25 * time.Second

func (h *CartBadgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.badge == nil {
		writeErr(w, http.StatusInternalServerError, "badge handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	subject := ""
	if h.guest {
		sid := guestSessionID(r)
		if sid == "" {
			writeErr(w, http.StatusBadRequest, "guest session is required")
			return
		}
		subject = "guest:" + sid
	} else {
		uid, ok := middleware.CurrentUID(r)
		if !ok {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		subject = uid
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := h.badge.Subscribe(subject)
	defer cancel()

	sendCount := func(n int) {
		fmt.Fprintf(w, "event: badge\ndata: {\"count\":%d}\n\n", n)
		flusher.Flush()
	}
	sendCount(h.badge.Count(subject))

	heartbeat := time.NewTicker(badgeHeartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[cart_badge_sse] closed subject=%s", subject)
			return
		case n, open := <-ch:
			if !open {
				return
			}
			sendCount(n)
		case <-heartbeat.C:
			// comment line keeps intermediaries from timing the stream out
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
