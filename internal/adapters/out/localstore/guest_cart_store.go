package localstore

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cartdom "caterhub/internal/domain/cart"
)

// GuestCartStore implements cart.GuestStore on per-session JSON files.
//
// The guest cart is a pre-authentication convenience: every operation is
// best-effort and failures are swallowed (logged only). A corrupt or missing
// file reads as an empty cart.
type GuestCartStore struct {
	dir string
	mu  sync.Mutex
}

// New creates the store rooted at dir, creating it if needed.
func New(dir string) *GuestCartStore {
	d := strings.TrimSpace(dir)
	if d == "" {
		d = filepath.Join(os.TempDir(), "caterhub-guest-carts")
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		log.Printf("[guest_store] WARN: mkdir failed dir=%s err=%v", d, err)
	}
	return &GuestCartStore{dir: d}
}

// Get reads the session's cart; any failure yields an empty cart.
func (s *GuestCartStore) Get(sessionID string) []cartdom.Item {
	if s == nil {
		return []cartdom.Item{}
	}
	path, ok := s.path(sessionID)
	if !ok {
		return []cartdom.Item{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[guest_store] WARN: read failed sessionId=%s err=%v", sessionID, err)
		}
		return []cartdom.Item{}
	}

	var items []cartdom.Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[guest_store] WARN: corrupt cart reset sessionId=%s err=%v", sessionID, err)
		return []cartdom.Item{}
	}
	return cartdom.NormalizeItems(items)
}

// Set overwrites the session's cart.
func (s *GuestCartStore) Set(sessionID string, items []cartdom.Item) {
	if s == nil {
		return
	}
	path, ok := s.path(sessionID)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(path, sessionID, cartdom.NormalizeItems(items))
}

// AddItem merges one item into the session's cart (coalescing by productId)
// and returns the resulting items.
func (s *GuestCartStore) AddItem(sessionID string, item cartdom.Item) []cartdom.Item {
	if s == nil {
		return []cartdom.Item{}
	}
	if strings.TrimSpace(item.ProductID) == "" {
		return s.Get(sessionID)
	}

	items := cartdom.Merge(s.Get(sessionID), []cartdom.Item{item})

	path, ok := s.path(sessionID)
	if !ok {
		return items
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(path, sessionID, items)
	return items
}

// Clear removes the session's cart file.
func (s *GuestCartStore) Clear(sessionID string) {
	if s == nil {
		return
	}
	path, ok := s.path(sessionID)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[guest_store] WARN: clear failed sessionId=%s err=%v", sessionID, err)
	}
}

func (s *GuestCartStore) write(path, sessionID string, items []cartdom.Item) {
	data, err := json.Marshal(items)
	if err != nil {
		log.Printf("[guest_store] WARN: encode failed sessionId=%s err=%v", sessionID, err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[guest_store] WARN: write failed sessionId=%s err=%v", sessionID, err)
	}
}

// path maps a session id to its file, rejecting ids that could escape dir.
func (s *GuestCartStore) path(sessionID string) (string, bool) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || !validSessionID(sid) {
		return "", false
	}
	return filepath.Join(s.dir, sid+".json"), true
}

func validSessionID(sid string) bool {
	for _, r := range sid {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
