package notifier

import (
	"log"
	"sync"
)

// Kind discriminates badge messages.
type Kind int

const (
	// KindAbsolute carries an authoritative new count.
	KindAbsolute Kind = iota
	// KindDelta carries an incremental adjustment, floor-clamped at 0.
	KindDelta
)

// Message is a typed cart-count change.
type Message struct {
	Kind Kind
	N    int
}

func Absolute(n int) Message { return Message{Kind: KindAbsolute, N: n} }
func Delta(n int) Message    { return Message{Kind: KindDelta, N: n} }

// CartBadge is a process-wide publish mechanism for cart item counts.
// Not a queue: delivery is fire-and-forget with last-write-wins semantics,
// each subscriber channel conflated to the latest count. A missed message
// before a listener mounts is corrected by that listener's initial load.
//
// Counts are tracked per subject (uid or guest session id) so independent
// shoppers never see each other's badge.
type CartBadge struct {
	mu     sync.Mutex
	counts map[string]int
	subs   map[string]map[chan int]struct{}
}

func NewCartBadge() *CartBadge {
	return &CartBadge{
		counts: map[string]int{},
		subs:   map[string]map[chan int]struct{}{},
	}
}

// Publish applies msg to subject's count and fans the new count out to
// subscribers. Delta adjustments never take the count below 0.
func (b *CartBadge) Publish(subject string, msg Message) int {
	if b == nil || subject == "" {
		return 0
	}

	b.mu.Lock()
	n := b.counts[subject]
	switch msg.Kind {
	case KindAbsolute:
		n = msg.N
	case KindDelta:
		n += msg.N
	}
	if n < 0 {
		n = 0
	}
	b.counts[subject] = n

	for ch := range b.subs[subject] {
		// conflate: drop the stale value if the subscriber hasn't read it
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- n:
		default:
		}
	}
	b.mu.Unlock()

	log.Printf("[cart_badge] subject=%s count=%d", subject, n)
	return n
}

// Count returns subject's current count.
func (b *CartBadge) Count(subject string) int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[subject]
}

// Subscribe registers a listener for subject. The returned channel yields the
// latest count (capacity 1, conflated). Call the cancel func to unsubscribe.
func (b *CartBadge) Subscribe(subject string) (<-chan int, func()) {
	ch := make(chan int, 1)
	if b == nil || subject == "" {
		close(ch)
		return ch, func() {}
	}

	b.mu.Lock()
	set, ok := b.subs[subject]
	if !ok {
		set = map[chan int]struct{}{}
		b.subs[subject] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[subject]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, subject)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}
