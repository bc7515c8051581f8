package services

import (
	"sync"
)

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent notifies subscribers that a table changed. It carries no row
// payload on purpose: the client contract is a full reload of the list on
// any change, not incremental patching.
type ChangeEvent struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	Seq    uint64 `json:"seq"`
}

// ChangeHub is an in-process fan-out of data-change events. Seq increases
// by one per published change; list responses embed the current value so a
// client can discard a stale response that resolves after a newer one.
type ChangeHub struct {
	mu   sync.Mutex
	seq  uint64
	subs map[chan ChangeEvent]struct{}
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{subs: make(map[chan ChangeEvent]struct{})}
}

// Publish records a change and notifies every subscriber. A subscriber
// that cannot keep up misses the event; it still sees the advanced
// sequence on its next list fetch.
func (h *ChangeHub) Publish(table, action string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	ev := ChangeEvent{Table: table, Action: action, Seq: h.seq}
	for sub := range h.subs {
		select {
		case sub <- ev:
		default:
		}
	}
	return h.seq
}

// Seq returns the sequence number of the latest published change.
func (h *ChangeHub) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// Subscribe registers a listener. The returned cancel func must be called
// when the consumer goes away.
func (h *ChangeHub) Subscribe() (<-chan ChangeEvent, func()) {
	ch := make(chan ChangeEvent, 64)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}
