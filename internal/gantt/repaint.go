package gantt

import (
	"sort"
	"time"
)

// DefaultRedrawDelay separates a layout commit from the connector pass that
// measures it.
const DefaultRedrawDelay = 100 * time.Millisecond

// Ticket identifies one requested connector pass.
type Ticket uint64

// Repaint hands out tickets for deferred connector passes. Only the most
// recent ticket is due, so bursts of layout changes or resizes collapse into
// a single pass after they settle.
type Repaint struct {
	last Ticket
}

// Request invalidates every earlier ticket and returns a new one.
func (r *Repaint) Request() Ticket {
	r.last++
	return r.last
}

// Due reports whether t is still the latest request.
func (r Repaint) Due(t Ticket) bool {
	return t != 0 && t == r.last
}

// ClickNotifier broadcasts "task row clicked" to subscribers.
type ClickNotifier struct {
	next int
	subs map[int]func(taskID string)
}

// Subscribe registers fn and returns a function that removes it again.
func (n *ClickNotifier) Subscribe(fn func(taskID string)) (unsubscribe func()) {
	if n.subs == nil {
		n.subs = make(map[int]func(string))
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() { delete(n.subs, id) }
}

// Notify calls every subscriber in subscription order.
func (n *ClickNotifier) Notify(taskID string) {
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := n.subs[id]; ok {
			fn(taskID)
		}
	}
}

// Len is the number of active subscribers.
func (n *ClickNotifier) Len() int {
	return len(n.subs)
}
