// Package orders stores placed orders and builds packaging previews for them.
package orders

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/piwi3910/BoxPack/internal/model"
)

// ErrNotFound is returned when an order id is unknown to the store.
var ErrNotFound = errors.New("order not found")

// Store persists orders. Every mutation publishes a fresh snapshot to open
// subscriptions.
type Store interface {
	Create(ctx context.Context, order model.Order) error
	Get(ctx context.Context, id string) (model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context) (*Subscription, error)
}

// Subscription receives the full order list after every change. Only the
// latest snapshot is buffered; a slow reader skips intermediate ones.
type Subscription struct {
	C <-chan []model.Order

	ch   chan []model.Order
	hub  *hub
	once sync.Once
	done chan struct{}
}

// Close stops delivery and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
}

// hub fans snapshots out to subscriptions.
type hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*Subscription]struct{})}
}

// subscribe registers a subscription primed with initial. The subscription
// is closed when ctx is done.
func (h *hub) subscribe(ctx context.Context, initial []model.Order) *Subscription {
	ch := make(chan []model.Order, 1)
	s := &Subscription{C: ch, ch: ch, hub: h, done: make(chan struct{})}
	ch <- initial

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	return s
}

func (h *hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}

// publish replaces any undelivered snapshot with snapshot.
func (h *hub) publish(snapshot []model.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case <-s.ch:
		default:
		}
		s.ch <- cloneOrders(snapshot)
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()
	for _, s := range subs {
		s.Close()
	}
}

// sortOrders orders newest first, ties broken by id.
func sortOrders(list []model.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
}

func cloneOrders(list []model.Order) []model.Order {
	out := make([]model.Order, len(list))
	for i, o := range list {
		out[i] = cloneOrder(o)
	}
	return out
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}
