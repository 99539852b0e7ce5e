package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/piwi3910/BoxPack/internal/model"
)

// MemoryStore keeps orders in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]model.Order
	hub    *hub
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]model.Order),
		hub:    newHub(),
	}
}

func (s *MemoryStore) Create(_ context.Context, order model.Order) error {
	if order.ID == "" {
		return fmt.Errorf("create order: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("create order %s: already exists", order.ID)
	}
	s.orders[order.ID] = cloneOrder(order)
	s.hub.publish(s.snapshotLocked())
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("get order %s: %w", id, ErrNotFound)
	}
	return cloneOrder(o), nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("update order %s: %w", id, ErrNotFound)
	}
	o.Status = status
	s.orders[id] = o
	s.hub.publish(s.snapshotLocked())
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("delete order %s: %w", id, ErrNotFound)
	}
	delete(s.orders, id)
	s.hub.publish(s.snapshotLocked())
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub.subscribe(ctx, s.snapshotLocked()), nil
}

// Close ends all open subscriptions.
func (s *MemoryStore) Close() error {
	s.hub.closeAll()
	return nil
}

func (s *MemoryStore) snapshotLocked() []model.Order {
	list := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		list = append(list, cloneOrder(o))
	}
	sortOrders(list)
	return list
}
