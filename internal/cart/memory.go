package cart

import "sync"

// MemoryStore keeps lines in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	lines []Line
}

// NewMemoryStore returns an empty in-memory cart.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(line Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *MemoryStore) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkIndex(index, len(s.lines)); err != nil {
		return err
	}
	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	return nil
}

func (s *MemoryStore) List() ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...), nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return nil
}
