package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the cart in a JSON file so it survives restarts. Every
// operation reads and rewrites the whole file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path. The file is
// created on the first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Add(line Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load()
	if err != nil {
		return err
	}
	return s.save(append(lines, line))
}

func (s *FileStore) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load()
	if err != nil {
		return err
	}
	if err := checkIndex(index, len(lines)); err != nil {
		return err
	}
	return s.save(append(lines[:index], lines[index+1:]...))
}

func (s *FileStore) List() ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(nil)
}

func (s *FileStore) load() ([]Line, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse cart: %w", err)
	}
	return lines, nil
}

func (s *FileStore) save(lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cart directory: %w", err)
	}
	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}
