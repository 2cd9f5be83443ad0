package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/ports"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save keeps the binary form of the program so later changes to prog do
// not leak into the store.
func (s *Store) Save(ctx context.Context, name string, prog *dsl.Program) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	data, err := prog.MarshalBinary()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = data
	return nil
}

// Load decodes a fresh copy of the program.
func (s *Store) Load(ctx context.Context, name string) (*dsl.Program, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ports.ErrProgramNotFound
	}
	return dsl.Decode(data)
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored program names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
