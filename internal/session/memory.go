package session

import (
	"context"
	"sync"
)

// MemoryStore holds a token pair in memory only. Used in tests and when no
// persistence path is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	set     bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Tokens(ctx context.Context) (string, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", "", ErrNoSession
	}
	return s.access, s.refresh, nil
}

func (s *MemoryStore) SetTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.set = true
	return nil
}

func (s *MemoryStore) SetAccess(ctx context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return ErrNoSession
	}
	s.access = access
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh, s.set = "", "", false
	return nil
}
