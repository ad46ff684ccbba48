package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions is an in-memory session registry
type Sessions struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]map[string]time.Duration
	Err    error
}

func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[uuid.UUID]map[string]time.Duration)}
}

func (s *Sessions) Register(ctx context.Context, operatorID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.tokens[operatorID] == nil {
		s.tokens[operatorID] = make(map[string]time.Duration)
	}
	s.tokens[operatorID][tokenID] = ttl
	return nil
}

func (s *Sessions) IsActive(ctx context.Context, operatorID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.tokens[operatorID][tokenID]
	return ok, nil
}

func (s *Sessions) RevokeAll(ctx context.Context, operatorID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	removed := int64(len(s.tokens[operatorID]))
	delete(s.tokens, operatorID)
	return removed, nil
}
