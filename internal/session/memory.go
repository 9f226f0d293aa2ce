package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.Mutex
	actions map[int64]Action
}

func NewMemoryStore() Store {
	return &memoryStore{actions: make(map[int64]Action)}
}

func (s *memoryStore) Get(_ context.Context, userID int64) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions[userID], nil
}

func (s *memoryStore) Set(_ context.Context, userID int64, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if action == ActionNone {
		delete(s.actions, userID)
	} else {
		s.actions[userID] = action
	}
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, userID int64) error {
	return s.Set(ctx, userID, ActionNone)
}
