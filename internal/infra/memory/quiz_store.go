package memory

import (
	"context"
	"sync"

	"tubecert-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizStore, useful
// for tests and running without a database.
type QuizStore struct {
	mu      sync.RWMutex
	records map[string]domain.QuizRecord
}

func NewQuizStore() *QuizStore {
	return &QuizStore{records: make(map[string]domain.QuizRecord)}
}

func (s *QuizStore) Get(_ context.Context, key string) (domain.QuizRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return domain.QuizRecord{}, domain.ErrQuizNotFound
	}
	return record, nil
}

func (s *QuizStore) Put(_ context.Context, key string, record domain.QuizRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	return nil
}
