// Package memory provides a process-local directory store for development and
// tests. Contents are lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/99minutos/user-directory/internal/core/domain"
)

type DirectoryStore struct {
	mu   sync.RWMutex
	rows []domain.UserRecord
}

func NewDirectoryStore(seed ...domain.UserRecord) *DirectoryStore {
	s := &DirectoryStore{}
	for _, r := range seed {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.rows = append(s.rows, r)
	}
	return s
}

func (s *DirectoryStore) FetchAll(ctx context.Context) ([]domain.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *DirectoryStore) Create(ctx context.Context, record domain.UserRecord) (*domain.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rows {
		if r.Email == record.Email {
			return nil, domain.UserExists(record.Email)
		}
	}
	record.ID = uuid.NewString()
	s.rows = append(s.rows, record)

	created := record
	return &created, nil
}

// Ping always succeeds; it lets the readiness probe treat all backends alike.
func (s *DirectoryStore) Ping(context.Context) error { return nil }
