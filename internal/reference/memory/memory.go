package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"sentinel/internal/domain"
)

// Storage is an in-memory reference collection kept in insertion order.
type Storage struct {
	mu   sync.RWMutex
	docs []domain.Document
}

// NewStorage creates a store seeded with docs.
func NewStorage(docs ...domain.Document) *Storage {
	return &Storage{docs: append([]domain.Document(nil), docs...)}
}

// Name returns the identifier of this provider implementation.
func (s *Storage) Name() string { return "memory" }

// References returns a copy of the stored collection.
func (s *Storage) References(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Document(nil), s.docs...), nil
}

// Add appends a reference.
func (s *Storage) Add(ctx context.Context, doc domain.Document) error {
	if strings.TrimSpace(doc.Title) == "" {
		return errors.New("reference title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

// Clear removes every reference.
func (s *Storage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
}
