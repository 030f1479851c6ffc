package reviews

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/marketplace/internal/models"
)

type Store struct {
	mu      sync.RWMutex
	reviews []models.Review

	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Create(_ context.Context, review models.Review) models.Review {
	review.ID = uuid.NewString()
	review.CreatedAt = s.now()

	s.mu.Lock()
	s.reviews = append(s.reviews, review)
	s.mu.Unlock()
	return review
}

// ListByProduct returns a product's reviews, newest first.
func (s *Store) ListByProduct(_ context.Context, productID string) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Review
	for i := len(s.reviews) - 1; i >= 0; i-- {
		if s.reviews[i].ProductID == productID {
			out = append(out, s.reviews[i])
		}
	}
	return out
}
