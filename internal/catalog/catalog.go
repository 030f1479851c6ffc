// Package catalog is the product directory. The memory implementation is a
// seeded mock; lookups and search are linear scans over the slice.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/internal/util"
)

var ErrNotFound = errors.New("product not found")

type ListParams struct {
	Category string
	SellerID string
	Page     int
	Size     int
}

type ProductStore interface {
	ByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, p ListParams) (int, []models.Product, error)
	Search(ctx context.Context, query string, p ListParams) (int, []models.Product, error)
	Create(ctx context.Context, prod *models.Product) error
	Update(ctx context.Context, prod *models.Product) error
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewMemoryStore(seed []models.Product) *MemoryStore {
	return &MemoryStore{products: append([]models.Product(nil), seed...)}
}

func (s *MemoryStore) ByID(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) filter(match func(*models.Product) bool, p ListParams) (int, []models.Product) {
	var out []models.Product
	for i := range s.products {
		prod := &s.products[i]
		if p.Category != "" && prod.CategoryID != p.Category {
			continue
		}
		if p.SellerID != "" && prod.SellerID != p.SellerID {
			continue
		}
		if match != nil && !match(prod) {
			continue
		}
		out = append(out, *prod)
	}

	total := len(out)
	from, limit := util.Calculate(p.Page, p.Size)
	if from >= total {
		return total, []models.Product{}
	}
	end := from + limit
	if end > total {
		end = total
	}
	return total, out[from:end]
}

func (s *MemoryStore) List(_ context.Context, p ListParams) (int, []models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total, items := s.filter(nil, p)
	return total, items, nil
}

func (s *MemoryStore) Search(_ context.Context, query string, p ListParams) (int, []models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	total, items := s.filter(func(prod *models.Product) bool {
		if q == "" {
			return true
		}
		if strings.Contains(strings.ToLower(prod.Name), q) {
			return true
		}
		if strings.Contains(strings.ToLower(prod.Description), q) {
			return true
		}
		for _, tag := range prod.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}, p)
	return total, items, nil
}

func (s *MemoryStore) Create(_ context.Context, prod *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prod.ID == "" {
		prod.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	prod.CreatedAt = now
	prod.UpdatedAt = now
	s.products = append(s.products, *prod)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, prod *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == prod.ID {
			prod.CreatedAt = s.products[i].CreatedAt
			prod.UpdatedAt = time.Now().UTC()
			s.products[i] = *prod
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SortByPrice orders a product page in place; used by the list handlers for
// the price-low / price-high sort options.
func SortByPrice(items []models.Product, ascending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return items[i].Price < items[j].Price
		}
		return items[i].Price > items[j].Price
	})
}
