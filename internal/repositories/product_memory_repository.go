package repositories

import (
	"context"
	"sync"

	"catalog/internal/errs"
	"catalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// Only the last product saved under each title is kept.
type MemoryProductRepository struct {
	latest map[string]models.ProductResponse
	ids    *Sequence
	mu     sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		latest: make(map[string]models.ProductResponse),
		ids:    NewSequence(FirstProductID),
	}
}

// Save assigns a fresh id and makes the product the latest one for its title.
func (r *MemoryProductRepository) Save(_ context.Context, product *models.ProductResponse) error {
	if product == nil {
		return errs.InvalidArgument("product must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.ids.Next()
	product.ID = &id
	r.latest[product.Title] = *product
	return nil
}

// FindByTitle returns a copy of the most recently saved product with the given title.
func (r *MemoryProductRepository) FindByTitle(_ context.Context, title string) (*models.ProductResponse, error) {
	if title == "" {
		return nil, errs.InvalidArgument("title must not be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.latest[title]
	if !ok {
		return nil, errs.NotFound("product", "title", title)
	}
	id := *product.ID
	product.ID = &id
	return &product, nil
}
