package repositories

import (
	"context"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Save(ctx context.Context, product *models.ProductResponse) error
	FindByTitle(ctx context.Context, title string) (*models.ProductResponse, error)
}
