package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/errs"
	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Save inserts the product and sets product.ID from the generated key.
// Titles are not unique, so every call inserts a new row.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.ProductResponse) error {
	if product == nil {
		return errs.InvalidArgument("product must not be nil")
	}

	var row models.Product
	row.FromResponse(product)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errs.Persistence("save product", err)
	}

	id := row.ID
	product.ID = &id
	return nil
}

// FindByTitle retrieves the most recently inserted product with the given title.
func (r *GORMProductRepository) FindByTitle(ctx context.Context, title string) (*models.ProductResponse, error) {
	if title == "" {
		return nil, errs.InvalidArgument("title must not be empty")
	}

	var row models.Product
	err := r.db.WithContext(ctx).Where("title = ?", title).Order("id DESC").Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("product", "title", title)
		}
		return nil, errs.Persistence(fmt.Sprintf("find product by title %s", title), err)
	}
	return row.ToResponse(), nil
}
