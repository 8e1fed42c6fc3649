package services

import (
	"context"
	"fmt"
	"math"

	"catalog/internal/errs"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog"
)

// DefaultDiscountPercent is applied when a discount request does not name one.
const DefaultDiscountPercent = 10.0

// ProductService is the register for products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("service", "products").Logger(),
	}
}

// CreateProduct derives a GENERAL product: totalValue is price × quantity.
func (s *ProductService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.ProductResponse, error) {
	if err := check(req.Title, "required", "product title is required"); err != nil {
		return nil, err
	}
	if err := finitePrice(req.Price); err != nil {
		return nil, err
	}
	if err := check(req.Price, "gte=0", "price cannot be negative"); err != nil {
		return nil, err
	}

	total := totalValue(req.Price, req.Quantity)
	if err := finiteTotal(total); err != nil {
		return nil, err
	}

	product := &models.ProductResponse{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		TotalValue:  total,
		Category:    models.ProductCategoryGeneral,
		Available:   req.Quantity > 0,
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	publishEvent(s.publisher, s.log, EventProductCreated, product)
	return product, nil
}

// ApplyDiscount derives a DISCOUNTED product. The response price is the discounted price;
// the original price is not retained.
func (s *ProductService) ApplyDiscount(ctx context.Context, req models.ProductRequest, discountPercent float64) (*models.ProductResponse, error) {
	if err := check(discountPercent, "gte=0,lte=100", "discount must be between 0 and 100"); err != nil {
		return nil, err
	}
	if err := finitePrice(req.Price); err != nil {
		return nil, err
	}

	price := discountedPrice(req.Price, discountPercent)
	total := totalValue(price, req.Quantity)
	if err := finiteTotal(total); err != nil {
		return nil, err
	}

	product := &models.ProductResponse{
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		Quantity:    req.Quantity,
		TotalValue:  total,
		Category:    models.ProductCategoryDiscounted,
		Available:   req.Quantity > 0,
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	publishEvent(s.publisher, s.log, EventProductDiscounted, product)
	return product, nil
}

// GetProductByTitle looks the latest stored product with title up.
func (s *ProductService) GetProductByTitle(ctx context.Context, title string) (*models.ProductResponse, error) {
	return s.repo.FindByTitle(ctx, title)
}

func (s *ProductService) save(ctx context.Context, product *models.ProductResponse) error {
	if err := s.repo.Save(ctx, product); err != nil {
		s.log.Error().Err(err).Str("title", product.Title).Msg("failed to save product")
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func finitePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return errs.InvalidArgument("price must be a finite number")
	}
	return nil
}
