package handlers

import (
	"strconv"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHealthMessage is the body of GET /products/health.
const ProductHealthMessage = "Product service is healthy"

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log.With().Str("handler", "products").Logger(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/health", h.HandleHealth)
	productRoutes.Post("/create", h.HandleCreate)
	productRoutes.Post("/discount", h.HandleDiscount)
	productRoutes.Post("/calculate", h.HandleCalculate)
	productRoutes.Get("/by-title", h.HandleGetByTitle)
}

// HandleHealth reports that the product endpoints are up.
func (h *ProductHandler) HandleHealth(c *fiber.Ctx) error {
	return c.SendString(ProductHealthMessage)
}

// HandleCreate creates a product and answers 201.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	return h.create(c, fiber.StatusCreated)
}

// HandleCalculate runs the same derivation as HandleCreate but answers 200.
func (h *ProductHandler) HandleCalculate(c *fiber.Ctx) error {
	return h.create(c, fiber.StatusOK)
}

func (h *ProductHandler) create(c *fiber.Ctx, status int) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid product request body")
		return emptyStatus(c, fiber.StatusBadRequest)
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(status).JSON(product)
}

// HandleDiscount applies the discount query parameter (percent, default 10) to the product.
func (h *ProductHandler) HandleDiscount(c *fiber.Ctx) error {
	discount := services.DefaultDiscountPercent
	if raw := c.Query("discount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.log.Debug().Err(err).Str("discount", raw).Msg("invalid discount parameter")
			return emptyStatus(c, fiber.StatusBadRequest)
		}
		discount = parsed
	}

	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid discount request body")
		return emptyStatus(c, fiber.StatusBadRequest)
	}

	product, err := h.service.ApplyDiscount(c.UserContext(), req, discount)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// HandleGetByTitle looks the latest product with the title query parameter up.
func (h *ProductHandler) HandleGetByTitle(c *fiber.Ctx) error {
	product, err := h.service.GetProductByTitle(c.UserContext(), c.Query("title"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}
