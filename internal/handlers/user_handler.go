package handlers

import (
	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHealthMessage is the body of GET /users/health.
const UserHealthMessage = "User service is healthy"

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service *services.UserService
	log     zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With().Str("handler", "users").Logger(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/health", h.HandleHealth)
	userRoutes.Post("/process", h.HandleProcess)
	userRoutes.Post("/validate", h.HandleValidate)
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Get("/by-email", h.HandleGetByEmail)
}

// HandleHealth reports that the user endpoints are up.
func (h *UserHandler) HandleHealth(c *fiber.Ctx) error {
	return c.SendString(UserHealthMessage)
}

// HandleProcess activates a user.
func (h *UserHandler) HandleProcess(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid process request body")
		return emptyStatus(c, fiber.StatusBadRequest)
	}

	user, err := h.service.ProcessUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}

// HandleValidate validates a user without changing the name.
func (h *UserHandler) HandleValidate(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid validate request body")
		return emptyStatus(c, fiber.StatusBadRequest)
	}

	user, err := h.service.ValidateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}

// HandleRegister registers a user. Name and email must both be present before the
// request reaches the service.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid register request body")
		return emptyStatus(c, fiber.StatusBadRequest)
	}
	if req.Name == "" || req.Email == "" {
		return emptyStatus(c, fiber.StatusBadRequest)
	}

	user, err := h.service.ProcessUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetByEmail looks a user up by the email query parameter.
func (h *UserHandler) HandleGetByEmail(c *fiber.Ctx) error {
	user, err := h.service.GetUserByEmail(c.UserContext(), c.Query("email"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}
