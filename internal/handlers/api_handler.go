package handlers

import (
	"runtime"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is reported by the welcome endpoint.
const Version = "1.0.0"

// APIHandler serves the general-purpose endpoints under /api.
type APIHandler struct{}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler() *APIHandler {
	return &APIHandler{}
}

// RegisterRoutes registers the general routes with the Fiber app.
func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/welcome", h.HandleWelcome)
	router.Post("/echo", h.HandleEcho)
	router.Get("/info", h.HandleInfo)
	router.Post("/transform", h.HandleTransform)
}

// HandleWelcome greets the caller.
func (h *APIHandler) HandleWelcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to the catalog REST API",
		"version": Version,
		"status":  "running",
	})
}

// HandleEcho returns the received JSON object.
func (h *APIHandler) HandleEcho(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return emptyStatus(c, fiber.StatusBadRequest)
	}
	return c.JSON(fiber.Map{
		"received":  body,
		"timestamp": time.Now().UnixMilli(),
		"type":      "echo_response",
	})
}

// HandleInfo describes the running binary.
func (h *APIHandler) HandleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"application": "catalog REST API",
		"go_version":  runtime.Version(),
		"os_name":     runtime.GOOS,
		"os_arch":     runtime.GOARCH,
	})
}

// HandleTransform summarises the keys of the received JSON object.
func (h *APIHandler) HandleTransform(c *fiber.Ctx) error {
	var data map[string]any
	if err := c.BodyParser(&data); err != nil {
		return emptyStatus(c, fiber.StatusBadRequest)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return c.JSON(fiber.Map{
		"input":      data,
		"keys_count": len(data),
		"keys":       keys,
		"processed":  true,
	})
}
