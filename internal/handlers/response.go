package handlers

import (
	"errors"
	"net/http"

	"catalog/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// emptyStatus answers with code and no body.
func emptyStatus(c *fiber.Ctx, code int) error {
	return c.Status(code).Send(nil)
}

// respondError maps a service error to the API's status codes.
// Client errors get an empty body; anything else is a 500 with a generic message.
// The cause is only logged.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status := errs.HTTPStatus(err)
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		log.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
		return emptyStatus(c, status)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	message := "Could not process request"
	if errors.Is(err, errs.ErrPersistence) {
		message = "Could not persist the result"
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}
