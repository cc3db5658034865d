package rest

import (
	"errors"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/gofiber/fiber/v2"
)

const (
	msgUnauthenticated    = "unauthenticated"
	msgInvalidCredentials = "invalid credentials"
	msgInvalidToken       = "invalid or expired token"
	msgNotFound           = "not found"
	msgUserNotFound       = "user not found"
	msgInternal           = "internal server error"
	msgBadRequest         = "invalid request body"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// writeError maps service errors to a status and a client-safe message.
// Anything unrecognised is logged and reported as a 500.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorDuplicateEmail):
		return errorJSON(c, fiber.StatusBadRequest, common.ErrorDuplicateEmail.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return errorJSON(c, fiber.StatusUnauthorized, msgUnauthenticated)
	case errors.Is(err, common.ErrorNotFound):
		return errorJSON(c, fiber.StatusNotFound, msgNotFound)
	default:
		s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err.Error())
		return errorJSON(c, fiber.StatusInternalServerError, msgInternal)
	}
}

// handleError is fiber's last-resort handler: routing misses, oversized
// bodies and panics caught by the recover middleware end up here.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errorJSON(c, fe.Code, fe.Message)
	}
	return s.writeError(c, err)
}
