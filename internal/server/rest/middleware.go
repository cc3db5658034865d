package rest

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

const userIDKey = "x-user-id"

// accessTokenMiddleware requires a valid session token in the Authorization
// header and stores the caller's user id in the request locals.
func (s *Server) accessTokenMiddleware(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(c.Get(common.AuthorizationHeaderName), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
		return errorJSON(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	id, err := s.tokens.Verify(token, auth.PurposeSession)
	if err != nil {
		s.logger.Debug(c.UserContext(), "token rejected", "reason", err.Error(), "path", c.Path())
		return errorJSON(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	c.Locals(userIDKey, id.UserID)
	return c.Next()
}

// userID returns the id stored by accessTokenMiddleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

// requestLogger logs every request with its final status. Errors returned
// further down the chain are rendered here so the logged status matches the
// response.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := s.handleError(c, err); herr != nil {
			return herr
		}
	}
	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String(),
	)
	return nil
}
