package rest

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/gofiber/fiber/v2"
)

// serveUpload streams a stored avatar. User.Picture holds "uploads/<key>",
// so the path after /uploads/ is the storage key.
func (s *Server) serveUpload(c *fiber.Ctx) error {
	key := c.Params("*")
	if key == "" || strings.Contains(key, "..") {
		return errorJSON(c, fiber.StatusNotFound, msgNotFound)
	}

	obj, err := s.avatars.Get(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errorJSON(c, fiber.StatusNotFound, msgNotFound)
		}
		return s.writeError(c, err)
	}

	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	}
	size := -1
	if obj.Size > 0 {
		size = int(obj.Size)
	}
	return c.SendStream(obj.Body, size)
}
