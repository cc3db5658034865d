package rest

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

const avatarField = "avatar"

func (s *Server) signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
	}

	u, err := s.users.Signup(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse{ID: u.ID, Email: u.Email})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
	}

	token, u, err := s.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return errorJSON(c, fiber.StatusBadRequest, msgInvalidCredentials)
		}
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  userResponse{ID: u.ID, Email: u.Email, Name: u.Name},
	})
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var upd services.ProfileUpdate

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
		}
		if v, ok := form.Value["name"]; ok && len(v) > 0 {
			upd.Name = &v[0]
		}
		if files := form.File[avatarField]; len(files) > 0 {
			avatar, file, err := s.openAvatar(files[0])
			if err != nil {
				return s.writeError(c, err)
			}
			defer file.Close()
			upd.Avatar = avatar
		}
	} else {
		var req profileRequest
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
		}
		upd.Name = req.Name
	}

	u, err := s.users.UpdateProfile(c.UserContext(), userID(c), upd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "profile updated",
		"user":    userResponse{ID: u.ID, Name: u.Name, Picture: u.Picture},
	})
}

// openAvatar checks the declared size and type from the part header before
// opening the file.
func (s *Server) openAvatar(fh *multipart.FileHeader) (*services.Avatar, multipart.File, error) {
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if err := services.ValidateAvatar(contentType, fh.Size, s.avatarMaxBytes); err != nil {
		return nil, nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open avatar: %w", err)
	}
	return &services.Avatar{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func (s *Server) forgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
	}

	if err := s.users.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errorJSON(c, fiber.StatusNotFound, msgUserNotFound)
		}
		return s.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "password reset instructions sent"})
}

func (s *Server) resetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
	}

	err := s.users.ResetPassword(c.UserContext(), req.Token, req.NewPassword)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) ||
			errors.Is(err, common.ErrorNotFound) {
			return errorJSON(c, fiber.StatusBadRequest, msgInvalidToken)
		}
		return s.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "password has been reset"})
}
