package rest

import (
	"github.com/dmitrijs2005/contactbook/internal/server/export"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listContacts(c *fiber.Ctx) error {
	q := models.ListQuery{
		Page:      c.QueryInt("page", models.DefaultPage),
		Limit:     c.QueryInt("limit", models.DefaultLimit),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Search:    c.Query("search"),
	}

	page, err := s.contacts.List(c.UserContext(), userID(c), q)
	if err != nil {
		return s.writeError(c, err)
	}

	resp := contactListResponse{
		Contacts: make([]contactResponse, 0, len(page.Items)),
		Total:    page.Total,
		Page:     page.Page,
		Limit:    page.Limit,
	}
	for _, item := range page.Items {
		resp.Contacts = append(resp.Contacts, toContactResponse(item))
	}
	return c.JSON(resp)
}

func (s *Server) createContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
	}

	created, err := s.contacts.Create(c.UserContext(), userID(c), services.ContactInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Category:      req.Category,
		IsFavorite:    req.IsFavorite,
		Notes:         req.Notes,
		LastContacted: req.LastContacted,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toContactResponse(created))
}

func (s *Server) updateContact(c *fiber.Ctx) error {
	var req contactPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgBadRequest)
	}

	updated, err := s.contacts.Update(c.UserContext(), c.Params("id"), userID(c), req.patch())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toContactResponse(updated))
}

func (s *Server) deleteContact(c *fiber.Ctx) error {
	if err := s.contacts.Delete(c.UserContext(), c.Params("id"), userID(c)); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "contact deleted"})
}

func (s *Server) exportContacts(f export.Format) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := userID(c)

		data, err := s.exports.Export(c.UserContext(), owner, f)
		if err != nil {
			return s.writeError(c, err)
		}

		c.Attachment(export.Filename(owner, f, s.now()))
		c.Set(fiber.HeaderContentType, f.ContentType())
		return c.Send(data)
	}
}
