package rest

import (
	"time"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type profileRequest struct {
	Name *string `json:"name"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Picture     string `json:"picture,omitempty"`
	LoginMethod string `json:"loginMethod,omitempty"`
}

type contactRequest struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Category      string     `json:"category"`
	IsFavorite    bool       `json:"isFavorite"`
	Notes         string     `json:"notes"`
	LastContacted *time.Time `json:"lastContacted"`
}

// contactPatchRequest only lists mutable fields; id and userId in a request
// body are ignored.
type contactPatchRequest struct {
	Name          *string    `json:"name"`
	Email         *string    `json:"email"`
	Phone         *string    `json:"phone"`
	Address       *string    `json:"address"`
	Category      *string    `json:"category"`
	IsFavorite    *bool      `json:"isFavorite"`
	Notes         *string    `json:"notes"`
	LastContacted *time.Time `json:"lastContacted"`
}

func (r contactPatchRequest) patch() models.ContactPatch {
	p := models.ContactPatch{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		IsFavorite:    r.IsFavorite,
		Notes:         r.Notes,
		LastContacted: r.LastContacted,
	}
	if r.Category != nil {
		cat := models.Category(*r.Category)
		p.Category = &cat
	}
	return p
}

type contactResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Category      string    `json:"category"`
	IsFavorite    bool      `json:"isFavorite"`
	Notes         string    `json:"notes"`
	LastContacted time.Time `json:"lastContacted"`
}

func toContactResponse(c *models.Contact) contactResponse {
	return contactResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		Category:      string(c.Category),
		IsFavorite:    c.IsFavorite,
		Notes:         c.Notes,
		LastContacted: c.LastContacted,
	}
}

type contactListResponse struct {
	Contacts []contactResponse `json:"contacts"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}
