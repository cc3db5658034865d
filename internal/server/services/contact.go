package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ContactInput is a new contact as submitted by its owner.
type ContactInput struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	Category      string
	IsFavorite    bool
	Notes         string
	LastContacted *time.Time
}

// ContactService is the owner-scoped contact store. Every method takes the
// caller's user id; other users' contacts behave as if they did not exist.
type ContactService struct {
	runner      dbx.Runner
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewContactService(r dbx.Runner, m repomanager.RepositoryManager, l logging.Logger) *ContactService {
	return &ContactService{
		runner:      r,
		repomanager: m,
		logger:      l.With("module", "contact_service"),
		now:         time.Now,
	}
}

// pageReader is implemented by stores that can read a page and its total
// atomically without a transaction.
type pageReader interface {
	Page(ctx context.Context, ownerID string, q models.ListQuery) ([]*models.Contact, int, error)
}

// List returns one page of the owner's contacts together with the total
// number of matches. Both are read from the same snapshot: a repeatable-read
// transaction on Postgres, a single locked read in memory.
func (s *ContactService) List(ctx context.Context, ownerID string, q models.ListQuery) (*models.ContactPage, error) {
	q = q.Normalize()

	page := &models.ContactPage{Page: q.Page, Limit: q.Limit}
	err := s.runner.WithTx(ctx, dbx.ReadSnapshot, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		if pr, ok := repo.(pageReader); ok {
			items, total, err := pr.Page(ctx, ownerID, q)
			if err != nil {
				return err
			}
			page.Items, page.Total = items, total
			return nil
		}

		items, err := repo.List(ctx, ownerID, q)
		if err != nil {
			return err
		}
		total, err := repo.Count(ctx, ownerID, q.Search)
		if err != nil {
			return err
		}

		page.Items = items
		page.Total = total
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	return page, nil
}

// Create validates in and stores a contact owned by ownerID.
func (s *ContactService) Create(ctx context.Context, ownerID string, in ContactInput) (*models.Contact, error) {
	c := &models.Contact{
		UserID:     ownerID,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    in.Address,
		IsFavorite: in.IsFavorite,
		Notes:      in.Notes,
	}
	if err := requireFields(c.Name, c.Email, c.Phone); err != nil {
		return nil, err
	}

	cat, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	c.Category = cat

	if in.LastContacted != nil {
		c.LastContacted = in.LastContacted.UTC()
	} else {
		c.LastContacted = s.now().UTC()
	}

	created, err := s.repomanager.Contacts(s.runner.Conn()).Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}
	return created, nil
}

// Update merges patch into the owner's contact id. Required fields cannot be
// cleared. An unknown id, a malformed one and someone else's contact all
// yield common.ErrorNotFound.
func (s *ContactService) Update(ctx context.Context, id, ownerID string, patch models.ContactPatch) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Contacts(s.runner.Conn()).Update(ctx, id, ownerID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating contact: %w", err)
	}
	return c, nil
}

// Delete removes the owner's contact id.
func (s *ContactService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	err := s.repomanager.Contacts(s.runner.Conn()).Delete(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting contact: %w", err)
	}
	s.logger.Debug(ctx, "contact deleted", "user_id", ownerID, "contact_id", id)
	return nil
}

func requireFields(name, email, phone string) error {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", common.ErrorValidation, strings.Join(missing, ", "))
	}
	return nil
}

// validatePatch trims the required fields in place and rejects clearing
// them or setting an unknown category.
func validatePatch(p *models.ContactPatch) error {
	required := []struct {
		field string
		value *string
	}{
		{"name", p.Name},
		{"email", p.Email},
		{"phone", p.Phone},
	}
	for _, r := range required {
		if r.value == nil {
			continue
		}
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			return fmt.Errorf("%w: %s cannot be empty", common.ErrorValidation, r.field)
		}
	}
	if p.Category != nil {
		if *p.Category == "" {
			return fmt.Errorf("%w: category cannot be empty", common.ErrorValidation)
		}
		if _, err := models.ParseCategory(string(*p.Category)); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
	}
	if p.LastContacted != nil {
		t := p.LastContacted.UTC()
		p.LastContacted = &t
	}
	return nil
}
