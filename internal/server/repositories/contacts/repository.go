package contacts

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository persists contacts. Every method takes the owner's id and
// filters on it in the query itself; a contact owned by someone else is
// reported as common.ErrorNotFound, same as a missing one.
type Repository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	// List returns one page; q must already be normalized.
	List(ctx context.Context, ownerID string, q models.ListQuery) ([]*models.Contact, error)
	Count(ctx context.Context, ownerID string, search string) (int, error)
	// ListAll returns every contact of the owner ordered by name.
	ListAll(ctx context.Context, ownerID string) ([]*models.Contact, error)
	Update(ctx context.Context, id string, ownerID string, patch models.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, id string, ownerID string) error
}
