package users

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository persists user accounts. It only ever receives password hashes.
type Repository interface {
	// Create stores user, assigning an ID when empty.
	// Returns common.ErrorDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error)
}
