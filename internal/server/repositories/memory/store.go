// Package memory keeps users and contacts in process memory. It honours the
// same contracts as the PostgreSQL repositories (unique email, owner-scoped
// contact access) and is used for development runs and service tests.
package memory

import (
	"sync"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Store is the shared state behind the memory repositories.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	byEmail  map[string]string
	contacts map[string]*models.Contact
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		byEmail:  make(map[string]string),
		contacts: make(map[string]*models.Contact),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyContact(c *models.Contact) *models.Contact {
	cc := *c
	return &cc
}
