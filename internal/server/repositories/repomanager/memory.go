package repomanager

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/memory"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
)

// MemoryRepositoryManager serves repositories over a single in-process
// store. The DBTX argument is ignored; pair it with dbx.NopRunner.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

// RunMigrations is a no-op.
func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return memory.NewUserRepository(m.store)
}

func (m *MemoryRepositoryManager) Contacts(dbx.DBTX) contacts.Repository {
	return memory.NewContactRepository(m.store)
}
