package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/dmitrijs2005/contactbook/internal/server/storage"
)

var (
	openPostgres = repomanager.OpenPostgres
	newS3Store   = storage.NewS3Store
)

// Backend holds the services built for one storage configuration. It is
// shared by the HTTP server and the operator tools.
type Backend struct {
	Users    *services.UserService
	Contacts *services.ContactService
	Exports  *services.ExportService
	Tokens   *auth.Tokens
	Avatars  storage.Store

	close func() error
}

// NewBackend connects storage and builds the services. With
// config.MemoryDSN everything lives in process memory; otherwise it opens
// PostgreSQL, applies migrations and uses S3 for avatars.
func NewBackend(ctx context.Context, c *config.Config, l logging.Logger) (*Backend, error) {
	var (
		runner  dbx.Runner
		rm      repomanager.RepositoryManager
		avatars storage.Store
		closeFn = func() error { return nil }
	)

	if c.DatabaseDSN == config.MemoryDSN {
		l.Warn(ctx, "using in-memory storage, data is lost on exit")
		runner = dbx.NopRunner{}
		rm = repomanager.NewMemoryRepositoryManager()
		avatars = storage.NewMemoryStore()
	} else {
		db, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		closeFn = db.Close

		pm := repomanager.NewPostgresRepositoryManager(db)
		if err := pm.RunMigrations(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}

		s3, err := newS3Store(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("object storage init error: %w", err)
		}

		runner = dbx.NewSQLRunner(db)
		rm = pm
		avatars = s3
	}

	tokens := auth.NewTokens(c.SecretKey, c.SessionTokenTTL, c.ResetTokenTTL)

	return &Backend{
		Users:    services.NewUserService(runner, rm, tokens, avatars, services.NewLogNotifier(l), l, c),
		Contacts: services.NewContactService(runner, rm, l),
		Exports:  services.NewExportService(runner, rm),
		Tokens:   tokens,
		Avatars:  avatars,
		close:    closeFn,
	}, nil
}

// Close releases the database pool, if any.
func (b *Backend) Close() error {
	return b.close()
}
