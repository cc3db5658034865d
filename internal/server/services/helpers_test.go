package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/storage"
	"golang.org/x/crypto/bcrypt"
)

// captureNotifier keeps the last reset token it was handed.
type captureNotifier struct {
	mu    sync.Mutex
	email string
	token string
	err   error
}

func (n *captureNotifier) NotifyPasswordReset(_ context.Context, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.email, n.token = email, token
	return n.err
}

type fixture struct {
	users    *UserService
	contacts *ContactService
	exports  *ExportService
	tokens   *auth.Tokens
	avatars  *storage.MemoryStore
	notifier *captureNotifier
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	rm := repomanager.NewMemoryRepositoryManager()
	runner := dbx.NopRunner{}
	tokens := auth.NewTokens(cfg.SecretKey, cfg.SessionTokenTTL, cfg.ResetTokenTTL)
	avatars := storage.NewMemoryStore()
	notifier := &captureNotifier{}
	log := logging.Nop{}

	return &fixture{
		users:    NewUserService(runner, rm, tokens, avatars, notifier, log, cfg),
		contacts: NewContactService(runner, rm, log),
		exports:  NewExportService(runner, rm),
		tokens:   tokens,
		avatars:  avatars,
		notifier: notifier,
	}
}

// countingStore records how many objects were written.
type countingStore struct {
	*storage.MemoryStore
	puts int
}

func (c *countingStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	c.puts++
	return c.MemoryStore.Put(ctx, key, contentType, body, size)
}

func newUserServiceWithStore(t *testing.T, avatars storage.Store) *UserService {
	t.Helper()
	cfg := testConfig()
	tokens := auth.NewTokens(cfg.SecretKey, cfg.SessionTokenTTL, cfg.ResetTokenTTL)
	return NewUserService(dbx.NopRunner{}, repomanager.NewMemoryRepositoryManager(), tokens, avatars,
		&captureNotifier{}, logging.Nop{}, cfg)
}
