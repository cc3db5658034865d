// Package rest exposes the contact book over HTTP using fiber.
package rest

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/export"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/dmitrijs2005/contactbook/internal/server/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type UserService interface {
	Signup(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type ContactService interface {
	List(ctx context.Context, ownerID string, q models.ListQuery) (*models.ContactPage, error)
	Create(ctx context.Context, ownerID string, in services.ContactInput) (*models.Contact, error)
	Update(ctx context.Context, id, ownerID string, patch models.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type ExportService interface {
	Export(ctx context.Context, ownerID string, f export.Format) ([]byte, error)
}

type TokenVerifier interface {
	Verify(token string, want auth.Purpose) (*auth.Identity, error)
}

// multipartSlack covers multipart framing and the other form fields on top
// of the avatar itself.
const multipartSlack = 1 << 20

const shutdownTimeout = 5 * time.Second

type Server struct {
	address        string
	app            *fiber.App
	logger         logging.Logger
	users          UserService
	contacts       ContactService
	exports        ExportService
	tokens         TokenVerifier
	avatars        storage.Store
	avatarMaxBytes int64
	now            func() time.Time
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, cs ContactService, es ExportService,
	tv TokenVerifier, avatars storage.Store) *Server {
	s := &Server{
		address:        cfg.HTTPAddr,
		logger:         l.With("module", "http_server"),
		users:          us,
		contacts:       cs,
		exports:        es,
		tokens:         tv,
		avatars:        avatars,
		avatarMaxBytes: cfg.AvatarMaxBytes,
		now:            time.Now,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "contactbook",
		BodyLimit:             int(cfg.AvatarMaxBytes) + multipartSlack,
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	s.app.Use(s.requestLogger)
	s.app.Use(recover.New())
	s.app.Use(helmet.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Authorization, Content-Type",
	}))
	s.app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return errorJSON(c, fiber.StatusTooManyRequests, "too many requests, please try again later")
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/uploads/*", s.serveUpload)

	users := s.app.Group("/api/users")
	users.Post("/signup", s.signup)
	users.Post("/login", s.login)
	users.Post("/forgot-password", s.forgotPassword)
	users.Post("/reset-password", s.resetPassword)
	users.Put("/profile", s.accessTokenMiddleware, s.updateProfile)

	contacts := s.app.Group("/api/contacts", s.accessTokenMiddleware)
	contacts.Get("/", s.listContacts)
	contacts.Post("/", s.createContact)
	contacts.Get("/export/excel", s.exportContacts(export.FormatXLSX))
	contacts.Get("/export/csv", s.exportContacts(export.FormatCSV))
	contacts.Put("/:id", s.updateContact)
	contacts.Delete("/:id", s.deleteContact)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
