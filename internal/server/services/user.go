// Package services contains server-side business logic. This file implements
// UserService: signup, login, profile updates and the password-reset flow.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/storage"
)

// UploadsPrefix is prepended to storage keys in User.Picture. The HTTP layer
// serves the same prefix from object storage.
const UploadsPrefix = "uploads/"

// Avatar is an uploaded profile picture.
type Avatar struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProfileUpdate is what a user may change on their own profile.
type ProfileUpdate struct {
	Name   *string
	Avatar *Avatar
}

// UserService handles accounts:
// - Signup / Login: create users and issue session tokens
// - UpdateProfile: name and avatar
// - RequestPasswordReset / ResetPassword: reset tokens via a ResetNotifier
// - ChangePassword: operator path used by cmd/passwd
type UserService struct {
	runner         dbx.Runner
	repomanager    repomanager.RepositoryManager
	tokens         *auth.Tokens
	avatars        storage.Store
	notifier       ResetNotifier
	logger         logging.Logger
	bcryptCost     int
	avatarMaxBytes int64
	now            func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(r dbx.Runner, m repomanager.RepositoryManager, t *auth.Tokens, avatars storage.Store,
	n ResetNotifier, l logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		runner:         r,
		repomanager:    m,
		tokens:         t,
		avatars:        avatars,
		notifier:       n,
		logger:         l.With("module", "user_service"),
		bcryptCost:     cfg.BcryptCost,
		avatarMaxBytes: cfg.AvatarMaxBytes,
		now:            time.Now,
	}
}

// Signup creates a local account. Returns common.ErrorDuplicateEmail when
// the email is taken and common.ErrorValidation for bad input.
func (s *UserService) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		LoginMethod:  models.LoginMethodLocal,
	}
	u, err := s.repomanager.Users(s.runner.Conn()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and issues a session token. An unknown email and
// a wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repomanager.Users(s.runner.Conn()).GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, fmt.Errorf("error loading user: %w", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, user, nil
}

// FindByEmail returns common.ErrorNotFound for unknown emails.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.runner.Conn()).GetUserByEmail(ctx, email)
}

// FindByID returns common.ErrorNotFound for unknown ids.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.runner.Conn()).GetUserByID(ctx, id)
}

// UpdateProfile stores a new avatar (if any) and merges the name and picture
// into the user's profile. The password is never touched.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	var patch models.ProfilePatch

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		patch.Name = &name
	}

	repo := s.repomanager.Users(s.runner.Conn())

	if upd.Avatar != nil {
		// Users are never deleted, so checking first keeps unknown ids from
		// leaving objects behind in storage.
		if _, err := repo.GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("error finding user: %w", err)
		}
		picture, err := s.storeAvatar(ctx, upd.Avatar)
		if err != nil {
			return nil, err
		}
		patch.Picture = &picture
	}

	u, err := repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return u, nil
}

func (s *UserService) storeAvatar(ctx context.Context, a *Avatar) (string, error) {
	if err := ValidateAvatar(a.ContentType, a.Size, s.avatarMaxBytes); err != nil {
		return "", err
	}

	key := storage.NewAvatarKey(a.Filename, s.now())
	if err := s.avatars.Put(ctx, key, a.ContentType, a.Body, a.Size); err != nil {
		return "", fmt.Errorf("error storing avatar: %w", err)
	}
	return UploadsPrefix + key, nil
}

// ValidateAvatar accepts image/* uploads no larger than maxBytes.
func ValidateAvatar(contentType string, size, maxBytes int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: avatar must be an image", common.ErrorValidation)
	}
	if size <= 0 || size > maxBytes {
		return fmt.Errorf("%w: avatar must be between 1 and %d bytes", common.ErrorValidation, maxBytes)
	}
	return nil
}

// RequestPasswordReset issues a reset token and hands it to the notifier.
// The token is never returned to the caller.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	token, err := s.tokens.IssueReset(user.ID)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.notifier.NotifyPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("error sending reset token: %w", err)
	}
	return nil
}

// ResetPassword verifies a reset token and sets a new password for its
// subject. Session tokens are rejected.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	id, err := s.tokens.Verify(token, auth.PurposeReset)
	if err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	return s.setPassword(ctx, id.UserID, newPassword)
}

// ChangePassword sets a new password for the account with the given email.
func (s *UserService) ChangePassword(ctx context.Context, email, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user.ID, newPassword)
}

func (s *UserService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repomanager.Users(s.runner.Conn()).UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating password: %w", err)
	}
	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

func validateEmail(email string) error {
	at := strings.IndexByte(email, '@')
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("%w: a valid email is required", common.ErrorValidation)
	}
	return nil
}

func validatePassword(p string) error {
	if p == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if len(p) > auth.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, auth.MaxPasswordBytes)
	}
	return nil
}
