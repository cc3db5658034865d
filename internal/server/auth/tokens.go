// Package auth issues and verifies signed identity tokens and hashes
// passwords. Nothing here touches storage: tokens are verified statelessly
// by signature and expiry.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Purpose tells what a token may be used for.
type Purpose string

const (
	PurposeSession Purpose = "session"
	PurposeReset   Purpose = "reset"
)

const (
	DefaultSessionTTL = time.Hour
	DefaultResetTTL   = 15 * time.Minute
)

// Claims are the JWT claims: the standard set (subject = user id, expiry)
// plus the token purpose.
type Claims struct {
	jwt.RegisteredClaims
	Purpose Purpose `json:"purpose"`
}

// Identity is what a verified token resolves to.
type Identity struct {
	UserID  string
	Purpose Purpose
}

// Tokens signs HS256 tokens with a server-held secret.
type Tokens struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokens builds a token service. Non-positive TTLs fall back to
// DefaultSessionTTL and DefaultResetTTL.
func NewTokens(secret string, sessionTTL, resetTTL time.Duration) *Tokens {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	return &Tokens{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

// Issue signs a token for subject valid for ttl.
func (t *Tokens) Issue(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	})

	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (t *Tokens) IssueSession(userID string) (string, error) {
	return t.Issue(userID, PurposeSession, t.sessionTTL)
}

func (t *Tokens) IssueReset(userID string) (string, error) {
	return t.Issue(userID, PurposeReset, t.resetTTL)
}

// Verify checks signature, expiry and purpose.
//
// An expired token yields common.ErrTokenExpired; every other failure
// (bad signature, malformed input, wrong purpose, missing subject) wraps
// common.ErrInvalidToken.
func (t *Tokens) Verify(tokenString string, want Purpose) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	if claims.Purpose != want {
		return nil, fmt.Errorf("%w: purpose %q", common.ErrInvalidToken, claims.Purpose)
	}

	return &Identity{UserID: claims.Subject, Purpose: claims.Purpose}, nil
}
