// Package storage keeps uploaded avatars in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object is a stored blob opened for reading. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store puts and gets objects by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Get returns common.ErrorNotFound for unknown keys.
	Get(ctx context.Context, key string) (*Object, error)
}

// NewAvatarKey returns a fresh key for an avatar, keeping the lower-cased
// extension of the uploaded file name.
func NewAvatarKey(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("avatars/%d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}
