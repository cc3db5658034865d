// Package models defines server-side data models persisted in the database.
package models

import "time"

// LoginMethodLocal marks accounts created with email + password.
const LoginMethodLocal = "local"

// User is an account. PasswordHash always holds a bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	LoginMethod  string
	Picture      string
	CreatedAt    time.Time
}

// ProfilePatch lists the profile fields a user may change. Nil means
// "leave as is". The password is deliberately absent.
type ProfilePatch struct {
	Name    *string
	Picture *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Picture == nil
}
