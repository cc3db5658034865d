package models

import (
	"fmt"
	"time"
)

// Category groups contacts. Only the values below are valid.
type Category string

const (
	CategoryFamily Category = "Family"
	CategoryFriend Category = "Friend"
	CategoryWork   Category = "Work"
	CategoryOther  Category = "Other"
)

// Categories in display order.
var Categories = []Category{CategoryFamily, CategoryFriend, CategoryWork, CategoryOther}

// ParseCategory maps input to a Category. Empty input yields CategoryOther;
// anything outside the enumeration is an error.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Contact is an address-book entry. UserID is the owner and never changes.
type Contact struct {
	ID            string
	UserID        string
	Name          string
	Email         string
	Phone         string
	Address       string
	Category      Category
	IsFavorite    bool
	Notes         string
	LastContacted time.Time
}

// ContactPatch carries the fields an owner may change on an existing
// contact. Nil pointers are left untouched; ID and UserID cannot be set.
type ContactPatch struct {
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	Category      *Category
	IsFavorite    *bool
	Notes         *string
	LastContacted *time.Time
}

// Empty reports whether the patch changes nothing.
func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Address == nil &&
		p.Category == nil && p.IsFavorite == nil && p.Notes == nil && p.LastContacted == nil
}

// Apply merges the patch into c.
func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.IsFavorite != nil {
		c.IsFavorite = *p.IsFavorite
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.LastContacted != nil {
		c.LastContacted = *p.LastContacted
	}
}
