package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/google/uuid"
)

type ContactRepository struct {
	s *Store
}

func NewContactRepository(s *Store) *ContactRepository {
	return &ContactRepository{s: s}
}

func (r *ContactRepository) Create(_ context.Context, c *models.Contact) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.s.contacts[c.ID] = copyContact(c)
	return c, nil
}

// owned returns the owner's contacts matching search. Caller holds the lock.
func (r *ContactRepository) owned(ownerID, search string) []*models.Contact {
	term := strings.ToLower(search)
	out := make([]*models.Contact, 0)
	for _, c := range r.s.contacts {
		if c.UserID != ownerID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(c.Email), term) &&
			!strings.Contains(strings.ToLower(c.Phone), term) {
			continue
		}
		out = append(out, copyContact(c))
	}
	return out
}

// compareBy orders contacts by the given sort field, then by id. Strings
// compare case-insensitively.
func compareBy(field string) func(a, b *models.Contact) int {
	key := func(a, b *models.Contact) int {
		switch field {
		case models.SortByEmail:
			return cmp.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
		case models.SortByPhone:
			return cmp.Compare(a.Phone, b.Phone)
		case models.SortByCategory:
			return cmp.Compare(a.Category, b.Category)
		case models.SortByIsFavorite:
			return cmp.Compare(boolRank(a.IsFavorite), boolRank(b.IsFavorite))
		case models.SortByLastContacted:
			return a.LastContacted.Compare(b.LastContacted)
		default:
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	return func(a, b *models.Contact) int {
		if c := key(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *ContactRepository) List(_ context.Context, ownerID string, q models.ListQuery) ([]*models.Contact, error) {
	r.s.mu.RLock()
	items := r.owned(ownerID, q.Search)
	r.s.mu.RUnlock()

	return paginate(sortContacts(items, q), q), nil
}

// Page returns one page and the total match count from a single read of the
// store, so both describe the same state.
func (r *ContactRepository) Page(_ context.Context, ownerID string, q models.ListQuery) ([]*models.Contact, int, error) {
	r.s.mu.RLock()
	items := r.owned(ownerID, q.Search)
	r.s.mu.RUnlock()

	return paginate(sortContacts(items, q), q), len(items), nil
}

func sortContacts(items []*models.Contact, q models.ListQuery) []*models.Contact {
	less := compareBy(q.SortBy)
	if q.SortOrder == models.SortDesc {
		slices.SortFunc(items, func(a, b *models.Contact) int { return less(b, a) })
	} else {
		slices.SortFunc(items, less)
	}
	return items
}

func paginate(items []*models.Contact, q models.ListQuery) []*models.Contact {
	start := q.Offset()
	if start < 0 || start >= len(items) {
		return []*models.Contact{}
	}
	end := min(start+max(q.Limit, 0), len(items))
	return items[start:end]
}

func (r *ContactRepository) Count(_ context.Context, ownerID string, search string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.owned(ownerID, search)), nil
}

func (r *ContactRepository) ListAll(_ context.Context, ownerID string) ([]*models.Contact, error) {
	r.s.mu.RLock()
	items := r.owned(ownerID, "")
	r.s.mu.RUnlock()

	slices.SortFunc(items, compareBy(models.SortByName))
	return items, nil
}

func (r *ContactRepository) Update(_ context.Context, id string, ownerID string, patch models.ContactPatch) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	patch.Apply(c)
	return copyContact(c), nil
}

func (r *ContactRepository) Delete(_ context.Context, id string, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.s.contacts, id)
	return nil
}
